// The main package for the harvester executable.
package main

import (
	"github.com/webgov/harvester/cmd"
)

func main() {
	cmd.Execute()
}
