// Package signals extracts web-governance signals from archived payloads.
// Everything here is pure: no I/O, no clocks, no shared state.
package signals

import (
	"strings"

	"github.com/temoto/robotstxt"
)

// ParseRobotsRules groups robots.txt directive lines by user-agent.
//
// Blank lines and comment lines are skipped. A case-insensitive
// "user-agent:" line opens a new group keyed by the trimmed value after
// the colon; every following non-empty line is appended verbatim until
// the next user-agent line. Lines before the first group are dropped.
// Directive syntax is not validated; downstream analysis wants the raw
// lines as served.
func ParseRobotsRules(text string) map[string][]string {
	rules := make(map[string][]string)
	currentAgent := ""
	haveAgent := false

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if len(line) >= len(agentPrefix) && strings.EqualFold(line[:len(agentPrefix)], agentPrefix) {
			currentAgent = strings.TrimSpace(line[len(agentPrefix):])
			haveAgent = true
			rules[currentAgent] = []string{}
			continue
		}
		if haveAgent {
			rules[currentAgent] = append(rules[currentAgent], line)
		}
	}
	return rules
}

const agentPrefix = "user-agent:"

// GooglebotAllowed reports whether the robots.txt response permits
// Googlebot to crawl the site root. Unparseable bodies fall back to
// allowed, matching the usual permissive interpretation.
func GooglebotAllowed(statusCode int, body []byte) bool {
	data, err := robotstxt.FromStatusAndBytes(statusCode, body)
	if err != nil {
		return true
	}
	group := data.FindGroup("Googlebot")
	if group == nil {
		return true
	}
	return group.Test("/")
}
