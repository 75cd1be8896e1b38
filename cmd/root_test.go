package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/webgov/harvester/internal/config"
)

func withFakeApp(t *testing.T) {
	t.Helper()
	orig := newApp
	newApp = func(context.Context) (*App, error) {
		cfg, err := config.Load("")
		if err != nil {
			return nil, err
		}
		return &App{Config: cfg, Logger: zap.NewNop()}, nil
	}
	t.Cleanup(func() { newApp = orig })
}

func TestSchemaCommandPrintsTables(t *testing.T) {
	withFakeApp(t)

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"schema"})

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "robots_scrape")
	assert.Contains(t, out.String(), "googlebot_allowed")
}

func TestResolveAppWithoutInit(t *testing.T) {
	_, err := resolveApp(context.Background())
	require.Error(t, err)
}
