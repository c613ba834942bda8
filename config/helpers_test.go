package config_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/srmds/takeoff/config"
)

// deployment builds a deployment by round tripping the given steps through YAML.
func deployment(t *testing.T, steps ...any) *config.Deployment {
	t.Helper()

	raw, err := yaml.Marshal(map[string]any{"steps": steps})
	require.NoError(t, err)

	var d config.Deployment
	require.NoError(t, yaml.Unmarshal(raw, &d))
	return &d
}
