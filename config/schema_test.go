package config_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srmds/takeoff/config"
)

func TestDeploymentSchema(t *testing.T) {
	raw, err := json.Marshal(config.DeploymentSchema())
	require.NoError(t, err)

	var schema struct {
		Required   []string `json:"required"`
		Properties struct {
			Steps struct {
				Items struct {
					OneOf []struct {
						Title      string                     `json:"title"`
						Properties map[string]json.RawMessage `json:"properties"`
					} `json:"oneOf"`
				} `json:"items"`
			} `json:"steps"`
		} `json:"properties"`
	}
	require.NoError(t, json.Unmarshal(raw, &schema))

	assert.Equal(t, []string{"steps"}, schema.Required)
	steps := schema.Properties.Steps.Items.OneOf
	require.Len(t, steps, 3)
	assert.Equal(t, config.TaskDeployToDatabricks, steps[0].Title)
	assert.Contains(t, string(steps[0].Properties["task"]), `"const":"deployToDatabricks"`)
	assert.Contains(t, string(steps[0].Properties["jobs"]), "main_name")
	assert.Contains(t, string(steps[0].Properties["jobs"]), "quartz_cron_expression")
	assert.Contains(t, string(steps[2].Properties["source_dir"]), `"default":"dist"`)
}
