package config

import (
	"github.com/invopop/jsonschema"
)

// DeploymentSchema is the JSON Schema of the deployment file, usable by
// editors to validate .takeoff/deployment.yml
func DeploymentSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		DoNotReference: true,
		ExpandedStruct: true,
	}

	tasks := []struct {
		name string
		step any
	}{
		{TaskDeployToDatabricks, &DeployToDatabricksStep{}},
		{TaskCreateDatabricksSecretsFromCosmos, &CosmosSecretsStep{}},
		{TaskUploadArtifacts, &UploadArtifactsStep{}},
	}

	steps := make([]*jsonschema.Schema, 0, len(tasks))
	for _, t := range tasks {
		s := reflector.Reflect(t.step)
		s.Version = ""
		s.ID = ""
		if task, ok := s.Properties.Get("task"); ok {
			task.Const = t.name
		}
		s.Title = t.name
		steps = append(steps, s)
	}

	props := jsonschema.NewProperties()
	props.Set("steps", &jsonschema.Schema{
		Type:        "array",
		Description: "Steps run in order by takeoff deploy",
		Items:       &jsonschema.Schema{OneOf: steps},
	})
	return &jsonschema.Schema{
		Version:    jsonschema.Version,
		Title:      "takeoff deployment",
		Type:       "object",
		Properties: props,
		Required:   []string{"steps"},
	}
}
