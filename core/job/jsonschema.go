package job

import "github.com/invopop/jsonschema"

func (Arguments) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "array",
		Description: "Ordered job arguments, each item rendered as --key value",
		Items: &jsonschema.Schema{
			Type:                 "object",
			AdditionalProperties: &jsonschema.Schema{Type: "string"},
		},
	}
}

func (ScheduleSetting) JSONSchema() *jsonschema.Schema {
	schedule := scheduleSchema()
	return &jsonschema.Schema{
		Description: "A schedule for every environment, or a schedule per environment name",
		OneOf: []*jsonschema.Schema{
			schedule,
			{
				Type:                 "object",
				AdditionalProperties: schedule,
			},
		},
	}
}

func scheduleSchema() *jsonschema.Schema {
	props := jsonschema.NewProperties()
	props.Set(keyQuartzCronExpression, &jsonschema.Schema{Type: "string", Description: "Quartz cron expression"})
	props.Set(keyTimezoneID, &jsonschema.Schema{Type: "string", Description: "IANA timezone, e.g. Europe/Amsterdam"})
	props.Set("pause_status", &jsonschema.Schema{Type: "string", Enum: []any{"PAUSED", "UNPAUSED"}})
	return &jsonschema.Schema{
		Type:       "object",
		Properties: props,
		Required:   []string{keyQuartzCronExpression, keyTimezoneID},
	}
}
