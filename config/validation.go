package config

import (
	"fmt"
	"reflect"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/srmds/takeoff/core/job"
	"github.com/srmds/takeoff/internal/errors"
)

// Validate validates the project configuration on its own. Requirements of
// the individual tasks are checked by ValidateDeployment.
func Validate(conf *Config) error {
	err := validation.ValidateStruct(conf,
		nestedFields(&conf.Log,
			validation.Field(&conf.Log.Level, validation.In(
				LogLevelDebug,
				LogLevelInfo,
				LogLevelWarning,
				LogLevelError,
				LogLevelFatal,
			)),
		),
		validation.Field(&conf.EnvironmentKeys, validation.By(func(value interface{}) error {
			if conf.EnvironmentKeys.ApplicationName == "" {
				return fmt.Errorf("application_name is required")
			}
			return nil
		})),
		nestedFields(&conf.Azure,
			validation.Field(&conf.Azure.KeyvaultNaming, validation.By(namingConvention)),
			validation.Field(&conf.Azure.ResourceGroupNaming, validation.By(namingConvention)),
			validation.Field(&conf.Azure.CosmosNaming, validation.By(namingConvention)),
		),
	)
	if err != nil {
		return errors.Validation(EntityConfig, err.Error())
	}
	return nil
}

// ValidateCosmos checks the configuration needed to fetch cosmos credentials.
func ValidateCosmos(conf *Config) error {
	err := validation.ValidateStruct(&conf.Azure,
		validation.Field(&conf.Azure.CosmosNaming, validation.Required, validation.By(requiresPlaceholder)),
		validation.Field(&conf.Azure.ResourceGroupNaming, validation.Required),
		validation.Field(&conf.Azure.KeyvaultNaming, validation.Required),
	)
	if err != nil {
		return errors.Validation(EntityConfig, "azure: "+err.Error())
	}
	return nil
}

// ValidateDatabricks checks the configuration needed to deploy jobs.
func ValidateDatabricks(conf *Config) error {
	if err := validation.Validate(conf.Azure.KeyvaultNaming, validation.Required); err != nil {
		return errors.Validation(EntityConfig, "azure.keyvault_naming: "+err.Error())
	}
	if err := validation.Validate(conf.Common.DatabricksLibraryPath, validation.Required); err != nil {
		return errors.Validation(EntityConfig, "common.databricks_library_path: "+err.Error())
	}
	return nil
}

// ValidateDeployment validates every step of the deployment against the
// configuration and reports all invalid steps at once.
func ValidateDeployment(conf *Config, d *Deployment) error {
	if len(d.Steps) == 0 {
		return errors.Validation(EntityDeployment, "no steps are defined")
	}

	me := errors.NewMultiError("invalid deployment")
	for i, step := range d.Steps {
		if err := validateStep(conf, d, step); err != nil {
			me.Append(fmt.Errorf("step %d (%s): %w", i+1, step.Task, err))
		}
	}
	if err := errors.MultiToError(me); err != nil {
		return errors.Validation(EntityDeployment, err.Error())
	}
	return nil
}

func validateStep(conf *Config, d *Deployment, step Step) error {
	switch step.Task {
	case TaskDeployToDatabricks:
		s, err := d.DeployToDatabricks(step)
		if err != nil {
			return err
		}
		if err := ValidateDatabricks(conf); err != nil {
			return err
		}
		return validateDeployToDatabricks(s)
	case TaskCreateDatabricksSecretsFromCosmos:
		if _, err := d.CosmosSecrets(step); err != nil {
			return err
		}
		if err := ValidateDatabricks(conf); err != nil {
			return err
		}
		return ValidateCosmos(conf)
	case TaskUploadArtifacts:
		s, err := d.UploadArtifacts(step)
		if err != nil {
			return err
		}
		if conf.Common.ArtifactsBucket == "" {
			return fmt.Errorf("common.artifacts_bucket is required")
		}
		return validation.Validate(s.Lang, validation.In(job.LanguagePython, job.LanguageScala, job.LanguageJava))
	case "":
		return fmt.Errorf("task is required")
	default:
		return fmt.Errorf("unknown task [%s]", step.Task)
	}
}

func validateDeployToDatabricks(s *DeployToDatabricksStep) error {
	return validation.ValidateStruct(s,
		validation.Field(&s.Jobs, validation.Required, validation.Each(validation.By(validateJobDefinition))),
	)
}

func validateJobDefinition(value interface{}) error {
	j, ok := value.(JobDefinition)
	if !ok {
		return fmt.Errorf("can't convert value to job definition")
	}
	return validation.ValidateStruct(&j,
		validation.Field(&j.MainName, validation.Required),
		validation.Field(&j.ConfigFile, validation.Required),
		validation.Field(&j.Lang, validation.In(job.LanguagePython, job.LanguageScala, job.LanguageJava)),
		validation.Field(&j.Schedule, validation.By(func(interface{}) error {
			return j.Schedule.Validate()
		})),
	)
}

func namingConvention(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	return requiresPlaceholder(value)
}

func requiresPlaceholder(value interface{}) error {
	s, _ := value.(string)
	if !strings.Contains(s, EnvPlaceholder) {
		return fmt.Errorf("should contain the %s placeholder", EnvPlaceholder)
	}
	return nil
}

// ozzo-validation helper for nested validation struct
// https://github.com/go-ozzo/ozzo-validation/issues/136
func nestedFields(target interface{}, fieldRules ...*validation.FieldRules) *validation.FieldRules {
	return validation.Field(target, validation.By(func(value interface{}) error {
		valueV := reflect.Indirect(reflect.ValueOf(value))
		if valueV.CanAddr() {
			addr := valueV.Addr().Interface()
			return validation.ValidateStruct(addr, fieldRules...)
		}
		return validation.ValidateStruct(target, fieldRules...)
	}))
}
