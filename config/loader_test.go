package config

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/suite"

	"github.com/srmds/takeoff/core/job"
	"github.com/srmds/takeoff/core/version"
)

const (
	projectConfig = `
version: 1
log:
  level: debug
environment_keys:
  application_name: APP_NAME
common:
  databricks_library_path: dbfs:/mnt/libraries
  artifacts_bucket: mem://libraries
azure:
  keyvault_naming: keyvault{env}
  resource_group_naming: rg{env}
  cosmos_naming: cosmos{env}
events:
  kafka_brokers: "localhost:9092, localhost:9093"
`
	deploymentConfig = `
steps:
- task: deployToDatabricks
  jobs:
  - main_name: main.py
    arguments:
    - eventhub_namespace: my-namespace
      Batch_Size: 100
  - main_name: com.example.Main
    name: daily
    lang: scala
    config_file: batch.json.tmpl
    schedule:
      quartz_cron_expression: "0 15 22 ? * *"
      timezone_id: Europe/Amsterdam
- task: createDatabricksSecretsFromCosmos
  read_only: true
- task: uploadArtifacts
`
)

type ConfigTestSuite struct {
	suite.Suite
	a afero.Afero
}

func (s *ConfigTestSuite) SetupTest() {
	s.a = afero.Afero{Fs: afero.NewMemMapFs()}
	s.Require().NoError(s.a.MkdirAll(DefaultDirectory, 0o755))
}

func TestConfig(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (s *ConfigTestSuite) TestInternal_LoadConfigFs() {
	s.Require().NoError(s.a.WriteFile(DefaultConfigPath(), []byte(projectConfig), 0o644))

	s.Run("WhenFilepathIsEmpty", func() {
		c, err := loadConfigFs(s.a.Fs, "")
		s.Require().NoError(err)

		s.Equal(Version(1), c.Version)
		s.Equal(LogLevelDebug, c.Log.Level)
		s.Equal("APP_NAME", c.EnvironmentKeys.ApplicationName)
		s.Equal("dbfs:/mnt/libraries", c.Common.DatabricksLibraryPath)
		s.Equal("keyvault{env}", c.Azure.KeyvaultNaming)
		s.Equal([]string{"localhost:9092", "localhost:9093"}, c.Events.Brokers())
	})

	s.Run("WhenDefaultsAreApplied", func() {
		c, err := loadConfigFs(s.a.Fs, "")
		s.Require().NoError(err)

		s.Equal("CI_COMMIT_REF_SLUG", c.EnvironmentKeys.BranchName)
		s.Equal("CI_COMMIT_TAG", c.EnvironmentKeys.Tag)
		s.Equal("azure-databricks-token", c.Azure.KeyvaultKeys.DatabricksToken)
		s.Equal("takeoff-deployments", c.Events.KafkaTopic)
	})

	s.Run("WhenFilepathIsGiven", func() {
		samplePath := "sample/takeoff.yml"
		s.Require().NoError(s.a.WriteFile(samplePath, []byte("log:\n  level: warning\n"), 0o644))

		c, err := loadConfigFs(s.a.Fs, samplePath)
		s.Require().NoError(err)
		s.Equal(LogLevelWarning, c.Log.Level)
		s.Empty(c.Events.Brokers())
	})

	s.Run("WhenFileDoesNotExist", func() {
		c, err := loadConfigFs(s.a.Fs, "/path/not/exist.yml")
		s.Error(err)
		s.Nil(c)
	})

	s.Run("WhenPathIsADirectory", func() {
		c, err := loadConfigFs(s.a.Fs, DefaultDirectory)
		s.Error(err)
		s.Nil(c)
	})
}

func (s *ConfigTestSuite) TestLoadDeploymentFs() {
	s.Require().NoError(s.a.WriteFile(DefaultDeploymentPath(), []byte(deploymentConfig), 0o644))

	d, err := LoadDeploymentFs(s.a.Fs, "")
	s.Require().NoError(err)
	s.Require().Len(d.Steps, 3)
	s.Equal(DefaultDirectory, d.Dir)

	s.Run("DecodesDeployToDatabricks", func() {
		step, err := d.DeployToDatabricks(d.Steps[0])
		s.Require().NoError(err)
		s.Require().Len(step.Jobs, 2)

		first := step.Jobs[0]
		s.Equal("main.py", first.MainName)
		s.Equal("", first.Name)
		s.Equal(DefaultJobConfigFile, first.ConfigFile)
		s.Equal(job.LanguagePython, first.Lang)
		s.Equal(job.Arguments{
			{Key: "eventhub_namespace", Value: "my-namespace"},
			{Key: "Batch_Size", Value: "100"},
		}, first.Arguments)
		s.Nil(first.Schedule)

		second := step.Jobs[1]
		s.Equal("daily", second.Name)
		s.Equal(job.LanguageScala, second.Lang)
		s.Empty(second.Arguments)
		s.NotNil(second.Arguments)
		s.Require().NotNil(second.Schedule)
		s.Equal("0 15 22 ? * *", second.Schedule.Global.QuartzCronExpression)
		s.Equal(filepath.Join(DefaultDirectory, "batch.json.tmpl"), d.TemplatePath(second.ConfigFile))
	})

	s.Run("DecodesCosmosSecrets", func() {
		step, err := d.CosmosSecrets(d.Steps[1])
		s.Require().NoError(err)
		s.True(step.ReadOnly)
		s.Empty(step.ScopeName)
	})

	s.Run("DecodesUploadArtifacts", func() {
		step, err := d.UploadArtifacts(d.Steps[2])
		s.Require().NoError(err)
		s.Equal(DefaultSourceDir, step.SourceDir)
		s.Equal(job.LanguagePython, step.Lang)
	})

	s.Run("WhenFileDoesNotExist", func() {
		d, err := LoadDeploymentFs(s.a.Fs, "missing.yml")
		s.Error(err)
		s.Nil(d)
	})

	s.Run("WhenFileIsInvalid", func() {
		s.Require().NoError(s.a.WriteFile("invalid.yml", []byte("steps: {"), 0o644))
		d, err := LoadDeploymentFs(s.a.Fs, "invalid.yml")
		s.Error(err)
		s.Nil(d)
	})
}

func (s *ConfigTestSuite) TestResourceName() {
	v := version.New(version.EnvironmentAcp, version.Snapshot, "master")
	s.Equal("keyvaultacp", ResourceName("keyvault{env}", v))
}
