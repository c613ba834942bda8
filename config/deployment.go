package config

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/srmds/takeoff/core/job"
	"github.com/srmds/takeoff/internal/errors"
)

const (
	EntityDeployment = "deployment"

	TaskDeployToDatabricks                = "deployToDatabricks"
	TaskCreateDatabricksSecretsFromCosmos = "createDatabricksSecretsFromCosmos"
	TaskUploadArtifacts                   = "uploadArtifacts"

	DefaultJobConfigFile = "databricks.json.tmpl"
	DefaultSourceDir     = "dist"
)

// Deployment is the ordered list of steps read from .takeoff/deployment.yml
type Deployment struct {
	Steps []Step `yaml:"steps"`

	// directory of the deployment file, job templates are resolved against it
	Dir string `yaml:"-"`
}

// Step is a single task of a deployment. Its settings are decoded into the
// task specific type with Decode.
type Step struct {
	Task string `yaml:"task"`

	node yaml.Node
}

func (s *Step) UnmarshalYAML(node *yaml.Node) error {
	var head struct {
		Task string `yaml:"task"`
	}
	if err := node.Decode(&head); err != nil {
		return err
	}
	s.Task = head.Task
	s.node = *node
	return nil
}

func (s Step) Decode(v any) error {
	if err := s.node.Decode(v); err != nil {
		return errors.ConfigWrap(EntityDeployment, "invalid settings for task "+s.Task, err)
	}
	return nil
}

// JobDefinition is a job deployed by the deployToDatabricks task.
type JobDefinition struct {
	MainName   string               `yaml:"main_name" json:"main_name" jsonschema:"required,description=Python entry point file or JVM main class"`
	Name       string               `yaml:"name" json:"name,omitempty" jsonschema:"description=Suffix of the job name"`
	ConfigFile string               `yaml:"config_file" json:"config_file,omitempty" jsonschema:"default=databricks.json.tmpl"`
	Lang       job.Language         `yaml:"lang" json:"lang,omitempty" jsonschema:"enum=python,enum=scala,enum=java,default=python"`
	Arguments  job.Arguments        `yaml:"arguments" json:"arguments,omitempty"`
	Schedule   *job.ScheduleSetting `yaml:"schedule,omitempty" json:"schedule,omitempty"`
}

func (j *JobDefinition) applyDefaults() {
	if j.ConfigFile == "" {
		j.ConfigFile = DefaultJobConfigFile
	}
	if j.Lang == "" {
		j.Lang = job.LanguagePython
	}
	if j.Arguments == nil {
		j.Arguments = job.Arguments{}
	}
}

type DeployToDatabricksStep struct {
	Task string          `yaml:"task" json:"task"`
	Jobs []JobDefinition `yaml:"jobs" json:"jobs" jsonschema:"minItems=1"`
}

type CosmosSecretsStep struct {
	Task string `yaml:"task" json:"task"`
	// secret scope to write to, defaults to the application name
	ScopeName string `yaml:"scope_name" json:"scope_name,omitempty"`
	ReadOnly  bool   `yaml:"read_only" json:"read_only,omitempty"`
}

type UploadArtifactsStep struct {
	Task      string       `yaml:"task" json:"task"`
	SourceDir string       `yaml:"source_dir" json:"source_dir,omitempty" jsonschema:"default=dist"`
	Lang      job.Language `yaml:"lang" json:"lang,omitempty" jsonschema:"enum=python,enum=scala,enum=java,default=python"`
}

func (d *Deployment) DeployToDatabricks(step Step) (*DeployToDatabricksStep, error) {
	var s DeployToDatabricksStep
	if err := step.Decode(&s); err != nil {
		return nil, err
	}
	for i := range s.Jobs {
		s.Jobs[i].applyDefaults()
	}
	return &s, nil
}

func (*Deployment) CosmosSecrets(step Step) (*CosmosSecretsStep, error) {
	var s CosmosSecretsStep
	if err := step.Decode(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (*Deployment) UploadArtifacts(step Step) (*UploadArtifactsStep, error) {
	var s UploadArtifactsStep
	if err := step.Decode(&s); err != nil {
		return nil, err
	}
	if s.SourceDir == "" {
		s.SourceDir = DefaultSourceDir
	}
	if s.Lang == "" {
		s.Lang = job.LanguagePython
	}
	return &s, nil
}

// TemplatePath resolves a job config file against the deployment directory.
func (d *Deployment) TemplatePath(configFile string) string {
	if filepath.IsAbs(configFile) || d.Dir == "" {
		return configFile
	}
	return filepath.Join(d.Dir, configFile)
}

func LoadDeployment(filePath string) (*Deployment, error) {
	return LoadDeploymentFs(FS, filePath)
}

func LoadDeploymentFs(fs afero.Fs, filePath string) (*Deployment, error) {
	if filePath == EmptyPath {
		filePath = DefaultDeploymentPath()
	}

	f, err := fs.Open(filePath)
	if err != nil {
		return nil, errors.ConfigWrap(EntityDeployment, "unable to open deployment file "+filePath, err)
	}
	defer f.Close()

	var d Deployment
	if err := yaml.NewDecoder(f).Decode(&d); err != nil {
		return nil, errors.ConfigWrap(EntityDeployment, fmt.Sprintf("error decoding deployment file [%s]", filePath), err)
	}
	d.Dir = filepath.Dir(filePath)
	return &d, nil
}
