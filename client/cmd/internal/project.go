package internal

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/srmds/takeoff/config"
	"github.com/srmds/takeoff/core/version"
)

const DefaultEnvFile = ".env"

// ProjectFlags locate the project files and the target environment.
type ProjectFlags struct {
	ConfigFilePath     string
	DeploymentFilePath string
	EnvFilePath        string
	Environment        string
}

func (p *ProjectFlags) Inject(flags *pflag.FlagSet) {
	flags.StringVarP(&p.ConfigFilePath, "config", "c", config.EmptyPath, "File path for project configuration")
	flags.StringVarP(&p.DeploymentFilePath, "deployment", "d", config.EmptyPath, "File path for the deployment definition")
	flags.StringVar(&p.EnvFilePath, "env-file", DefaultEnvFile, "Dotenv file with CI variables, skipped when missing")
	flags.StringVarP(&p.Environment, "environment", "e", "", "Target environment, derived from the branch and tag when empty")
}

// Project is everything a command needs to know about the project being
// deployed.
type Project struct {
	Config     *config.Config
	Deployment *config.Deployment
	App        version.Metadata
}

// LoadConfig loads and validates the project configuration and resolves the
// application from the environment.
func LoadConfig(flags ProjectFlags) (*config.Config, version.Metadata, error) {
	if err := LoadEnvFile(flags.EnvFilePath); err != nil {
		return nil, version.Metadata{}, err
	}

	conf, err := config.LoadConfig(flags.ConfigFilePath)
	if err != nil {
		return nil, version.Metadata{}, err
	}
	if err := config.Validate(conf); err != nil {
		return nil, version.Metadata{}, err
	}

	app, err := version.FromEnvironment(conf.EnvironmentKeys, os.LookupEnv, flags.Environment)
	if err != nil {
		return nil, version.Metadata{}, err
	}
	return conf, app, nil
}

// LoadProject loads the configuration and the deployment definition.
func LoadProject(flags ProjectFlags) (*Project, error) {
	conf, app, err := LoadConfig(flags)
	if err != nil {
		return nil, err
	}
	d, err := config.LoadDeployment(flags.DeploymentFilePath)
	if err != nil {
		return nil, err
	}
	return &Project{Config: conf, Deployment: d, App: app}, nil
}

// LoadEnvFile exports the variables of a dotenv file that are not set yet.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return godotenv.Load(path)
}
