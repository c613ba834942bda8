package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/odpf/salt/config"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/srmds/takeoff/internal/errors"
)

const (
	EntityConfig = "config"

	DefaultEnvPrefix      = "TAKEOFF"
	DefaultDirectory      = ".takeoff"
	DefaultConfigFile     = "config.yml"
	DefaultDeploymentFile = "deployment.yml"
	EmptyPath             = ""
)

var FS = afero.NewReadOnlyFs(afero.NewOsFs())

// DefaultConfigPath is .takeoff/config.yml relative to the working directory.
func DefaultConfigPath() string {
	return filepath.Join(DefaultDirectory, DefaultConfigFile)
}

func DefaultDeploymentPath() string {
	return filepath.Join(DefaultDirectory, DefaultDeploymentFile)
}

// LoadConfig loads the project configuration from filePath, or from
// .takeoff/config.yml when filePath is empty. Values can be overridden with
// environment variables, e.g. TAKEOFF_AZURE_COSMOS_NAMING.
func LoadConfig(filePath string) (*Config, error) {
	return loadConfigFs(FS, filePath)
}

func loadConfigFs(fs afero.Fs, filePath string) (*Config, error) {
	if filePath == EmptyPath {
		filePath = DefaultConfigPath()
	}
	if err := validateFilepath(fs, filePath); err != nil {
		return nil, errors.ConfigWrap(EntityConfig, "unable to read config file "+filePath, err)
	}

	// getViperWithDefault + SetFs
	v := viper.New()
	v.SetFs(fs)

	opts := []config.LoaderOption{
		config.WithViper(v),
		config.WithFile(filePath),
		config.WithEnvPrefix(DefaultEnvPrefix),
		config.WithEnvKeyReplacer(".", "_"),
	}

	cfg := &Config{}
	l := config.NewLoader(opts...)
	if err := l.Load(cfg); err != nil {
		return nil, errors.ConfigWrap(EntityConfig, "unable to load config file "+filePath, err)
	}
	cfg.Log.Level = LogLevel(strings.ToUpper(cfg.Log.Level.String()))
	return cfg, nil
}

func validateFilepath(fs afero.Fs, fpath string) error {
	f, err := fs.Stat(fpath)
	if err != nil {
		return err
	}
	if !f.Mode().IsRegular() {
		return fmt.Errorf("%s not a file", fpath)
	}
	return nil
}
