package config

import (
	"strconv"
	"strings"

	"github.com/srmds/takeoff/core/version"
)

// Version implement fmt.Stringer
type Version int

func (v Version) String() string {
	return strconv.Itoa(int(v))
}

type LogLevel string

func (l LogLevel) String() string {
	return string(l)
}

const (
	LogLevelDebug   LogLevel = "DEBUG"
	LogLevelInfo    LogLevel = "INFO"
	LogLevelWarning LogLevel = "WARNING"
	LogLevelError   LogLevel = "ERROR"
	LogLevelFatal   LogLevel = "FATAL"
)

// EnvPlaceholder is replaced by the environment in naming conventions.
const EnvPlaceholder = "{env}"

// Config is the project configuration, read from .takeoff/config.yml
type Config struct {
	Version         Version                 `mapstructure:"version"`
	Log             LogConfig               `mapstructure:"log"`
	EnvironmentKeys version.EnvironmentKeys `mapstructure:"environment_keys"`
	Common          Common                  `mapstructure:"common"`
	Azure           Azure                   `mapstructure:"azure"`
	Events          Events                  `mapstructure:"events"`
}

type LogConfig struct {
	Level  LogLevel `mapstructure:"level" default:"INFO"` // log level - debug, info, warning, error, fatal
	Format string   `mapstructure:"format"`               // format strategy - plain, json
}

type Common struct {
	DatabricksLibraryPath string `mapstructure:"databricks_library_path"` // e.g. dbfs:/mnt/libraries
	ArtifactsBucket       string `mapstructure:"artifacts_bucket"`        // gocloud blob url, e.g. azblob://libraries
}

type Azure struct {
	KeyvaultNaming      string       `mapstructure:"keyvault_naming"`       // e.g. keyvault{env}
	ResourceGroupNaming string       `mapstructure:"resource_group_naming"` // e.g. rg{env}
	CosmosNaming        string       `mapstructure:"cosmos_naming"`         // e.g. cosmos_{env}
	KeyvaultKeys        KeyvaultKeys `mapstructure:"keyvault_keys"`
}

// KeyvaultKeys are the names of the secrets in the key vault.
type KeyvaultKeys struct {
	TenantID        string `mapstructure:"tenant_id" default:"azure-tenant-id"`
	ClientID        string `mapstructure:"client_id" default:"azure-sp-username"`
	ClientSecret    string `mapstructure:"client_secret" default:"azure-sp-password"`
	SubscriptionID  string `mapstructure:"subscription_id" default:"subscription-id"`
	DatabricksHost  string `mapstructure:"databricks_host" default:"azure-databricks-host"`
	DatabricksToken string `mapstructure:"databricks_token" default:"azure-databricks-token"`
}

type Events struct {
	// comma separated kafka brokers to publish deployment events to, leave empty to disable
	KafkaBrokers string `mapstructure:"kafka_brokers"`
	KafkaTopic   string `mapstructure:"kafka_topic" default:"takeoff-deployments"`
}

func (e Events) Brokers() []string {
	var brokers []string
	for _, b := range strings.Split(e.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

// ResourceName fills the {env} placeholder of a naming convention.
func ResourceName(naming string, v version.ApplicationVersion) string {
	return strings.ReplaceAll(naming, EnvPlaceholder, v.EnvironmentFormatted())
}
