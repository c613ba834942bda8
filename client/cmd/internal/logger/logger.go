package logger

import (
	"fmt"
	"sort"

	"github.com/odpf/salt/log"
	"github.com/sirupsen/logrus"

	"github.com/srmds/takeoff/config"
)

const formatJSON = "json"

type plainFormatter int

func (*plainFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	if len(entry.Data) > 0 {
		keys := make([]string, 0, len(entry.Data))
		for key := range entry.Data {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		var data string
		for _, key := range keys {
			data += fmt.Sprintf("%s: %v ", key, entry.Data[key])
		}
		return []byte(fmt.Sprintf("%s %s\n", entry.Message, data)), nil
	}
	return []byte(fmt.Sprintf("%s\n", entry.Message)), nil
}

// NewDefaultLogger initializes plain logger
func NewDefaultLogger() log.Logger {
	return log.NewLogrus(
		log.LogrusWithLevel(config.LogLevelInfo.String()),
		log.LogrusWithFormatter(new(plainFormatter)),
	)
}

// NewClientLogger initializes client logger based on log configuration
func NewClientLogger(logConfig config.LogConfig) log.Logger {
	if logConfig.Level == "" {
		return NewDefaultLogger()
	}

	var formatter logrus.Formatter = new(plainFormatter)
	if logConfig.Format == formatJSON {
		formatter = &logrus.JSONFormatter{}
	}
	return log.NewLogrus(
		log.LogrusWithLevel(logConfig.Level.String()),
		log.LogrusWithFormatter(formatter),
	)
}
