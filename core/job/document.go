package job

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/srmds/takeoff/internal/errors"
)

const (
	EntityJobDocument = "job_document"

	KeyName            = "name"
	KeyLibraries       = "libraries"
	KeyNewCluster      = "new_cluster"
	KeySparkPythonTask = "spark_python_task"
	KeySparkJarTask    = "spark_jar_task"
	KeySchedule        = "schedule"

	// KeyContinuous is the template-defined marker of a continuously running job.
	KeyContinuous = "continuous"
)

// Library is a single library entry, e.g. {"whl": "dbfs:/libs/app.whl"}.
type Library map[string]any

// PythonTask runs a python file. Template keys other than the file and the
// parameters, e.g. source, are kept in Extra.
type PythonTask struct {
	PythonFile string         `yaml:"python_file"`
	Parameters []string       `yaml:"parameters,omitempty"`
	Extra      map[string]any `yaml:",inline"`
}

func (t PythonTask) MarshalJSON() ([]byte, error) {
	m := taskMap(t.Extra, t.Parameters)
	m["python_file"] = t.PythonFile
	return json.Marshal(m)
}

type JarTask struct {
	MainClassName string         `yaml:"main_class_name"`
	Parameters    []string       `yaml:"parameters,omitempty"`
	Extra         map[string]any `yaml:",inline"`
}

func (t JarTask) MarshalJSON() ([]byte, error) {
	m := taskMap(t.Extra, t.Parameters)
	m["main_class_name"] = t.MainClassName
	return json.Marshal(m)
}

func taskMap(extra map[string]any, parameters []string) map[string]any {
	m := make(map[string]any, len(extra)+2)
	for k, v := range extra {
		m[k] = v
	}
	if len(parameters) > 0 {
		m["parameters"] = parameters
	}
	return m
}

// Document is the job definition submitted to the scheduler. Keys the
// template defines beyond the typed ones are kept in Extra untouched.
type Document struct {
	Name            string         `yaml:"name"`
	Libraries       []Library      `yaml:"libraries,omitempty"`
	NewCluster      map[string]any `yaml:"new_cluster,omitempty"`
	SparkPythonTask *PythonTask    `yaml:"spark_python_task,omitempty"`
	SparkJarTask    *JarTask       `yaml:"spark_jar_task,omitempty"`
	Schedule        *Schedule      `yaml:"schedule,omitempty"`
	Extra           map[string]any `yaml:",inline"`
}

// ParseDocument reads a rendered template. JSON is accepted as it is valid YAML.
func ParseDocument(content []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, errors.ConfigWrap(EntityJobDocument, "unable to parse job document", err)
	}
	doc.normalize()
	return &doc, nil
}

// normalize turns the keys of nested template mappings into strings, yaml
// decodes a mapping with any non-string key as map[any]any.
func (d *Document) normalize() {
	for i, lib := range d.Libraries {
		d.Libraries[i] = Library(stringKeys(map[string]any(lib)))
	}
	d.NewCluster = stringKeys(d.NewCluster)
	d.Extra = stringKeys(d.Extra)
	if d.SparkPythonTask != nil {
		d.SparkPythonTask.Extra = stringKeys(d.SparkPythonTask.Extra)
	}
	if d.SparkJarTask != nil {
		d.SparkJarTask.Extra = stringKeys(d.SparkJarTask.Extra)
	}
}

func stringKeys(m map[string]any) map[string]any {
	for k, v := range m {
		m[k] = normalizeValue(v)
	}
	return m
}

func normalizeValue(v any) any {
	switch value := v.(type) {
	case map[string]any:
		return stringKeys(value)
	case map[any]any:
		m := make(map[string]any, len(value))
		for k, item := range value {
			m[fmt.Sprint(k)] = normalizeValue(item)
		}
		return m
	case []any:
		for i, item := range value {
			value[i] = normalizeValue(item)
		}
		return value
	}
	return v
}

func (d *Document) HasTask() bool {
	return d.SparkPythonTask != nil || d.SparkJarTask != nil
}

// ToMap is the wire representation of the document.
func (d *Document) ToMap() map[string]any {
	m := make(map[string]any, len(d.Extra)+6)
	for k, v := range d.Extra {
		m[k] = v
	}
	m[KeyName] = d.Name
	if len(d.Libraries) > 0 {
		m[KeyLibraries] = d.Libraries
	}
	if d.NewCluster != nil {
		m[KeyNewCluster] = d.NewCluster
	}
	if d.SparkPythonTask != nil {
		m[KeySparkPythonTask] = d.SparkPythonTask
	}
	if d.SparkJarTask != nil {
		m[KeySparkJarTask] = d.SparkJarTask
	}
	if d.Schedule != nil {
		m[KeySchedule] = d.Schedule
	}
	return m
}

// MarshalJSON writes the keys sorted, so equal documents serialize to equal bytes.
func (d Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.ToMap())
}

// IsStreaming reports whether the job runs continuously: it has no schedule
// and its template carries the continuous trigger marker.
func IsStreaming(doc *Document) bool {
	if doc == nil || doc.Schedule != nil {
		return false
	}
	_, ok := doc.Extra[KeyContinuous]
	return ok
}
