package job

import (
	"github.com/spf13/afero"

	"github.com/srmds/takeoff/internal/compiler"
	"github.com/srmds/takeoff/internal/errors"
)

const EntityJobBuilder = "job_builder"

// Parameters are the values a job document is built from.
type Parameters struct {
	ApplicationName string
	// JobNameOverride replaces ApplicationName as the job name when set.
	JobNameOverride string
	LogDestination  string
	Libraries       Libraries
	EntryPoint      string
	Arguments       Arguments
	// Schedule is nil when no schedule is configured for the job.
	Schedule *ScheduleSetting
}

func (p Parameters) jobName() string {
	if p.JobNameOverride != "" {
		return p.JobNameOverride
	}
	return p.ApplicationName
}

type Builder struct {
	fs     afero.Fs
	engine *compiler.Engine
}

func NewBuilder(fs afero.Fs, engine *compiler.Engine) *Builder {
	return &Builder{
		fs:     fs,
		engine: engine,
	}
}

// Build renders the template at templatePath and applies the parameters on
// top of it for the given environment.
func (b *Builder) Build(templatePath string, params Parameters, environment string) (*Document, error) {
	content, err := afero.ReadFile(b.fs, templatePath)
	if err != nil {
		return nil, errors.ConfigWrap(EntityJobBuilder, "unable to read job template "+templatePath, err)
	}

	rendered, err := b.engine.Compile(templatePath, string(content), templateContext(params, environment))
	if err != nil {
		return nil, err
	}

	doc, err := ParseDocument([]byte(rendered))
	if err != nil {
		return nil, err
	}
	if !doc.HasTask() {
		return nil, errors.Config(EntityJobBuilder,
			"job template "+templatePath+" defines neither "+KeySparkPythonTask+" nor "+KeySparkJarTask)
	}

	if params.EntryPoint == "" && doc.SparkPythonTask != nil && doc.SparkJarTask != nil {
		return nil, errors.Config(EntityJobBuilder,
			"job template "+templatePath+" defines both task types and no entry point is given")
	}

	doc.Name = params.jobName()
	applyTask(doc, params)
	applySchedule(doc, params.Schedule, environment)
	return doc, nil
}

func templateContext(params Parameters, environment string) map[string]any {
	className := ""
	if params.EntryPoint != "" && !IsPythonEntryPoint(params.EntryPoint) {
		className = params.EntryPoint
	}
	pythonFile := params.Libraries.PythonFile
	if IsPythonEntryPoint(params.EntryPoint) {
		pythonFile = params.EntryPoint
	}
	parameters := params.Arguments.Flatten()
	if parameters == nil {
		parameters = []string{}
	}

	return map[string]any{
		"application_name": params.jobName(),
		"log_destination":  params.LogDestination,
		"whl_file":         params.Libraries.Whl,
		"egg_file":         params.Libraries.Egg,
		"jar_file":         params.Libraries.Jar,
		"python_file":      pythonFile,
		"class_name":       className,
		"parameters":       parameters,
		"environment":      environment,
	}
}

// applyTask sets the task matching the entry point, or only the parameters of
// the template's task when there is no entry point. Other keys of a template
// task of the same kind are kept.
func applyTask(doc *Document, params Parameters) {
	parameters := params.Arguments.Flatten()

	if params.EntryPoint == "" {
		if len(parameters) == 0 {
			return
		}
		if doc.SparkPythonTask != nil {
			doc.SparkPythonTask.Parameters = parameters
		} else {
			doc.SparkJarTask.Parameters = parameters
		}
		return
	}

	if IsPythonEntryPoint(params.EntryPoint) {
		task := doc.SparkPythonTask
		if task == nil {
			task = &PythonTask{}
		}
		task.PythonFile = params.EntryPoint
		task.Parameters = parameters
		doc.SparkJarTask = nil
		doc.SparkPythonTask = task
		return
	}

	task := doc.SparkJarTask
	if task == nil {
		task = &JarTask{}
	}
	task.MainClassName = params.EntryPoint
	task.Parameters = parameters
	doc.SparkPythonTask = nil
	doc.SparkJarTask = task
}

// applySchedule resolves the schedule in order: the entry for the current
// environment, the global schedule, the template default when no schedule is
// configured, and none otherwise.
func applySchedule(doc *Document, setting *ScheduleSetting, environment string) {
	if setting == nil {
		return
	}
	schedule, ok := setting.For(environment)
	if !ok {
		doc.Schedule = nil
		return
	}
	doc.Schedule = schedule
}
