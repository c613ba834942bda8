package compiler

import (
	"bytes"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/srmds/takeoff/internal/errors"
)

const EntityCompiler = "compiler"

// Engine renders job definition templates. Templates use the text/template
// syntax with the sprig function set, e.g. {{ .parameters | toJson }}.
type Engine struct {
	baseFns template.FuncMap
}

func NewEngine() *Engine {
	fns := sprig.TxtFuncMap()
	fns["env_suffix"] = envSuffix
	return &Engine{baseFns: fns}
}

// Compile renders a named template. Missing keys render as an error rather
// than "<no value>" so a typo in a template never reaches the scheduler.
func (e *Engine) Compile(name, content string, context map[string]any) (string, error) {
	tmpl, err := template.New(name).
		Funcs(e.baseFns).
		Option("missingkey=error").
		Parse(content)
	if err != nil {
		return "", errors.ConfigWrap(EntityCompiler, "unable to parse template "+name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, context); err != nil {
		return "", errors.ConfigWrap(EntityCompiler, "unable to render template "+name, err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// envSuffix turns an environment name into a name suffix, "" for prd.
func envSuffix(env string) string {
	env = strings.ToLower(env)
	if env == "" || env == "prd" {
		return ""
	}
	return "-" + env
}
