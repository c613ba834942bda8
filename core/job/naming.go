package job

import (
	"fmt"
	"path"
	"strings"
)

type Language string

const (
	LanguagePython Language = "python"
	LanguageScala  Language = "scala"
	LanguageJava   Language = "java"
)

func (l Language) IsJVM() bool {
	return l == LanguageScala || l == LanguageJava
}

// ConstructName appends a suffix to a name: "app" or "app-suffix".
func ConstructName(name, suffix string) string {
	if suffix == "" {
		return name
	}
	return name + "-" + suffix
}

// Libraries is the location of the artifacts for a build of an application,
// laid out as {libraryPath}/{app}/{app}-...
type Libraries struct {
	Whl        string
	Jar        string
	Egg        string
	PythonFile string
}

func LibraryLocations(libraryPath, applicationName, artifactVersion string, lang Language) Libraries {
	base := strings.TrimSuffix(libraryPath, "/") + "/" + applicationName
	if lang.IsJVM() {
		return Libraries{
			Jar: fmt.Sprintf("%s/%s-%s.jar", base, applicationName, artifactVersion),
		}
	}
	return Libraries{
		Whl:        fmt.Sprintf("%s/%s-%s-py3-none-any.whl", base, applicationName, artifactVersion),
		PythonFile: fmt.Sprintf("%s/%s-main-%s.py", base, applicationName, artifactVersion),
	}
}

// ArtifactKey is the object key of a library relative to the library path.
func ArtifactKey(location, libraryPath string) string {
	return strings.TrimPrefix(strings.TrimPrefix(location, strings.TrimSuffix(libraryPath, "/")), "/")
}

// IsPythonEntryPoint tells a python source file from a JVM class name.
func IsPythonEntryPoint(entryPoint string) bool {
	return path.Ext(entryPoint) == ".py"
}
