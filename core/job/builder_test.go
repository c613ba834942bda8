package job_test

import (
	"encoding/json"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srmds/takeoff/core/job"
	"github.com/srmds/takeoff/internal/compiler"
	"github.com/srmds/takeoff/internal/errors"
)

const (
	streamingJobConfig       = "testdata/streaming_job.json.tmpl"
	batchJobConfig           = "testdata/scheduled_job.json.tmpl"
	dynamicScheduleJobConfig = "testdata/dynamic_schedule_job.yml.tmpl"
	jarJobConfig             = "testdata/jar_job.json.tmpl"
	noTaskJobConfig          = "testdata/no_task_job.json.tmpl"
)

var laSchedule = job.Schedule{
	QuartzCronExpression: "0 15 22 ? * *",
	TimezoneID:           "America/Los_Angeles",
}

func newBuilder() *job.Builder {
	return job.NewBuilder(afero.NewReadOnlyFs(afero.NewOsFs()), compiler.NewEngine())
}

func expectedCluster(logDestination string) map[string]any {
	return map[string]any{
		"spark_version": "4.1.x-scala2.11",
		"spark_conf": map[string]any{
			"spark.sql.warehouse.dir": "/some_",
			"some.setting":            "true",
		},
		"cluster_log_conf": map[string]any{
			"dbfs": map[string]any{"destination": "dbfs:/mnt/sdh/logs/" + logDestination},
		},
	}
}

func pythonParams(schedule *job.ScheduleSetting) job.Parameters {
	return job.Parameters{
		ApplicationName: "job_with_schedule",
		LogDestination:  "app",
		Libraries:       job.Libraries{Whl: "some.whl"},
		EntryPoint:      "some.py",
		Arguments:       job.Arguments{{Key: "foo", Value: "bar"}},
		Schedule:        schedule,
	}
}

func TestBuilder(t *testing.T) {
	t.Run("constructs job config from template", func(t *testing.T) {
		doc, err := newBuilder().Build(streamingJobConfig, job.Parameters{
			ApplicationName: "app-42",
			LogDestination:  "app",
			Libraries:       job.Libraries{Whl: "some.whl"},
			EntryPoint:      "some.py",
			Arguments:       job.Arguments{{Key: "foo", Value: "bar"}},
		}, "dev")

		require.NoError(t, err)
		assert.Equal(t, &job.Document{
			Name:       "app-42",
			Libraries:  []job.Library{{"whl": "some.whl"}, {"jar": "some.jar"}},
			NewCluster: expectedCluster("app"),
			SparkPythonTask: &job.PythonTask{
				PythonFile: "some.py",
				Parameters: []string{"--foo", "bar"},
			},
			Extra: map[string]any{
				"some_int":   5,
				"continuous": map[string]any{"pause_status": "UNPAUSED"},
			},
		}, doc)
	})

	t.Run("uses job name override", func(t *testing.T) {
		params := pythonParams(nil)
		params.JobNameOverride = "override"

		doc, err := newBuilder().Build(dynamicScheduleJobConfig, params, "dev")

		require.NoError(t, err)
		assert.Equal(t, "override", doc.Name)
	})

	t.Run("selects jar task for class names", func(t *testing.T) {
		doc, err := newBuilder().Build(jarJobConfig, job.Parameters{
			ApplicationName: "job_name",
			LogDestination:  "job_name",
			Libraries:       job.Libraries{Jar: "/path/app_name/app_name-bar.jar"},
			EntryPoint:      "foo.class",
			Arguments:       job.Arguments{{Key: "key", Value: "val"}, {Key: "key2", Value: "val2"}},
		}, "foo")

		require.NoError(t, err)
		assert.Nil(t, doc.SparkPythonTask)
		assert.Equal(t, &job.JarTask{
			MainClassName: "foo.class",
			Parameters:    []string{"--key", "val", "--key2", "val2"},
		}, doc.SparkJarTask)
		assert.Equal(t, []job.Library{{"jar": "/path/app_name/app_name-bar.jar"}}, doc.Libraries)
		assert.Equal(t, expectedCluster("job_name"), doc.NewCluster)
	})

	t.Run("replaces template task by the one matching the entry point", func(t *testing.T) {
		params := pythonParams(nil)
		params.EntryPoint = "com.example.Main"

		doc, err := newBuilder().Build(streamingJobConfig, params, "dev")

		require.NoError(t, err)
		assert.Nil(t, doc.SparkPythonTask)
		assert.Equal(t, "com.example.Main", doc.SparkJarTask.MainClassName)
	})

	t.Run("keeps template task without entry point", func(t *testing.T) {
		doc, err := newBuilder().Build(batchJobConfig, job.Parameters{ApplicationName: "app"}, "dev")

		require.NoError(t, err)
		require.NotNil(t, doc.SparkPythonTask)
		assert.Empty(t, doc.SparkPythonTask.PythonFile)
		assert.Empty(t, doc.SparkPythonTask.Parameters)
		assert.Nil(t, doc.SparkJarTask)
	})

	t.Run("keeps other keys of the template task", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		content := `{"name": "x", "spark_python_task": {"python_file": "{{ .python_file }}", "source": "WORKSPACE"}}`
		require.NoError(t, afero.WriteFile(fs, "task.tmpl", []byte(content), 0o644))

		doc, err := job.NewBuilder(fs, compiler.NewEngine()).Build("task.tmpl", pythonParams(nil), "dev")

		require.NoError(t, err)
		assert.Equal(t, &job.PythonTask{
			PythonFile: "some.py",
			Parameters: []string{"--foo", "bar"},
			Extra:      map[string]any{"source": "WORKSPACE"},
		}, doc.SparkPythonTask)

		out, err := json.Marshal(doc)
		require.NoError(t, err)
		assert.JSONEq(t, `{
			"name": "job_with_schedule",
			"spark_python_task": {"python_file": "some.py", "parameters": ["--foo", "bar"], "source": "WORKSPACE"}
		}`, string(out))
	})

	t.Run("turns non-string template keys into strings", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		content := "name: x\nspark_jar_task:\n  main_class_name: A\nnew_cluster:\n  custom_tags:\n    1: b\ntags:\n  - 2: c\n"
		require.NoError(t, afero.WriteFile(fs, "keys.tmpl", []byte(content), 0o644))

		doc, err := job.NewBuilder(fs, compiler.NewEngine()).Build("keys.tmpl", job.Parameters{ApplicationName: "x"}, "dev")

		require.NoError(t, err)
		assert.Equal(t, map[string]any{"1": "b"}, doc.NewCluster["custom_tags"])
		assert.Equal(t, []any{map[string]any{"2": "c"}}, doc.Extra["tags"])

		out, err := json.Marshal(doc)
		require.NoError(t, err)
		assert.JSONEq(t, `{
			"name": "x",
			"new_cluster": {"custom_tags": {"1": "b"}},
			"spark_jar_task": {"main_class_name": "A"},
			"tags": [{"2": "c"}]
		}`, string(out))
	})

	t.Run("schedule", func(t *testing.T) {
		t.Run("uses global schedule", func(t *testing.T) {
			doc, err := newBuilder().Build(dynamicScheduleJobConfig,
				pythonParams(&job.ScheduleSetting{Global: &laSchedule}), "dev")

			require.NoError(t, err)
			assert.Equal(t, &laSchedule, doc.Schedule)
		})
		t.Run("uses schedule of current environment", func(t *testing.T) {
			setting := &job.ScheduleSetting{PerEnvironment: map[string]job.Schedule{"dev": laSchedule}}

			doc, err := newBuilder().Build(dynamicScheduleJobConfig, pythonParams(setting), "dev")

			require.NoError(t, err)
			assert.Equal(t, &laSchedule, doc.Schedule)
		})
		t.Run("omits schedule for other environment", func(t *testing.T) {
			setting := &job.ScheduleSetting{PerEnvironment: map[string]job.Schedule{"dev": laSchedule}}

			doc, err := newBuilder().Build(dynamicScheduleJobConfig, pythonParams(setting), "acp")

			require.NoError(t, err)
			assert.Nil(t, doc.Schedule)
			assert.NotContains(t, doc.ToMap(), job.KeySchedule)
		})
		t.Run("omits schedule when none is configured", func(t *testing.T) {
			doc, err := newBuilder().Build(dynamicScheduleJobConfig, pythonParams(nil), "acp")

			require.NoError(t, err)
			assert.Nil(t, doc.Schedule)
		})
		t.Run("keeps template schedule when none is configured", func(t *testing.T) {
			doc, err := newBuilder().Build(batchJobConfig, pythonParams(nil), "dev")

			require.NoError(t, err)
			assert.Equal(t, &laSchedule, doc.Schedule)
		})
		t.Run("drops template schedule when environment has no entry", func(t *testing.T) {
			setting := &job.ScheduleSetting{PerEnvironment: map[string]job.Schedule{"prd": laSchedule}}

			doc, err := newBuilder().Build(batchJobConfig, pythonParams(setting), "dev")

			require.NoError(t, err)
			assert.Nil(t, doc.Schedule)
		})
	})

	t.Run("is idempotent", func(t *testing.T) {
		params := pythonParams(&job.ScheduleSetting{Global: &laSchedule})

		first, err := newBuilder().Build(streamingJobConfig, params, "dev")
		require.NoError(t, err)
		second, err := newBuilder().Build(streamingJobConfig, params, "dev")
		require.NoError(t, err)

		firstJSON, err := json.Marshal(first)
		require.NoError(t, err)
		secondJSON, err := json.Marshal(second)
		require.NoError(t, err)
		assert.Equal(t, firstJSON, secondJSON)
	})

	t.Run("returns config error", func(t *testing.T) {
		t.Run("when template is missing", func(t *testing.T) {
			_, err := newBuilder().Build("testdata/missing.json.tmpl", pythonParams(nil), "dev")

			assert.True(t, errors.IsErrorType(err, errors.ErrConfig))
		})
		t.Run("when template is not a document", func(t *testing.T) {
			fs := afero.NewMemMapFs()
			require.NoError(t, afero.WriteFile(fs, "broken.tmpl", []byte(`{"name": [}`), 0o644))

			_, err := job.NewBuilder(fs, compiler.NewEngine()).Build("broken.tmpl", pythonParams(nil), "dev")

			assert.True(t, errors.IsErrorType(err, errors.ErrConfig))
		})
		t.Run("when template defines no task", func(t *testing.T) {
			_, err := newBuilder().Build(noTaskJobConfig, pythonParams(nil), "dev")

			assert.True(t, errors.IsErrorType(err, errors.ErrConfig))
		})
		t.Run("when template defines both tasks without entry point", func(t *testing.T) {
			fs := afero.NewMemMapFs()
			content := `{"name": "x", "spark_python_task": {"python_file": "a.py"}, "spark_jar_task": {"main_class_name": "A"}}`
			require.NoError(t, afero.WriteFile(fs, "both.tmpl", []byte(content), 0o644))

			_, err := job.NewBuilder(fs, compiler.NewEngine()).Build("both.tmpl", job.Parameters{ApplicationName: "x"}, "dev")

			assert.True(t, errors.IsErrorType(err, errors.ErrConfig))
		})
	})
}

func TestIsStreaming(t *testing.T) {
	streaming, err := newBuilder().Build(streamingJobConfig, pythonParams(nil), "dev")
	require.NoError(t, err)
	assert.True(t, job.IsStreaming(streaming))

	batch, err := newBuilder().Build(batchJobConfig, pythonParams(nil), "dev")
	require.NoError(t, err)
	assert.False(t, job.IsStreaming(batch))

	scheduled, err := newBuilder().Build(streamingJobConfig, pythonParams(&job.ScheduleSetting{Global: &laSchedule}), "dev")
	require.NoError(t, err)
	assert.False(t, job.IsStreaming(scheduled))

	assert.False(t, job.IsStreaming(nil))
}
