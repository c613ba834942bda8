package job_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/srmds/takeoff/core/job"
	"github.com/srmds/takeoff/internal/errors"
)

func TestSchedule(t *testing.T) {
	t.Run("Validate", func(t *testing.T) {
		testCases := []struct {
			Expr  string
			TZ    string
			Valid bool
		}{
			{"0 15 22 ? * *", "America/Los_Angeles", true},
			{"0 0/5 * * * ?", "UTC", true},
			{"0 0 12 ? * MON-FRI", "Europe/Amsterdam", true},
			{"0 0 12 ? * 2-6 2030", "UTC", true},
			{"0 0 12 L * ?", "UTC", true},
			{"0 15 22 ? *", "UTC", false},
			{"0 61 22 ? * *", "UTC", false},
			{"0 15 22 ? * *", "Mars/Olympus", false},
			{"0 15 22 ? * *", "", false},
		}
		for _, tc := range testCases {
			err := job.Schedule{QuartzCronExpression: tc.Expr, TimezoneID: tc.TZ}.Validate()
			if tc.Valid {
				assert.NoError(t, err, tc.Expr)
			} else {
				assert.Error(t, err, tc.Expr)
			}
		}
	})

	t.Run("ScheduleSetting", func(t *testing.T) {
		t.Run("decodes global schedule", func(t *testing.T) {
			var s job.ScheduleSetting
			err := yaml.Unmarshal([]byte(`
quartz_cron_expression: "0 15 22 ? * *"
timezone_id: America/Los_Angeles
`), &s)

			require.NoError(t, err)
			assert.Equal(t, &laSchedule, s.Global)
			assert.Nil(t, s.PerEnvironment)

			schedule, ok := s.For("anything")
			assert.True(t, ok)
			assert.Equal(t, &laSchedule, schedule)
		})
		t.Run("decodes schedule per environment", func(t *testing.T) {
			var s job.ScheduleSetting
			err := yaml.Unmarshal([]byte(`
dev:
  quartz_cron_expression: "0 15 22 ? * *"
  timezone_id: America/Los_Angeles
`), &s)

			require.NoError(t, err)
			assert.Nil(t, s.Global)

			schedule, ok := s.For("DEV")
			assert.True(t, ok)
			assert.Equal(t, &laSchedule, schedule)

			_, ok = s.For("acp")
			assert.False(t, ok)
		})
		t.Run("rejects global schedule next to environments", func(t *testing.T) {
			var s job.ScheduleSetting
			err := yaml.Unmarshal([]byte(`
quartz_cron_expression: "0 15 22 ? * *"
timezone_id: UTC
acp:
  quartz_cron_expression: "0 0 1 ? * *"
  timezone_id: UTC
`), &s)

			require.Error(t, err)
			assert.True(t, errors.IsErrorType(err, errors.ErrValidation))
			assert.Contains(t, err.Error(), "acp")
		})
		t.Run("accepts pause status in global schedule", func(t *testing.T) {
			var s job.ScheduleSetting
			err := yaml.Unmarshal([]byte(`
quartz_cron_expression: "0 15 22 ? * *"
timezone_id: America/Los_Angeles
pause_status: PAUSED
`), &s)

			require.NoError(t, err)
			require.NotNil(t, s.Global)
			assert.Equal(t, "PAUSED", s.Global.PauseStatus)
		})
		t.Run("prefers the exact environment name", func(t *testing.T) {
			other := job.Schedule{QuartzCronExpression: "0 0 1 ? * *", TimezoneID: "UTC"}
			s := job.ScheduleSetting{PerEnvironment: map[string]job.Schedule{"dev": laSchedule, "DEV": other}}

			for i := 0; i < 10; i++ {
				schedule, ok := s.For("DEV")
				require.True(t, ok)
				assert.Equal(t, &other, schedule)
			}
		})
		t.Run("rejects environments differing only by case", func(t *testing.T) {
			s := job.ScheduleSetting{PerEnvironment: map[string]job.Schedule{"dev": laSchedule, "DEV": laSchedule}}
			err := s.Validate()

			require.Error(t, err)
			assert.True(t, errors.IsErrorType(err, errors.ErrValidation))
		})
		t.Run("rejects scalar", func(t *testing.T) {
			var s job.ScheduleSetting
			assert.Error(t, yaml.Unmarshal([]byte(`daily`), &s))
		})
		t.Run("validates every environment", func(t *testing.T) {
			s := job.ScheduleSetting{PerEnvironment: map[string]job.Schedule{
				"dev": laSchedule,
				"prd": {QuartzCronExpression: "nope", TimezoneID: "UTC"},
			}}
			err := s.Validate()

			require.Error(t, err)
			assert.Contains(t, err.Error(), "prd")
		})
		t.Run("nil setting applies to no environment", func(t *testing.T) {
			var s *job.ScheduleSetting
			_, ok := s.For("dev")
			assert.False(t, ok)
			assert.NoError(t, s.Validate())
		})
	})
}
