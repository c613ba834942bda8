package job

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"github.com/srmds/takeoff/internal/errors"
)

const (
	EntitySchedule = "schedule"

	keyQuartzCronExpression = "quartz_cron_expression"
	keyTimezoneID           = "timezone_id"
	keyPauseStatus          = "pause_status"
)

var (
	// seconds, minutes, hours, day of month and month of a quartz expression
	quartzParser = cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

	quartzDayOfWeek = regexp.MustCompile(`^[0-9A-Za-z*?,/#-]+$`)
	quartzYear      = regexp.MustCompile(`^[0-9*,/-]+$`)
)

type Schedule struct {
	QuartzCronExpression string `yaml:"quartz_cron_expression" json:"quartz_cron_expression"`
	TimezoneID           string `yaml:"timezone_id" json:"timezone_id"`
	PauseStatus          string `yaml:"pause_status,omitempty" json:"pause_status,omitempty"`
}

// Validate checks the cron expression and the timezone. Quartz expressions
// have a seconds field, an optional year field, and may use L, W and # which
// are accepted without further checks.
func (s Schedule) Validate() error {
	if err := validateQuartz(s.QuartzCronExpression); err != nil {
		return errors.Validation(EntitySchedule,
			fmt.Sprintf("invalid quartz_cron_expression [%s]: %s", s.QuartzCronExpression, err))
	}
	if s.TimezoneID == "" {
		return errors.Validation(EntitySchedule, "timezone_id is required")
	}
	if _, err := time.LoadLocation(s.TimezoneID); err != nil {
		return errors.Validation(EntitySchedule, fmt.Sprintf("invalid timezone_id [%s]", s.TimezoneID))
	}
	return nil
}

func validateQuartz(expr string) error {
	fields := strings.Fields(expr)
	if len(fields) != 6 && len(fields) != 7 {
		return fmt.Errorf("expected 6 or 7 fields, got %d", len(fields))
	}
	if len(fields) == 7 && !quartzYear.MatchString(fields[6]) {
		return fmt.Errorf("invalid year field [%s]", fields[6])
	}
	if !quartzDayOfWeek.MatchString(fields[5]) {
		return fmt.Errorf("invalid day of week field [%s]", fields[5])
	}

	head := fields[:5]
	if strings.ContainsAny(strings.Join(head, " "), "LW#") {
		return nil
	}
	// day of week numbering differs between quartz and cron, it is checked above
	_, err := quartzParser.Parse(strings.Join(head, " ") + " ?")
	return err
}

// ScheduleSetting is either one schedule for every environment or a
// schedule per environment name.
type ScheduleSetting struct {
	Global         *Schedule
	PerEnvironment map[string]Schedule
}

func (s *ScheduleSetting) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: schedule should be a mapping", node.Line)
	}

	global := false
	var environments []string
	for i := 0; i < len(node.Content); i += 2 {
		switch key := node.Content[i].Value; key {
		case keyQuartzCronExpression, keyTimezoneID:
			global = true
		case keyPauseStatus:
		default:
			environments = append(environments, key)
		}
	}
	if global {
		if len(environments) > 0 {
			return errors.Validation(EntitySchedule, fmt.Sprintf(
				"line %d: schedule mixes %s with environments %v", node.Line, keyQuartzCronExpression, environments))
		}
		var schedule Schedule
		if err := node.Decode(&schedule); err != nil {
			return err
		}
		*s = ScheduleSetting{Global: &schedule}
		return nil
	}

	perEnv := map[string]Schedule{}
	if err := node.Decode(&perEnv); err != nil {
		return err
	}
	*s = ScheduleSetting{PerEnvironment: perEnv}
	return nil
}

func (s ScheduleSetting) MarshalYAML() (any, error) {
	if s.Global != nil {
		return s.Global, nil
	}
	return s.PerEnvironment, nil
}

// For returns the schedule applying to an environment. A per environment
// entry is looked up exactly first, then case-insensitively.
func (s *ScheduleSetting) For(environment string) (*Schedule, bool) {
	if s == nil {
		return nil, false
	}
	if s.Global != nil {
		schedule := *s.Global
		return &schedule, true
	}
	if schedule, ok := s.PerEnvironment[environment]; ok {
		return &schedule, true
	}
	for env, schedule := range s.PerEnvironment {
		if strings.EqualFold(env, environment) {
			schedule := schedule
			return &schedule, true
		}
	}
	return nil, false
}

func (s *ScheduleSetting) Validate() error {
	if s == nil {
		return nil
	}
	if s.Global != nil {
		return s.Global.Validate()
	}

	envs := make([]string, 0, len(s.PerEnvironment))
	for env := range s.PerEnvironment {
		envs = append(envs, env)
	}
	sort.Strings(envs)
	seen := make(map[string]string, len(envs))
	for _, env := range envs {
		if other, ok := seen[strings.ToLower(env)]; ok {
			return errors.Validation(EntitySchedule,
				fmt.Sprintf("environments [%s] and [%s] differ only by case", other, env))
		}
		seen[strings.ToLower(env)] = env
	}
	for _, env := range envs {
		if err := s.PerEnvironment[env].Validate(); err != nil {
			return fmt.Errorf("schedule for environment [%s]: %w", env, err)
		}
	}
	return nil
}
