package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bnsl/draftd/go/internal/schedule"
)

// Config is the YAML application config. Database settings stay in DB_*
// environment variables; this file carries the draft calendar and the bus.
type Config struct {
	Schedule struct {
		Location        string `yaml:"location"`
		StartDate       string `yaml:"start_date"`
		FirstSlotHour   int    `yaml:"first_slot_hour"`
		LastSlotHour    int    `yaml:"last_slot_hour"`
		OverflowHour    int    `yaml:"overflow_hour"`
		RestWeekday     string `yaml:"rest_weekday"`
		MaxOverflowDays int    `yaml:"max_overflow_days"`
	} `yaml:"schedule"`
	Bus struct {
		URL           string `yaml:"url"`
		Stream        string `yaml:"stream"`
		SubjectPrefix string `yaml:"subject_prefix"`
	} `yaml:"bus"`
}

func loadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

var weekdays = map[string]time.Weekday{
	"Sunday":    time.Sunday,
	"Monday":    time.Monday,
	"Tuesday":   time.Tuesday,
	"Wednesday": time.Wednesday,
	"Thursday":  time.Thursday,
	"Friday":    time.Friday,
	"Saturday":  time.Saturday,
}

// scheduleConfig converts the YAML block to a validated schedule.Config.
func (c *Config) scheduleConfig() (schedule.Config, error) {
	loc, err := time.LoadLocation(c.Schedule.Location)
	if err != nil {
		return schedule.Config{}, fmt.Errorf("bad schedule location: %w", err)
	}

	start, err := time.ParseInLocation("2006-01-02", c.Schedule.StartDate, loc)
	if err != nil {
		return schedule.Config{}, fmt.Errorf("bad schedule start_date: %w", err)
	}

	cfg := schedule.DefaultConfig(loc, start)
	if c.Schedule.FirstSlotHour != 0 {
		cfg.FirstSlotHour = c.Schedule.FirstSlotHour
	}
	if c.Schedule.LastSlotHour != 0 {
		cfg.LastSlotHour = c.Schedule.LastSlotHour
	}
	if c.Schedule.OverflowHour != 0 {
		cfg.OverflowHour = c.Schedule.OverflowHour
	}
	if c.Schedule.RestWeekday != "" {
		wd, ok := weekdays[c.Schedule.RestWeekday]
		if !ok {
			return schedule.Config{}, fmt.Errorf("bad schedule rest_weekday %q", c.Schedule.RestWeekday)
		}
		cfg.RestWeekday = wd
	}
	if c.Schedule.MaxOverflowDays != 0 {
		cfg.MaxOverflowDays = c.Schedule.MaxOverflowDays
	}

	if err := cfg.Validate(); err != nil {
		return schedule.Config{}, err
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
