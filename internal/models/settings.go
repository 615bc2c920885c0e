package models

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// SchedulerSettings is owned by the admin-config collaborator. The
// scheduler reads it at startup and whenever it is told to re-arm.
type SchedulerSettings struct {
	DailyRunTime      string
	AllowedAPISources []Source
	RerankModel       string
}

// ParseRunTime validates the HH:MM run time and returns hour and minute.
func (s SchedulerSettings) ParseRunTime() (hour, minute int, err error) {
	parts := strings.SplitN(s.DailyRunTime, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("run time %q is not HH:MM", s.DailyRunTime)
	}
	if hour, err = strconv.Atoi(parts[0]); err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in run time %q", s.DailyRunTime)
	}
	if minute, err = strconv.Atoi(parts[1]); err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in run time %q", s.DailyRunTime)
	}
	return hour, minute, nil
}

func (s SchedulerSettings) SourcesAsString() string {
	return strings.Join(lo.Map(s.AllowedAPISources, func(src Source, _ int) string {
		return string(src)
	}), ",")
}

func SourcesFromString(joined string) []Source {
	if joined == "" {
		return nil
	}
	var sources []Source
	for _, part := range strings.Split(joined, ",") {
		if source, ok := ToSource(strings.TrimSpace(part)); ok {
			sources = append(sources, source)
		}
	}
	return sources
}
