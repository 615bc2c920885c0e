package models

import "time"

type DateWindow string

const (
	DateAny       DateWindow = "any"
	DateToday     DateWindow = "today"
	DateYesterday DateWindow = "yesterday"
	DateWeek      DateWindow = "week"
	DateMonth     DateWindow = "month"
)

// CutoffFrom converts the relative window into an absolute lower bound.
// The zero time means no cutoff.
func (w DateWindow) CutoffFrom(now time.Time) time.Time {
	switch w {
	case DateToday:
		return now.Truncate(24 * time.Hour)
	case DateYesterday:
		return now.Truncate(24*time.Hour).AddDate(0, 0, -1)
	case DateWeek:
		return now.AddDate(0, 0, -7)
	case DateMonth:
		return now.AddDate(0, -1, 0)
	default:
		return time.Time{}
	}
}

type SortBy string

const (
	SortByRelevance SortBy = "relevance"
	SortByDate      SortBy = "date"
	SortBySalary    SortBy = "salary"
)

// SearchFilters carries one search request through the orchestrator down
// to the adapters. Empty APISources means every registered adapter.
type SearchFilters struct {
	Query      string
	Company    string
	Location   string
	JobType    string
	DistanceKm int
	MinSalary  int
	DatePosted DateWindow
	SortBy     SortBy
	APISources []Source
	Limit      int
}
