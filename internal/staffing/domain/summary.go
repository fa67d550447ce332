package domain

import (
	"fmt"
	"time"
)

// ShiftBucket is the reporting classification of a session
type ShiftBucket string

const (
	BucketDay     ShiftBucket = "day"
	BucketLongDay ShiftBucket = "longDay"
	BucketNight   ShiftBucket = "night"
)

// ShiftBreakdown splits a role's requirement across shift buckets
type ShiftBreakdown struct {
	Day     int `json:"day"`
	LongDay int `json:"longDay"`
	Night   int `json:"night"`
}

// Add returns the breakdown with qty added to bucket
func (b ShiftBreakdown) Add(bucket ShiftBucket, qty int) ShiftBreakdown {
	switch bucket {
	case BucketLongDay:
		b.LongDay += qty
	case BucketNight:
		b.Night += qty
	default:
		b.Day += qty
	}
	return b
}

// Total sums all buckets
func (b ShiftBreakdown) Total() int {
	return b.Day + b.LongDay + b.Night
}

// DailyRequirementSummary is the derived requirement picture for one date.
// Assigned* fields mirror the requirement fields but count allocations.
type DailyRequirementSummary struct {
	Date              string                    `json:"date"`
	TheatreTotal      int                       `json:"theatre_total"`
	AuxiliaryTotal    int                       `json:"auxiliary_total"`
	NightTotal        int                       `json:"night_total"`
	Total             int                       `json:"total"`
	RoleTally         map[string]int            `json:"role_tally"`
	RoleByShiftType   map[string]ShiftBreakdown `json:"role_by_shift_type"`
	AssignedTotal     int                       `json:"assigned_total"`
	AssignedTally     map[string]int            `json:"assigned_tally"`
	AssignedBySession map[string]int            `json:"assigned_by_session"`
}

// NewDailyRequirementSummary returns a zeroed summary with initialised maps
func NewDailyRequirementSummary(date string) DailyRequirementSummary {
	return DailyRequirementSummary{
		Date:              date,
		RoleTally:         map[string]int{},
		RoleByShiftType:   map[string]ShiftBreakdown{},
		AssignedTally:     map[string]int{},
		AssignedBySession: map[string]int{},
	}
}

// DateRange is an inclusive range of calendar dates
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange parses two ISO dates into a range
func NewDateRange(start, end string) (DateRange, error) {
	s, err := time.Parse(DateLayout, start)
	if err != nil {
		return DateRange{}, fmt.Errorf("invalid start date %q: %w", start, err)
	}
	e, err := time.Parse(DateLayout, end)
	if err != nil {
		return DateRange{}, fmt.Errorf("invalid end date %q: %w", end, err)
	}
	if e.Before(s) {
		return DateRange{}, fmt.Errorf("end date %s before start date %s", end, start)
	}
	return DateRange{Start: s, End: e}, nil
}

// Len returns the number of dates in the range
func (r DateRange) Len() int {
	if r.End.Before(r.Start) {
		return 0
	}
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

// Days lists every date in the range as ISO strings
func (r DateRange) Days() []string {
	n := r.Len()
	days := make([]string, 0, n)
	for i := 0; i < n; i++ {
		days = append(days, r.Start.AddDate(0, 0, i).Format(DateLayout))
	}
	return days
}

// StartDate returns the first date as an ISO string
func (r DateRange) StartDate() string { return r.Start.Format(DateLayout) }

// EndDate returns the last date as an ISO string
func (r DateRange) EndDate() string { return r.End.Format(DateLayout) }
