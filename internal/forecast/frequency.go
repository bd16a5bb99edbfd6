package forecast

import "time"

// Frequency describes a payment cadence. Loan terms accept the four
// frequencies with a defined periods-per-year; recurring patterns may use
// the full set.
type Frequency string

const (
	FrequencyDaily       Frequency = "daily"
	FrequencyWeekly      Frequency = "weekly"
	FrequencyFortnightly Frequency = "fortnightly"
	FrequencyMonthly     Frequency = "monthly"
	FrequencyQuarterly   Frequency = "quarterly"
	FrequencySemiAnnual  Frequency = "semi_annual"
	FrequencyAnnual      Frequency = "annual"
	FrequencyCustom      Frequency = "custom"
)

// PeriodsPerYear returns the number of payment periods per year for loan
// frequencies. The second return value is false for frequencies that are
// not valid loan payment cadences.
func (f Frequency) PeriodsPerYear() (int, bool) {
	switch f {
	case FrequencyWeekly:
		return 52, true
	case FrequencyFortnightly:
		return 26, true
	case FrequencyMonthly:
		return 12, true
	case FrequencyQuarterly:
		return 4, true
	default:
		return 0, false
	}
}

// StepDays returns the approximate day-count advance between occurrences.
// This is intentionally not calendar-exact (30 days for monthly, 90 for
// quarterly); schedule outputs depend on it. Custom cadences carry their
// interval in RecurringPattern and return 1 here.
func (f Frequency) StepDays() (int, bool) {
	switch f {
	case FrequencyDaily:
		return 1, true
	case FrequencyWeekly:
		return 7, true
	case FrequencyFortnightly:
		return 14, true
	case FrequencyMonthly:
		return 30, true
	case FrequencyQuarterly:
		return 90, true
	case FrequencySemiAnnual:
		return 182, true
	case FrequencyAnnual:
		return 365, true
	case FrequencyCustom:
		return 1, true
	default:
		return 0, false
	}
}

// RecurringPattern describes a cadence, not a specific date. Interval is a
// multiplier over the frequency step; for custom frequencies it is the raw
// day interval.
type RecurringPattern struct {
	Frequency Frequency `json:"frequency"`
	Interval  int       `json:"interval"`
}

// NextDate advances a date by one occurrence of the pattern.
func (p RecurringPattern) NextDate(from time.Time) (time.Time, bool) {
	step, ok := p.Frequency.StepDays()
	if !ok {
		return time.Time{}, false
	}
	interval := p.Interval
	if interval < 1 {
		interval = 1
	}
	return from.AddDate(0, 0, step*interval), true
}

// Window is the projection horizon.
type Window string

const (
	WindowWeek    Window = "week"
	WindowMonth   Window = "month"
	WindowQuarter Window = "quarter"
	WindowYear    Window = "year"
)

// Days returns the horizon length in days.
func (w Window) Days() (int, bool) {
	switch w {
	case WindowWeek:
		return 7, true
	case WindowMonth:
		return 30, true
	case WindowQuarter:
		return 90, true
	case WindowYear:
		return 365, true
	default:
		return 0, false
	}
}
