package forecast

import (
	"math"
	"time"
)

// LoanTerms is the immutable input to schedule generation.
type LoanTerms struct {
	Principal    float64
	AnnualRate   float64 // percent, e.g. 6.5
	TermMonths   int
	Frequency    Frequency
	ExtraPayment float64 // optional, added to every period's payment
	StartDate    time.Time
}

// ScheduleEntry is one period of an amortization schedule.
type ScheduleEntry struct {
	Period              int       `json:"period"`
	DueDate             time.Time `json:"due_date"`
	Principal           float64   `json:"principal"`
	Interest            float64   `json:"interest"`
	Total               float64   `json:"total"`
	RemainingBalance    float64   `json:"remaining_balance"`
	CumulativeInterest  float64   `json:"cumulative_interest"`
	CumulativePrincipal float64   `json:"cumulative_principal"`
}

// AmortizationResult is a complete schedule plus its headline figures.
// Recomputed on demand, never mutated in place.
type AmortizationResult struct {
	PeriodicPayment float64         `json:"periodic_payment"`
	TotalInterest   float64         `json:"total_interest"`
	TotalPayments   int             `json:"total_payments"`
	PayoffDate      time.Time       `json:"payoff_date"`
	Schedule        []ScheduleEntry `json:"schedule"`
}

// balanceEpsilon is the residual below which a loan counts as paid off.
const balanceEpsilon = 0.01

// GenerateSchedule computes a fixed-payment amortization schedule for the
// given terms. The periodic payment follows the standard annuity formula
//
//	payment = P * r * (1+r)^n / ((1+r)^n - 1)
//
// with an even split for interest-free loans. Due dates advance by the
// frequency's approximate day count (7/14/30/90), not calendar months.
// Identical inputs always produce an identical schedule.
func GenerateSchedule(terms LoanTerms) (*AmortizationResult, error) {
	if terms.Principal <= 0 {
		return nil, invalidInput("principal", "must be positive")
	}
	if terms.TermMonths <= 0 {
		return nil, invalidInput("term_months", "must be positive")
	}
	if terms.AnnualRate < 0 {
		return nil, invalidInput("annual_rate", "must not be negative")
	}
	if terms.ExtraPayment < 0 {
		return nil, invalidInput("extra_payment", "must not be negative")
	}
	periodsPerYear, ok := terms.Frequency.PeriodsPerYear()
	if !ok {
		return nil, invalidInput("frequency", "unknown payment frequency: "+string(terms.Frequency))
	}
	stepDays, _ := terms.Frequency.StepDays()

	totalPeriods := terms.TermMonths * periodsPerYear / 12
	if totalPeriods < 1 {
		totalPeriods = 1
	}
	periodRate := terms.AnnualRate / 100 / float64(periodsPerYear)

	var payment float64
	if periodRate == 0 {
		payment = terms.Principal / float64(totalPeriods)
	} else {
		factor := math.Pow(1+periodRate, float64(totalPeriods))
		if math.IsInf(factor, 1) {
			// Limit of the annuity formula: interest-only. The loop below
			// reports this as non-amortizing instead of looping forever.
			payment = terms.Principal * periodRate
		} else {
			payment = terms.Principal * periodRate * factor / (factor - 1)
		}
	}

	// Safety cap: a payment at or below the interest-only amount would never
	// amortize, and the loop must not run forever.
	maxPeriods := 2 * totalPeriods

	schedule := make([]ScheduleEntry, 0, totalPeriods)
	balance := terms.Principal
	dueDate := terms.StartDate
	cumInterest := 0.0
	cumPrincipal := 0.0

	for period := 1; balance > balanceEpsilon; period++ {
		if period > maxPeriods {
			return nil, &NonAmortizingError{
				Payment:      payment + terms.ExtraPayment,
				InterestOnly: balance * periodRate,
			}
		}

		dueDate = dueDate.AddDate(0, 0, stepDays)

		interest := balance * periodRate
		totalPayment := payment + terms.ExtraPayment
		principal := totalPayment - interest
		if principal > balance {
			principal = balance
			totalPayment = principal + interest
		}
		if principal <= 0 {
			return nil, &NonAmortizingError{
				Payment:      payment + terms.ExtraPayment,
				InterestOnly: interest,
			}
		}

		balance -= principal
		cumInterest += interest
		cumPrincipal += principal

		schedule = append(schedule, ScheduleEntry{
			Period:              period,
			DueDate:             dueDate,
			Principal:           round2(principal),
			Interest:            round2(interest),
			Total:               round2(totalPayment),
			RemainingBalance:    round2(balance),
			CumulativeInterest:  round2(cumInterest),
			CumulativePrincipal: round2(cumPrincipal),
		})
	}

	return &AmortizationResult{
		PeriodicPayment: round2(payment),
		TotalInterest:   round2(cumInterest),
		TotalPayments:   len(schedule),
		PayoffDate:      dueDate,
		Schedule:        schedule,
	}, nil
}

// ScenarioVariant modifies loan terms for a what-if comparison. Nil fields
// keep the baseline value; LumpSum is a one-off principal reduction applied
// before the schedule starts.
type ScenarioVariant struct {
	AnnualRate   *float64 `json:"annual_rate,omitempty"`
	ExtraPayment *float64 `json:"extra_payment,omitempty"`
	LumpSum      float64  `json:"lump_sum,omitempty"`
}

// ScenarioComparison is the arithmetic difference between two independent
// schedules. No incremental logic; schedules are at most a few hundred
// entries, so recomputing is cheap.
type ScenarioComparison struct {
	Baseline      *AmortizationResult `json:"baseline"`
	Variant       *AmortizationResult `json:"variant"`
	InterestSaved float64             `json:"interest_saved"`
	PeriodsSaved  int                 `json:"periods_saved"`
	NewPayoffDate time.Time           `json:"new_payoff_date"`
}

// CompareScenario recomputes a second schedule under modified terms and
// returns the savings against the baseline.
func CompareScenario(terms LoanTerms, variant ScenarioVariant) (*ScenarioComparison, error) {
	baseline, err := GenerateSchedule(terms)
	if err != nil {
		return nil, err
	}

	modified := terms
	if variant.AnnualRate != nil {
		modified.AnnualRate = *variant.AnnualRate
	}
	if variant.ExtraPayment != nil {
		modified.ExtraPayment = *variant.ExtraPayment
	}
	if variant.LumpSum < 0 {
		return nil, invalidInput("lump_sum", "must not be negative")
	}
	if variant.LumpSum >= modified.Principal {
		return nil, invalidInput("lump_sum", "must be smaller than the principal")
	}
	modified.Principal -= variant.LumpSum

	alternative, err := GenerateSchedule(modified)
	if err != nil {
		return nil, err
	}

	return &ScenarioComparison{
		Baseline:      baseline,
		Variant:       alternative,
		InterestSaved: round2(baseline.TotalInterest - alternative.TotalInterest),
		PeriodsSaved:  baseline.TotalPayments - alternative.TotalPayments,
		NewPayoffDate: alternative.PayoffDate,
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
