package forecast

import (
	"fmt"
	"sort"
)

// Loan status constants for the optimizer's read-only view.
const (
	LoanStatusActive = "active"
	LoanStatusClosed = "closed"
)

// Loan is the optimizer's view of an open debt.
type Loan struct {
	ID             string
	Name           string
	CurrentBalance float64
	InterestRate   float64 // annual percent
	MinimumPayment float64
	Status         string
}

// Strategy names.
const (
	StrategyAvalanche = "avalanche"
	StrategySnowball  = "snowball"
)

// PayoffStep is one loan's position in a payoff ordering, with a
// human-readable rationale.
type PayoffStep struct {
	LoanID    string  `json:"loan_id"`
	Name      string  `json:"name"`
	Rank      int     `json:"rank"`
	Balance   float64 `json:"balance"`
	Rate      float64 `json:"rate"`
	Reasoning string  `json:"reasoning"`
}

// StrategyResult is the recommended payoff ordering.
type StrategyResult struct {
	Strategy          string       `json:"strategy"`
	Order             []PayoffStep `json:"order"`
	TotalSavings      float64      `json:"total_savings"`
	AvalancheInterest float64      `json:"avalanche_interest"`
	SnowballInterest  float64      `json:"snowball_interest"`
}

// estimatePayoffCap bounds the minimum-payment payoff simulation.
const estimatePayoffCap = 1200

// OptimalStrategy orders active loans for payoff and picks the cheaper of
// avalanche (rate descending) and snowball (balance ascending) orderings.
//
// The per-ordering interest estimate sums each loan's independently
// simulated minimum-payment amortization. It does not model freed-up
// minimum payments cascading to the next loan; this is a known
// simplification, kept rather than silently corrected. Ties go to
// avalanche, which dominates for pure interest cost.
func OptimalStrategy(loans []Loan) (*StrategyResult, error) {
	active := make([]Loan, 0, len(loans))
	for _, l := range loans {
		switch l.Status {
		case LoanStatusActive:
			active = append(active, l)
		case LoanStatusClosed:
			// skip
		default:
			return nil, invalidInput("status", "unknown loan status: "+l.Status)
		}
		if l.CurrentBalance < 0 {
			return nil, invalidInput("current_balance", "must not be negative")
		}
		if l.InterestRate < 0 {
			return nil, invalidInput("interest_rate", "must not be negative")
		}
	}

	avalanche := append([]Loan(nil), active...)
	sort.SliceStable(avalanche, func(i, j int) bool {
		return avalanche[i].InterestRate > avalanche[j].InterestRate
	})
	snowball := append([]Loan(nil), active...)
	sort.SliceStable(snowball, func(i, j int) bool {
		return snowball[i].CurrentBalance < snowball[j].CurrentBalance
	})

	avalancheInterest := orderedInterest(avalanche)
	snowballInterest := orderedInterest(snowball)

	// Summation order must not decide the strategy; anything within float
	// noise of a tie goes to avalanche.
	strategy := StrategyAvalanche
	ordering := avalanche
	if snowballInterest+1e-6 < avalancheInterest {
		strategy = StrategySnowball
		ordering = snowball
	}

	order := make([]PayoffStep, 0, len(ordering))
	for i, l := range ordering {
		order = append(order, PayoffStep{
			LoanID:    l.ID,
			Name:      l.Name,
			Rank:      i + 1,
			Balance:   l.CurrentBalance,
			Rate:      l.InterestRate,
			Reasoning: stepReasoning(strategy, l, i),
		})
	}

	savings := avalancheInterest - snowballInterest
	if savings < 0 {
		savings = -savings
	}

	return &StrategyResult{
		Strategy:          strategy,
		Order:             order,
		TotalSavings:      round2(savings),
		AvalancheInterest: round2(avalancheInterest),
		SnowballInterest:  round2(snowballInterest),
	}, nil
}

func stepReasoning(strategy string, l Loan, index int) string {
	if strategy == StrategySnowball {
		if index == 0 {
			return fmt.Sprintf("smallest balance (%.2f), quick win first", l.CurrentBalance)
		}
		return fmt.Sprintf("next smallest balance (%.2f)", l.CurrentBalance)
	}
	if index == 0 {
		return fmt.Sprintf("%.1f%% interest rate, highest first", l.InterestRate)
	}
	return fmt.Sprintf("%.1f%% interest rate", l.InterestRate)
}

// orderedInterest sums each loan's independent minimum-payment interest.
func orderedInterest(loans []Loan) float64 {
	total := 0.0
	for _, l := range loans {
		total += estimateLoanInterest(l)
	}
	return total
}

// estimateLoanInterest simulates paying a loan down with its minimum
// monthly payment only. Loans whose minimum payment never amortizes are
// truncated at the simulation cap; they contribute the interest accrued up
// to that point.
func estimateLoanInterest(l Loan) float64 {
	monthlyRate := l.InterestRate / 100 / 12
	balance := l.CurrentBalance
	interest := 0.0

	for month := 0; balance > balanceEpsilon && month < estimatePayoffCap; month++ {
		accrued := balance * monthlyRate
		principal := l.MinimumPayment - accrued
		if principal <= 0 {
			// Never amortizes; interest-only from here on.
			return interest + accrued*float64(estimatePayoffCap-month)
		}
		if principal > balance {
			principal = balance
			accrued = balance * monthlyRate
		}
		interest += accrued
		balance -= principal
	}
	return interest
}
