package forecast

import (
	"sort"
	"time"
)

// Direction of a cash-flow entry.
type Direction string

const (
	DirectionIncome  Direction = "income"
	DirectionExpense Direction = "expense"
)

// EntrySource tags how an entry was derived.
type EntrySource string

const (
	SourceHistorical EntrySource = "historical"
	SourceScheduled  EntrySource = "scheduled"
	SourcePredicted  EntrySource = "predicted"
)

// CashFlowEntry is one dated movement in a projection. Amounts are signed;
// outflows are negative.
type CashFlowEntry struct {
	Date        time.Time   `json:"date"`
	Direction   Direction   `json:"direction"`
	Category    string      `json:"category"`
	Description string      `json:"description"`
	Amount      float64     `json:"amount"`
	Projected   bool        `json:"projected"`
	Confidence  float64     `json:"confidence"`
	Source      EntrySource `json:"source"`
}

// CashFlowProjection is a forward-looking, date-ordered series with
// aggregate totals. Purely derived output.
type CashFlowProjection struct {
	Start         time.Time       `json:"start"`
	End           time.Time       `json:"end"`
	Window        Window          `json:"window"`
	Entries       []CashFlowEntry `json:"entries"`
	TotalIncome   float64         `json:"total_income"`
	TotalExpenses float64         `json:"total_expenses"`
	Net           float64         `json:"net"`
	Confidence    float64         `json:"confidence"`
	Assumptions   []string        `json:"assumptions"`
}

const (
	// salaryThreshold separates salary-like deposits from incidental credits.
	salaryThreshold = 1000.0

	// incomeSampleLimit caps how many recent deposits feed the income model.
	incomeSampleLimit = 12

	// materialityFloor drops category averages too small to project.
	materialityFloor = 50.0

	// recurringExpansionCap bounds pattern expansion through the window.
	recurringExpansionCap = 1000
)

// projectionAssumptions is the fixed caveat list attached to every
// projection; it is not derived from the data.
var projectionAssumptions = []string{
	"historical income pattern remains stable",
	"scheduled obligations are paid as recorded",
	"category spending follows its historical monthly average",
	"no unplanned one-off expenses occur in the window",
}

// Project composes projected income, expanded scheduled obligations and
// category-level historical averages into a cash-flow series over the
// window starting at from. Deterministic: identical inputs yield identical
// output. Missing data legs produce empty results, not errors.
func Project(events []PaymentEvent, transactions []Transaction, window Window, from time.Time) (*CashFlowProjection, error) {
	days, ok := window.Days()
	if !ok {
		return nil, invalidInput("window", "unknown projection window: "+string(window))
	}
	end := from.AddDate(0, 0, days)

	var entries []CashFlowEntry
	entries = append(entries, projectIncome(transactions, from, end)...)
	entries = append(entries, projectScheduled(events, from, end)...)
	entries = append(entries, projectCategorySpend(transactions, from, end)...)

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Date.Before(entries[j].Date) })

	totalIncome := 0.0
	totalExpenses := 0.0
	confidenceSum := 0.0
	for _, e := range entries {
		confidenceSum += e.Confidence
		if e.Direction == DirectionIncome {
			totalIncome += e.Amount
		} else {
			if e.Amount < 0 {
				totalExpenses += -e.Amount
			} else {
				totalExpenses += e.Amount
			}
		}
	}

	// Unweighted mean confidence: simple over rigorous, on purpose.
	confidence := 0.0
	if len(entries) > 0 {
		confidence = confidenceSum / float64(len(entries))
	}

	return &CashFlowProjection{
		Start:         from,
		End:           end,
		Window:        window,
		Entries:       entries,
		TotalIncome:   round2(totalIncome),
		TotalExpenses: round2(totalExpenses),
		Net:           round2(totalIncome - totalExpenses),
		Confidence:    confidence,
		Assumptions:   projectionAssumptions,
	}, nil
}

// projectIncome infers a salary cadence from recent large deposits and
// steps it through the window. Fewer than 2 qualifying deposits means no
// income is projected; that is a valid empty leg.
func projectIncome(transactions []Transaction, from, end time.Time) []CashFlowEntry {
	var deposits []Transaction
	for _, tx := range transactions {
		if tx.Amount > salaryThreshold {
			deposits = append(deposits, tx)
		}
	}
	sort.Slice(deposits, func(i, j int) bool { return deposits[i].Date.Before(deposits[j].Date) })
	if len(deposits) > incomeSampleLimit {
		deposits = deposits[len(deposits)-incomeSampleLimit:]
	}
	if len(deposits) < 2 {
		return nil
	}

	amounts := make([]float64, 0, len(deposits))
	gapSum := 0.0
	for i, d := range deposits {
		amounts = append(amounts, d.Amount)
		if i > 0 {
			gapSum += d.Date.Sub(deposits[i-1].Date).Hours() / 24
		}
	}
	avgAmount := mean(amounts)
	interval := int(gapSum / float64(len(deposits)-1))
	if interval < 1 {
		interval = 1
	}

	var entries []CashFlowEntry
	for date := deposits[len(deposits)-1].Date.AddDate(0, 0, interval); !date.After(end); date = date.AddDate(0, 0, interval) {
		if date.Before(from) {
			continue
		}
		entries = append(entries, CashFlowEntry{
			Date:        date,
			Direction:   DirectionIncome,
			Category:    "income",
			Description: "Projected income",
			Amount:      round2(avgAmount),
			Projected:   true,
			Confidence:  0.9,
			Source:      SourceHistorical,
		})
	}
	return entries
}

// projectScheduled expands scheduled obligations through the window.
// Recurring patterns advance with the same approximate day-count stepping
// the amortization schedule uses, capped to guard against degenerate
// patterns.
func projectScheduled(events []PaymentEvent, from, end time.Time) []CashFlowEntry {
	var entries []CashFlowEntry
	for _, ev := range events {
		if ev.Status != EventStatusScheduled {
			continue
		}
		if !ev.Recurring {
			if !ev.DueDate.Before(from) && !ev.DueDate.After(end) {
				entries = append(entries, scheduledEntry(ev, ev.DueDate))
			}
			continue
		}

		date := ev.DueDate
		for i := 0; i < recurringExpansionCap && !date.After(end); i++ {
			if !date.Before(from) {
				entries = append(entries, scheduledEntry(ev, date))
			}
			next, ok := ev.Pattern.NextDate(date)
			if !ok || !next.After(date) {
				break
			}
			date = next
		}
	}
	return entries
}

func scheduledEntry(ev PaymentEvent, date time.Time) CashFlowEntry {
	return CashFlowEntry{
		Date:        date,
		Direction:   DirectionExpense,
		Category:    ev.EventType,
		Description: ev.Title,
		Amount:      -ev.Amount,
		Projected:   true,
		Confidence:  0.95,
		Source:      SourceScheduled,
	}
}

// projectCategorySpend averages historical outflows per category per
// calendar month and emits one predicted entry per category for each month
// the window covers, when the average clears the materiality floor.
func projectCategorySpend(transactions []Transaction, from, end time.Time) []CashFlowEntry {
	type bucket struct {
		total  float64
		months map[string]struct{}
	}
	buckets := make(map[string]*bucket)
	for _, tx := range transactions {
		if tx.Amount >= 0 {
			continue
		}
		category := tx.Category
		if category == "" {
			category = "uncategorized"
		}
		b := buckets[category]
		if b == nil {
			b = &bucket{months: make(map[string]struct{})}
			buckets[category] = b
		}
		b.total += -tx.Amount
		b.months[tx.Date.Format("2006-01")] = struct{}{}
	}

	categories := make([]string, 0, len(buckets))
	for c := range buckets {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	var entries []CashFlowEntry
	for _, category := range categories {
		b := buckets[category]
		avg := b.total / float64(len(b.months))
		if avg <= materialityFloor {
			continue
		}
		for _, date := range coveredMonths(from, end) {
			entries = append(entries, CashFlowEntry{
				Date:        date,
				Direction:   DirectionExpense,
				Category:    category,
				Description: "Estimated " + category + " spending",
				Amount:      round2(-avg),
				Projected:   true,
				Confidence:  0.7,
				Source:      SourcePredicted,
			})
		}
	}
	return entries
}

// coveredMonths returns one representative date per calendar month in
// [from, end], clamped into the window.
func coveredMonths(from, end time.Time) []time.Time {
	var dates []time.Time
	month := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, from.Location())
	for !month.After(end) {
		date := month
		if date.Before(from) {
			date = from
		}
		dates = append(dates, date)
		month = month.AddDate(0, 1, 0)
	}
	return dates
}
