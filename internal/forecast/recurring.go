package forecast

import (
	"sort"
	"strings"
	"time"
)

// PaymentEventDraft is a suggested obligation built from a detection. The
// observed payment history is embedded for audit.
type PaymentEventDraft struct {
	Title     string           `json:"title"`
	Amount    float64          `json:"amount"`
	DueDate   time.Time        `json:"due_date"`
	EventType string           `json:"event_type"`
	Recurring bool             `json:"recurring"`
	Pattern   RecurringPattern `json:"pattern"`
	History   []PaymentRecord  `json:"history"`
}

// RecurringPaymentDetection is one inferred recurring obligation. The
// detector returns all candidates with their confidence; threshold policy
// belongs to the caller.
type RecurringPaymentDetection struct {
	Merchant      string            `json:"merchant"`
	Pattern       RecurringPattern  `json:"pattern"`
	IntervalDays  int               `json:"interval_days"`
	Confidence    float64           `json:"confidence"`
	AverageAmount float64           `json:"average_amount"`
	SupportingIDs []string          `json:"supporting_ids"`
	Suggested     PaymentEventDraft `json:"suggested"`
}

// minRecurringSamples is the minimum transactions per merchant for interval
// inference.
const minRecurringSamples = 3

// canonicalIntervals are the day gaps recurring charges cluster around.
var canonicalIntervals = []int{7, 14, 28, 30, 31, 90, 91, 92, 365, 366}

// canonicalTolerance is the rounding slack around a canonical interval.
const canonicalTolerance = 3

// DetectRecurring infers recurring obligations from transaction history.
// Only outflows are considered. Transactions are grouped by normalized
// merchant; day gaps between consecutive charges are rounded to canonical
// intervals, and the dominant gap must repeat at least twice. Confidence
// blends interval consistency (70%) with amount consistency (30%).
func DetectRecurring(transactions []Transaction) []RecurringPaymentDetection {
	groups := make(map[string][]Transaction)
	for _, tx := range transactions {
		if tx.Amount >= 0 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(tx.Merchant))
		if key == "" {
			continue
		}
		groups[key] = append(groups[key], tx)
	}

	merchants := make([]string, 0, len(groups))
	for m := range groups {
		merchants = append(merchants, m)
	}
	sort.Strings(merchants)

	var detections []RecurringPaymentDetection
	for _, merchant := range merchants {
		txs := groups[merchant]
		if len(txs) < minRecurringSamples {
			continue
		}
		if d, ok := detectMerchantPattern(merchant, txs); ok {
			detections = append(detections, d)
		}
	}
	return detections
}

func detectMerchantPattern(merchant string, txs []Transaction) (RecurringPaymentDetection, bool) {
	sort.Slice(txs, func(i, j int) bool { return txs[i].Date.Before(txs[j].Date) })

	gaps := make([]int, 0, len(txs)-1)
	for i := 1; i < len(txs); i++ {
		gap := int(txs[i].Date.Sub(txs[i-1].Date).Hours() / 24)
		gaps = append(gaps, roundToCanonical(gap))
	}

	counts := make(map[int]int)
	for _, g := range gaps {
		counts[g]++
	}
	dominant, dominantCount := 0, 0
	for gap, count := range counts {
		if count > dominantCount || (count == dominantCount && gap < dominant) {
			dominant, dominantCount = gap, count
		}
	}
	if dominantCount < 2 {
		return RecurringPaymentDetection{}, false
	}

	amounts := make([]float64, 0, len(txs))
	ids := make([]string, 0, len(txs))
	var history []PaymentRecord
	for _, tx := range txs {
		amounts = append(amounts, -tx.Amount)
		ids = append(ids, tx.ID)
		history = append(history, PaymentRecord{Date: tx.Date, Amount: -tx.Amount, Status: EventStatusPaid})
	}

	intervalConsistency := float64(dominantCount) / float64(len(gaps))
	confidence := 0.7*intervalConsistency + 0.3*amountConsistency(amounts)

	pattern := patternForGap(dominant)
	avg := round2(mean(amounts))
	last := txs[len(txs)-1].Date

	return RecurringPaymentDetection{
		Merchant:      merchant,
		Pattern:       pattern,
		IntervalDays:  dominant,
		Confidence:    confidence,
		AverageAmount: avg,
		SupportingIDs: ids,
		Suggested: PaymentEventDraft{
			Title:     merchant,
			Amount:    avg,
			DueDate:   last.AddDate(0, 0, dominant),
			EventType: "recurring",
			Recurring: true,
			Pattern:   pattern,
			History:   history,
		},
	}, true
}

// roundToCanonical snaps a day gap to the nearest canonical interval when
// within tolerance; otherwise the raw gap is kept.
func roundToCanonical(gap int) int {
	best, bestDiff := gap, canonicalTolerance+1
	for _, c := range canonicalIntervals {
		diff := gap - c
		if diff < 0 {
			diff = -diff
		}
		if diff < bestDiff {
			best, bestDiff = c, diff
		}
	}
	return best
}

// patternForGap maps a day gap to a frequency label via fixed day-range
// buckets. Gaps beyond a year keep the raw interval as a custom cadence.
func patternForGap(gap int) RecurringPattern {
	switch {
	case gap <= 10:
		return RecurringPattern{Frequency: FrequencyWeekly, Interval: 1}
	case gap <= 17:
		return RecurringPattern{Frequency: FrequencyFortnightly, Interval: 1}
	case gap <= 35:
		return RecurringPattern{Frequency: FrequencyMonthly, Interval: 1}
	case gap <= 95:
		return RecurringPattern{Frequency: FrequencyQuarterly, Interval: 1}
	case gap <= 370:
		return RecurringPattern{Frequency: FrequencyAnnual, Interval: 1}
	default:
		return RecurringPattern{Frequency: FrequencyCustom, Interval: gap}
	}
}

// amountConsistency scores how stable the charge amounts are, based on the
// coefficient of variation and clamped at 0.
func amountConsistency(amounts []float64) float64 {
	m := mean(amounts)
	if m == 0 {
		return 0
	}
	score := 1 - variance(amounts)/(m*m)
	if score < 0 {
		return 0
	}
	return score
}
