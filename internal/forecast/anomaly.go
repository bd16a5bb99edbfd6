package forecast

import (
	"fmt"
	"time"
)

// AnomalyType classifies a detected irregularity.
type AnomalyType string

const (
	AnomalyMissedPayment    AnomalyType = "missed_payment"
	AnomalyAmountVariance   AnomalyType = "amount_variance"
	AnomalyTimingVariance   AnomalyType = "timing_variance"
	AnomalyDuplicate        AnomalyType = "duplicate"
	AnomalyUnusualFrequency AnomalyType = "unusual_frequency"
	AnomalyMethodChange     AnomalyType = "method_change"
)

// Severity levels.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// AnomalyStats carries the supporting statistics behind an amount-variance
// finding, for explainability.
type AnomalyStats struct {
	Mean     float64   `json:"mean"`
	Variance float64   `json:"variance"`
	CV       float64   `json:"cv"`
	Amounts  []float64 `json:"amounts"`
}

// PaymentAnomaly is one finding. Produced fresh on every run; idempotent in
// content, not in identity.
type PaymentAnomaly struct {
	Type        AnomalyType   `json:"type"`
	Severity    Severity      `json:"severity"`
	EventID     string        `json:"event_id"`
	EventTitle  string        `json:"event_title"`
	Description string        `json:"description"`
	DetectedAt  time.Time     `json:"detected_at"`
	Resolved    bool          `json:"resolved"`
	Stats       *AnomalyStats `json:"stats,omitempty"`
}

// varianceHistoryWindow is how many of the most recent history amounts feed
// the amount-variance check.
const varianceHistoryWindow = 5

// DetectAnomalies flags missed payments and abnormal amount drift in the
// given obligations. It is a pure function of its inputs: status is trusted
// as recorded by the caller and never reconciled against the ledger, and
// nothing is mutated. now anchors the overdue check so runs are
// reproducible.
func DetectAnomalies(events []PaymentEvent, transactions []Transaction, now time.Time) []PaymentAnomaly {
	var anomalies []PaymentAnomaly
	for _, ev := range events {
		if a, ok := missedPayment(ev, now); ok {
			anomalies = append(anomalies, a)
		}
		if a, ok := amountVariance(ev, now); ok {
			anomalies = append(anomalies, a)
		}
	}
	return anomalies
}

// missedPayment flags obligations still marked scheduled past their due
// date. The due day itself is not counted: severity scales with full days
// elapsed after it.
func missedPayment(ev PaymentEvent, now time.Time) (PaymentAnomaly, bool) {
	if ev.Status != EventStatusScheduled || !ev.DueDate.Before(now) {
		return PaymentAnomaly{}, false
	}
	daysSinceDue := int(now.Sub(ev.DueDate).Hours() / 24)
	lateDays := daysSinceDue - 1
	if lateDays < 0 {
		lateDays = 0
	}

	var severity Severity
	switch {
	case lateDays <= 1:
		severity = SeverityLow
	case lateDays <= 7:
		severity = SeverityMedium
	case lateDays <= 30:
		severity = SeverityHigh
	default:
		severity = SeverityCritical
	}

	return PaymentAnomaly{
		Type:        AnomalyMissedPayment,
		Severity:    severity,
		EventID:     ev.ID,
		EventTitle:  ev.Title,
		Description: fmt.Sprintf("%q was due %d day(s) ago and is still scheduled", ev.Title, daysSinceDue),
		DetectedAt:  now,
	}, true
}

// amountVariance flags recurring obligations whose recent payment amounts
// drift. Requires at least 3 recorded history entries; the coefficient of
// variation over the last 5 amounts must exceed 0.2 (medium) or 0.5 (high).
func amountVariance(ev PaymentEvent, now time.Time) (PaymentAnomaly, bool) {
	if !ev.Recurring || len(ev.History) < 3 {
		return PaymentAnomaly{}, false
	}

	history := ev.History
	if len(history) > varianceHistoryWindow {
		history = history[len(history)-varianceHistoryWindow:]
	}
	amounts := make([]float64, 0, len(history))
	for _, rec := range history {
		amounts = append(amounts, rec.Amount)
	}

	cv := coefficientOfVariation(amounts)
	var severity Severity
	switch {
	case cv > 0.5:
		severity = SeverityHigh
	case cv > 0.2:
		severity = SeverityMedium
	default:
		return PaymentAnomaly{}, false
	}

	return PaymentAnomaly{
		Type:       AnomalyAmountVariance,
		Severity:   severity,
		EventID:    ev.ID,
		EventTitle: ev.Title,
		Description: fmt.Sprintf("%q amounts vary by %.0f%% around a mean of %.2f over the last %d payments",
			ev.Title, cv*100, mean(amounts), len(amounts)),
		DetectedAt: now,
		Stats: &AnomalyStats{
			Mean:     mean(amounts),
			Variance: variance(amounts),
			CV:       cv,
			Amounts:  amounts,
		},
	}, true
}
