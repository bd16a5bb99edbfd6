package forecast

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func monthlyCharges(merchant string, start time.Time, count int, amounts []float64) []Transaction {
	txs := make([]Transaction, 0, count)
	for i := 0; i < count; i++ {
		txs = append(txs, Transaction{
			ID:       fmt.Sprintf("%s-%d", merchant, i),
			Date:     start.AddDate(0, 0, 30*i),
			Amount:   -amounts[i%len(amounts)],
			Merchant: merchant,
			Category: "subscriptions",
		})
	}
	return txs
}

func TestDetectRecurring_MonthlySubscription(t *testing.T) {
	start := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)
	txs := monthlyCharges("Netflix", start, 6, []float64{100, 101, 99, 100, 101, 99})

	detections := DetectRecurring(txs)
	require.Len(t, detections, 1)

	d := detections[0]
	assert.Equal(t, "netflix", d.Merchant)
	assert.Equal(t, FrequencyMonthly, d.Pattern.Frequency)
	assert.GreaterOrEqual(t, d.Confidence, 0.8)
	assert.InDelta(t, 100, d.AverageAmount, 1)
	assert.Len(t, d.SupportingIDs, 6)

	// Suggested draft carries the cadence and the observed history
	assert.True(t, d.Suggested.Recurring)
	assert.Equal(t, start.AddDate(0, 0, 5*30+30), d.Suggested.DueDate)
	assert.Len(t, d.Suggested.History, 6)
}

func TestDetectRecurring_IgnoresInflows(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	var txs []Transaction
	for i := 0; i < 6; i++ {
		txs = append(txs, Transaction{
			ID:       fmt.Sprintf("salary-%d", i),
			Date:     start.AddDate(0, 0, 30*i),
			Amount:   5000,
			Merchant: "Employer Inc",
		})
	}

	assert.Empty(t, DetectRecurring(txs))
}

func TestDetectRecurring_SkipsSmallGroups(t *testing.T) {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	txs := monthlyCharges("Gym", start, 2, []float64{45})

	assert.Empty(t, DetectRecurring(txs))
}

func TestDetectRecurring_NormalizesMerchantLabels(t *testing.T) {
	start := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	txs := []Transaction{
		{ID: "1", Date: start, Amount: -12.99, Merchant: "Spotify "},
		{ID: "2", Date: start.AddDate(0, 0, 30), Amount: -12.99, Merchant: "SPOTIFY"},
		{ID: "3", Date: start.AddDate(0, 0, 60), Amount: -12.99, Merchant: "spotify"},
	}

	detections := DetectRecurring(txs)
	require.Len(t, detections, 1)
	assert.Equal(t, "spotify", detections[0].Merchant)
}

func TestDetectRecurring_ToleratesJitterAroundCanonicalGap(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	offsets := []int{0, 29, 61, 89, 121} // gaps 29,32,28,32 round to 28/31
	var txs []Transaction
	for i, off := range offsets {
		txs = append(txs, Transaction{
			ID:       fmt.Sprintf("rent-%d", i),
			Date:     start.AddDate(0, 0, off),
			Amount:   -1500,
			Merchant: "Rent",
		})
	}

	detections := DetectRecurring(txs)
	require.Len(t, detections, 1)
	assert.Equal(t, FrequencyMonthly, detections[0].Pattern.Frequency)
}

func TestRoundToCanonical_PicksNearestInterval(t *testing.T) {
	tests := []struct {
		name     string
		gap      int
		expected int
	}{
		{"Exact Monthly Gap", 30, 30},
		{"Exact Thirty One", 31, 31},
		{"Exact Quarterly", 91, 91},
		{"Jitter Below Week", 6, 7},
		{"Jitter Above Month", 33, 31},
		{"Equidistant Prefers First Listed", 29, 28},
		{"Outside Tolerance Kept Raw", 45, 45},
		{"Yearly Drift", 363, 365},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, roundToCanonical(tt.gap))
		})
	}
}

func TestDetectRecurring_NoDominantGap(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	offsets := []int{0, 5, 45, 150} // gaps 5,40,105: nothing repeats
	var txs []Transaction
	for i, off := range offsets {
		txs = append(txs, Transaction{
			ID:       fmt.Sprintf("x-%d", i),
			Date:     start.AddDate(0, 0, off),
			Amount:   -20,
			Merchant: "One-off Shop",
		})
	}

	assert.Empty(t, DetectRecurring(txs))
}

func TestDetectRecurring_CustomIntervalKeptRaw(t *testing.T) {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	var txs []Transaction
	for i := 0; i < 3; i++ {
		txs = append(txs, Transaction{
			ID:       fmt.Sprintf("c-%d", i),
			Date:     start.AddDate(0, 0, 500*i),
			Amount:   -80,
			Merchant: "Odd Vendor",
		})
	}

	detections := DetectRecurring(txs)
	require.Len(t, detections, 1)
	assert.Equal(t, FrequencyCustom, detections[0].Pattern.Frequency)
	assert.Equal(t, 500, detections[0].Pattern.Interval)
}

func TestDetectRecurring_DeterministicOrdering(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	txs := append(
		monthlyCharges("Zeta", start, 4, []float64{10}),
		monthlyCharges("Alpha", start, 4, []float64{20})...,
	)

	first := DetectRecurring(txs)
	second := DetectRecurring(txs)
	require.Len(t, first, 2)
	assert.Equal(t, first, second)
	assert.Equal(t, "alpha", first[0].Merchant)
	assert.Equal(t, "zeta", first[1].Merchant)
}
