package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListQuery_OrderClause(t *testing.T) {
	tests := []struct {
		name     string
		sortBy   string
		sortDir  string
		expected string
	}{
		{"Empty Sort Uses Fallback", "", "", "date DESC"},
		{"Allowed Column Ascending", "amount", "", "amount ASC"},
		{"Allowed Column Descending", "merchant", "desc", "merchant DESC"},
		{"Unknown Column Uses Fallback", "balance", "desc", "date DESC"},
		{"Injection Attempt Uses Fallback", "date; DROP TABLE transactions--", "desc", "date DESC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := NewListQuery()
			q.SortBy = tt.sortBy
			q.SortDir = tt.sortDir
			assert.Equal(t, tt.expected, q.orderClause(transactionSortable, "date DESC"))
		})
	}
}

func TestListQuery_Pagination(t *testing.T) {
	q := NewListQuery()
	assert.Equal(t, 0, q.offset())
	assert.Equal(t, 50, q.limit())

	q.Page = 3
	q.PerPage = 20
	assert.Equal(t, 40, q.offset())
	assert.Equal(t, 20, q.limit())

	q.Page = 0
	assert.Equal(t, 0, q.offset())
}
