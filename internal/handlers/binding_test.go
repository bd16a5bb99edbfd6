package handlers

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type bindTarget struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

func TestBindNestedOrFlat(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name        string
		key         string
		body        string
		expected    bindTarget
		expectError bool
	}{
		{
			name:     "Nested Structure",
			key:      "loan",
			body:     `{"loan": {"name": "Car Loan", "amount": 20000}}`,
			expected: bindTarget{Name: "Car Loan", Amount: 20000},
		},
		{
			name:     "Flat Structure",
			key:      "loan",
			body:     `{"name": "Mortgage", "amount": 350000}`,
			expected: bindTarget{Name: "Mortgage", Amount: 350000},
		},
		{
			name:     "Missing Key Falls Back To Flat",
			key:      "loan",
			body:     `{"other": "value", "name": "Gym", "amount": 45}`,
			expected: bindTarget{Name: "Gym", Amount: 45},
		},
		{
			name:        "Invalid JSON",
			key:         "loan",
			body:        `{not json`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest("POST", "/loans", bytes.NewBufferString(tt.body))
			c.Request.Header.Set("Content-Type", "application/json")

			var target bindTarget
			err := BindNestedOrFlat(c, tt.key, &target)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, target)
		})
	}
}
