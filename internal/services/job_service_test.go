package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestComputePayment(t *testing.T) {
	start := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		end  time.Time
		rate float64
		want float64
	}{
		{"whole hours", start.Add(3 * time.Hour), 1500, 4500},
		{"fractional hours are not rounded", start.Add(90 * time.Minute), 10, 15},
		{"quarter hour", start.Add(15 * time.Minute), 100, 25},
		{"zero duration", start, 2000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputePayment(start, tt.end, tt.rate)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestComputePaymentKeepsFractions(t *testing.T) {
	start := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(100 * time.Minute)

	// 100 минут по 1234.5 в час: дробный результат отдается как есть,
	// округление происходит только при формировании выплаты
	got := ComputePayment(start, end, 1234.5)
	assert.InDelta(t, 2057.5, got, 1e-9)
}
