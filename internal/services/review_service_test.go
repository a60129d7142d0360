package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundRating(t *testing.T) {
	tests := []struct {
		name string
		avg  float64
		want float64
	}{
		{"average of 1 and 2", 1.5, 1.5},
		{"average of 1 2 3", 2.0, 2.0},
		{"rounds up", 4.66666, 4.7},
		{"rounds down", 3.3333, 3.3},
		{"half rounds away from zero", 4.25, 4.3},
		{"zero stays zero", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, RoundRating(tt.avg), 1e-9)
		})
	}
}
