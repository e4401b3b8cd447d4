package backtest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEntryPrice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		price    float64
		side     Side
		slippage float64
		expected float64
	}{
		{"long_pays_up", 100, Long, 0.001, 100.1},
		{"short_receives_less", 100, Short, 0.001, 99.9},
		{"zero_slippage_long", 100, Long, 0, 100},
		{"zero_slippage_short", 100, Short, 0, 100},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.expected, entryPrice(tt.price, tt.side, tt.slippage), 1e-9)
		})
	}
}

func TestExitPrice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		price    float64
		side     Side
		slippage float64
		expected float64
	}{
		{"long_receives_less", 100, Long, 0.001, 99.9},
		{"short_pays_up", 100, Short, 0.001, 100.1},
		{"zero_slippage", 100, Long, 0, 100},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.expected, exitPrice(tt.price, tt.side, tt.slippage), 1e-9)
		})
	}
}

func TestCommissionNeverRebates(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 10.0, commission(10_000, 0.001), 1e-9)
	assert.InDelta(t, 10.0, commission(-10_000, 0.001), 1e-9)
	assert.Equal(t, 0.0, commission(10_000, 0))
}

func TestSlippageSymmetry(t *testing.T) {
	t.Parallel()

	// Round-tripping at a constant price always costs the trader, for
	// either side.
	for _, side := range []Side{Long, Short} {
		in := entryPrice(100, side, 0.002)
		out := exitPrice(100, side, 0.002)
		if side == Long {
			assert.Less(t, out, in)
		} else {
			assert.Greater(t, out, in)
		}
	}
}
