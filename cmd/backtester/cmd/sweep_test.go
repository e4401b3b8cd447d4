package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rustyeddy/backtester/strategies"
)

func TestParseRange(t *testing.T) {
	vals, err := parseRange("5:20:5")
	assert.NoError(t, err)
	assert.Equal(t, []int{5, 10, 15, 20}, vals)

	vals, err = parseRange("7:7:1")
	assert.NoError(t, err)
	assert.Equal(t, []int{7}, vals)

	vals, err = parseRange("")
	assert.NoError(t, err)
	assert.Nil(t, vals)

	for _, bad := range []string{"5:20", "a:b:c", "5:20:0", "20:5:5", "0:10:2"} {
		_, err := parseRange(bad)
		assert.Error(t, err, bad)
	}
}

func TestBuildGridSkipsInvertedPairs(t *testing.T) {
	sweepFastRange = "10:20:10"
	sweepSlowRange = "10:30:10"
	sweepPeriodRange = ""
	defer func() { sweepFastRange, sweepSlowRange = "", "" }()

	grid, err := buildGrid(strategies.Params{})
	assert.NoError(t, err)

	// fast must stay strictly below slow.
	for _, p := range grid {
		assert.Less(t, p.Fast, p.Slow)
	}
	// 10/20, 10/30, 20/30.
	assert.Len(t, grid, 3)
}

func TestBuildGridEmptyWithoutRanges(t *testing.T) {
	sweepFastRange, sweepSlowRange, sweepPeriodRange = "", "", ""

	grid, err := buildGrid(strategies.Params{})
	assert.NoError(t, err)
	assert.Empty(t, grid)
}
