package mines

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name    string
		params  Params
		hazards int
		valid   bool
	}{
		{name: "original", params: Params{16, 0.16}, hazards: 40, valid: true},
		{name: "empty", params: Params{4, 0}, hazards: 0, valid: true},
		{name: "full", params: Params{3, 1}, hazards: 9, valid: true},
		{name: "single cell", params: Params{1, 0.5}, hazards: 0, valid: true},
		{name: "zero size", params: Params{0, 0.1}},
		{name: "negative size", params: Params{-3, 0.1}},
		{name: "overfull", params: Params{4, 1.5}},
		{name: "negative density", params: Params{4, -0.1}},
		{name: "nan", params: Params{4, math.NaN()}},
		{name: "inf", params: Params{4, math.Inf(1)}},
		{name: "size squared overflows", params: Params{1 << 32, 0.5}},
		{name: "max int size", params: Params{math.MaxInt, 0}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := test.params.Validate()
			if !test.valid {
				require.ErrorIs(t, err, ErrConfiguration)
				var ce *ConfigError
				require.ErrorAs(t, err, &ce)
				assert.Equal(t, test.params.Size, ce.Size)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.hazards, test.params.HazardCount())
		})
	}
}

func TestNewBoardRejectsOverflowingSize(t *testing.T) {
	b, err := NewBoard(1<<32, 0.5, nil)
	require.ErrorIs(t, err, ErrConfiguration)
	assert.Nil(t, b)

	b, err = NewBoardWithHazards(1<<32, nil)
	require.ErrorIs(t, err, ErrConfiguration)
	assert.Nil(t, b)
}

func TestParseParams(t *testing.T) {
	p, err := ParseParams("16:0.16")
	require.NoError(t, err)
	assert.Equal(t, Params{Size: 16, Density: 0.16}, *p)
	assert.Equal(t, "16:0.16", p.String())

	for _, s := range []string{"", "16", "a:0.1", "16:b", "16:0.1:3"} {
		_, err := ParseParams(s)
		assert.Error(t, err, s)
	}
}
