package summary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSwedishNumber(t *testing.T) {
	tests := []struct {
		input  string
		want   float64
		wantOK bool
	}{
		{"33 724,00", 33724, true},
		{"1.234,56", 1234.56, true},
		{"-0,25", -0.25, true},
		{"+12,5", 12.5, true},
		{"474,25", 474.25, true},
		{"1 200 000,00", 1200000, true},
		{"8", 8, true},
		{"1,2,3", 0, false},
		{"abc", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseSwedishNumber(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}

func TestSwedishNumbers(t *testing.T) {
	assert.Equal(t, []float64{0.25, 474.25, 118.56}, SwedishNumbers("0,25 474,25 118,56"))
	assert.Equal(t, []float64{3, 1200, -3600}, SwedishNumbers("3,00 1 200,00 -3 600,00"))
	assert.Empty(t, SwedishNumbers("Månadslön"))
}

func TestFirstPlausibleHours(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		max    float64
		want   float64
		wantOK bool
	}{
		{"plain", "8,00", 24, 8, true},
		{"integer", "8", 24, 8, true},
		{"over cap skipped", "25,00", 24, 0, false},
		{"over cap then plausible", "25,00 7,50", 24, 7.5, true},
		{"monthly cap", "160,00", 500, 160, true},
		{"negative skipped", "-2,00", 24, 0, false},
		{"nothing", "", 24, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := firstPlausibleHours(tt.text, tt.max)
			require.Equal(t, tt.wantOK, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestLastPlausibleMoney(t *testing.T) {
	got, ok := lastPlausibleMoney([]float64{1, 2, 20_000_000}, maxMoneySEK)
	require.True(t, ok)
	assert.Equal(t, 2.0, got)

	_, ok = lastPlausibleMoney(nil, maxMoneySEK)
	assert.False(t, ok)
}
