package balance

import (
	"math"
	"math/big"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func exactString(raw uint64, decimals uint8, places int) string {
	unit := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	return new(big.Rat).SetFrac(new(big.Int).SetUint64(raw), unit).FloatString(places)
}

func naiveString(raw uint64, decimals uint8, places int) string {
	return strconv.FormatFloat(float64(raw)/math.Pow10(int(decimals)), 'f', places, 64)
}

func TestFormatUnits(t *testing.T) {
	tests := []struct {
		raw      uint64
		decimals uint8
		want     string
	}{
		{raw: 0, decimals: 8, want: "0"},
		{raw: 1, decimals: 8, want: "0.00000001"},
		{raw: 150000000, decimals: 8, want: "1.5"},
		{raw: 100000000, decimals: 8, want: "1"},
		{raw: 123456, decimals: 0, want: "123456"},
		{raw: 1234567, decimals: 6, want: "1.234567"},
		{raw: math.MaxUint64, decimals: 8, want: "184467440737.09551615"},
		{raw: 5, decimals: 24, want: "0.000000000000000000000005"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatUnits(tt.raw, tt.decimals))
		})
	}
}

func TestLargeBalancesNeedWholeRemainderSplit(t *testing.T) {
	values := []uint64{
		1<<53 + 1,
		math.MaxUint64,
		18446744073709551557,
	}

	diverged := 0
	for _, raw := range values {
		exact := exactString(raw, 8, 8)

		assert.Equal(t, exact, ToDecimal(raw, 8).StringFixed(8), "whole/remainder split matches exact arithmetic for %d", raw)

		if naiveString(raw, 8, 8) != exact {
			diverged++
		}
	}

	assert.Positive(t, diverged, "a single float division must lose precision for at least one value")
	assert.NotEqual(t, exactString(1<<53+1, 8, 8), naiveString(1<<53+1, 8, 8))
}

func TestToDecimal(t *testing.T) {
	assert.Equal(t, "1.5", ToDecimal(150000000, 8).String())
	assert.Equal(t, "0", ToDecimal(0, 6).String())
	assert.Equal(t, "42", ToDecimal(42, 0).String())
}

func TestParseUnits(t *testing.T) {
	tests := []struct {
		amount   string
		decimals uint8
		want     uint64
		wantErr  bool
	}{
		{amount: "1.5", decimals: 8, want: 150000000},
		{amount: "0.00000001", decimals: 8, want: 1},
		{amount: " 42 ", decimals: 0, want: 42},
		{amount: "184467440737.09551615", decimals: 8, want: math.MaxUint64},
		{amount: "184467440737.09551616", decimals: 8, wantErr: true},
		{amount: "0.000000001", decimals: 8, wantErr: true},
		{amount: "-1", decimals: 8, wantErr: true},
		{amount: "one", decimals: 8, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			got, err := ParseUnits(tt.amount, tt.decimals)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, strings.TrimSpace(tt.amount), FormatUnits(got, tt.decimals))
		})
	}
}
