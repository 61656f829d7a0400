package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kabadi-client/internal/domain"
)

func TestLineTotalPaise(t *testing.T) {
	tests := []struct {
		weight   float64
		price    float64
		expected int64
	}{
		{10, 12, 12000},
		{2.5, 45, 11250},
		{0.333, 8, 266}, // 2.664 rounds to 2.66
		{1.005, 10, 1005},
		{0.125, 5, 63}, // 0.625 rounds half up
	}

	for _, tt := range tests {
		t.Run("", func(t *testing.T) {
			assert.Equal(t, tt.expected, LineTotalPaise(tt.weight, tt.price))
		})
	}
}

func TestCalculateBreakdown(t *testing.T) {
	items := []domain.TransactionLineItem{
		{ID: "a", MaterialType: domain.MaterialPlastic, WeightKg: 10, PricePerKg: 12},
		{ID: "b", MaterialType: domain.MaterialMetal, WeightKg: 2.5, PricePerKg: 45},
	}

	b := CalculateBreakdown(items)
	require.Len(t, b.Lines, 2)
	assert.Equal(t, int64(12000), b.Lines[0].TotalPaise)
	assert.Equal(t, int64(11250), b.Lines[1].TotalPaise)
	assert.Equal(t, int64(23250), b.TotalPaise)
	assert.Equal(t, CalculateGrandTotal(items), b.TotalPaise)
	assert.InDelta(t, 12.5, b.TotalWeightKg, 1e-9)
	assert.InDelta(t, 232.5, FromPaise(b.TotalPaise), 1e-9)
}

func TestCalculateGrandTotal_Empty(t *testing.T) {
	assert.Equal(t, int64(0), CalculateGrandTotal(nil))
}

func TestFormatRupees(t *testing.T) {
	assert.Equal(t, "₹0.05", FormatRupees(5))
	assert.Equal(t, "₹232.50", FormatRupees(23250))
	assert.Equal(t, "₹1,234,567.89", FormatRupees(123456789))
	assert.Equal(t, "-₹10.00", FormatRupees(-1000))
}

func TestParseScheduledAt(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		at, err := ParseScheduledAt("", time.UTC)
		assert.NoError(t, err)
		assert.Nil(t, at)
	})

	t.Run("Picker format", func(t *testing.T) {
		at, err := ParseScheduledAt("2024-05-01T09:30", time.UTC)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC), *at)
	})

	t.Run("Invalid", func(t *testing.T) {
		_, err := ParseScheduledAt("01/05/2024", time.UTC)
		assert.Error(t, err)
	})
}

func TestValidation(t *testing.T) {
	assert.True(t, IsValidMobile("9876543210"))
	assert.False(t, IsValidMobile("5876543210"))
	assert.False(t, IsValidMobile("987654321"))
	assert.True(t, IsValidPincode("560001"))
	assert.False(t, IsValidPincode("56001"))
	assert.False(t, IsValidPincode("56000a"))
}

func TestJoinAddress(t *testing.T) {
	assert.Equal(t, "12 MG Road, 560001", JoinAddress("12 MG Road", "  ", "560001"))
	assert.Equal(t, "", JoinAddress("", ""))
}
