package utils

import (
	"fmt"
	"math"
	"strings"
	"time"

	"kabadi-client/internal/domain"
)

// TransactionBreakdown is the confirm-screen summary of a purchase list
type TransactionBreakdown struct {
	Lines         []LineTotal
	TotalWeightKg float64
	TotalPaise    int64
}

// LineTotal is one priced line of a TransactionBreakdown
type LineTotal struct {
	ItemID     string
	Material   domain.MaterialType
	WeightKg   float64
	PricePerKg float64
	TotalPaise int64
}

// ToPaise converts a rupee amount to paise, rounding half away from zero
func ToPaise(rupees float64) int64 {
	return int64(math.Round(rupees * 100))
}

// FromPaise converts paise back to rupees
func FromPaise(paise int64) float64 {
	return float64(paise) / 100
}

// LineTotalPaise prices weightKg at pricePerKg. The product is rounded once,
// so totals match what the backend charges for the same line.
func LineTotalPaise(weightKg, pricePerKg float64) int64 {
	return ToPaise(weightKg * pricePerKg)
}

// CalculateGrandTotal sums weight x price over items, in paise
func CalculateGrandTotal(items []domain.TransactionLineItem) int64 {
	var total int64
	for _, it := range items {
		total += LineTotalPaise(it.WeightKg, it.PricePerKg)
	}
	return total
}

// CalculateBreakdown prices every line and the grand total
func CalculateBreakdown(items []domain.TransactionLineItem) TransactionBreakdown {
	b := TransactionBreakdown{Lines: make([]LineTotal, 0, len(items))}
	for _, it := range items {
		line := LineTotal{
			ItemID:     it.ID,
			Material:   it.MaterialType,
			WeightKg:   it.WeightKg,
			PricePerKg: it.PricePerKg,
			TotalPaise: LineTotalPaise(it.WeightKg, it.PricePerKg),
		}
		b.Lines = append(b.Lines, line)
		b.TotalWeightKg += it.WeightKg
		b.TotalPaise += line.TotalPaise
	}
	return b
}

// FormatRupees renders paise as "₹1,234.50"
func FormatRupees(paise int64) string {
	sign := ""
	if paise < 0 {
		sign = "-"
		paise = -paise
	}
	whole := paise / 100
	frac := paise % 100

	digits := fmt.Sprintf("%d", whole)
	var grouped strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteRune(d)
	}
	return fmt.Sprintf("%s₹%s.%02d", sign, grouped.String(), frac)
}

// ParseScheduledAt reads a pickup time as entered in a date-time picker
// ("2006-01-02T15:04", seconds optional). An empty string means unscheduled.
func ParseScheduledAt(value string, loc *time.Location) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range []string{"2006-01-02T15:04", "2006-01-02T15:04:05", "2006-01-02 15:04"} {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid scheduled time %q, expected yyyy-mm-ddThh:mm", value)
}
