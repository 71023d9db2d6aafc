package utils

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// RoundHours rounds an hour quantity half away from zero to places decimals.
func RoundHours(hours float64, places int32) float64 {
	return decimal.NewFromFloat(hours).Round(places).InexactFloat64()
}

// Percentage returns part/whole*100 rounded to places decimals, 0 when whole is 0.
func Percentage(part, whole float64, places int32) float64 {
	if whole == 0 {
		return 0
	}
	p := decimal.NewFromFloat(part).Div(decimal.NewFromFloat(whole)).Mul(decimal.NewFromInt(100))
	return p.Round(places).InexactFloat64()
}

// FormatEffectiveHours renders hours as "H:MM", suffixed with "+" while a
// session is still running.
func FormatEffectiveHours(hours float64, active bool) string {
	if hours <= 0 {
		if active {
			return "0:00+"
		}
		return "0:00"
	}
	totalMinutes := decimal.NewFromFloat(hours).Mul(decimal.NewFromInt(60)).IntPart()
	label := fmt.Sprintf("%d:%02d", totalMinutes/60, totalMinutes%60)
	if active {
		label += "+"
	}
	return label
}
