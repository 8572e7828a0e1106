// Package vitals implements the vital-sign formulas used across the cabinet:
// body mass index and Mosteller body surface area.
package vitals

import "math"

// BSA computes the body surface area with the Mosteller formula:
// sqrt((height_cm * weight_kg) / 3600), rounded to 2 decimals.
// Returns nil when either input is missing or non-positive.
func BSA(weightKg, heightCm *float64) *float64 {
	if weightKg == nil || heightCm == nil || *weightKg <= 0 || *heightCm <= 0 {
		return nil
	}
	bsa := math.Sqrt((*heightCm * *weightKg) / 3600)
	rounded := math.Round(bsa*100) / 100
	return &rounded
}

// BMI computes weight_kg / (height_m)^2, rounded to 1 decimal.
// Height is in centimeters. Returns nil when either input is missing or
// non-positive.
func BMI(weightKg, heightCm *float64) *float64 {
	if weightKg == nil || heightCm == nil || *weightKg <= 0 || *heightCm <= 0 {
		return nil
	}
	heightM := *heightCm / 100
	bmi := *weightKg / (heightM * heightM)
	rounded := math.Round(bmi*10) / 10
	return &rounded
}

// BSA reference categories. Normal range is 1.7 - 2.0 m².
const (
	BSACategoryNotComputable = "non_calculable"
	BSACategoryVeryLow       = "tres_faible"
	BSACategoryLow           = "faible"
	BSACategoryNormal        = "normal"
	BSACategoryHigh          = "eleve"
)

// CategorizeBSA maps a body surface area to its reference category.
func CategorizeBSA(bsa *float64) string {
	if bsa == nil || *bsa <= 0 {
		return BSACategoryNotComputable
	}
	switch {
	case *bsa < 1.5:
		return BSACategoryVeryLow
	case *bsa < 1.7:
		return BSACategoryLow
	case *bsa <= 2.0:
		return BSACategoryNormal
	default:
		return BSACategoryHigh
	}
}
