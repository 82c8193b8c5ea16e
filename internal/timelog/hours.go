package timelog

import (
	"math"
	"strconv"
	"strings"

	"team-timelog/internal/models"
)

const (
	MinHours = 0
	MaxHours = 24
)

// ValidateHours accepts any finite value in [MinHours, MaxHours].
func ValidateHours(h float64) error {
	if math.IsNaN(h) || math.IsInf(h, 0) || h < MinHours || h > MaxHours {
		return &models.ValidationError{Field: "hours", Message: "hours must be between 0 and 24"}
	}
	return nil
}

// ParseHours reads a form value and validates it.
func ParseHours(s string) (float64, error) {
	h, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, &models.ValidationError{Field: "hours", Message: "hours must be a number"}
	}
	if err := ValidateHours(h); err != nil {
		return 0, err
	}
	return h, nil
}

// RoundHours rounds a sum of hours to two decimals, the precision hours are
// stored with.
func RoundHours(h float64) float64 {
	return math.Round(h*100) / 100
}

// FormatHours renders hours without trailing zeros: 5 -> "5", 7.5 -> "7.5".
func FormatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64)
}
