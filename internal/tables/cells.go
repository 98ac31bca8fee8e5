package tables

import (
	"math"
	"strconv"
	"strings"
)

// FormatFloat renders v the way the engine's dataframes are written:
// shortest round-trip form, empty for a missing value.
func FormatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// FormatBool uses the capitalized spelling the engine writes.
func FormatBool(v bool) string {
	if v {
		return "True"
	}
	return "False"
}

// ParseFloat accepts an empty cell, "NA" or "NaN" as missing.
func ParseFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "", "NA", "nan", "NaN":
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, 64)
}

func ParseBool(s string) (bool, error) { return strconv.ParseBool(strings.TrimSpace(s)) }
