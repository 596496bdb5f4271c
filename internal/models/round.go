package models

import "math"

// Rounding conventions, applied consistently across the codebase:
// one decimal for continuous physical quantities (temperature, humidity,
// heart rates, RMSSD, SDNN, pNN50), integer for power and interval
// quantities (mean/median/range NNI, total power, LF, HF), two decimals
// for the LF/HF ratio, three for confidence and CV of NNI, four for the
// composite risk score.

// Round1 rounds to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round3 rounds to three decimal places.
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// Round4 rounds to four decimal places.
func Round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

// RoundInt rounds to the nearest integer, returned as float64 so interval
// and power fields keep a uniform numeric type.
func RoundInt(v float64) float64 {
	return math.Round(v)
}
