package utils

import (
	"errors"
	"math"
)

// BMI is a body-mass index with its WHO category.
type BMI struct {
	Value    float64 `json:"value"`
	Category string  `json:"category"`
}

// CalculateBMI expects height in centimeters and weight in kilograms.
func CalculateBMI(heightCm, weightKg float64) (float64, error) {
	if heightCm <= 0 || weightKg <= 0 {
		return 0, errors.New("height and weight must be positive")
	}
	// Sanity checks to avoid garbage input
	if heightCm < 50 || heightCm > 250 || weightKg < 10 || weightKg > 400 {
		return 0, errors.New("height/weight out of plausible range")
	}

	h := heightCm / 100.0
	return weightKg / (h * h), nil
}

// BMIFromForm derives the BMI from the questionnaire answers, if present and plausible.
func BMIFromForm(form map[string]any) (*BMI, bool) {
	v, err := CalculateBMI(FormNumber(form, FormHeight), FormNumber(form, FormWeight))
	if err != nil {
		return nil, false
	}
	v = math.Round(v*10) / 10
	return &BMI{Value: v, Category: BMICategory(v)}, true
}

func BMICategory(bmi float64) string {
	switch {
	case bmi < 18.5:
		return "Underweight"
	case bmi < 25.0:
		return "Normal weight"
	case bmi < 30.0:
		return "Overweight"
	case bmi < 35.0:
		return "Obesity class I"
	case bmi < 40.0:
		return "Obesity class II"
	default:
		return "Obesity class III"
	}
}
