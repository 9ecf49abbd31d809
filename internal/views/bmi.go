// ABOUTME: Body mass index calculator.
// ABOUTME: Height in centimetres, weight in kilograms, rounded to one decimal.
package views

import (
	"fmt"
	"math"
)

// BMIResult is a computed BMI with its category.
type BMIResult struct {
	Value    float64 `json:"value"`
	Category string  `json:"category"`
}

func (r BMIResult) String() string {
	return fmt.Sprintf("%.1f (%s)", r.Value, r.Category)
}

// BMI computes body mass index from height in cm and weight in kg.
func BMI(heightCM, weightKG float64) (BMIResult, error) {
	if heightCM <= 0 || weightKG <= 0 {
		return BMIResult{}, fmt.Errorf("please enter valid height and weight")
	}
	meters := heightCM / 100
	value := math.Round(weightKG/(meters*meters)*10) / 10

	var category string
	switch {
	case value < 18.5:
		category = "Underweight"
	case value < 24.9:
		category = "Normal weight"
	case value < 29.9:
		category = "Overweight"
	default:
		category = "Obesity"
	}
	return BMIResult{Value: value, Category: category}, nil
}
