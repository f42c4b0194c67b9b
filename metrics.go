package main

import "math"

// stepLengthM is the assumed average stride length in meters, used to turn a
// step count into distance walked.
const stepLengthM = 0.762

// baselineSpeedKMH is the walking speed at which the calorie estimate applies
// no adjustment. Every 1 km/h above it adds 5% to the estimate.
const baselineSpeedKMH = 5.0

// BMI categories, keyed by the half-open ranges in bmiCategory.
const (
	categoryUnderweight = "Underweight"
	categoryNormal      = "Normal"
	categoryOverweight  = "Overweight"
	categoryObese       = "Obese"
)

// dietAdvice maps a BMI category to its dietary guidance shown on the
// calculator page. Display text only — never persisted.
var dietAdvice = map[string]string{
	categoryUnderweight: "Underweight – Consider a nutritious diet rich in protein and healthy fats, and aim for regular meals to gain healthy weight.",
	categoryNormal:      "Normal – Keep maintaining your healthy lifestyle with balanced diet and regular exercise.",
	categoryOverweight:  "Overweight – Include regular physical activity in your routine and follow a balanced diet to manage weight.",
	categoryObese:       "Obese – Consult a healthcare professional and adopt a structured diet and exercise plan.",
}

// workoutAdvice maps a BMI category to its workout guidance.
var workoutAdvice = map[string]string{
	categoryUnderweight: "Focus on strength training (weight lifting, push-ups, squats) and light cardio like walking or cycling.",
	categoryNormal:      "Maintain fitness with a mix of cardio and strength training. Include core and flexibility exercises.",
	categoryOverweight:  "Moderate-intensity cardio plus full-body strength training. Low-impact activities to protect joints.",
	categoryObese:       "Start with low-impact exercises and gradually increase intensity.",
}

// round2 rounds to two decimal places, the precision stored and displayed for
// all derived values.
func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// computeBMI returns weight (kg) divided by height (m) squared, rounded to two
// decimals. Callers must reject heightCM <= 0 before calling.
func computeBMI(weightKG, heightCM float64) float64 {
	heightM := heightCM / 100
	return round2(weightKG / (heightM * heightM))
}

// computeCalories estimates calories burned from walking: distance covered
// (steps times stride length) scaled by body weight and a speed factor.
// The factor is clamped at 1 so speeds below the baseline never discount
// the estimate below the plain weight*distance product.
func computeCalories(weightKG float64, steps int, speedKMH float64) float64 {
	distanceKM := float64(steps) * stepLengthM / 1000
	speedFactor := 1 + math.Max(0, speedKMH-baselineSpeedKMH)*0.05
	return round2(weightKG * distanceKM * speedFactor)
}

// bmiCategory buckets a BMI value. Ranges are half-open: 18.5 is Normal,
// 25 is Overweight, 30 is Obese.
func bmiCategory(bmi float64) string {
	switch {
	case bmi < 18.5:
		return categoryUnderweight
	case bmi < 25:
		return categoryNormal
	case bmi < 30:
		return categoryOverweight
	default:
		return categoryObese
	}
}

// adviceFor returns the diet and workout guidance for a BMI category.
func adviceFor(category string) (diet, workout string) {
	return dietAdvice[category], workoutAdvice[category]
}
