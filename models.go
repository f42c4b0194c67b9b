package main

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

/* ─── Domain structs ─────────────────────────────────────────────────── */

// user maps to the users table. PasswordHash is hidden from JSON responses.
type user struct {
	ID           string     `json:"id" db:"id"`
	Username     string     `json:"username" db:"username"`
	PasswordHash string     `json:"-" db:"password_hash"`
	CreatedAt    *time.Time `json:"created_at" db:"created_at"`
}

// healthRecord maps to health_records. BMI and Calories are derived from the
// other fields at save time and are nullable pointers so pgx can scan NULLs.
// They are never taken from client input — create and edit recompute both.
type healthRecord struct {
	ID        int64     `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Gender    string    `json:"gender" db:"gender"`
	WeightKG  float64   `json:"weight_kg" db:"weight_kg"`
	HeightCM  float64   `json:"height_cm" db:"height_cm"`
	BMI       *float64  `json:"bmi" db:"bmi"`
	Calories  *float64  `json:"calories" db:"calories"`
	Steps     int       `json:"steps" db:"steps"`
	SpeedKMH  float64   `json:"speed_kmh" db:"speed_kmh"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

/* ─── Calculator form ────────────────────────────────────────────────── */

// validGenders is the set of accepted values for the gender choice field.
var validGenders = map[string]bool{
	"Male":   true,
	"Female": true,
}

// healthInput is the validated calculator form. Steps and SpeedKMH default to
// zero when the fields are left blank.
type healthInput struct {
	WeightKG float64
	HeightCM float64
	Gender   string
	Steps    int
	SpeedKMH float64
}

// parseHealthInput validates the calculator form values into a typed struct.
// Returns a field→message map; an empty map means the input is valid and the
// struct is fully populated. Zero and negative weight/height are rejected
// here so division by zero can never reach computeBMI.
func parseHealthInput(form url.Values) (healthInput, map[string]string) {
	var in healthInput
	errs := make(map[string]string)

	weightStr := strings.TrimSpace(form.Get("weight"))
	if weightStr == "" {
		errs["weight"] = "weight is required"
	} else if w, err := strconv.ParseFloat(weightStr, 64); err != nil {
		errs["weight"] = "weight must be a number"
	} else if w <= 0 {
		errs["weight"] = "weight must be greater than zero"
	} else {
		in.WeightKG = w
	}

	heightStr := strings.TrimSpace(form.Get("height"))
	if heightStr == "" {
		errs["height"] = "height is required"
	} else if h, err := strconv.ParseFloat(heightStr, 64); err != nil {
		errs["height"] = "height must be a number"
	} else if h <= 0 {
		errs["height"] = "height must be greater than zero"
	} else {
		in.HeightCM = h
	}

	gender := strings.TrimSpace(form.Get("gender"))
	if gender == "" {
		errs["gender"] = "gender is required"
	} else if !validGenders[gender] {
		errs["gender"] = "gender must be Male or Female"
	} else {
		in.Gender = gender
	}

	if stepsStr := strings.TrimSpace(form.Get("steps")); stepsStr != "" {
		if s, err := strconv.Atoi(stepsStr); err != nil {
			errs["steps"] = "steps must be a whole number"
		} else if s < 0 {
			errs["steps"] = "steps must not be negative"
		} else {
			in.Steps = s
		}
	}

	if speedStr := strings.TrimSpace(form.Get("speed")); speedStr != "" {
		if v, err := strconv.ParseFloat(speedStr, 64); err != nil {
			errs["speed"] = "speed must be a number"
		} else if v < 0 {
			errs["speed"] = "speed must not be negative"
		} else {
			in.SpeedKMH = v
		}
	}

	return in, errs
}

/* ─── Chart data ─────────────────────────────────────────────────────── */

// chartData holds the parallel arrays the history chart consumes. Records
// missing a derived value chart as zero rather than breaking the series.
type chartData struct {
	Dates    []string
	BMIs     []float64
	Calories []float64
	Steps    []int
}

// buildChartData shapes an ordered record list into chart series. Order is
// preserved, so callers must pass records ascending by creation time.
func buildChartData(records []healthRecord) chartData {
	cd := chartData{
		Dates:    make([]string, 0, len(records)),
		BMIs:     make([]float64, 0, len(records)),
		Calories: make([]float64, 0, len(records)),
		Steps:    make([]int, 0, len(records)),
	}
	for _, r := range records {
		cd.Dates = append(cd.Dates, r.CreatedAt.Format("2006-01-02"))
		if r.BMI != nil {
			cd.BMIs = append(cd.BMIs, *r.BMI)
		} else {
			cd.BMIs = append(cd.BMIs, 0)
		}
		if r.Calories != nil {
			cd.Calories = append(cd.Calories, *r.Calories)
		} else {
			cd.Calories = append(cd.Calories, 0)
		}
		cd.Steps = append(cd.Steps, r.Steps)
	}
	return cd
}
