package validation

import (
	"math"
	"strings"
	"time"
)

// ValidateWeight validates a body weight in kilograms
func ValidateWeight(kg float64) error {
	if math.IsNaN(kg) || kg < 20 || kg > 500 {
		return invalid("weight must be between 20 and 500 kg")
	}
	return nil
}

// ValidateHeight validates a body height in centimeters
func ValidateHeight(cm float64) error {
	if math.IsNaN(cm) || cm < 50 || cm > 272 {
		return invalid("height must be between 50 and 272 cm")
	}
	return nil
}

func ValidateGender(gender string) error {
	switch strings.ToLower(strings.TrimSpace(gender)) {
	case "male", "female", "other":
		return nil
	case "":
		return invalid("gender is required")
	}
	return invalid("gender must be male, female or other")
}

// ValidateDOB rejects birth dates in the future or more than 130 years ago
func ValidateDOB(dob time.Time, now time.Time) error {
	if dob.After(now) {
		return invalid("date of birth cannot be in the future")
	}
	if dob.Before(now.AddDate(-130, 0, 0)) {
		return invalid("date of birth is too far in the past")
	}
	return nil
}
