package domain

import (
	"fmt"
	"time"
)

// Gender is restricted to the three values the registration form offers.
type Gender string

const (
	Male   Gender = "Male"
	Female Gender = "Female"
	Other  Gender = "Other"
)

// ParseGender converts free input into a Gender value.
func ParseGender(s string) (Gender, error) {
	switch Gender(s) {
	case Male, Female, Other:
		return Gender(s), nil
	default:
		return "", fmt.Errorf("unknown gender %q", s)
	}
}

// DateLayout is the calendar-date form profiles are stored with.
const DateLayout = "2006-01-02"

// UserProfile is created once at first successful sign-in completion.
// The identifier is provider-assigned and immutable; there is no deletion path.
type UserProfile struct {
	ID          string
	Name        string
	DateOfBirth string // calendar date, DateLayout
	Gender      Gender
}

// ParseDateOfBirth checks that the stored calendar date is well formed.
func (p UserProfile) ParseDateOfBirth() (time.Time, error) {
	return time.Parse(DateLayout, p.DateOfBirth)
}
