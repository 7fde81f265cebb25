package usecase

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"dining-concierge/internal/domain"
)

const (
	defaultLocation = "Manhattan"
	defaultCuisine  = "Italian"

	maxPartySize = 30
	dateLayout   = "2006-01-02"
)

var (
	supportedLocations = []string{"manhattan"}
	supportedCuisines  = []string{"chinese", "italian", "mexican"}
)

// ValidationResult reports the first slot that failed validation. A nil
// Message on an invalid result means the caller should fall back to the
// prompt defined on the bot model for that slot.
type ValidationResult struct {
	Valid         bool
	ViolatedField domain.Field
	Message       *string
}

func valid() ValidationResult {
	return ValidationResult{Valid: true}
}

func invalid(field domain.Field, message string) ValidationResult {
	return ValidationResult{ViolatedField: field, Message: &message}
}

func invalidNoMessage(field domain.Field) ValidationResult {
	return ValidationResult{ViolatedField: field}
}

// ValidateDiningRequest checks each supplied slot independently, in fixed
// order (location, cuisine, party size, date, time); the first failure wins.
// Nil slots are treated as not yet supplied and pass. The current time is an
// explicit argument so the function stays deterministic.
func ValidateDiningRequest(slots domain.SlotValues, now time.Time) ValidationResult {
	if slots.Location != nil && !memberFold(supportedLocations, *slots.Location) {
		return invalid(domain.FieldLocation, fmt.Sprintf(
			"We do not have dining suggestions for %s, would you like suggestions for another location? "+
				"Our most popular location is %s.", *slots.Location, defaultLocation))
	}

	if slots.Cuisine != nil && !memberFold(supportedCuisines, *slots.Cuisine) {
		return invalid(domain.FieldCuisine, fmt.Sprintf(
			"We do not have suggestions for %s, would you like suggestions for another cuisine? "+
				"Our most popular cuisine is %s.", *slots.Cuisine, defaultCuisine))
	}

	if slots.PartySize != nil {
		n, err := strconv.Atoi(strings.TrimSpace(*slots.PartySize))
		if err != nil || n <= 0 || n >= maxPartySize {
			return invalid(domain.FieldPartySize, fmt.Sprintf(
				"%s does not look like a valid party size, please enter a number below %d.",
				*slots.PartySize, maxPartySize))
		}
	}

	if slots.DiningDate != nil {
		date, err := time.Parse(dateLayout, *slots.DiningDate)
		if err != nil {
			return invalid(domain.FieldDiningDate,
				"I did not understand that, what date would you like for your suggestion?")
		}
		if date.Before(startOfDay(now)) {
			return invalid(domain.FieldDiningDate,
				"You can pick a date from today onwards. What day would you like for your suggestion?")
		}
	}

	if slots.DiningTime != nil {
		minutes, ok := parseClock(*slots.DiningTime)
		if !ok {
			// Malformed time; the bot model's own prompt is used.
			return invalidNoMessage(domain.FieldDiningTime)
		}
		if slots.DiningDate != nil && sameDay(slots.DiningDate, now) && minutes <= now.Hour()*60+now.Minute() {
			return invalid(domain.FieldDiningTime, "Please select a time in the future.")
		}
	}

	return valid()
}

func memberFold(set []string, v string) bool {
	for _, s := range set {
		if strings.EqualFold(s, strings.TrimSpace(v)) {
			return true
		}
	}
	return false
}

// parseClock parses a strict HH:MM value into minutes since midnight.
func parseClock(v string) (int, bool) {
	if len(v) != 5 || v[2] != ':' {
		return 0, false
	}
	hour, err := strconv.Atoi(v[:2])
	if err != nil {
		return 0, false
	}
	minute, err := strconv.Atoi(v[3:])
	if err != nil {
		return 0, false
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, false
	}
	return hour*60 + minute, true
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func sameDay(diningDate *string, now time.Time) bool {
	date, err := time.Parse(dateLayout, *diningDate)
	if err != nil {
		return false
	}
	y1, m1, d1 := date.Date()
	y2, m2, d2 := now.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
