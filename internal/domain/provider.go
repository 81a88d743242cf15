package domain

import (
	"fmt"
	"strings"
)

type Weekday string

const (
	Monday    Weekday = "Mon"
	Tuesday   Weekday = "Tue"
	Wednesday Weekday = "Wed"
	Thursday  Weekday = "Thu"
	Friday    Weekday = "Fri"
	Saturday  Weekday = "Sat"
	Sunday    Weekday = "Sun"
)

var weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

func ParseWeekday(token string) (Weekday, error) {
	for _, day := range weekdays {
		if string(day) == token {
			return day, nil
		}
	}
	return "", fmt.Errorf("unknown weekday token %q", token)
}

// ParsePreferredDays decodes the `;`-separated weekday list used by the
// providers CSV schema, e.g. "Mon;Wed;Fri". An empty string means no
// preference.
func ParsePreferredDays(s string) ([]Weekday, error) {
	if s == "" {
		return []Weekday{}, nil
	}

	tokens := strings.Split(s, ";")
	days := make([]Weekday, 0, len(tokens))
	for _, token := range tokens {
		day, err := ParseWeekday(token)
		if err != nil {
			return nil, err
		}
		days = append(days, day)
	}

	return days, nil
}

func FormatPreferredDays(days []Weekday) string {
	tokens := make([]string, 0, len(days))
	for _, day := range days {
		tokens = append(tokens, string(day))
	}
	return strings.Join(tokens, ";")
}

type Provider struct {
	ID                  int64     `json:"id"`
	Name                string    `json:"name"`
	Specialty           string    `json:"specialty"`
	PreferredShiftStart string    `json:"preferredShiftStart"` // "15:04"
	PreferredShiftEnd   string    `json:"preferredShiftEnd"`   // "15:04"
	PreferredDays       []Weekday `json:"preferredDays"`
}
