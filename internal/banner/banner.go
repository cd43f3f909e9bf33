// Package banner models recruitment banners from the remote feed and the
// filtering, searching and ordering applied before they are shown.
package banner

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Type tags a banner.
type Type string

const (
	TypeNew    Type = "New"
	TypeRerun  Type = "Rerun"
	TypeFes    Type = "Fes"
	TypeCollab Type = "Collab"
)

var ErrInvalidDate = errors.New("invalid date")

// InvalidDateError reports a record whose date does not parse.
type InvalidDateError struct {
	ID    string
	Field string
	Value string
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("banner %q: invalid %s %q", e.ID, e.Field, e.Value)
}

func (e *InvalidDateError) Unwrap() error { return ErrInvalidDate }

// Character is a student featured on a banner.
type Character struct {
	ID        string `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	Image     string `json:"image,omitempty" yaml:"image,omitempty"`
	Rarity    int    `json:"rarity" yaml:"rarity"`
	AtkType   string `json:"atkType,omitempty" yaml:"atkType,omitempty"`
	DefType   string `json:"defType,omitempty" yaml:"defType,omitempty"`
	IsNew     bool   `json:"isNew,omitempty" yaml:"isNew,omitempty"`
	IsLimited bool   `json:"isLimited,omitempty" yaml:"isLimited,omitempty"`
	Class     string `json:"class,omitempty" yaml:"class,omitempty"`
}

// Record is a banner as the feed delivers it, dates still unparsed.
type Record struct {
	ID           string      `json:"id" yaml:"id"`
	StartDate    string      `json:"startDate" yaml:"startDate"`
	EndDate      string      `json:"endDate" yaml:"endDate"`
	Type         Type        `json:"type" yaml:"type"`
	Characters   []Character `json:"characters" yaml:"characters"`
	EventDetails string      `json:"eventDetails,omitempty" yaml:"eventDetails,omitempty"`
	Rewards      []string    `json:"rewards,omitempty" yaml:"rewards,omitempty"`
}

// Banner is a parsed Record. StartDate is zero when the feed's start date
// did not parse.
type Banner struct {
	ID           string      `json:"id"`
	StartDate    time.Time   `json:"startDate"`
	EndDate      time.Time   `json:"endDate"`
	Type         Type        `json:"type"`
	Characters   []Character `json:"characters"`
	EventDetails string      `json:"eventDetails,omitempty"`
	Rewards      []string    `json:"rewards,omitempty"`
}

// MaxRarity is the highest rarity among the featured characters, 0 if none.
func (b Banner) MaxRarity() int {
	m := 0
	for _, c := range b.Characters {
		if c.Rarity > m {
			m = c.Rarity
		}
	}
	return m
}

// Layouts accepted by ParseDate. Zone-less values are read as UTC.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"Jan 2, 2006",
	"January 2, 2006",
	time.RFC1123,
	time.RFC1123Z,
}

// ParseDate parses the date formats seen in the banner feed.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrInvalidDate
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidDate
}

// ParseRecord converts a feed record. Only a bad end date is an error.
func ParseRecord(r Record) (Banner, error) {
	end, err := ParseDate(r.EndDate)
	if err != nil {
		return Banner{}, &InvalidDateError{ID: r.ID, Field: "endDate", Value: r.EndDate}
	}
	start, _ := ParseDate(r.StartDate)
	chars := r.Characters
	if chars == nil {
		chars = []Character{}
	}
	return Banner{
		ID:           r.ID,
		StartDate:    start,
		EndDate:      end,
		Type:         r.Type,
		Characters:   chars,
		EventDetails: r.EventDetails,
		Rewards:      r.Rewards,
	}, nil
}

// FilterActive keeps records whose end date parses and is strictly after
// now, in feed order. Unparsable records are dropped.
func FilterActive(records []Record, now time.Time) []Banner {
	active, _ := FilterActiveReport(records, now)
	return active
}

// FilterActiveReport is FilterActive that also returns why records with
// bad dates were dropped.
func FilterActiveReport(records []Record, now time.Time) ([]Banner, []error) {
	active := make([]Banner, 0, len(records))
	var dropped []error
	for _, r := range records {
		b, err := ParseRecord(r)
		if err != nil {
			dropped = append(dropped, err)
			continue
		}
		if b.EndDate.After(now) {
			active = append(active, b)
		}
	}
	return active, dropped
}
