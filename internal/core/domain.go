package core

import (
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

const (
	Monthly  Cadence = "monthly"
	Biweekly Cadence = "biweekly"
)

const (
	ViewBiweek View = "biweek"
	ViewMonth  View = "month"
	ViewYear   View = "year"
)

const (
	LimitMonth  LimitPeriod = "month"
	LimitBiweek LimitPeriod = "biweek"
)

const (
	Food          Category = "Food"
	Transport     Category = "Transport"
	Entertainment Category = "Entertainment"
	Subscriptions Category = "Subscriptions"
	Bills         Category = "Bills"
	Drinks        Category = "Drinks"
	Other         Category = "Other"
)

// MaxNoteLength bounds transaction notes and rule names.
const MaxNoteLength = 200

// Categories is the canonical category order used for legends and charts.
var Categories = []Category{Food, Transport, Entertainment, Subscriptions, Bills, Drinks, Other}

type (
	Cadence     string
	View        string
	LimitPeriod string
	Category    string

	Transaction struct {
		ID       string   `json:"id"`
		Date     Date     `json:"date"`
		Amount   Money    `json:"amount"`
		Category Category `json:"category"`
		Note     string   `json:"note"`
	}

	RecurringRule struct {
		ID       string   `json:"id"`
		Name     string   `json:"name"`
		Amount   Money    `json:"amount"`
		Category Category `json:"category"`
		Cadence  Cadence  `json:"cadence"`
		NextRun  Date     `json:"nextRunISO"`
		LastRun  Date     `json:"lastRunISO"` // zero when the rule never fired
	}

	Settings struct {
		AnchorStart      Date               `json:"anchorStartISO"`
		DefaultPaycheck  Money              `json:"defaultPaycheck"`
		LimitPeriod      LimitPeriod        `json:"limitPeriod"`
		CategoryLimits   map[Category]Money `json:"categoryLimits"`
		LastAutoGenerate Date               `json:"lastAutoGenerateISO"`
	}

	// IncomeByPeriod maps a canonical period start to an income override.
	IncomeByPeriod map[Date]Money
)

// DefaultAnchor is the anchor used when none is configured or the configured one is unusable.
var DefaultAnchor = NewDate(2026, 1, 2)

// DefaultSettings returns the settings a user has before saving any.
func DefaultSettings() Settings {
	return Settings{
		AnchorStart:     DefaultAnchor,
		DefaultPaycheck: Zero,
		LimitPeriod:     LimitMonth,
		CategoryLimits:  map[Category]Money{},
	}
}

// IsCanonical reports whether c belongs to the fixed category set.
func (c Category) IsCanonical() bool {
	return c.Rank() >= 0
}

// Rank returns the position of c in Categories, or -1.
func (c Category) Rank() int {
	for i, known := range Categories {
		if known == c {
			return i
		}
	}
	return -1
}

func (c Cadence) IsValid() bool {
	return c == Monthly || c == Biweekly
}

// ParseView converts a selector string into a View.
func ParseView(s string) (View, error) {
	switch v := View(strings.ToLower(strings.TrimSpace(s))); v {
	case ViewBiweek, ViewMonth, ViewYear:
		return v, nil
	case "":
		return ViewBiweek, nil
	default:
		return "", &ValidationError{Field: "view", Err: ErrInvalidView}
	}
}

func (p LimitPeriod) IsValid() bool {
	return p == LimitMonth || p == LimitBiweek
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return &ValidationError{Field: "id", Err: ErrEmptyID}
	}
	if !t.Date.IsValid() {
		return &ValidationError{Field: "date", Err: ErrInvalidDate}
	}
	if !t.Amount.IsPositive() {
		return &ValidationError{Field: "amount", Err: ErrInvalidAmount}
	}
	if !t.Category.IsCanonical() {
		return &ValidationError{Field: "category", Err: ErrInvalidCategory}
	}
	if len(t.Note) > MaxNoteLength {
		return &ValidationError{Field: "note", Err: ErrTooLong}
	}
	return nil
}

func (r RecurringRule) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return &ValidationError{Field: "id", Err: ErrEmptyID}
	}
	if strings.TrimSpace(r.Name) == "" {
		return &ValidationError{Field: "name", Err: ErrEmptyName}
	}
	if len(r.Name) > MaxNoteLength {
		return &ValidationError{Field: "name", Err: ErrTooLong}
	}
	if !r.Amount.IsPositive() {
		return &ValidationError{Field: "amount", Err: ErrInvalidAmount}
	}
	if !r.Category.IsCanonical() {
		return &ValidationError{Field: "category", Err: ErrInvalidCategory}
	}
	if !r.Cadence.IsValid() {
		return &ValidationError{Field: "cadence", Err: ErrInvalidCadence}
	}
	if !r.NextRun.IsValid() {
		return &ValidationError{Field: "nextRunISO", Err: ErrInvalidDate}
	}
	if !r.LastRun.IsEmpty() && !r.LastRun.IsValid() {
		return &ValidationError{Field: "lastRunISO", Err: ErrInvalidDate}
	}
	return nil
}

// IsDue reports whether the rule should fire on or before today.
func (r RecurringRule) IsDue(today Date) bool {
	return r.NextRun.IsValid() && !r.NextRun.After(today)
}

func (s Settings) Validate() error {
	if !s.AnchorStart.IsValid() {
		return &ValidationError{Field: "anchorStartISO", Err: ErrInvalidDate}
	}
	if s.DefaultPaycheck.IsNegative() {
		return &ValidationError{Field: "defaultPaycheck", Err: ErrInvalidAmount}
	}
	if !s.LimitPeriod.IsValid() {
		return &ValidationError{Field: "limitPeriod", Err: ErrInvalidLimitPeriod}
	}
	for cat, limit := range s.CategoryLimits {
		if limit.IsNegative() {
			return &ValidationError{Field: "categoryLimits." + string(cat), Err: ErrInvalidAmount}
		}
	}
	return nil
}

// Paycheck returns the income for the period starting at start, falling back to def.
func (m IncomeByPeriod) Paycheck(start Date, def Money) Money {
	if amount, ok := m[start]; ok {
		return amount
	}
	return def
}

// Today returns the calendar date of now in loc.
func Today(now time.Time, loc *time.Location) Date {
	if loc == nil {
		loc = time.UTC
	}
	return Date{Date: civil.DateOf(now.In(loc))}
}
