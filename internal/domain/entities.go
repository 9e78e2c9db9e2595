package domain

import (
	"encoding/json"
	"errors"
)

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is a single message in a conversation. History is passed by value
// into the prompt builder; the caller's slice is never mutated.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// KeywordCategory is one entry of the static data-category catalogue.
// Keyword order is preserved; declaration order is the ranking tie-break.
type KeywordCategory struct {
	ID              string   `yaml:"id" json:"id"`
	Name            string   `yaml:"name" json:"name"`
	Endpoint        string   `yaml:"endpoint" json:"endpoint"`
	Keywords        []string `yaml:"keywords" json:"keywords"`
	PeriodSensitive bool     `yaml:"period_sensitive" json:"period_sensitive"`
}

// MatchResult holds the keywords of one category that matched a query.
type MatchResult struct {
	CategoryID string
	Matched    []string
}

// TimePeriod is a calendar year with an optional quarter (Q1-Q4).
type TimePeriod struct {
	Year    int    `json:"year"`
	Quarter string `json:"quarter,omitempty"`
}

// Valid reports whether the period has a 4-digit year and a legal quarter
// literal. Quarter is optional; anything other than Q1-Q4 is rejected.
func (p TimePeriod) Valid() bool {
	if p.Year < 1000 || p.Year > 9999 {
		return false
	}
	switch p.Quarter {
	case "", "Q1", "Q2", "Q3", "Q4":
		return true
	}
	return false
}

// QuarterNumber returns the quarter as 1-4, or 0 when unset.
func (p TimePeriod) QuarterNumber() int {
	switch p.Quarter {
	case "Q1":
		return 1
	case "Q2":
		return 2
	case "Q3":
		return 3
	case "Q4":
		return 4
	}
	return 0
}

// Extraction is the parsed output of the entity/period extraction call.
type Extraction struct {
	Companies   []string     `json:"companies"`
	TimePeriods []TimePeriod `json:"timePeriods"`
}

// CompanyRef is a resolved company identity.
type CompanyRef struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// TranscriptEntry is one time-ordered record of an earnings call transcript.
// Content carries the free text; the remaining fields are metadata that
// survive trimming untouched.
type TranscriptEntry struct {
	Symbol  string `json:"symbol"`
	Quarter int    `json:"quarter"`
	Year    int    `json:"year"`
	Date    string `json:"date"`
	Content string `json:"content"`
}

// CategoryPayload is the fetched data for one category of one company.
// Transcript-shaped payloads are decoded so the budgeter can trim per entry;
// everything else stays opaque with a known serialized length. A category
// whose periods yielded both shapes carries both parts.
type CategoryPayload struct {
	Entries []TranscriptEntry
	Raw     json.RawMessage
}

// Serialize renders the payload in its canonical form. When both parts are
// present they are joined with a newline.
func (p CategoryPayload) Serialize() []byte {
	if p.Entries == nil {
		return p.Raw
	}
	b, err := json.Marshal(p.Entries)
	if err != nil {
		return p.Raw
	}
	if len(p.Raw) == 0 {
		return b
	}
	b = append(b, '\n')
	return append(b, p.Raw...)
}

// Size is the serialized length of the payload in characters.
func (p CategoryPayload) Size() int {
	return len(p.Serialize())
}

// CompanyData is the structured data fetched for one company.
// SerializedSize always reflects the canonical serialized size of Payloads;
// Recompute must be called after any mutation.
type CompanyData struct {
	Company        CompanyRef
	Payloads       map[string]CategoryPayload
	SerializedSize int
}

// Recompute refreshes SerializedSize from the current payloads.
func (d *CompanyData) Recompute() {
	total := 0
	for _, p := range d.Payloads {
		total += p.Size()
	}
	d.SerializedSize = total
}

// ErrNoEntityFound signals that a query yielded no resolvable company.
var ErrNoEntityFound = errors.New("no entity found for query")

// ErrInvalidBudget signals a non-positive total character budget, the only
// input the prompt builder treats as a caller error.
var ErrInvalidBudget = errors.New("total character budget must be positive")
