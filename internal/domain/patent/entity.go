// Package patent holds the PatentVault record type, its enumerations and the
// protection-term and annuity schedule rules shared by every other layer.
package patent

import (
	"strings"
	"time"

	"github.com/turtacn/PatentVault/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Enumerations
// ─────────────────────────────────────────────────────────────────────────────

// Status is the legal status of a patent right.
type Status string

const (
	StatusActive  Status = "Active"
	StatusExpired Status = "Expired"
	StatusPending Status = "Pending"
)

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusExpired, StatusPending:
		return true
	}
	return false
}

// Label returns the Traditional Chinese display label.
func (s Status) Label() string {
	switch s {
	case StatusActive:
		return "存續中"
	case StatusExpired:
		return "已屆期"
	case StatusPending:
		return "審查中"
	}
	return string(s)
}

// ParseStatus accepts the English value or the Chinese label, case- and
// space-insensitively.
func ParseStatus(s string) (Status, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "active", "存續中", "存續", "有效":
		return StatusActive, true
	case "expired", "已屆期", "屆期", "消滅", "lapsed":
		return StatusExpired, true
	case "pending", "審查中", "審查":
		return StatusPending, true
	}
	return "", false
}

// Type is the kind of patent right. It determines the protection term.
type Type string

const (
	TypeInvention Type = "Invention"
	TypeUtility   Type = "Utility"
	TypeDesign    Type = "Design"
)

// IsValid reports whether t is a known type.
func (t Type) IsValid() bool {
	switch t {
	case TypeInvention, TypeUtility, TypeDesign:
		return true
	}
	return false
}

// Label returns the Traditional Chinese display label.
func (t Type) Label() string {
	switch t {
	case TypeInvention:
		return "發明"
	case TypeUtility:
		return "新型"
	case TypeDesign:
		return "設計"
	}
	return string(t)
}

// ParseType accepts the English value or the Chinese label.
func ParseType(s string) (Type, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "invention", "發明", "发明":
		return TypeInvention, true
	case "utility", "utility model", "新型":
		return TypeUtility, true
	case "design", "設計", "设计":
		return TypeDesign, true
	}
	return "", false
}

// TermYears returns the statutory protection term counted from filing.
// Unknown types fall back to the invention term.
func (t Type) TermYears() int {
	switch t {
	case TypeUtility:
		return 10
	case TypeDesign:
		return 15
	default:
		return 20
	}
}

// Country is the filing jurisdiction. Extraction only ever infers the three
// constants below; manual edits may carry any short code.
type Country string

const (
	CountryTW Country = "TW"
	CountryUS Country = "US"
	CountryCN Country = "CN"
)

// ─────────────────────────────────────────────────────────────────────────────
// Patent
// ─────────────────────────────────────────────────────────────────────────────

// Patent is a single portfolio record. JSON names follow the dashboard's
// camelCase wire format.
type Patent struct {
	ID                 string    `json:"id" yaml:"id"`
	Name               string    `json:"name" yaml:"name"`
	Patentee           string    `json:"patentee" yaml:"patentee"`
	Country            Country   `json:"country" yaml:"country"`
	Status             Status    `json:"status" yaml:"status"`
	Type               Type      `json:"type" yaml:"type"`
	AppNumber          string    `json:"appNumber" yaml:"appNumber"`
	PubNumber          string    `json:"pubNumber" yaml:"pubNumber"`
	AppDate            string    `json:"appDate" yaml:"appDate"`
	PubDate            string    `json:"pubDate" yaml:"pubDate"`
	Duration           string    `json:"duration" yaml:"duration"`
	AnnuityDate        string    `json:"annuityDate" yaml:"annuityDate"`
	AnnuityYear        int       `json:"annuityYear" yaml:"annuityYear"`
	Inventor           string    `json:"inventor" yaml:"inventor"`
	Link               string    `json:"link" yaml:"link"`
	Abstract           string    `json:"abstract" yaml:"abstract"`
	NotificationEmails string    `json:"notificationEmails" yaml:"notificationEmails"`
	CreatedAt          time.Time `json:"createdAt" yaml:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt" yaml:"updatedAt"`
}

// ApplyDefaults fills empty enumerations with their defaults
// (TW, Active, Invention).
func (p *Patent) ApplyDefaults() {
	if p.Country == "" {
		p.Country = CountryTW
	}
	if p.Status == "" {
		p.Status = StatusActive
	}
	if p.Type == "" {
		p.Type = TypeInvention
	}
}

// ApplySchedule recomputes Duration, AnnuityDate and AnnuityYear from AppDate
// and Type. When AppDate is not a valid date the derived fields are cleared.
func (p *Patent) ApplySchedule(now time.Time) {
	s, ok := ComputeSchedule(p.AppDate, p.Type, now)
	if !ok {
		p.Duration, p.AnnuityDate, p.AnnuityYear = "", "", 0
		return
	}
	p.AppDate = s.AppDate
	p.Duration = s.Duration
	p.AnnuityDate = s.AnnuityDate
	p.AnnuityYear = s.AnnuityYear
}

// FillSchedule computes the derived fields only when none of them is set.
// Records produced by an AI parser keep whatever the model returned.
func (p *Patent) FillSchedule(now time.Time) {
	if p.Duration == "" && p.AnnuityDate == "" && p.AnnuityYear == 0 {
		p.ApplySchedule(now)
	}
}

// Validate checks the invariants required before a record is stored.
func (p *Patent) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New(errors.ErrCodePatentNameRequired, "patent name is required")
	}
	if !p.Status.IsValid() {
		return errors.New(errors.ErrCodePatentStatusInvalid, "invalid patent status").WithDetail(string(p.Status))
	}
	if !p.Type.IsValid() {
		return errors.New(errors.ErrCodePatentTypeInvalid, "invalid patent type").WithDetail(string(p.Type))
	}
	dates := []struct{ field, value string }{
		{"appDate", p.AppDate},
		{"pubDate", p.PubDate},
		{"annuityDate", p.AnnuityDate},
	}
	for _, d := range dates {
		if d.value == "" {
			continue
		}
		if _, ok := NormalizeDate(d.value); !ok {
			return errors.New(errors.ErrCodePatentDateInvalid, "invalid patent date").WithDetail(d.field + "=" + d.value)
		}
	}
	return nil
}

// Recipients splits NotificationEmails on commas, semicolons and whitespace.
func (p *Patent) Recipients() []string {
	fields := strings.FieldsFunc(p.NotificationEmails, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\n' || r == '\t' || r == '，' || r == '；'
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// Clone returns a copy of p.
func (p *Patent) Clone() *Patent {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

//Personal.AI order the ending
