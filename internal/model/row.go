package model

import (
	"strings"
	"time"
)

// Row is a single ledger entry after column mapping and value coercion.
// Monetary fields are already coerced to non-negative-or-zero floats; Date is
// nil when the source cell could not be parsed, which excludes the row from
// all window operations.
type Row struct {
	CustomerName  string     `json:"customer_name"`
	CustomerPhone string     `json:"customer_phone"`
	Date          *time.Time `json:"date,omitempty"`
	Channel       string     `json:"channel"`
	Categories    []string   `json:"categories,omitempty"`
	Interest      string     `json:"interest"`
	IsNew         bool       `json:"is_new"`
	P1            float64    `json:"p1"`
	P2            string     `json:"p2"`
	UpP1          float64    `json:"up_p1"`
	UpP2          float64    `json:"up_p2"`
}

// Revenue returns the row's total recognized revenue across all stages.
func (r Row) Revenue() float64 {
	return r.P1 + r.UpP1 + r.UpP2
}

// HasLead reports whether the row records a P2 lead event. A lead carries no
// revenue of its own but still counts toward aggregation.
func (r Row) HasLead() bool {
	return strings.TrimSpace(r.P2) != ""
}

// Identity returns the customer identity composite for this row.
func (r Row) Identity() Identity {
	return Identity{
		Name:  strings.TrimSpace(r.CustomerName),
		Phone: strings.TrimSpace(r.CustomerPhone),
	}
}

// Identity is the name+phone composite used to recognize the same customer
// across ledger rows. Matching is deliberately loose: trimmed exact equality,
// no phone-format or name-case normalization.
type Identity struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// Matches reports whether two identities refer to the same customer. Phone
// takes precedence when present; name equality never matches on empty names,
// so two blank-identity rows are always distinct customers.
func (id Identity) Matches(other Identity) bool {
	if id.Phone != "" && id.Phone == other.Phone {
		return true
	}
	return id.Name != "" && id.Name == other.Name
}

// Key returns a deduplication key for per-window distinct-customer counting.
// Empty string means the identity is blank and every such row stands alone.
func (id Identity) Key() string {
	if id.Phone != "" {
		return "p:" + id.Phone
	}
	if id.Name != "" {
		return "n:" + id.Name
	}
	return ""
}
