package permission

import (
	"encoding/json"
	"strconv"
)

// Capability represents a named boolean permission carried by a role.
type Capability string

const (
	Upload      Capability = "upload"       // Submit new songs and albums
	Edit        Capability = "edit"         // Edit submitted content
	Delete      Capability = "delete"       // Delete content
	ManageUsers Capability = "manage_users" // Create, ban and re-role accounts
	Approve     Capability = "approve"      // Approve and publish submissions
	Flag        Capability = "flag"         // Flag content for moderation
	SeeTotals   Capability = "see_totals"   // See totals in paginated listings
)

// allCapabilities fixes the bit position of every capability inside a Set.
var allCapabilities = [...]Capability{Upload, Edit, Delete, ManageUsers, Approve, Flag, SeeTotals}

// String returns the string representation of the capability
func (c Capability) String() string {
	return string(c)
}

// IsValid checks if the capability is a known system capability
func (c Capability) IsValid() bool {
	return c.bit() != 0
}

func (c Capability) bit() Set {
	for i, known := range allCapabilities {
		if known == c {
			return 1 << i
		}
	}
	return 0
}

// GetAllCapabilities returns all available capabilities in the system
func GetAllCapabilities() []Capability {
	out := make([]Capability, len(allCapabilities))
	copy(out, allCapabilities[:])
	return out
}

// Set is an immutable set of capabilities.
type Set uint16

// NewSet builds a Set from the given capabilities. Unknown capabilities are ignored.
func NewSet(caps ...Capability) Set {
	var s Set
	for _, c := range caps {
		s |= c.bit()
	}
	return s
}

// Has reports whether c is part of the set.
func (s Set) Has(c Capability) bool {
	b := c.bit()
	return b != 0 && s&b == b
}

// List returns the capabilities of the set in catalog order.
func (s Set) List() []Capability {
	out := []Capability{}
	for _, c := range allCapabilities {
		if s.Has(c) {
			out = append(out, c)
		}
	}
	return out
}

// MarshalJSON renders the set as a flag object, e.g. {"upload":true,"edit":false,...}.
func (s Set) MarshalJSON() ([]byte, error) {
	flags := make(map[Capability]bool, len(allCapabilities))
	for _, c := range allCapabilities {
		flags[c] = s.Has(c)
	}
	return json.Marshal(flags)
}

// Limit is a non-negative quota, or Unlimited.
type Limit int

// Unlimited marks a quota without an upper bound.
const Unlimited Limit = -1

// IsUnlimited reports whether the limit has no upper bound.
func (l Limit) IsUnlimited() bool { return l < 0 }

func (l Limit) String() string {
	if l.IsUnlimited() {
		return "unlimited"
	}
	return strconv.Itoa(int(l))
}

// MarshalJSON renders unlimited quotas as the string "unlimited".
func (l Limit) MarshalJSON() ([]byte, error) {
	if l.IsUnlimited() {
		return []byte(`"unlimited"`), nil
	}
	return []byte(strconv.Itoa(int(l))), nil
}

// APITier is the resource class attached to a role.
type APITier string

const (
	TierNone      APITier = ""
	TierBasic     APITier = "5"
	TierStandard  APITier = "10"
	TierAdvanced  APITier = "20"
	TierPremium   APITier = "30"
	TierUnlimited APITier = "50"
)

// Label returns the human readable tier name used by admin tooling.
func (t APITier) Label() string {
	switch t {
	case TierNone:
		return "No API Access"
	case TierBasic:
		return "Class 5 - Basic (100/page, 60 req/min)"
	case TierStandard:
		return "Class 10 - Standard (250/page, 120 req/min)"
	case TierAdvanced:
		return "Class 20 - Advanced (500/page, 300 req/min)"
	case TierPremium:
		return "Class 30 - Premium (1000/page, 600 req/min)"
	case TierUnlimited:
		return "Class 50 - Unlimited"
	default:
		return "Class " + string(t)
	}
}

// MarshalJSON renders TierNone as null.
func (t APITier) MarshalJSON() ([]byte, error) {
	if t == TierNone {
		return []byte("null"), nil
	}
	return json.Marshal(string(t))
}

// Quota groups the resource-consumption limits of a role.
type Quota struct {
	APITier           APITier `json:"api_tier"`
	MaxPageSize       Limit   `json:"max_page_size"`
	RequestsPerMinute Limit   `json:"requests_per_minute"`
}

// MarshalJSON adds the tier display label next to the raw tier.
func (q Quota) MarshalJSON() ([]byte, error) {
	type quota Quota
	return json.Marshal(struct {
		quota
		APITierLabel string `json:"api_tier_label"`
	}{quota: quota(q), APITierLabel: q.APITier.Label()})
}
