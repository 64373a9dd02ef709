package role

import (
	"fmt"

	"github.com/sfsc/platform-governance/internal/core/domain/permission"
)

// Role identifies an entry of the role catalog. The set of roles is closed;
// values outside the catalog are treated as the lowest role.
type Role uint8

const (
	Guest Role = iota
	New
	Member
	Artist
	Band
	Studio
	Choir
	Group
	Community
	Label
	Editor
	Manager
	Admin
	SuperAdmin

	numRoles
)

// Category groups roles for reporting. Categories carry no authority of their own.
type Category string

const (
	CategoryNone           Category = ""
	CategoryUnverified     Category = "unverified"
	CategoryContentCreator Category = "content_creator"
	CategoryContentManager Category = "content_manager"
	CategoryAdministrator  Category = "administrator"
)

// Definition is an immutable catalog entry.
type Definition struct {
	Role         Role             `json:"role"`
	Name         string           `json:"name"`
	DisplayName  string           `json:"display_name"`
	Description  string           `json:"description"`
	PowerLevel   int              `json:"power_level"`
	Category     Category         `json:"category,omitempty"`
	Quota        permission.Quota `json:"quota"`
	Capabilities permission.Set   `json:"capabilities"`
}

var (
	basicQuota      = permission.Quota{APITier: permission.TierBasic, MaxPageSize: 100, RequestsPerMinute: 60}
	standardQuota   = permission.Quota{APITier: permission.TierStandard, MaxPageSize: 250, RequestsPerMinute: 120}
	advancedQuota   = permission.Quota{APITier: permission.TierAdvanced, MaxPageSize: 500, RequestsPerMinute: 300}
	creatorCaps     = permission.NewSet(permission.Upload, permission.Edit, permission.Delete)
	moderatorCaps   = permission.NewSet(permission.Upload, permission.Edit, permission.Delete, permission.Flag)
	everyCapability = permission.NewSet(permission.GetAllCapabilities()...)
)

// catalog is ordered by strictly increasing power level. Index == Role.
var catalog = [numRoles]Definition{
	Guest: {
		Role: Guest, Name: "guest", DisplayName: "Guest", PowerLevel: 0, Category: CategoryUnverified,
		Description: "Unregistered visitor with read-only access",
		Quota:       permission.Quota{APITier: permission.TierNone, MaxPageSize: 20, RequestsPerMinute: 10},
	},
	New: {
		Role: New, Name: "new", DisplayName: "New User", PowerLevel: 5, Category: CategoryUnverified,
		Description: "Registered user pending email verification",
		Quota:       permission.Quota{APITier: permission.TierNone, MaxPageSize: 20, RequestsPerMinute: 20},
	},
	Member: {
		Role: Member, Name: "member", DisplayName: "Member", PowerLevel: 10,
		Description:  "Verified member with basic access",
		Quota:        basicQuota,
		Capabilities: permission.NewSet(permission.Upload, permission.Edit),
	},
	Artist: {
		Role: Artist, Name: "artist", DisplayName: "Artist", PowerLevel: 15, Category: CategoryContentCreator,
		Description:  "Music artist with content creation rights",
		Quota:        basicQuota,
		Capabilities: creatorCaps,
	},
	Band: {
		Role: Band, Name: "band", DisplayName: "Band", PowerLevel: 20, Category: CategoryContentCreator,
		Description:  "Music band with content creation rights",
		Quota:        standardQuota,
		Capabilities: creatorCaps,
	},
	Studio: {
		Role: Studio, Name: "studio", DisplayName: "Studio", PowerLevel: 25, Category: CategoryContentManager,
		Description:  "Recording studio with production management",
		Quota:        standardQuota,
		Capabilities: creatorCaps,
	},
	Choir: {
		Role: Choir, Name: "choir", DisplayName: "Choir", PowerLevel: 30, Category: CategoryContentCreator,
		Description:  "Choir account with content creation rights",
		Quota:        standardQuota,
		Capabilities: creatorCaps,
	},
	Group: {
		Role: Group, Name: "group", DisplayName: "Group", PowerLevel: 35, Category: CategoryContentCreator,
		Description:  "Group account with content creation and flagging rights",
		Quota:        standardQuota,
		Capabilities: moderatorCaps,
	},
	Community: {
		Role: Community, Name: "community", DisplayName: "Community", PowerLevel: 40, Category: CategoryContentCreator,
		Description:  "Community account with content creation and flagging rights",
		Quota:        permission.Quota{APITier: permission.TierAdvanced, MaxPageSize: 500, RequestsPerMinute: 300},
		Capabilities: moderatorCaps,
	},
	Label: {
		Role: Label, Name: "label", DisplayName: "Label", PowerLevel: 45, Category: CategoryContentManager,
		Description:  "Record label with content management",
		Quota:        standardQuota,
		Capabilities: moderatorCaps,
	},
	Editor: {
		Role: Editor, Name: "editor", DisplayName: "Editor", PowerLevel: 50, Category: CategoryContentManager,
		Description:  "Content editor with editing privileges",
		Quota:        standardQuota,
		Capabilities: moderatorCaps,
	},
	Manager: {
		Role: Manager, Name: "manager", DisplayName: "Manager", PowerLevel: 55, Category: CategoryContentManager,
		Description:  "Content manager with approval rights",
		Quota:        advancedQuota,
		Capabilities: moderatorCaps | permission.NewSet(permission.Approve, permission.SeeTotals),
	},
	Admin: {
		Role: Admin, Name: "admin", DisplayName: "Admin", PowerLevel: 60, Category: CategoryAdministrator,
		Description:  "Administrator with full management access",
		Quota:        permission.Quota{APITier: permission.TierPremium, MaxPageSize: 1000, RequestsPerMinute: 600},
		Capabilities: everyCapability,
	},
	SuperAdmin: {
		Role: SuperAdmin, Name: "sadmin", DisplayName: "Super Admin", PowerLevel: 65, Category: CategoryAdministrator,
		Description:  "Super administrator with unlimited access",
		Quota:        permission.Quota{APITier: permission.TierUnlimited, MaxPageSize: permission.Unlimited, RequestsPerMinute: permission.Unlimited},
		Capabilities: everyCapability,
	},
}

var byName map[string]Role

func init() {
	if err := ValidateCatalog(catalog[:]); err != nil {
		panic(fmt.Sprintf("role catalog: %v", err))
	}
	byName = make(map[string]Role, len(catalog))
	for _, d := range catalog {
		byName[d.Name] = d.Role
	}
}

// ValidateCatalog checks that defs form a strict total order: each entry sits at the
// index of its Role, names are unique and non-empty, and power levels strictly increase.
// Ties are rejected here so that no runtime comparison ever has to resolve them.
func ValidateCatalog(defs []Definition) error {
	if len(defs) < 3 {
		return fmt.Errorf("catalog needs at least 3 roles, got %d", len(defs))
	}
	seen := make(map[string]struct{}, len(defs))
	for i, d := range defs {
		if int(d.Role) != i {
			return fmt.Errorf("role %q declared at position %d", d.Name, i)
		}
		if d.Name == "" {
			return fmt.Errorf("role at position %d has no name", i)
		}
		if _, dup := seen[d.Name]; dup {
			return fmt.Errorf("duplicate role name %q", d.Name)
		}
		seen[d.Name] = struct{}{}
		if i > 0 && d.PowerLevel <= defs[i-1].PowerLevel {
			return fmt.Errorf("role %q power level %d does not exceed %q (%d)", d.Name, d.PowerLevel, defs[i-1].Name, defs[i-1].PowerLevel)
		}
	}
	return nil
}

// Parse resolves a role name. ok is false for unrecognized names.
func Parse(name string) (Role, bool) {
	r, ok := byName[name]
	return r, ok
}

// ParseOrLowest resolves a role name, degrading unknown names to the lowest role.
func ParseOrLowest(name string) Role {
	if r, ok := Parse(name); ok {
		return r
	}
	return Lowest()
}

// All returns every role ordered from lowest to highest power.
func All() []Role {
	out := make([]Role, numRoles)
	for i := range out {
		out[i] = Role(i)
	}
	return out
}

// Definitions returns a copy of the catalog ordered from lowest to highest power.
func Definitions() []Definition {
	out := make([]Definition, numRoles)
	copy(out, catalog[:])
	return out
}

// Lowest returns the least privileged role.
func Lowest() Role { return Role(0) }

// Highest returns the single most privileged role.
func Highest() Role { return numRoles - 1 }

// IsValid reports whether r is part of the catalog.
func (r Role) IsValid() bool { return r < numRoles }

func (r Role) normalize() Role {
	if !r.IsValid() {
		return Lowest()
	}
	return r
}

// Definition returns the catalog entry of r.
func (r Role) Definition() Definition { return catalog[r.normalize()] }

func (r Role) String() string { return r.Definition().Name }

// PowerLevel returns the power level of r.
func (r Role) PowerLevel() int { return r.Definition().PowerLevel }

// Permissions returns the capability set of r.
func (r Role) Permissions() permission.Set { return r.Definition().Capabilities }

// Quota returns the resource limits of r.
func (r Role) Quota() permission.Quota { return r.Definition().Quota }

// Category returns the reporting category of r.
func (r Role) Category() Category { return r.Definition().Category }

func (r Role) IsUnverified() bool     { return r.Category() == CategoryUnverified }
func (r Role) IsVerified() bool       { return !r.IsUnverified() }
func (r Role) IsContentCreator() bool { return r.Category() == CategoryContentCreator }
func (r Role) IsContentManager() bool { return r.Category() == CategoryContentManager }
func (r Role) IsAdministrator() bool  { return r.Category() == CategoryAdministrator }

// IsHigher reports whether a outranks b.
func IsHigher(a, b Role) bool { return a.PowerLevel() > b.PowerLevel() }

// IsHigherOrEqual reports whether a outranks or equals b.
func IsHigherOrEqual(a, b Role) bool { return a.PowerLevel() >= b.PowerLevel() }

// MarshalText encodes the role as its catalog name.
func (r Role) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

// UnmarshalText decodes a catalog name. Unknown names decode to the lowest role.
func (r *Role) UnmarshalText(text []byte) error {
	*r = ParseOrLowest(string(text))
	return nil
}
