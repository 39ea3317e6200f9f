package domain

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Role is the closed set of roles a user can hold.
//
// RoleBuyer is the zero value: a user with no roles, or with a role the
// client does not recognise, is treated as a buyer.
type Role uint8

const (
	RoleBuyer Role = iota
	RoleFarmer
	RoleAdmin
	RoleSuperAdmin
	// RoleUnknown marks a token outside the closed set. It is never sent
	// back to the server.
	RoleUnknown
)

// DefaultRole is the role implied by an absent or empty role string.
const DefaultRole = RoleBuyer

// DisplayOrder is the fixed order in which held roles are offered for
// selection.
var DisplayOrder = []Role{RoleFarmer, RoleBuyer, RoleAdmin, RoleSuperAdmin}

var roleTokens = map[Role]string{
	RoleBuyer:      "BUYER",
	RoleFarmer:     "FARMER",
	RoleAdmin:      "ADMIN",
	RoleSuperAdmin: "SUPERADMIN",
}

// String returns the wire token for the role.
func (r Role) String() string {
	if s, ok := roleTokens[r]; ok {
		return s
	}
	return "UNKNOWN"
}

// Known reports whether r is one of the enumerated roles.
func (r Role) Known() bool {
	_, ok := roleTokens[r]
	return ok
}

// ParseRole maps a single wire token to a Role. The token is NFC-normalised
// and trimmed; matching is exact otherwise.
func ParseRole(token string) (Role, bool) {
	token = norm.NFC.String(strings.TrimSpace(token))
	for r, s := range roleTokens {
		if s == token {
			return r, true
		}
	}
	return RoleUnknown, false
}

// ParseRoles splits a comma-separated role string into trimmed tokens in
// their original order. Empty tokens are dropped, so "FARMER," is a single
// farmer role rather than a two-token string that would send the user to
// role selection. A nil, blank, or all-empty string yields the single
// default role.
func ParseRoles(roles *string) []string {
	if roles == nil || strings.TrimSpace(*roles) == "" {
		return []string{DefaultRole.String()}
	}

	parts := strings.Split(*roles, ",")
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tokens = append(tokens, p)
		}
	}
	if len(tokens) == 0 {
		return []string{DefaultRole.String()}
	}
	return tokens
}

// HasRole reports whether token appears in the parsed role string.
func HasRole(roles *string, token string) bool {
	for _, t := range ParseRoles(roles) {
		if t == token {
			return true
		}
	}
	return false
}

// IsSingleRole reports whether the role string parses to exactly one token.
func IsSingleRole(roles *string) bool {
	return len(ParseRoles(roles)) == 1
}

// PrimaryRole returns the first parsed token.
func PrimaryRole(roles *string) string {
	return ParseRoles(roles)[0]
}

// RoleSet is the typed projection of a user's role string. It keeps the
// parsed tokens so token-count decisions match the wire string exactly.
type RoleSet struct {
	tokens []string
	roles  []Role
}

// ParseRoleSet parses a role string into a RoleSet.
func ParseRoleSet(roles *string) RoleSet {
	tokens := ParseRoles(roles)
	set := RoleSet{
		tokens: tokens,
		roles:  make([]Role, len(tokens)),
	}
	for i, t := range tokens {
		set.roles[i], _ = ParseRole(t)
	}
	return set
}

// NewRoleSet builds a RoleSet from enumerated roles. Unknown roles are
// skipped.
func NewRoleSet(roles ...Role) RoleSet {
	var set RoleSet
	for _, r := range roles {
		if !r.Known() {
			continue
		}
		set.tokens = append(set.tokens, r.String())
		set.roles = append(set.roles, r)
	}
	return set
}

// Len returns the number of parsed tokens, known or not.
func (s RoleSet) Len() int {
	return len(s.tokens)
}

// Has reports whether the set holds r.
func (s RoleSet) Has(r Role) bool {
	for _, held := range s.roles {
		if held == r {
			return true
		}
	}
	return false
}

// Single returns the only role in the set. ok is false when the set holds
// more or fewer than one token.
func (s RoleSet) Single() (Role, bool) {
	if len(s.roles) != 1 {
		return RoleUnknown, false
	}
	return s.roles[0], true
}

// Ordered returns the known roles held, in DisplayOrder, without duplicates.
func (s RoleSet) Ordered() []Role {
	out := make([]Role, 0, len(DisplayOrder))
	for _, r := range DisplayOrder {
		if s.Has(r) {
			out = append(out, r)
		}
	}
	return out
}

// Unknown returns the tokens that did not match any enumerated role.
func (s RoleSet) Unknown() []string {
	var out []string
	for i, r := range s.roles {
		if r == RoleUnknown {
			out = append(out, s.tokens[i])
		}
	}
	return out
}

// Tokens returns a copy of the parsed tokens.
func (s RoleSet) Tokens() []string {
	return append([]string(nil), s.tokens...)
}

// String serialises the known roles back to the wire format.
func (s RoleSet) String() string {
	return JoinRoles(s.Ordered()...)
}

// JoinRoles serialises roles to the comma-separated wire format. Unknown
// roles are dropped.
func JoinRoles(roles ...Role) string {
	tokens := make([]string, 0, len(roles))
	for _, r := range roles {
		if r.Known() {
			tokens = append(tokens, r.String())
		}
	}
	return strings.Join(tokens, ",")
}
