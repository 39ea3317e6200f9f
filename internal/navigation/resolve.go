package navigation

import "github.com/roach88/smartfarm/internal/domain"

// Kind tells which half of a Target is set.
type Kind uint8

const (
	KindNavigator Kind = iota
	KindRoleSelection
)

// RoleOption is one entry on the role-selection screen.
type RoleOption struct {
	Role        domain.Role
	Title       string
	Description string
	Navigator   Navigator
}

var roleOptions = map[domain.Role]RoleOption{
	domain.RoleFarmer: {
		Role:        domain.RoleFarmer,
		Title:       "Farmer",
		Description: "Manage crops, get recommendations, track sales",
		Navigator:   NavigatorFarmer,
	},
	domain.RoleBuyer: {
		Role:        domain.RoleBuyer,
		Title:       "Buyer",
		Description: "Browse marketplace, place orders, track purchases",
		Navigator:   NavigatorBuyer,
	},
	domain.RoleAdmin: {
		Role:        domain.RoleAdmin,
		Title:       "Admin",
		Description: "Manage users, approve crops, system administration",
		Navigator:   NavigatorAdmin,
	},
	domain.RoleSuperAdmin: {
		Role:        domain.RoleSuperAdmin,
		Title:       "Super Admin",
		Description: "Full access to all features and system controls",
		Navigator:   NavigatorSuperAdmin,
	},
}

// Target is where a user lands: a single navigator, or a role-selection
// screen with Options in display order.
type Target struct {
	Kind      Kind
	Navigator Navigator
	Options   []RoleOption
}

// Option returns the selection entry for r, if the target offers it.
func (t Target) Option(r domain.Role) (RoleOption, bool) {
	for _, o := range t.Options {
		if o.Role == r {
			return o, true
		}
	}
	return RoleOption{}, false
}

// Resolve picks the landing target for user. A nil user lands on the auth
// navigator.
func Resolve(user *domain.User) Target {
	if user == nil {
		return Target{Kind: KindNavigator, Navigator: NavigatorAuth}
	}
	return ResolveRoles(user.Roles)
}

// ResolveRoles picks the landing target for a raw role string. An absent
// or blank string means buyer. One token maps to its navigator, with
// unrecognised tokens falling back to buyer. More than one token, counting
// duplicates and unknowns, yields role selection over the known roles held.
func ResolveRoles(roles *string) Target {
	set := domain.ParseRoleSet(roles)
	if r, ok := set.Single(); ok {
		return Target{Kind: KindNavigator, Navigator: NavigatorFor(r)}
	}
	return Target{Kind: KindRoleSelection, Options: OptionsFor(set)}
}

// OptionsFor lists the selection entries for the known roles in set.
func OptionsFor(set domain.RoleSet) []RoleOption {
	held := set.Ordered()
	out := make([]RoleOption, 0, len(held))
	for _, r := range held {
		out = append(out, roleOptions[r])
	}
	return out
}
