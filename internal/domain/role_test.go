package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRoles_DefaultsToBuyer(t *testing.T) {
	for _, in := range []*string{nil, StringPtr(""), StringPtr("   "), StringPtr(","), StringPtr(" , ")} {
		assert.Equal(t, []string{"BUYER"}, ParseRoles(in))
	}
}

func TestParseRoles_TrimsAndKeepsOrder(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"FARMER", []string{"FARMER"}},
		{"FARMER,BUYER", []string{"FARMER", "BUYER"}},
		{" ADMIN ,  FARMER", []string{"ADMIN", "FARMER"}},
		{"BUYER,,FARMER", []string{"BUYER", "FARMER"}},
		{"MANAGER", []string{"MANAGER"}},
		{"FARMER,FARMER", []string{"FARMER", "FARMER"}},
		{"FARMER,", []string{"FARMER"}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseRoles(StringPtr(tt.in)))
		})
	}
}

func TestIsSingleRole_MatchesTokenCount(t *testing.T) {
	for _, in := range []string{"", "FARMER", "FARMER,BUYER", "A,B,C", " X "} {
		r := StringPtr(in)
		assert.Equal(t, len(ParseRoles(r)) == 1, IsSingleRole(r), in)
	}
}

func TestIsSingleRole_TrailingCommaIsSingle(t *testing.T) {
	assert.True(t, IsSingleRole(StringPtr("FARMER,")))
	assert.True(t, IsSingleRole(StringPtr(",ADMIN")))
}

func TestHasRole_MatchesMembership(t *testing.T) {
	r := StringPtr("FARMER, ADMIN")

	assert.True(t, HasRole(r, "FARMER"))
	assert.True(t, HasRole(r, "ADMIN"))
	assert.False(t, HasRole(r, "BUYER"))
	assert.True(t, HasRole(nil, "BUYER"))
}

func TestPrimaryRole(t *testing.T) {
	assert.Equal(t, "BUYER", PrimaryRole(nil))
	assert.Equal(t, "ADMIN", PrimaryRole(StringPtr("ADMIN,FARMER")))
}

func TestParseRole(t *testing.T) {
	r, ok := ParseRole("SUPERADMIN")
	require.True(t, ok)
	assert.Equal(t, RoleSuperAdmin, r)

	r, ok = ParseRole(" FARMER ")
	require.True(t, ok)
	assert.Equal(t, RoleFarmer, r)

	r, ok = ParseRole("farmer")
	assert.False(t, ok)
	assert.Equal(t, RoleUnknown, r)
}

func TestRoleSet_Ordered(t *testing.T) {
	set := ParseRoleSet(StringPtr("SUPERADMIN,BUYER,FARMER,MANAGER"))

	assert.Equal(t, 4, set.Len())
	assert.Equal(t, []Role{RoleFarmer, RoleBuyer, RoleSuperAdmin}, set.Ordered())
	assert.Equal(t, []string{"MANAGER"}, set.Unknown())
	assert.Equal(t, "FARMER,BUYER,SUPERADMIN", set.String())
}

func TestRoleSet_Single(t *testing.T) {
	r, ok := ParseRoleSet(nil).Single()
	require.True(t, ok)
	assert.Equal(t, RoleBuyer, r)

	r, ok = ParseRoleSet(StringPtr("MANAGER")).Single()
	require.True(t, ok)
	assert.Equal(t, RoleUnknown, r)

	_, ok = ParseRoleSet(StringPtr("FARMER,BUYER")).Single()
	assert.False(t, ok)
}

func TestJoinRoles_DropsUnknown(t *testing.T) {
	assert.Equal(t, "FARMER,ADMIN", JoinRoles(RoleFarmer, RoleUnknown, RoleAdmin))
	assert.Equal(t, "", JoinRoles())
}

func TestNewRoleSet_RoundTrip(t *testing.T) {
	set := NewRoleSet(RoleAdmin, RoleFarmer)
	back := ParseRoleSet(StringPtr(set.String()))

	assert.Equal(t, set.Ordered(), back.Ordered())
}

func TestUserClone_Independent(t *testing.T) {
	u := &User{ID: 1, Name: "Asha", Roles: StringPtr("FARMER")}
	c := u.Clone()
	*c.Roles = "BUYER"

	assert.Equal(t, "FARMER", *u.Roles)
	assert.Nil(t, (*User)(nil).Clone())
}
