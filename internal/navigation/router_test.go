package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/smartfarm/internal/domain"
	"github.com/roach88/smartfarm/internal/session"
)

func signedIn(roles string) session.State {
	return session.State{
		Token: "tok",
		User:  &domain.User{ID: 1, Name: "Asha", Roles: domain.StringPtr(roles)},
	}
}

func TestRouter_StartsLoading(t *testing.T) {
	r := NewRouter()
	assert.Equal(t, PhaseLoading, r.Phase())
	_, ok := r.Current()
	assert.False(t, ok)

	assert.Equal(t, PhaseLoading, r.Sync(session.State{IsLoading: true}))
}

func TestRouter_Unauthenticated(t *testing.T) {
	r := NewRouter()

	assert.Equal(t, PhaseUnauthenticated, r.Sync(session.State{}))
	nav, ok := r.Current()
	require.True(t, ok)
	assert.Equal(t, NavigatorAuth, nav)
}

func TestRouter_SingleRole(t *testing.T) {
	r := NewRouter()

	assert.Equal(t, PhaseSingleRole, r.Sync(signedIn("ADMIN")))
	nav, ok := r.Current()
	require.True(t, ok)
	assert.Equal(t, NavigatorAdmin, nav)

	_, err := r.Choose(domain.RoleAdmin)
	assert.ErrorIs(t, err, ErrNotSelecting)
	assert.False(t, r.Back())
}

func TestRouter_ChooseThenBack(t *testing.T) {
	r := NewRouter()
	require.Equal(t, PhaseSelecting, r.Sync(signedIn("BUYER,FARMER")))
	_, ok := r.Current()
	assert.False(t, ok)

	nav, err := r.Choose(domain.RoleFarmer)
	require.NoError(t, err)
	assert.Equal(t, NavigatorFarmer, nav)
	assert.Equal(t, PhaseRoleChosen, r.Phase())

	top, ok := r.Current()
	require.True(t, ok)
	assert.Equal(t, NavigatorFarmer, top)

	require.True(t, r.Back())
	assert.Equal(t, PhaseSelecting, r.Phase())
	_, ok = r.Current()
	assert.False(t, ok)

	nav, err = r.Choose(domain.RoleBuyer)
	require.NoError(t, err)
	assert.Equal(t, NavigatorBuyer, nav)
}

func TestRouter_ChooseRoleNotHeld(t *testing.T) {
	r := NewRouter()
	r.Sync(signedIn("BUYER,FARMER"))

	_, err := r.Choose(domain.RoleAdmin)
	assert.ErrorIs(t, err, ErrRoleNotHeld)
	assert.Equal(t, PhaseSelecting, r.Phase())
}

func TestRouter_ChosenRoleSurvivesResync(t *testing.T) {
	r := NewRouter()
	r.Sync(signedIn("BUYER,FARMER"))
	_, err := r.Choose(domain.RoleFarmer)
	require.NoError(t, err)

	assert.Equal(t, PhaseRoleChosen, r.Sync(signedIn("BUYER,FARMER,ADMIN")))

	// Losing the chosen role drops back to the selector.
	assert.Equal(t, PhaseSelecting, r.Sync(signedIn("BUYER,ADMIN")))
}

func TestRouter_LogoutReturnsToAuth(t *testing.T) {
	r := NewRouter()
	r.Sync(signedIn("BUYER,FARMER"))
	_, err := r.Choose(domain.RoleBuyer)
	require.NoError(t, err)

	assert.Equal(t, PhaseUnauthenticated, r.Sync(session.State{}))
	nav, _ := r.Current()
	assert.Equal(t, NavigatorAuth, nav)
	assert.False(t, r.Back())
}
