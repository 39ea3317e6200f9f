package navigation

import (
	"sync"

	"github.com/roach88/smartfarm/internal/domain"
	"github.com/roach88/smartfarm/internal/errors"
	"github.com/roach88/smartfarm/internal/session"
)

// Phase is the router's state.
type Phase uint8

const (
	PhaseLoading Phase = iota
	PhaseUnauthenticated
	PhaseSingleRole
	PhaseSelecting
	PhaseRoleChosen
)

var phaseNames = map[Phase]string{
	PhaseLoading:         "loading",
	PhaseUnauthenticated: "unauthenticated",
	PhaseSingleRole:      "single-role",
	PhaseSelecting:       "selecting",
	PhaseRoleChosen:      "role-chosen",
}

func (p Phase) String() string {
	if s, ok := phaseNames[p]; ok {
		return s
	}
	return "unknown"
}

var (
	ErrNotSelecting = errors.New("navigation: no role selection in progress")
	ErrRoleNotHeld  = errors.New("navigation: role not held")
)

// Router tracks the landing target across session changes. A chosen role
// is pushed on top of the selector so Back returns to it.
type Router struct {
	mu     sync.Mutex
	phase  Phase
	target Target
	stack  []Navigator
}

// NewRouter returns a Router in PhaseLoading.
func NewRouter() *Router {
	return &Router{phase: PhaseLoading}
}

// Sync moves the router to match a session snapshot and returns the new
// phase. A chosen role survives re-syncs while the user still holds it.
func (r *Router) Sync(s session.State) Phase {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch {
	case s.IsLoading:
		r.phase = PhaseLoading
		r.target = Target{}
		r.stack = nil
	case !s.IsAuthenticated():
		r.phase = PhaseUnauthenticated
		r.target = Target{Kind: KindNavigator, Navigator: NavigatorAuth}
		r.stack = []Navigator{NavigatorAuth}
	default:
		target := Resolve(s.User)
		if target.Kind == KindNavigator {
			r.phase = PhaseSingleRole
			r.target = target
			r.stack = []Navigator{target.Navigator}
			break
		}
		if r.phase == PhaseRoleChosen && r.holdsTop(target) {
			r.target = target
			break
		}
		r.phase = PhaseSelecting
		r.target = target
		r.stack = nil
	}
	return r.phase
}

func (r *Router) holdsTop(t Target) bool {
	if len(r.stack) == 0 {
		return false
	}
	top := r.stack[len(r.stack)-1]
	for _, o := range t.Options {
		if o.Navigator == top {
			return true
		}
	}
	return false
}

// Choose selects a held role from the role-selection screen and pushes its
// navigator.
func (r *Router) Choose(role domain.Role) (Navigator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase != PhaseSelecting {
		return 0, errors.Wrapf(ErrNotSelecting, "phase %s", r.phase)
	}
	opt, ok := r.target.Option(role)
	if !ok {
		return 0, errors.Wrapf(ErrRoleNotHeld, "%s", role)
	}
	r.stack = append(r.stack, opt.Navigator)
	r.phase = PhaseRoleChosen
	return opt.Navigator, nil
}

// Back pops a chosen navigator and returns to the selector. It reports
// false when there is nothing to pop.
func (r *Router) Back() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase != PhaseRoleChosen {
		return false
	}
	r.stack = r.stack[:len(r.stack)-1]
	r.phase = PhaseSelecting
	return true
}

// Phase returns the current phase.
func (r *Router) Phase() Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.phase
}

// Target returns the target resolved at the last Sync.
func (r *Router) Target() Target {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.target
}

// Current returns the navigator on top of the stack. ok is false while
// loading or on the selection screen.
func (r *Router) Current() (Navigator, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.stack) == 0 {
		return 0, false
	}
	return r.stack[len(r.stack)-1], true
}
