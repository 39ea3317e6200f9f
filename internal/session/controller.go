package session

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"

	"github.com/roach88/smartfarm/internal/domain"
	"github.com/roach88/smartfarm/internal/errors"
)

// Store is the persisted half of the session.
type Store interface {
	SaveToken(ctx context.Context, token string) error
	GetToken(ctx context.Context) string
	RemoveToken(ctx context.Context) error
	SaveRefreshToken(ctx context.Context, token string) error
	GetRefreshToken(ctx context.Context) string
	RemoveRefreshToken(ctx context.Context) error
	SaveUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context) *domain.User
	ClearAll(ctx context.Context) error
}

// AuthAPI issues credentials.
type AuthAPI interface {
	Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error)
	Signup(ctx context.Context, req domain.SignupRequest) (json.RawMessage, error)
}

// ProfileAPI fetches the authenticated user.
type ProfileAPI interface {
	GetMyProfile(ctx context.Context) (*domain.User, error)
}

// State is a point-in-time view of the session.
type State struct {
	User      *domain.User
	Token     string
	IsLoading bool
}

// IsAuthenticated reports whether both a token and a user are present.
func (s State) IsAuthenticated() bool {
	return s.Token != "" && s.User != nil
}

// Controller is the session state container.
type Controller struct {
	store   Store
	auth    AuthAPI
	profile ProfileAPI
	log     zerolog.Logger

	// op serializes mutating operations end to end.
	op          sync.Mutex
	initialized bool

	mu        sync.RWMutex
	state     State
	listeners map[int]func(State)
	nextID    int
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller's logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// NewController creates a Controller. The session starts loading until
// Initialize has run.
func NewController(store Store, auth AuthAPI, profile ProfileAPI, opts ...Option) *Controller {
	c := &Controller{
		store:     store,
		auth:      auth,
		profile:   profile,
		log:       zerolog.Nop(),
		state:     State{IsLoading: true},
		listeners: make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Snapshot returns the current state. The user is a copy.
func (c *Controller) Snapshot() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() State {
	s := c.state
	s.User = s.User.Clone()
	return s
}

// Subscribe registers fn to be called with the new state after every
// change. The returned func removes the subscription.
func (c *Controller) Subscribe(fn func(State)) (cancel func()) {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.listeners, id)
			c.mu.Unlock()
		})
	}
}

// update applies fn to the state and notifies subscribers outside the lock.
func (c *Controller) update(fn func(*State)) {
	c.mu.Lock()
	fn(&c.state)
	snap := c.snapshotLocked()
	fns := make([]func(State), 0, len(c.listeners))
	for _, l := range c.listeners {
		fns = append(fns, l)
	}
	c.mu.Unlock()

	for _, l := range fns {
		l(snap)
	}
}

// Initialize rehydrates the session from the store. It runs once per
// Controller; later calls return immediately. A failed profile refresh
// keeps the cached user. Loading always ends.
func (c *Controller) Initialize(ctx context.Context) {
	c.op.Lock()
	defer c.op.Unlock()

	if c.initialized {
		return
	}
	c.initialized = true
	defer c.update(func(s *State) { s.IsLoading = false })

	token := c.store.GetToken(ctx)
	user := c.store.GetUser(ctx)
	if token == "" || user == nil {
		c.log.Debug().Bool("token", token != "").Bool("user", user != nil).Msg("no stored session")
		return
	}

	c.update(func(s *State) {
		s.Token = token
		s.User = user
	})

	fresh, err := c.profile.GetMyProfile(ctx)
	if err != nil {
		c.log.Warn().Err(err).Msg("profile refresh failed, keeping cached user")
		return
	}
	if err := c.store.SaveUser(ctx, fresh); err != nil {
		c.log.Warn().Err(err).Msg("persist refreshed user failed, keeping cached user")
		return
	}
	c.update(func(s *State) { s.User = fresh })
}

// Login authenticates with credentials, persists the token pair and the
// user profile, and adopts them. On any failure the in-memory session is
// unchanged and persisted tokens are restored to their prior values, unless
// the store was cleared meanwhile (a 401 purge), in which case it stays
// empty.
func (c *Controller) Login(ctx context.Context, req domain.LoginRequest) error {
	c.op.Lock()
	defer c.op.Unlock()
	return c.login(ctx, req)
}

func (c *Controller) login(ctx context.Context, req domain.LoginRequest) error {
	resp, err := c.auth.Login(ctx, req)
	if err != nil {
		return errors.Wrap(err, "login")
	}
	if resp.AccessToken == "" {
		return errors.New("login: response carried no access token")
	}

	prevToken := c.store.GetToken(ctx)
	prevRefresh := c.store.GetRefreshToken(ctx)

	user, err := c.persistAndFetch(ctx, resp)
	if err != nil {
		if c.store.GetToken(ctx) == resp.AccessToken {
			c.restoreTokens(ctx, prevToken, prevRefresh)
		}
		return err
	}

	c.update(func(s *State) {
		s.Token = resp.AccessToken
		s.User = user
	})
	c.log.Info().Int64("user_id", user.ID).Msg("logged in")
	return nil
}

// persistAndFetch writes the new tokens so the profile request carries
// them, then fetches and persists the profile.
func (c *Controller) persistAndFetch(ctx context.Context, resp *domain.LoginResponse) (*domain.User, error) {
	if err := c.store.SaveToken(ctx, resp.AccessToken); err != nil {
		return nil, errors.Wrap(err, "login")
	}
	if err := c.store.SaveRefreshToken(ctx, resp.RefreshToken); err != nil {
		return nil, errors.Wrap(err, "login")
	}

	user, err := c.profile.GetMyProfile(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "login: fetch profile")
	}
	if err := c.store.SaveUser(ctx, user); err != nil {
		return nil, errors.Wrap(err, "login")
	}
	return user, nil
}

func (c *Controller) restoreTokens(ctx context.Context, token, refresh string) {
	var err error
	if token == "" {
		err = c.store.RemoveToken(ctx)
	} else {
		err = c.store.SaveToken(ctx, token)
	}
	if err != nil {
		c.log.Error().Err(err).Msg("restore token after failed login")
	}

	if refresh == "" {
		err = c.store.RemoveRefreshToken(ctx)
	} else {
		err = c.store.SaveRefreshToken(ctx, refresh)
	}
	if err != nil {
		c.log.Error().Err(err).Msg("restore refresh token after failed login")
	}
}

// Signup validates the form, registers the user, and then logs in with the
// same mobile number and password. A failed login fails the signup.
func (c *Controller) Signup(ctx context.Context, form domain.SignupForm) error {
	if err := domain.Validate(form); err != nil {
		return err
	}

	c.op.Lock()
	defer c.op.Unlock()

	if _, err := c.auth.Signup(ctx, form.Request()); err != nil {
		return errors.Wrap(err, "signup")
	}
	return c.login(ctx, domain.LoginRequest{
		MobileNumber: form.MobileNumber,
		Password:     form.Password,
	})
}

// Logout clears the persisted session, then the in-memory one. If the
// store cannot be cleared the in-memory session is left as is.
func (c *Controller) Logout(ctx context.Context) error {
	c.op.Lock()
	defer c.op.Unlock()

	if err := c.store.ClearAll(ctx); err != nil {
		return errors.Wrap(err, "logout")
	}
	c.update(func(s *State) {
		s.Token = ""
		s.User = nil
	})
	c.log.Info().Msg("logged out")
	return nil
}

// RefreshUser re-fetches the profile, persists it, and adopts it.
func (c *Controller) RefreshUser(ctx context.Context) error {
	c.op.Lock()
	defer c.op.Unlock()

	user, err := c.profile.GetMyProfile(ctx)
	if err != nil {
		return errors.Wrap(err, "refresh user")
	}
	if err := c.store.SaveUser(ctx, user); err != nil {
		return errors.Wrap(err, "refresh user")
	}
	c.update(func(s *State) { s.User = user })
	return nil
}
