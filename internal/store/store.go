package store

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/roach88/smartfarm/internal/domain"
	"github.com/roach88/smartfarm/internal/errors"
	"github.com/roach88/smartfarm/internal/kv"
)

// DefaultNamespace prefixes every key the store writes.
const DefaultNamespace = "@smartfarming_"

// Keys are the backend keys for the three session blobs.
type Keys struct {
	Token        string
	RefreshToken string
	User         string
}

// KeysFor derives the session keys for a namespace prefix.
func KeysFor(namespace string) Keys {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return Keys{
		Token:        namespace + "token",
		RefreshToken: namespace + "refresh_token",
		User:         namespace + "user",
	}
}

// Store persists the session over a kv.Backend.
type Store struct {
	backend kv.Backend
	keys    Keys
	log     zerolog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithNamespace overrides DefaultNamespace.
func WithNamespace(namespace string) Option {
	return func(s *Store) { s.keys = KeysFor(namespace) }
}

// WithLogger sets the logger used for swallowed read failures.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// New creates a Store over backend.
func New(backend kv.Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		keys:    KeysFor(DefaultNamespace),
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Keys returns the keys the store writes.
func (s *Store) Keys() Keys {
	return s.keys
}

// SaveToken persists the access token.
func (s *Store) SaveToken(ctx context.Context, token string) error {
	return s.set(ctx, s.keys.Token, token, "save token")
}

// GetToken returns the access token, or "" when absent or unreadable.
func (s *Store) GetToken(ctx context.Context) string {
	return s.get(ctx, s.keys.Token, "token")
}

// RemoveToken deletes the access token.
func (s *Store) RemoveToken(ctx context.Context) error {
	return s.remove(ctx, "remove token", s.keys.Token)
}

// SaveRefreshToken persists the refresh token.
func (s *Store) SaveRefreshToken(ctx context.Context, token string) error {
	return s.set(ctx, s.keys.RefreshToken, token, "save refresh token")
}

// GetRefreshToken returns the refresh token, or "" when absent or unreadable.
func (s *Store) GetRefreshToken(ctx context.Context) string {
	return s.get(ctx, s.keys.RefreshToken, "refresh token")
}

// RemoveRefreshToken deletes the refresh token.
func (s *Store) RemoveRefreshToken(ctx context.Context) error {
	return s.remove(ctx, "remove refresh token", s.keys.RefreshToken)
}

// SaveUser serializes and persists user.
func (s *Store) SaveUser(ctx context.Context, user *domain.User) error {
	if user == nil {
		return errors.New("save user: nil user")
	}
	data, err := json.Marshal(user)
	if err != nil {
		return errors.Wrap(err, "save user")
	}
	return s.set(ctx, s.keys.User, string(data), "save user")
}

// GetUser returns the cached user, or nil when absent, unreadable, or
// corrupt.
func (s *Store) GetUser(ctx context.Context) *domain.User {
	raw := s.get(ctx, s.keys.User, "user")
	if raw == "" {
		return nil
	}
	var u domain.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		s.log.Warn().Err(err).Msg("discarding unreadable cached user")
		return nil
	}
	return &u
}

// RemoveUser deletes the cached user.
func (s *Store) RemoveUser(ctx context.Context) error {
	return s.remove(ctx, "remove user", s.keys.User)
}

// ClearAll deletes the token, refresh token, and user in one backend call.
func (s *Store) ClearAll(ctx context.Context) error {
	return s.remove(ctx, "clear session", s.keys.Token, s.keys.RefreshToken, s.keys.User)
}

func (s *Store) get(ctx context.Context, key, what string) string {
	v, err := s.backend.Get(ctx, key)
	if errors.Is(err, kv.ErrNotFound) {
		return ""
	}
	if err != nil {
		s.log.Error().Err(err).Str("item", what).Msg("session read failed; treating as absent")
		return ""
	}
	return v
}

func (s *Store) set(ctx context.Context, key, value, op string) error {
	if err := s.backend.Set(ctx, key, value); err != nil {
		return errors.Wrap(err, op)
	}
	return nil
}

func (s *Store) remove(ctx context.Context, op string, keys ...string) error {
	if err := s.backend.MultiRemove(ctx, keys...); err != nil {
		return errors.Wrap(err, op)
	}
	return nil
}
