package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/roach88/smartfarm/internal/app"
	"github.com/roach88/smartfarm/internal/config"
	"github.com/roach88/smartfarm/internal/domain"
	"github.com/roach88/smartfarm/internal/kv"
	fake "github.com/roach88/smartfarm/internal/testutil"
)

const password = "secret1"

// cliHarness runs CLI invocations against a fake API. Invocations share one
// session backend, so a login persists into later runs the way the SQLite
// file does for the real binary.
type cliHarness struct {
	t       *testing.T
	api     *fake.FakeAPI
	backend *kv.Memory
	built   int
}

type runResult struct {
	Stdout string
	Stderr string
	Code   int
}

func newCLIHarness(t *testing.T) *cliHarness {
	t.Helper()
	return &cliHarness{t: t, api: fake.NewFakeAPI(t), backend: kv.NewMemory()}
}

func (h *cliHarness) factory(_ context.Context, _ *RootOptions) (*app.App, error) {
	h.built++
	cfg := &config.Config{
		API: config.APIConfig{BaseURL: h.api.URL(), Timeout: 5 * time.Second},
		Store: config.StoreConfig{
			Backend:   config.BackendMemory,
			Namespace: "@smartfarming_",
		},
	}
	return app.NewWithBackend(cfg, h.backend, app.Options{Log: zerolog.Nop()}), nil
}

func (h *cliHarness) run(args ...string) runResult {
	h.t.Helper()
	var stdout, stderr bytes.Buffer
	code := ExecuteWith(context.Background(), h.factory, args, &stdout, &stderr)
	return runResult{Stdout: stdout.String(), Stderr: stderr.String(), Code: code}
}

// ok runs args and fails the test unless the command succeeds.
func (h *cliHarness) ok(args ...string) string {
	h.t.Helper()
	res := h.run(args...)
	require.Equal(h.t, ExitSuccess, res.Code, "smartfarm %v\nstdout: %s\nstderr: %s", args, res.Stdout, res.Stderr)
	return res.Stdout
}

func (h *cliHarness) addUser(name, mobile, roles string) domain.User {
	return h.api.AddUser(domain.User{
		Name:         name,
		MobileNumber: mobile,
		Email:        name + "@example.com",
		Roles:        domain.StringPtr(roles),
	}, password)
}

func (h *cliHarness) login(mobile string) {
	h.t.Helper()
	h.ok("login", "-m", mobile, "-p", password)
}

type envelope[T any] struct {
	Status string    `json:"status"`
	Data   T         `json:"data"`
	Error  *CLIError `json:"error"`
}

func decodeEnvelope[T any](t *testing.T, out string) envelope[T] {
	t.Helper()
	var env envelope[T]
	require.NoError(t, json.Unmarshal([]byte(out), &env), out)
	return env
}
