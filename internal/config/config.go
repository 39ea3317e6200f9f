// Package config loads client settings from defaults, an optional YAML
// file, and SMARTFARM_* environment variables, in that order of
// precedence.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/roach88/smartfarm/internal/errors"
)

const (
	EnvPrefix = "SMARTFARM_"

	DefaultBaseURL = "http://app.undefineddevelopers.online/smartfarming/api"
	DefaultTimeout = 30 * time.Second

	appDir      = "smartfarm"
	defaultFile = "config.yaml"
)

// Backend names accepted for store.backend.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

type Config struct {
	API   APIConfig   `koanf:"api"`
	Store StoreConfig `koanf:"store"`
	Log   LogConfig   `koanf:"log"`
}

type APIConfig struct {
	BaseURL string        `koanf:"baseUrl" validate:"required,url"`
	Timeout time.Duration `koanf:"timeout" validate:"gt=0"`
}

type StoreConfig struct {
	Backend   string      `koanf:"backend" validate:"oneof=sqlite redis memory"`
	Path      string      `koanf:"path"`
	Namespace string      `koanf:"namespace"`
	Redis     RedisConfig `koanf:"redis"`
}

type RedisConfig struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db" validate:"gte=0"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Pretty bool   `koanf:"pretty"`
}

// Options controls where Load looks.
type Options struct {
	// Path is an explicit config file. It must exist when set. When empty,
	// DefaultPath is read if present.
	Path string
	// Environ overrides os.Environ, for tests.
	Environ func() []string
}

// Dir returns the per-user directory holding the config file and the
// default session database.
func Dir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return "." + appDir
	}
	return filepath.Join(base, appDir)
}

// DefaultPath is the config file read when no path is given.
func DefaultPath() string {
	return filepath.Join(Dir(), defaultFile)
}

func defaults() map[string]any {
	return map[string]any{
		"api.baseUrl":          DefaultBaseURL,
		"api.timeout":          DefaultTimeout,
		"store.backend":        BackendSQLite,
		"store.path":           filepath.Join(Dir(), "session.db"),
		"store.namespace":      "@smartfarming_",
		"store.redis.addr":     "localhost:6379",
		"store.redis.password": "",
		"store.redis.db":       0,
		"log.level":            "warn",
		"log.pretty":           false,
	}
}

// Load resolves the configuration.
func Load(opts Options) (*Config, error) {
	k := koanf.New(".")
	for key, value := range defaults() {
		if err := k.Set(key, value); err != nil {
			return nil, errors.Wrapf(err, "set default %s", key)
		}
	}

	path := opts.Path
	if path == "" {
		if _, err := os.Stat(DefaultPath()); err == nil {
			path = DefaultPath()
		}
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "read config %s", path)
		}
	}

	known := k.Raw()
	if err := k.Load(env.Provider(".", env.Opt{
		Prefix:      EnvPrefix,
		EnvironFunc: opts.Environ,
		TransformFunc: func(key, value string) (string, any) {
			return canonicalizeEnvKey(strings.TrimPrefix(key, EnvPrefix), known), value
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load environment")
	}

	cfg := new(Config)
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
		},
	}); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return cfg, nil
}

// canonicalizeEnvKey turns API_BASEURL into api.baseUrl by matching each
// underscore-separated segment against the keys already loaded.
func canonicalizeEnvKey(rawKey string, existing map[string]any) string {
	segments := strings.Split(strings.ToLower(rawKey), "_")
	canonical := make([]string, 0, len(segments))
	current := existing

	for _, segment := range segments {
		if segment == "" {
			continue
		}
		if matched, next, ok := findSegment(current, segment); ok {
			canonical = append(canonical, matched)
			current = next
		} else {
			canonical = append(canonical, segment)
			current = nil
		}
	}
	return strings.Join(canonical, ".")
}

func findSegment(current map[string]any, segment string) (string, map[string]any, bool) {
	needle := normalizeToken(segment)
	for key, value := range current {
		if normalizeToken(key) != needle {
			continue
		}
		child, _ := value.(map[string]any)
		return key, child, true
	}
	return "", nil, false
}

func normalizeToken(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}
