package flags

import (
	"context"
	"errors"
	"os"
	"regexp"
	"strconv"
	"time"
)

var ErrNotFound = errors.New("flag not found")

var keyRe = regexp.MustCompile(`^[a-zA-Z0-9._-]{1,128}$`)

func ValidateKey(key string) error {
	if !keyRe.MatchString(key) {
		return errors.New("invalid flag key")
	}
	return nil
}

type Flag struct {
	Key       string    `json:"key"`
	Value     bool      `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Provider answers whether a feature is currently on. It is consulted on
// every call so a runtime toggle takes effect without a restart.
type Provider interface {
	Enabled(ctx context.Context, key string) bool
}

// EnvProvider reads the flag from the process environment on each call.
// Anything strconv.ParseBool accepts counts as an explicit value; an unset
// or malformed variable means disabled.
type EnvProvider struct{}

func (EnvProvider) Enabled(_ context.Context, key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}

// StaticProvider serves fixed values. Intended for tests.
type StaticProvider map[string]bool

func (p StaticProvider) Enabled(_ context.Context, key string) bool {
	return p[key]
}
