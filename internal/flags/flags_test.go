package flags

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateKey(t *testing.T) {
	validKeys := []string{
		"simple.flag",
		"flag.with.dots",
		"flag123",
		"a",
		"portion-enabled",
		"very.long.flag.name.with.many.parts",
	}
	for _, key := range validKeys {
		assert.NoError(t, ValidateKey(key), "Key %s should be valid", key)
	}

	invalidKeys := []string{
		"",
		" ",
		"flag with spaces",
		"flag:with:colons",
		"flag\twith\ttabs",
		"flag\nwith\nnewlines",
	}
	for _, key := range invalidKeys {
		assert.Error(t, ValidateKey(key), "Key %q should be invalid", key)
	}
}

func TestEnvProvider(t *testing.T) {
	ctx := context.Background()
	p := EnvProvider{}

	// Unset means disabled.
	assert.False(t, p.Enabled(ctx, "TEST_FLAG_UNSET"))

	t.Setenv("TEST_FLAG_ON", "true")
	assert.True(t, p.Enabled(ctx, "TEST_FLAG_ON"))

	t.Setenv("TEST_FLAG_OFF", "false")
	assert.False(t, p.Enabled(ctx, "TEST_FLAG_OFF"))

	t.Setenv("TEST_FLAG_ONE", "1")
	assert.True(t, p.Enabled(ctx, "TEST_FLAG_ONE"))

	// Malformed values count as disabled, not an error.
	t.Setenv("TEST_FLAG_JUNK", "enabled")
	assert.False(t, p.Enabled(ctx, "TEST_FLAG_JUNK"))
}

func TestEnvProvider_ReReadsOnEveryCall(t *testing.T) {
	ctx := context.Background()
	p := EnvProvider{}

	t.Setenv("TEST_FLAG_TOGGLE", "false")
	assert.False(t, p.Enabled(ctx, "TEST_FLAG_TOGGLE"))

	t.Setenv("TEST_FLAG_TOGGLE", "true")
	assert.True(t, p.Enabled(ctx, "TEST_FLAG_TOGGLE"))
}

func TestStaticProvider(t *testing.T) {
	ctx := context.Background()
	p := StaticProvider{"on": true, "off": false}

	assert.True(t, p.Enabled(ctx, "on"))
	assert.False(t, p.Enabled(ctx, "off"))
	assert.False(t, p.Enabled(ctx, "unknown"))
}
