package portion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCacheKey_CaseInsensitive(t *testing.T) {
	lower := CacheKey(1, "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48", 10, "0x4200000000000000000000000000000000000006")
	checksummed := CacheKey(1, "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", 10, "0x4200000000000000000000000000000000000006")
	upper := CacheKey(1, "0XA0B86991C6218B36C1D19D4A2E9EB0CE3606EB48", 10, "0X4200000000000000000000000000000000000006")

	assert.Equal(t, lower, checksummed)
	assert.Equal(t, lower, upper)
}

func TestCacheKey_DistinguishesPairs(t *testing.T) {
	a := CacheKey(1, "0xaaa", 1, "0xbbb")
	reversed := CacheKey(1, "0xbbb", 1, "0xaaa")
	otherChain := CacheKey(1, "0xaaa", 10, "0xbbb")

	assert.NotEqual(t, a, reversed)
	assert.NotEqual(t, a, otherChain)
}

func TestCacheKey_Format(t *testing.T) {
	key := CacheKey(1, "0xAbC", 137, "0xDeF")
	assert.Equal(t, "portion-1-0xabc-137-0xdef", key)
}
