package quote

import (
	"math/big"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowance_Covers(t *testing.T) {
	now := time.Now().Unix()

	var nilAllowance *Allowance
	assert.False(t, nilAllowance.Covers(big.NewInt(1), now))

	a := &Allowance{Amount: big.NewInt(100), Expiration: now + 3600}
	assert.True(t, a.Covers(big.NewInt(100), now))
	assert.True(t, a.Covers(big.NewInt(50), now))
	assert.False(t, a.Covers(big.NewInt(101), now))

	expired := &Allowance{Amount: big.NewInt(100), Expiration: now - 1}
	assert.False(t, expired.Covers(big.NewInt(50), now))

	noAmount := &Allowance{Expiration: now + 3600}
	assert.False(t, noAmount.Covers(big.NewInt(1), now))

	assert.False(t, a.Covers(nil, now))
}

func TestAllowance_NonceOrZero(t *testing.T) {
	var nilAllowance *Allowance
	assert.Equal(t, big.NewInt(0), nilAllowance.NonceOrZero())

	assert.Equal(t, big.NewInt(0), (&Allowance{}).NonceOrZero())
	assert.Equal(t, big.NewInt(7), (&Allowance{Nonce: big.NewInt(7)}).NonceOrZero())
}

func TestBuildPermit(t *testing.T) {
	now := time.Unix(1700000000, 0)
	token := "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"

	td := buildPermit(token, 137, big.NewInt(4), now)
	require.NotNil(t, td)

	assert.Equal(t, "PermitSingle", td.PrimaryType)
	assert.Equal(t, "Permit2", td.Domain.Name)
	assert.Equal(t, permit2Address, td.Domain.VerifyingContract)
	assert.Equal(t, universalRouterAddress, td.Message["spender"])

	details, ok := td.Message["details"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, token, details["token"])
	assert.Equal(t, maxUint160.String(), details["amount"])
	assert.Equal(t, "4", details["nonce"])

	// Expirations are anchored on the provided clock.
	wantExpiration := strconv.FormatInt(now.Add(permitExpiration).Unix(), 10)
	wantDeadline := strconv.FormatInt(now.Add(permitSigDeadline).Unix(), 10)
	assert.Equal(t, wantExpiration, details["expiration"])
	assert.Equal(t, wantDeadline, td.Message["sigDeadline"])

	// Typed data must carry the three Permit2 type definitions.
	assert.Contains(t, td.Types, "EIP712Domain")
	assert.Contains(t, td.Types, "PermitSingle")
	assert.Contains(t, td.Types, "PermitDetails")
}

func TestMaxUint160(t *testing.T) {
	want := new(big.Int)
	want.SetString("1461501637330902918203684832716283019655932542975", 10)
	assert.Equal(t, want, maxUint160)
}
