package quote

import (
	"math/big"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

// Canonical Permit2 deployment, identical across supported chains.
const permit2Address = "0x000000000022D473030F116dDEE9F6B43aC78BA3"

// Spender written into permits: the universal router executing the swap.
const universalRouterAddress = "0x3fC91A3afd70395Cd496C647d5a6CC9D4B2b7FAD"

const (
	permitExpiration  = 30 * 24 * time.Hour
	permitSigDeadline = 30 * time.Minute
)

// maxUint160 is the amount written into allowance permits.
var maxUint160 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 160), big.NewInt(1))

// Allowance is the externally observed Permit2 allowance state for the
// swapper's tokenIn. Expiration is unix seconds.
type Allowance struct {
	Amount     *big.Int
	Expiration int64
	Nonce      *big.Int
}

// Covers reports whether this allowance already authorizes moving required
// tokens at nowUnix. A nil allowance covers nothing.
func (a *Allowance) Covers(required *big.Int, nowUnix int64) bool {
	if a == nil || a.Amount == nil || required == nil {
		return false
	}
	return a.Amount.Cmp(required) >= 0 && a.Expiration > nowUnix
}

// NonceOrZero returns the next permit nonce, zero when no allowance was
// ever observed.
func (a *Allowance) NonceOrZero() *big.Int {
	if a == nil || a.Nonce == nil {
		return big.NewInt(0)
	}
	return a.Nonce
}

// buildPermit constructs the EIP-712 typed data for a Permit2 single-token
// allowance permit on tokenIn.
func buildPermit(token string, chainID int, nonce *big.Int, now time.Time) *apitypes.TypedData {
	return &apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain": {
				{Name: "name", Type: "string"},
				{Name: "chainId", Type: "uint256"},
				{Name: "verifyingContract", Type: "address"},
			},
			"PermitSingle": {
				{Name: "details", Type: "PermitDetails"},
				{Name: "spender", Type: "address"},
				{Name: "sigDeadline", Type: "uint256"},
			},
			"PermitDetails": {
				{Name: "token", Type: "address"},
				{Name: "amount", Type: "uint160"},
				{Name: "expiration", Type: "uint48"},
				{Name: "nonce", Type: "uint48"},
			},
		},
		PrimaryType: "PermitSingle",
		Domain: apitypes.TypedDataDomain{
			Name:              "Permit2",
			ChainId:           math.NewHexOrDecimal256(int64(chainID)),
			VerifyingContract: permit2Address,
		},
		Message: apitypes.TypedDataMessage{
			"details": map[string]interface{}{
				"token":      token,
				"amount":     maxUint160.String(),
				"expiration": strconv.FormatInt(now.Add(permitExpiration).Unix(), 10),
				"nonce":      nonce.String(),
			},
			"spender":     universalRouterAddress,
			"sigDeadline": strconv.FormatInt(now.Add(permitSigDeadline).Unix(), 10),
		},
	}
}
