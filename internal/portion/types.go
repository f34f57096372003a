package portion

import (
	"fmt"
	"strings"
)

// Type discriminates how a fee is taken from the swap output.
type Type string

const (
	TypeFlat       Type = "flat"
	TypeRegressive Type = "regressive"
)

// Portion is a basis-point fee cut with a designated recipient.
type Portion struct {
	Bips      int    `json:"bips"`
	Recipient string `json:"recipient"`
	Type      Type   `json:"type"`
}

// GetPortionResponse is the answer for a token pair. HasPortion is true
// exactly when Portion is non-nil.
type GetPortionResponse struct {
	HasPortion bool     `json:"hasPortion"`
	Portion    *Portion `json:"portion,omitempty"`
}

// NoPortion is the canonical absent-fee answer, reused on every fallback
// path instead of being reconstructed.
var NoPortion = GetPortionResponse{HasPortion: false}

// CacheKey builds the cache key for a token pair. Addresses are lower-cased
// so that keys are equal regardless of the checksum casing callers use.
func CacheKey(tokenInChainID int, tokenInAddress string, tokenOutChainID int, tokenOutAddress string) string {
	return fmt.Sprintf("portion-%d-%s-%d-%s",
		tokenInChainID, strings.ToLower(tokenInAddress),
		tokenOutChainID, strings.ToLower(tokenOutAddress))
}
