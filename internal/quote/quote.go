// Package quote normalizes heterogeneous upstream quote payloads into typed
// entities with a shared capability set.
package quote

import (
	"fmt"
	"math/big"
)

// Quote is the common contract over routing-type variants. A quote is
// immutable after construction except for the allowance, which is discovered
// asynchronously and bound through SetAllowance.
type Quote interface {
	RoutingType() RoutingType
	Request() *Request
	AmountIn() *big.Int
	AmountOut() *big.Int
	SetAllowance(a *Allowance)
	ToJSON() ([]byte, error)
	ToLog() LogRecord
}

// UnknownRoutingTypeError reports a routing tag no constructor exists for.
// It propagates: defaulting here would hand a wrong quote type to pricing.
type UnknownRoutingTypeError struct {
	RoutingType string
}

func (e *UnknownRoutingTypeError) Error() string {
	return fmt.Sprintf("unknown routing type: %q", e.RoutingType)
}

// Parse dispatches a raw upstream payload to the constructor matching the
// routing type carried alongside it.
func Parse(req *Request, routingType RoutingType, raw []byte) (Quote, error) {
	switch routingType {
	case RoutingTypeClassic:
		return ParseClassic(req, raw)
	case RoutingTypeDutchLimit:
		return ParseDutchLimit(req, raw)
	default:
		return nil, &UnknownRoutingTypeError{RoutingType: string(routingType)}
	}
}
