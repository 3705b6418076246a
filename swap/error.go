package swap

import "encoding/json"

var (
	ErrInvalidParams         = &Error{10001, "invalid params"}
	ErrUnsupportedFormula    = &Error{10002, "unsupported formula"}
	ErrNumericDomain         = &Error{10003, "invalid numeric domain"}
	ErrFormulaMismatch       = &Error{10004, "formula mismatch"}
	ErrLiquidityEmpty        = &Error{20002, "invalid liquidity empty"}
	ErrInsufficientLiquidity = &Error{20003, "insufficient liquidity"}
)

type Error struct {
	Code        int    `json:"code"`
	Description string `json:"description"`
}

func (e *Error) Error() string {
	eb, _ := json.Marshal(e)
	return string(eb)
}

// AsError returns err as an engine error when it is one.
func AsError(err error) (*Error, bool) {
	e, ok := err.(*Error)
	return e, ok
}
