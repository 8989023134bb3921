package dto

import (
	"bytes"
	"errors"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"gastos/internal/core"
)

// Amount is a money value on the wire. It encodes as a JSON number with two
// fraction digits and decodes from a number or a string using either a dot
// or a comma separator. Values that do not parse decode as zero so the
// validator reports them. Values above core.MaxAmount decode unchanged.
type Amount struct {
	decimal.Decimal
}

func NewAmount(d decimal.Decimal) Amount {
	return Amount{Decimal: d}
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.StringFixed(core.AmountScale)), nil
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		a.Decimal = decimal.Zero
		return nil
	}
	s := string(b)
	if b[0] == '"' {
		unq, err := strconv.Unquote(s)
		if err != nil {
			a.Decimal = decimal.Zero
			return nil
		}
		s = unq
	}
	d, err := core.ParseAmount(s)
	switch {
	case errors.Is(err, core.ErrAmountTooLarge):
		// Kept as sent; the transaction rules report the limit.
		d, _ = decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
	case err != nil:
		d = decimal.Zero
	}
	a.Decimal = d
	return nil
}
