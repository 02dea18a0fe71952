package domain

import (
	"math/big"
	"strings"
)

// TokenTransfer is a single fungible token movement. Amount is the raw
// integer amount as a decimal string.
type TokenTransfer struct {
	From         Address `json:"from"`
	To           Address `json:"to"`
	TokenAddress Address `json:"tokenAddress"`
	Amount       string  `json:"amount"`
	Decimals     uint8   `json:"decimals"`
}

// FormattedAmount renders Amount scaled down by Decimals, trimming trailing
// zeros. It returns Amount unchanged when it is not a base-10 integer.
func (t TokenTransfer) FormattedAmount() string {
	raw, ok := new(big.Int).SetString(t.Amount, 10)
	if !ok {
		return t.Amount
	}
	if t.Decimals == 0 {
		return raw.String()
	}
	negative := raw.Sign() < 0
	digits := new(big.Int).Abs(raw).String()
	scale := int(t.Decimals)
	if len(digits) <= scale {
		digits = strings.Repeat("0", scale-len(digits)+1) + digits
	}
	whole := digits[:len(digits)-scale]
	frac := strings.TrimRight(digits[len(digits)-scale:], "0")
	out := whole
	if frac != "" {
		out += "." + frac
	}
	if negative {
		out = "-" + out
	}
	return out
}
