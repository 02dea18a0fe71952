package domain

import "math/big"

type AddressType string

const (
	AddressTypeContract AddressType = "Contract"
	AddressTypeAddress  AddressType = "Address"
)

// AddressDetails classifies an address and carries its current balance.
type AddressDetails struct {
	AddressType AddressType `json:"addressType"`
	Balance     *big.Int    `json:"balance"`
}
