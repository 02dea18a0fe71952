package domain

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// L1L2Transaction correlates an L1 deposit with the L2 transaction it produced.
type L1L2Transaction struct {
	L1BlockNumber *big.Int `json:"l1BlockNumber"`
	L1Hash        Hash     `json:"l1Hash"`
	L2Hash        Hash     `json:"l2Hash"`
	Timestamp     *big.Int `json:"timestamp"`
	L1TxHash      string   `json:"l1TxHash"`
	L1TxOrigin    string   `json:"l1TxOrigin"`
	GasLimit      uint64   `json:"gasLimit"`
}

// MessageArgs are the parameters of a cross-domain messenger call.
type MessageArgs struct {
	Target       Address  `json:"target"`
	Sender       Address  `json:"sender"`
	Message      Hex      `json:"message"`
	Value        *big.Int `json:"value"`
	MessageNonce *big.Int `json:"messageNonce"`
	GasLimit     *big.Int `json:"gasLimit"`
}

const relayMessageABI = `[{"type":"function","name":"relayMessage","inputs":[
	{"name":"_nonce","type":"uint256"},
	{"name":"_sender","type":"address"},
	{"name":"_target","type":"address"},
	{"name":"_value","type":"uint256"},
	{"name":"_minGasLimit","type":"uint256"},
	{"name":"_message","type":"bytes"}]}]`

var messengerABI = mustParseABI(relayMessageABI)

func mustParseABI(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic(err)
	}
	return parsed
}

// EncodeRelayMessage returns the relayMessage calldata for these arguments.
func (m MessageArgs) EncodeRelayMessage() ([]byte, error) {
	if !common.IsHexAddress(string(m.Sender)) {
		return nil, fmt.Errorf("invalid sender address %q", m.Sender)
	}
	if !common.IsHexAddress(string(m.Target)) {
		return nil, fmt.Errorf("invalid target address %q", m.Target)
	}
	payload, err := hexutil.Decode(string(m.Message))
	if err != nil {
		return nil, fmt.Errorf("invalid message payload: %w", err)
	}
	return messengerABI.Pack("relayMessage",
		orZero(m.MessageNonce),
		common.HexToAddress(string(m.Sender)),
		common.HexToAddress(string(m.Target)),
		orZero(m.Value),
		orZero(m.GasLimit),
		payload,
	)
}

// Hash returns the keccak256 hash of the relayMessage calldata, which is
// the identifier both layers use for the message.
func (m MessageArgs) Hash() (Hash, error) {
	data, err := m.EncodeRelayMessage()
	if err != nil {
		return "", err
	}
	return Hash(crypto.Keccak256Hash(data).Hex()), nil
}

func orZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}
