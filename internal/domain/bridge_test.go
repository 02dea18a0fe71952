package domain

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
)

func testMessage() MessageArgs {
	return MessageArgs{
		Target:       "0x4200000000000000000000000000000000000010",
		Sender:       "0x99C9fc46f92E8a1c0deC1b1747d010903E884bE1",
		Message:      "0xdeadbeef",
		Value:        big.NewInt(1000),
		MessageNonce: big.NewInt(7),
		GasLimit:     big.NewInt(200000),
	}
}

func TestEncodeRelayMessageLayout(t *testing.T) {
	data, err := testMessage().EncodeRelayMessage()
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	selector := messengerABI.Methods["relayMessage"].ID
	if !bytes.Equal(data[:4], selector) {
		t.Fatalf("selector mismatch: %x != %x", data[:4], selector)
	}
	// six head words, one length word, one padded payload word
	if want := 4 + 32*8; len(data) != want {
		t.Fatalf("expected %d bytes, got %d", want, len(data))
	}
	nonce := new(big.Int).SetBytes(data[4:36])
	if nonce.Int64() != 7 {
		t.Fatalf("expected nonce 7, got %s", nonce)
	}
}

func TestMessageHashIsKeccakOfCalldata(t *testing.T) {
	msg := testMessage()
	data, err := msg.EncodeRelayMessage()
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	hash, err := msg.Hash()
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if want := Hash(crypto.Keccak256Hash(data).Hex()); hash != want {
		t.Fatalf("hash mismatch: %s != %s", hash, want)
	}

	other := testMessage()
	other.MessageNonce = big.NewInt(8)
	otherHash, err := other.Hash()
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if otherHash == hash {
		t.Fatalf("expected different nonces to hash differently")
	}
}

func TestEncodeRelayMessageRejectsBadInput(t *testing.T) {
	msg := testMessage()
	msg.Target = "0x1"
	if _, err := msg.EncodeRelayMessage(); err == nil {
		t.Fatalf("expected error for short target")
	}

	msg = testMessage()
	msg.Message = "not-hex"
	if _, err := msg.EncodeRelayMessage(); err == nil {
		t.Fatalf("expected error for non-hex payload")
	}
}

func TestEncodeRelayMessageNilQuantities(t *testing.T) {
	msg := testMessage()
	msg.Value = nil
	msg.GasLimit = nil
	msg.MessageNonce = nil
	if _, err := msg.EncodeRelayMessage(); err != nil {
		t.Fatalf("expected nil quantities to encode as zero: %v", err)
	}
}
