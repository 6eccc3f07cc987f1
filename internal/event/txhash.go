package event

import (
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/sha3"
)

// TxHashLength is the length of a transaction hash in bytes.
const TxHashLength = 32

// TxHash identifies a transaction.
type TxHash [TxHashLength]byte

// Hex returns the lowercase hex form without prefix, as the node logs it.
func (h TxHash) Hex() string {
	return hex.EncodeToString(h[:])
}

func (h TxHash) String() string {
	return "0x" + h.Hex()
}

// ParseTxHash parses a hex transaction hash, with or without 0x prefix.
func ParseTxHash(s string) (TxHash, error) {
	var h TxHash

	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	b, err := hex.DecodeString(s)
	if err != nil {
		return h, fmt.Errorf("invalid transaction hash '%s': %v", s, err)
	}
	if len(b) != TxHashLength {
		return h, fmt.Errorf("invalid transaction hash '%s': expected %d bytes but got %d",
			s, TxHashLength, len(b))
	}

	copy(h[:], b)
	return h, nil
}

// HashTransaction returns the Keccak-256 hash of a raw signed transaction.
func HashTransaction(raw []byte) TxHash {
	var h TxHash

	hasher := sha3.NewLegacyKeccak256()
	hasher.Write(raw)
	hasher.Sum(h[:0])

	return h
}
