package types

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// Hex represents a hexadecimal-encoded quantity as a string (e.g., "0x1a"),
// the encoding Ethereum JSON-RPC uses for block numbers, timestamps and amounts.
type Hex string

// HexFromString validates the input string and returns a Hex value if valid.
func HexFromString(s string) (Hex, error) {
	if err := validateHex(s); err != nil {
		return "", err
	}
	return Hex(s), nil
}

// HexFromUint64 encodes n as a minimal "0x"-prefixed quantity.
func HexFromUint64(n uint64) Hex {
	return Hex("0x" + strconv.FormatUint(n, 16))
}

// validateHex checks whether a string is a valid hexadecimal number starting with "0x" or "0X".
// Quantities wider than 64 bits (e.g., wei amounts) are accepted.
func validateHex(s string) error {
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		return fmt.Errorf("hex string must start with 0x")
	}

	if _, ok := new(big.Int).SetString(s[2:], 16); !ok {
		return fmt.Errorf("invalid hexadecimal value: %q", s)
	}

	return nil
}

// MarshalJSON encodes the Hex as a JSON string.
func (h Hex) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(h))
}

// UnmarshalJSON parses and validates a JSON-encoded hexadecimal string.
// A JSON null leaves the value untouched.
func (h *Hex) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid hex string: %w", err)
	}

	if err := validateHex(s); err != nil {
		return err
	}

	*h = Hex(s)
	return nil
}

// IsEmpty reports whether the Hex holds no value.
func (h Hex) IsEmpty() bool {
	return h == ""
}

// Uint64 returns the decoded value. Invalid or overflowing values decode to zero.
func (h Hex) Uint64() uint64 {
	if len(h) < 3 {
		return 0
	}

	v, _ := strconv.ParseUint(string(h)[2:], 16, 64)
	return v
}

// ParseInt64 decodes the value as a signed integer. Unlike Uint64 it reports
// empty, malformed or overflowing values instead of decoding them to zero.
func (h Hex) ParseInt64() (int64, error) {
	if h.IsEmpty() {
		return 0, fmt.Errorf("empty hex value")
	}

	if err := validateHex(string(h)); err != nil {
		return 0, err
	}

	v, err := strconv.ParseInt(string(h)[2:], 16, 64)
	if err != nil {
		return 0, fmt.Errorf("hex value %q out of range: %w", string(h), err)
	}

	return v, nil
}

// BigInt returns the decoded value as an arbitrary-precision integer.
// Invalid values decode to zero.
func (h Hex) BigInt() *big.Int {
	v := new(big.Int)
	if len(h) < 3 {
		return v
	}

	if _, ok := v.SetString(string(h)[2:], 16); !ok {
		return new(big.Int)
	}

	return v
}
