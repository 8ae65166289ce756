package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Operand bounds of the multiplication table.
const (
	MinOperand = 1
	MaxOperand = 10
)

// FactKey identifies a multiplication fact by its ordered operand pair.
// (3, 4) and (4, 3) are different facts.
type FactKey struct {
	A int `json:"a" db:"a"`
	B int `json:"b" db:"b"`
}

// String returns the storage key, e.g. "7x8".
func (k FactKey) String() string {
	return strconv.Itoa(k.A) + "x" + strconv.Itoa(k.B)
}

// Valid reports whether both operands lie in [MinOperand, MaxOperand].
func (k FactKey) Valid() bool {
	return k.A >= MinOperand && k.A <= MaxOperand &&
		k.B >= MinOperand && k.B <= MaxOperand
}

// ParseFactKey parses a storage key of the form "<a>x<b>".
func ParseFactKey(s string) (FactKey, error) {
	left, right, ok := strings.Cut(strings.TrimSpace(s), "x")
	if !ok {
		return FactKey{}, fmt.Errorf("invalid fact key %q", s)
	}
	a, err := strconv.Atoi(left)
	if err != nil {
		return FactKey{}, fmt.Errorf("invalid fact key %q: %w", s, err)
	}
	b, err := strconv.Atoi(right)
	if err != nil {
		return FactKey{}, fmt.Errorf("invalid fact key %q: %w", s, err)
	}
	key := FactKey{A: a, B: b}
	if !key.Valid() {
		return FactKey{}, fmt.Errorf("fact key %q out of range", s)
	}
	return key, nil
}
