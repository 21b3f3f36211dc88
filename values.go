package paillier

import "math/big"

// Plaintext is a semantic wrapper around a message in Z_n. Wrapping prevents
// accidentally passing a plaintext where a ciphertext integer is expected,
// or vice versa.
type Plaintext struct {
	m *big.Int
}

// NewPlaintext wraps an existing big.Int as a Plaintext. The value is not
// copied; callers should not mutate m afterwards.
func NewPlaintext(m *big.Int) Plaintext {
	return Plaintext{m: m}
}

// PlaintextFromInt64 wraps a native signed integer as a Plaintext.
func PlaintextFromInt64(m int64) Plaintext {
	return Plaintext{m: big.NewInt(m)}
}

// PlaintextFromUint64 wraps a native unsigned integer as a Plaintext.
func PlaintextFromUint64(m uint64) Plaintext {
	return Plaintext{m: new(big.Int).SetUint64(m)}
}

// Int returns the plaintext's underlying big.Int. The caller must not
// mutate the returned value.
func (p Plaintext) Int() *big.Int {
	return p.m
}

// Cmp compares the plaintext's numeric value against another plaintext,
// returning -1, 0, or +1 as big.Int.Cmp does.
func (p Plaintext) Cmp(other Plaintext) int {
	return p.m.Cmp(other.m)
}

// Equal reports whether two plaintexts carry the same numeric value.
func (p Plaintext) Equal(other Plaintext) bool {
	return p.Cmp(other) == 0
}

// CmpInt64 compares the plaintext's numeric value against a native integer.
func (p Plaintext) CmpInt64(other int64) int {
	return p.m.Cmp(big.NewInt(other))
}

// String renders the plaintext in decimal.
func (p Plaintext) String() string {
	return p.m.String()
}

// Ciphertext is a semantic wrapper around an element of Z_{n^2}*. Unlike
// Plaintext, Ciphertext intentionally offers no comparison: a Paillier
// ciphertext is randomized, so two ciphertexts encrypting the same plaintext
// almost never compare equal as integers, and comparing them as if they
// could is a correctness trap.
type Ciphertext struct {
	c *big.Int
}

// NewCiphertext wraps an existing big.Int as a Ciphertext. The value is not
// copied; callers should not mutate c afterwards.
func NewCiphertext(c *big.Int) Ciphertext {
	return Ciphertext{c: c}
}

// Int returns the ciphertext's underlying big.Int. The caller must not
// mutate the returned value directly; use the PublicKey homomorphic
// operations instead.
func (c Ciphertext) Int() *big.Int {
	return c.c
}

// String renders the ciphertext as hexadecimal.
func (c Ciphertext) String() string {
	return c.c.Text(16)
}
