package paillier

import "math/big"

// PartialDecryption is one decryption server's contribution toward
// recovering a plaintext: val = c^(2*delta*s_i) mod n^2, tagged with the
// server's id so ShareCombine can perform Lagrange interpolation over the
// set of ids present.
type PartialDecryption struct {
	Id  int
	Val *big.Int
}

// ShareDecrypt computes this server's partial decryption of ciphertext c
// under the threshold public key pk. It is deterministic given (share,
// ciphertext) — no randomness is required.
func (s *PrivateKeyShare) ShareDecrypt(pk *PublicKey, c Ciphertext) *PartialDecryption {
	exponent := new(big.Int).Mul(s.Si, two)
	exponent.Mul(exponent, pk.delta)
	val := new(big.Int).Exp(c.Int(), exponent, pk.NSquare)
	return &PartialDecryption{Id: s.Id, Val: val}
}
