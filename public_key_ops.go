package paillier

import (
	"io"
	"math/big"
	"sync"

	"github.com/pkg/errors"
)

// EncryptWithR encrypts plaintext m using the caller-supplied randomness r,
// which must already be an element of Z_n*. Most callers should use Encrypt
// instead; EncryptWithR exists for callers that need to control or reuse
// the randomness (e.g. for testing or for specific zero-knowledge proofs).
//
// c = g^m * r^n mod n^2, where g = n+1.
func (pk *PublicKey) EncryptWithR(m Plaintext, r *big.Int) (Ciphertext, error) {
	if m.Int().Sign() < 0 || m.Int().Cmp(pk.N) >= 0 {
		return Ciphertext{}, errors.Wrapf(ErrPreconditionViolated, "%v is out of allowed plaintext space [0, %v)", m, pk.N)
	}

	gm := new(big.Int).Exp(pk.G, m.Int(), pk.NSquare)
	rn := new(big.Int).Exp(r, pk.N, pk.NSquare)
	c := new(big.Int).Mul(gm, rn)
	c.Mod(c, pk.NSquare)
	return Ciphertext{c: c}, nil
}

// Encrypt encrypts plaintext m, drawing fresh randomness from random via
// rejection sampling in Z_n*.
func (pk *PublicKey) Encrypt(m Plaintext, random io.Reader) (Ciphertext, error) {
	r, err := randomInMultiplicativeGroup(pk.N, random)
	if err != nil {
		return Ciphertext{}, errors.Wrap(err, "encrypt: drawing randomness")
	}
	return pk.EncryptWithR(m, r)
}

// Reencrypt rerandomizes c in place by multiplying in a fresh r^n mod n^2.
// The plaintext is preserved; the integer representation changes with
// overwhelming probability, which is what makes this useful for
// unlinkability.
func (pk *PublicKey) Reencrypt(c *Ciphertext, random io.Reader) error {
	r, err := randomInMultiplicativeGroup(pk.N, random)
	if err != nil {
		return errors.Wrap(err, "reencrypt: drawing randomness")
	}
	rn := new(big.Int).Exp(r, pk.N, pk.NSquare)
	next := new(big.Int).Mul(c.c, rn)
	next.Mod(next, pk.NSquare)
	c.c = next
	return nil
}

// AddPlain mutates c in place to encrypt (m + p) mod n, where m was c's
// plaintext before the call: c <- c * g^p mod n^2.
func (pk *PublicKey) AddPlain(c *Ciphertext, p Plaintext) {
	gp := new(big.Int).Exp(pk.G, p.Int(), pk.NSquare)
	next := new(big.Int).Mul(c.c, gp)
	next.Mod(next, pk.NSquare)
	c.c = next
}

// AddEncrypted mutates c1 in place to encrypt (m1 + m2) mod n, where m1 and
// m2 are c1's and c2's plaintexts before the call: c1 <- c1 * c2 mod n^2.
func (pk *PublicKey) AddEncrypted(c1 *Ciphertext, c2 *Ciphertext) {
	next := new(big.Int).Mul(c1.c, c2.c)
	next.Mod(next, pk.NSquare)
	c1.c = next
}

// MulPlain mutates c in place to encrypt (m * k) mod n, where m was c's
// plaintext before the call: c <- c^k mod n^2.
func (pk *PublicKey) MulPlain(c *Ciphertext, k Plaintext) {
	next := new(big.Int).Exp(c.c, k.Int(), pk.NSquare)
	c.c = next
}

// ShareCombine recovers the plaintext from a set of partial decryptions of
// the same ciphertext. All share ids must be distinct. At least w shares
// must be supplied; supplying more than w is fine and equivalent (the
// Lagrange coefficients simply reflect the enlarged index set). The result
// does not depend on the order shares are supplied in.
func (pk *PublicKey) ShareCombine(shares []*PartialDecryption) (Plaintext, error) {
	if len(shares) < pk.Threshold {
		return Plaintext{}, errors.Wrapf(ErrPreconditionViolated, "share_combine: need at least %d shares, got %d", pk.Threshold, len(shares))
	}
	if err := assertUniqueIds(shares); err != nil {
		return Plaintext{}, err
	}

	contributions := make([]*big.Int, len(shares))
	var wg sync.WaitGroup
	wg.Add(len(shares))
	errs := make([]error, len(shares))
	for i, share := range shares {
		i, share := i, share
		go func() {
			defer wg.Done()
			lambda := pk.lagrangeCoefficient(share, shares)
			contribution, err := pk.exponentiateBySignedLambda(share.Val, lambda)
			contributions[i] = contribution
			errs[i] = err
		}()
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return Plaintext{}, err
		}
	}

	cPrime := new(big.Int).Set(one)
	for _, contribution := range contributions {
		cPrime.Mul(cPrime, contribution)
		cPrime.Mod(cPrime, pk.NSquare)
	}

	return pk.recoverPlaintext(cPrime), nil
}

func assertUniqueIds(shares []*PartialDecryption) error {
	seen := make(map[int]bool, len(shares))
	for _, share := range shares {
		if seen[share.Id] {
			return errors.Wrapf(ErrPreconditionViolated, "share_combine: duplicate share id %d", share.Id)
		}
		seen[share.Id] = true
	}
	return nil
}

// lagrangeCoefficient computes lambda_i = delta * prod_{j in S, j != i} (-id_j) / (id_i - id_j),
// scaled by delta = l! so that it is always an integer. shares is the full
// set S; share is the share i this coefficient is being computed for.
func (pk *PublicKey) lagrangeCoefficient(share *PartialDecryption, shares []*PartialDecryption) *big.Int {
	lambda := new(big.Int).Set(pk.delta)
	for _, other := range shares {
		if other.Id == share.Id {
			continue
		}
		numerator := new(big.Int).Mul(lambda, big.NewInt(int64(-other.Id)))
		denominator := big.NewInt(int64(share.Id - other.Id))
		lambda = new(big.Int).Div(numerator, denominator)
	}
	return lambda
}

// exponentiateBySignedLambda computes val^(2*lambda) mod n^2, inverting
// first if lambda is negative.
func (pk *PublicKey) exponentiateBySignedLambda(val, lambda *big.Int) (*big.Int, error) {
	twoLambda := new(big.Int).Mul(two, lambda)
	if twoLambda.Sign() >= 0 {
		return new(big.Int).Exp(val, twoLambda, pk.NSquare), nil
	}
	positive := new(big.Int).Exp(val, new(big.Int).Neg(twoLambda), pk.NSquare)
	inverse := new(big.Int).ModInverse(positive, pk.NSquare)
	if inverse == nil {
		return nil, errors.Wrap(ErrNoInverse, "share_combine: inverting negative-exponent share contribution")
	}
	return inverse, nil
}

// recoverPlaintext applies the final step of share combination: m = ((c' -
// 1) / n) * combineConstant mod n, where the division by n is exact (the
// discrete log of g = 1+n in Z_{n^2}).
func (pk *PublicKey) recoverPlaintext(cPrime *big.Int) Plaintext {
	l := new(big.Int).Sub(cPrime, one)
	l.Div(l, pk.N)
	m := new(big.Int).Mul(l, pk.combineConstant)
	m.Mod(m, pk.N)
	return Plaintext{m: m}
}
