package paillier

import (
	"crypto/rand"
	"io"
	"math/big"

	"github.com/pkg/errors"
)

var (
	zero = big.NewInt(0)
	one  = big.NewInt(1)
	two  = big.NewInt(2)
	four = big.NewInt(4)
)

// factorial returns n! = n*(n-1)*...*2*1.
func factorial(n int) *big.Int {
	ret := big.NewInt(1)
	for i := 2; i <= n; i++ {
		ret.Mul(ret, big.NewInt(int64(i)))
	}
	return ret
}

// randomInMultiplicativeGroup draws a uniform element of Z_n* by
// rejection-sampling a uniform residue mod n until it is coprime to n. A
// non-coprime residue would share a factor with n, so this rejection step is
// what keeps encryption randomness from ever leaking a factor of n.
func randomInMultiplicativeGroup(n *big.Int, random io.Reader) (*big.Int, error) {
	for {
		r, err := rand.Int(random, n)
		if err != nil {
			return nil, errors.Wrap(err, "drawing random element of Z_n*")
		}
		if r.Sign() == 0 {
			continue
		}
		if new(big.Int).GCD(nil, nil, n, r).Cmp(one) == 0 {
			return r, nil
		}
	}
}

// randomQuadraticResidueGenerator returns a random generator of the cyclic
// group of squares in Z_n2* with high probability. Only valid when n2 is the
// square of a product of two safe primes; used solely by the optional ZKP
// extension.
func randomQuadraticResidueGenerator(n2 *big.Int, random io.Reader) (*big.Int, error) {
	r, err := randomInMultiplicativeGroup(n2, random)
	if err != nil {
		return nil, err
	}
	return new(big.Int).Mod(new(big.Int).Mul(r, r), n2), nil
}

// crt2 solves the two-modulus Chinese Remainder system: returns the unique
// x mod (m1*m2) such that x = a1 (mod m1) and x = a2 (mod m2). Requires
// gcd(m1, m2) = 1, which callers must guarantee.
//
// x = a1*m2*(m2^-1 mod m1) + a2*m1*(m1^-1 mod m2), reduced mod m1*m2.
func crt2(a1, m1, a2, m2 *big.Int) (*big.Int, error) {
	if new(big.Int).GCD(nil, nil, m1, m2).Cmp(one) != 0 {
		return nil, errors.Wrap(ErrPreconditionViolated, "crt2: moduli are not coprime")
	}
	m2InvModM1 := new(big.Int).ModInverse(m2, m1)
	if m2InvModM1 == nil {
		return nil, errors.Wrap(ErrNoInverse, "crt2: m2 has no inverse mod m1")
	}
	m1InvModM2 := new(big.Int).ModInverse(m1, m2)
	if m1InvModM2 == nil {
		return nil, errors.Wrap(ErrNoInverse, "crt2: m1 has no inverse mod m2")
	}

	modulus := new(big.Int).Mul(m1, m2)

	term1 := new(big.Int).Mul(a1, m2)
	term1.Mul(term1, m2InvModM1)

	term2 := new(big.Int).Mul(a2, m1)
	term2.Mul(term2, m1InvModM2)

	x := new(big.Int).Add(term1, term2)
	return x.Mod(x, modulus), nil
}
