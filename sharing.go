package paillier

import (
	"crypto/rand"
	"io"
	"math/big"
	"sync"

	"github.com/pkg/errors"
)

// PrivateKeyShare is one decryption server's share of a sharing of a
// PrivateKey: s_i = P(i) for the hiding polynomial P built at sharing time,
// where i is the server's 1-indexed position.
type PrivateKeyShare struct {
	// Id is the 1-indexed server identifier (external indices passed to
	// Share are 0-indexed and converted to 1-indexed here).
	Id int
	// Si is the polynomial evaluation P(Id) mod nm.
	Si *big.Int
}

// polynomial is the short-lived hiding polynomial used during sharing:
// P(x) = d + a1*x + a2*x^2 + ... + a_{w-1}*x^{w-1} over Z_nm, with a0 = d.
// It borrows the PrivateKey only for the duration of Share and must not
// outlive it.
type polynomial struct {
	nm           *big.Int
	coefficients []*big.Int
}

func newPolynomial(sk *PrivateKey, random io.Reader) (*polynomial, error) {
	coefficients := make([]*big.Int, sk.Threshold)
	coefficients[0] = sk.d
	for i := 1; i < sk.Threshold; i++ {
		c, err := rand.Int(random, sk.Nm)
		if err != nil {
			return nil, errors.Wrap(err, "sharing: drawing random polynomial coefficient")
		}
		coefficients[i] = c
	}
	return &polynomial{nm: sk.Nm, coefficients: coefficients}, nil
}

// evaluate computes P(x) mod nm for the 1-indexed server position x, using
// Horner-equivalent accumulation.
func (p *polynomial) evaluate(x int) *big.Int {
	result := new(big.Int)
	for i := len(p.coefficients) - 1; i >= 0; i-- {
		result.Mul(result, big.NewInt(int64(x)))
		result.Add(result, p.coefficients[i])
		result.Mod(result, p.nm)
	}
	return result
}

// Share splits sk into shares for the decryption servers identified by
// indices (0-indexed on this interface). Exactly w = sk.Threshold unique
// indices must be supplied; each index's polynomial evaluation is
// independent of the others, so they run concurrently across one goroutine
// per index. The PrivateKey should be treated as retired after this call:
// the polynomial is discarded once every index has been evaluated.
func (sk *PrivateKey) Share(indices []int, random io.Reader) ([]*PrivateKeyShare, error) {
	if len(indices) != sk.Threshold {
		return nil, errors.Wrapf(ErrPreconditionViolated, "share: need exactly %d indices, got %d", sk.Threshold, len(indices))
	}
	seen := make(map[int]bool, len(indices))
	for _, idx := range indices {
		if seen[idx] {
			return nil, errors.Wrapf(ErrPreconditionViolated, "share: duplicate index %d", idx)
		}
		seen[idx] = true
	}

	poly, err := newPolynomial(sk, random)
	if err != nil {
		return nil, err
	}

	shares := make([]*PrivateKeyShare, len(indices))
	var wg sync.WaitGroup
	wg.Add(len(indices))
	for pos, idx := range indices {
		pos, idx := pos, idx
		go func() {
			defer wg.Done()
			id := idx + 1
			shares[pos] = &PrivateKeyShare{Id: id, Si: poly.evaluate(id)}
		}()
	}
	wg.Wait()

	return shares, nil
}
