package paillier

import (
	"io"
	"math/big"
	"time"

	"github.com/pkg/errors"
)

// KeyGenConfig carries the parameters governing key generation: the
// requested modulus bit length, the number of decryption servers, the
// threshold quorum required to decrypt, and the tuning knobs for the
// underlying safe-prime search.
type KeyGenConfig struct {
	// Bits is the target bit length of n = p*q. Each safe prime is drawn at
	// Bits/2 bits.
	Bits int
	// TotalNumberOfDecryptionServers is l, the total number of share
	// holders.
	TotalNumberOfDecryptionServers int
	// Threshold is w, the quorum of shares required to decrypt. Must
	// satisfy 1 <= w <= l.
	Threshold int
	// SafePrimeConcurrency is the number of workers searching concurrently
	// for each safe prime. Defaults to 4 if zero.
	SafePrimeConcurrency int
	// SafePrimeTimeout bounds the safe-prime search. Defaults to 120s if
	// zero.
	SafePrimeTimeout time.Duration
}

const minPublicKeyBitLength = 18

func (cfg KeyGenConfig) validate() error {
	if cfg.Bits < minPublicKeyBitLength {
		return errors.Wrapf(ErrPreconditionViolated, "public key bit length must be at least %d bits", minPublicKeyBitLength)
	}
	if cfg.Bits%2 != 0 {
		return errors.Wrap(ErrPreconditionViolated, "public key bit length must be an even number")
	}
	if cfg.TotalNumberOfDecryptionServers < 1 {
		return errors.Wrap(ErrPreconditionViolated, "total number of decryption servers must be at least 1")
	}
	if cfg.Threshold < 1 || cfg.Threshold > cfg.TotalNumberOfDecryptionServers {
		return errors.Wrap(ErrPreconditionViolated, "threshold must satisfy 1 <= w <= l")
	}
	return nil
}

func (cfg KeyGenConfig) safePrimeConcurrency() int {
	if cfg.SafePrimeConcurrency > 0 {
		return cfg.SafePrimeConcurrency
	}
	return 4
}

func (cfg KeyGenConfig) safePrimeTimeout() time.Duration {
	if cfg.SafePrimeTimeout > 0 {
		return cfg.SafePrimeTimeout
	}
	return 120 * time.Second
}

// PublicKey is the public half of a threshold Paillier keypair. It is
// immutable after generation and freely shareable across goroutines.
type PublicKey struct {
	// Threshold is w, the number of partial decryptions required to
	// recover a plaintext.
	Threshold int
	// TotalNumberOfDecryptionServers is l, the total number of share
	// holders.
	TotalNumberOfDecryptionServers int
	// N is the public modulus, n = p*q.
	N *big.Int
	// G is the fixed generator n+1.
	G *big.Int
	// NSquare is n^2, precomputed since every operation needs it.
	NSquare *big.Int
	// delta is l!, the universal denominator clearer for integer Lagrange
	// interpolation in the exponent.
	delta *big.Int
	// combineConstant is (4*delta^2)^-1 mod n, precomputed so share_combine
	// never repeats a modular inverse.
	combineConstant *big.Int

	// V supports the optional zero-knowledge share-decryption proof
	// extension (zkp.go). It is always populated by GenerateKeyPair but is
	// never read by ShareDecrypt/ShareCombine. The per-server verification
	// values derived from V (Vi in the literature) depend on the shares
	// produced by PrivateKey.Share and so cannot be known at key-generation
	// time; they are computed once by VerificationValues after sharing and
	// distributed by the dealer alongside each share.
	V *big.Int
}

// Delta returns l!, the scaling factor applied to every Lagrange
// coefficient so it becomes an integer.
func (pk *PublicKey) Delta() *big.Int {
	return new(big.Int).Set(pk.delta)
}

// MarshalFields exposes the raw values needed to reconstruct pk, for use by
// the wire package. delta and the combine constant are intentionally
// omitted: both are cheaply recomputable from the other fields, so
// PublicKeyFromFields derives them instead of trusting a serialized copy.
func (pk *PublicKey) MarshalFields() (threshold, totalServers int, n, g, nSquare, v *big.Int) {
	return pk.Threshold, pk.TotalNumberOfDecryptionServers, pk.N, pk.G, pk.NSquare, pk.V
}

// PublicKeyFromFields reconstructs a PublicKey from the values returned by
// MarshalFields, recomputing delta and the combine constant.
func PublicKeyFromFields(threshold, totalServers int, n, g, nSquare, v *big.Int) (*PublicKey, error) {
	delta := factorial(totalServers)
	combineConstant := computeCombineConstant(delta, n)
	if combineConstant == nil {
		return nil, errors.Wrap(ErrNoInverse, "wire: inverting 4*delta^2 mod n while reconstructing public key")
	}
	return &PublicKey{
		Threshold:                      threshold,
		TotalNumberOfDecryptionServers: totalServers,
		N:                              n,
		G:                              g,
		NSquare:                        nSquare,
		delta:                          delta,
		combineConstant:                combineConstant,
		V:                              v,
	}, nil
}

// PrivateKey is the private half of a threshold Paillier keypair, held only
// by the trusted dealer between generation and sharing. It should be
// discarded (not reused) once Share has been called.
type PrivateKey struct {
	Threshold                      int
	TotalNumberOfDecryptionServers int
	N                               *big.Int
	NSquare                         *big.Int
	// Nm is n*m, the modulus over which the hiding polynomial is defined.
	Nm *big.Int
	// d satisfies d = 1 (mod n) and d = 0 (mod m), where m = p'*q'.
	d *big.Int
}

// MarshalFields exposes the raw values needed to reconstruct sk, for use by
// the wire package.
func (sk *PrivateKey) MarshalFields() (threshold, totalServers int, n, nSquare, nm, d *big.Int) {
	return sk.Threshold, sk.TotalNumberOfDecryptionServers, sk.N, sk.NSquare, sk.Nm, sk.d
}

// PrivateKeyFromFields reconstructs a PrivateKey from the values returned by
// MarshalFields.
func PrivateKeyFromFields(threshold, totalServers int, n, nSquare, nm, d *big.Int) *PrivateKey {
	return &PrivateKey{
		Threshold:                      threshold,
		TotalNumberOfDecryptionServers: totalServers,
		N:                              n,
		NSquare:                        nSquare,
		Nm:                             nm,
		d:                              d,
	}
}

// GenerateKeyPair draws two distinct safe primes concurrently, derives n, g,
// m, d, delta and the combine constant, and returns the matched
// (PublicKey, PrivateKey) pair.
func GenerateKeyPair(cfg KeyGenConfig, random io.Reader) (*PublicKey, *PrivateKey, error) {
	if err := cfg.validate(); err != nil {
		return nil, nil, err
	}

	p, pPrime, q, qPrime, err := generateDistinctSafePrimePair(cfg, random)
	if err != nil {
		return nil, nil, err
	}

	return keyPairFromPrimes(cfg, p, pPrime, q, qPrime, random)
}

// keyPairFromPrimes derives a key pair from an already-chosen pair of
// distinct safe primes (and their Sophie Germain halves), skipping the
// search step. GenerateKeyPair is the production entry point; tests use this
// directly with small fixed primes, trading a slow probabilistic search for
// deterministic, fast fixtures.
func keyPairFromPrimes(cfg KeyGenConfig, p, pPrime, q, qPrime *big.Int, random io.Reader) (*PublicKey, *PrivateKey, error) {
	n := new(big.Int).Mul(p, q)
	nSquare := new(big.Int).Mul(n, n)
	g := new(big.Int).Add(n, one)
	m := new(big.Int).Mul(pPrime, qPrime)
	nm := new(big.Int).Mul(n, m)

	d, err := crt2(one, n, zero, m)
	if err != nil {
		return nil, nil, errors.Wrap(err, "keygen: computing d via CRT")
	}

	delta := factorial(cfg.TotalNumberOfDecryptionServers)
	combineConstant := computeCombineConstant(delta, n)
	if combineConstant == nil {
		return nil, nil, errors.Wrap(ErrNoInverse, "keygen: inverting 4*delta^2 mod n")
	}

	v, err := randomQuadraticResidueGenerator(nSquare, random)
	if err != nil {
		return nil, nil, errors.Wrap(err, "keygen: generating ZKP verification base V")
	}

	pk := &PublicKey{
		Threshold:                      cfg.Threshold,
		TotalNumberOfDecryptionServers: cfg.TotalNumberOfDecryptionServers,
		N:                              n,
		G:                              g,
		NSquare:                        nSquare,
		delta:                          delta,
		combineConstant:                combineConstant,
		V:                              v,
	}
	sk := &PrivateKey{
		Threshold:                      cfg.Threshold,
		TotalNumberOfDecryptionServers: cfg.TotalNumberOfDecryptionServers,
		N:                              n,
		NSquare:                        nSquare,
		Nm:                             nm,
		d:                              d,
	}

	return pk, sk, nil
}

// computeCombineConstant returns (4*delta^2)^-1 mod n, or nil if the inverse
// does not exist.
func computeCombineConstant(delta, n *big.Int) *big.Int {
	deltaSquared := new(big.Int).Mul(delta, delta)
	fourDeltaSquared := new(big.Int).Mul(four, deltaSquared)
	return new(big.Int).ModInverse(fourDeltaSquared, n)
}

type safePrimeResult struct {
	p, pPrime *big.Int
	err       error
}

// generateDistinctSafePrimePair draws the two safe primes p, q (and their
// Sophie Germain halves p', q') concurrently: the two independent draws
// dominate key generation cost, so running them as a fork-join across two
// workers roughly halves wall time versus drawing them one after another.
// Retries if the draws collide.
func generateDistinctSafePrimePair(cfg KeyGenConfig, random io.Reader) (p, pPrime, q, qPrime *big.Int, err error) {
	bits := cfg.Bits / 2
	concurrency := cfg.safePrimeConcurrency()
	timeout := cfg.safePrimeTimeout()

	for {
		resultChan := make(chan safePrimeResult, 1)
		go func() {
			pp, qq, genErr := GenerateSafePrime(bits, concurrency, timeout, random)
			resultChan <- safePrimeResult{p: pp, pPrime: qq, err: genErr}
		}()

		q, qPrime, err = GenerateSafePrime(bits, concurrency, timeout, random)
		if err != nil {
			<-resultChan
			return nil, nil, nil, nil, err
		}

		firstResult := <-resultChan
		if firstResult.err != nil {
			return nil, nil, nil, nil, firstResult.err
		}
		p, pPrime = firstResult.p, firstResult.pPrime

		if arePrimesUsable(p, pPrime, q, qPrime) {
			return p, pPrime, q, qPrime, nil
		}
		// Extremely unlikely collision between the two concurrent draws;
		// retry both.
	}
}

func arePrimesUsable(p, pPrime, q, qPrime *big.Int) bool {
	if p.Cmp(q) == 0 {
		return false
	}
	if p.Cmp(qPrime) == 0 {
		return false
	}
	if pPrime.Cmp(q) == 0 {
		return false
	}
	return true
}
