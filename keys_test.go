package paillier

import (
	"crypto/rand"
	"math/big"
	"testing"
	"time"
)

// testKeyPair builds a key pair from small, fixed safe primes instead of
// running the (slow, for test purposes) safe-prime search: p = 23 = 2*11+1,
// q = 359 = 2*179+1, with 23, 359, 11, 179 all distinct primes.
func testKeyPair(t *testing.T, threshold, totalServers int) (*PublicKey, *PrivateKey) {
	t.Helper()
	cfg := KeyGenConfig{
		Bits:                           18,
		TotalNumberOfDecryptionServers: totalServers,
		Threshold:                      threshold,
	}
	pk, sk, err := keyPairFromPrimes(cfg,
		big.NewInt(23), big.NewInt(11),
		big.NewInt(359), big.NewInt(179),
		rand.Reader)
	if err != nil {
		t.Fatalf("building test key pair: %v", err)
	}
	return pk, sk
}

func TestKeyGenConfigValidate(t *testing.T) {
	var tests = map[string]struct {
		cfg     KeyGenConfig
		wantErr bool
	}{
		"valid": {
			KeyGenConfig{Bits: 128, TotalNumberOfDecryptionServers: 3, Threshold: 2},
			false,
		},
		"bits too small": {
			KeyGenConfig{Bits: 10, TotalNumberOfDecryptionServers: 1, Threshold: 1},
			true,
		},
		"odd bits": {
			KeyGenConfig{Bits: 129, TotalNumberOfDecryptionServers: 1, Threshold: 1},
			true,
		},
		"zero servers": {
			KeyGenConfig{Bits: 128, TotalNumberOfDecryptionServers: 0, Threshold: 0},
			true,
		},
		"threshold exceeds servers": {
			KeyGenConfig{Bits: 128, TotalNumberOfDecryptionServers: 2, Threshold: 3},
			true,
		},
		"threshold zero": {
			KeyGenConfig{Bits: 128, TotalNumberOfDecryptionServers: 2, Threshold: 0},
			true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			err := test.cfg.validate()
			if (err != nil) != test.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, test.wantErr)
			}
		})
	}
}

func TestGenerateKeyPairRejectsInvalidConfig(t *testing.T) {
	_, _, err := GenerateKeyPair(KeyGenConfig{Bits: 1}, rand.Reader)
	if err == nil {
		t.Fatal("expected an error for an invalid config")
	}
}

// TestGenerateKeyPairEndToEnd runs the real key generator, including the
// concurrent generateDistinctSafePrimePair fork-join search (as opposed to
// testKeyPair's fixed-prime shortcut used elsewhere in this package), and
// checks the resulting keys actually work for encryption and threshold
// decryption. Bits is kept at the minimum allowed so the search stays fast.
func TestGenerateKeyPairEndToEnd(t *testing.T) {
	cfg := KeyGenConfig{
		Bits:                           minPublicKeyBitLength,
		TotalNumberOfDecryptionServers: 3,
		Threshold:                      2,
		SafePrimeConcurrency:           2,
		SafePrimeTimeout:               10 * time.Second,
	}
	pk, sk, err := GenerateKeyPair(cfg, rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	if pk.N.Cmp(sk.N) != 0 {
		t.Error("public and private key N must match")
	}
	if pk.N.BitLen() < cfg.Bits-1 {
		t.Errorf("N bit length = %d, want at least %d", pk.N.BitLen(), cfg.Bits-1)
	}

	m := PlaintextFromInt64(7)
	c, err := pk.Encrypt(m, rand.Reader)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	shares, err := sk.Share([]int{0, 1}, rand.Reader)
	if err != nil {
		t.Fatalf("Share: %v", err)
	}
	partials := make([]*PartialDecryption, len(shares))
	for i, share := range shares {
		partials[i] = share.ShareDecrypt(pk, c)
	}
	got, err := pk.ShareCombine(partials)
	if err != nil {
		t.Fatalf("ShareCombine: %v", err)
	}
	if !got.Equal(m) {
		t.Errorf("decrypted %v, want %v", got, m)
	}
}

// TestGenerateDistinctSafePrimePairRejectsCollisions exercises
// arePrimesUsable directly: it is the guard the fork-join search in
// generateDistinctSafePrimePair relies on to force a retry when the two
// concurrent draws land on related primes.
func TestGenerateDistinctSafePrimePairRejectsCollisions(t *testing.T) {
	p := big.NewInt(23)
	pPrime := big.NewInt(11)
	q := big.NewInt(359)
	qPrime := big.NewInt(179)
	if !arePrimesUsable(p, pPrime, q, qPrime) {
		t.Fatal("expected distinct primes to be usable")
	}
	if arePrimesUsable(p, pPrime, p, qPrime) {
		t.Error("expected p == q collision to be rejected")
	}
	if arePrimesUsable(p, pPrime, q, p) {
		t.Error("expected p == q' collision to be rejected")
	}
	if arePrimesUsable(p, pPrime, pPrime, qPrime) {
		t.Error("expected p' == q collision to be rejected")
	}
}

func TestKeyPairConsistency(t *testing.T) {
	pk, sk := testKeyPair(t, 2, 3)

	if pk.N.Cmp(sk.N) != 0 {
		t.Error("public and private key N must match")
	}
	if pk.NSquare.Cmp(sk.NSquare) != 0 {
		t.Error("public and private key NSquare must match")
	}
	wantG := new(big.Int).Add(pk.N, one)
	if pk.G.Cmp(wantG) != 0 {
		t.Errorf("G = %v, want n+1 = %v", pk.G, wantG)
	}
	if pk.Delta().Cmp(big.NewInt(6)) != 0 { // 3! = 6
		t.Errorf("delta = %v, want 6", pk.Delta())
	}
}

func TestPublicKeyFromFieldsRoundTrip(t *testing.T) {
	pk, sk := testKeyPair(t, 1, 1)
	threshold, totalServers, n, g, nSquare, v := pk.MarshalFields()

	rebuilt, err := PublicKeyFromFields(threshold, totalServers, n, g, nSquare, v)
	if err != nil {
		t.Fatal(err)
	}
	if rebuilt.Delta().Cmp(pk.Delta()) != 0 {
		t.Error("reconstructed delta does not match original")
	}
	if rebuilt.N.Cmp(pk.N) != 0 || rebuilt.G.Cmp(pk.G) != 0 || rebuilt.NSquare.Cmp(pk.NSquare) != 0 {
		t.Error("reconstructed public key fields do not match original")
	}

	m := PlaintextFromInt64(11)
	c, err := rebuilt.Encrypt(m, rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	shares, err := sk.Share([]int{0}, rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	pd := shares[0].ShareDecrypt(rebuilt, c)
	got, err := rebuilt.ShareCombine([]*PartialDecryption{pd})
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(m) {
		t.Errorf("decrypted %v, want %v", got, m)
	}
}

func TestPrivateKeyFromFieldsRoundTrip(t *testing.T) {
	_, sk := testKeyPair(t, 1, 1)
	threshold, totalServers, n, nSquare, nm, d := sk.MarshalFields()
	rebuilt := PrivateKeyFromFields(threshold, totalServers, n, nSquare, nm, d)
	if rebuilt.Nm.Cmp(sk.Nm) != 0 {
		t.Error("reconstructed Nm does not match original")
	}
}
