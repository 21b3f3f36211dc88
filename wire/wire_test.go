package wire

import (
	"bytes"
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	paillier "github.com/paillier-go/tpaillier"
)

func TestBigIntRoundTrip(t *testing.T) {
	var tests = map[string]*big.Int{
		"zero":               big.NewInt(0),
		"small positive":     big.NewInt(42),
		"small negative":     big.NewInt(-42),
		"exactly one digit":  new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 64), big.NewInt(1)),
		"spans two digits":   new(big.Int).Lsh(big.NewInt(1), 65),
		"large (2048 bits)":  new(big.Int).Lsh(big.NewInt(1), 2048),
		"large negative":     new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 300)),
	}

	for name, n := range tests {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, PutBigInt(&buf, n))
			got, err := BigInt(&buf)
			require.NoError(t, err)
			require.Zero(t, got.Cmp(n), "round trip: got %v, want %v", got, n)
		})
	}
}

func testKeyPair(t *testing.T) (*paillier.PublicKey, *paillier.PrivateKey) {
	t.Helper()
	cfg := paillier.KeyGenConfig{
		Bits:                           18,
		TotalNumberOfDecryptionServers: 3,
		Threshold:                      2,
	}
	pk, sk, err := paillier.GenerateKeyPair(cfg, rand.Reader)
	require.NoError(t, err, "generating key pair")
	return pk, sk
}

func TestPublicKeyRoundTrip(t *testing.T) {
	pk, _ := testKeyPair(t)
	data, err := MarshalPublicKey(pk)
	require.NoError(t, err)
	got, err := UnmarshalPublicKey(data)
	require.NoError(t, err)
	require.Zero(t, got.N.Cmp(pk.N), "N mismatch")
	require.Zero(t, got.G.Cmp(pk.G), "G mismatch")
	require.Zero(t, got.NSquare.Cmp(pk.NSquare), "NSquare mismatch")
	require.Zero(t, got.Delta().Cmp(pk.Delta()), "delta mismatch")
}

func TestPrivateKeyRoundTrip(t *testing.T) {
	_, sk := testKeyPair(t)
	data, err := MarshalPrivateKey(sk)
	require.NoError(t, err)
	got, err := UnmarshalPrivateKey(data)
	require.NoError(t, err)
	require.Zero(t, got.Nm.Cmp(sk.Nm), "Nm mismatch")
}

func TestPrivateKeyShareRoundTrip(t *testing.T) {
	_, sk := testKeyPair(t)
	shares, err := sk.Share([]int{0, 1}, rand.Reader)
	require.NoError(t, err)
	data, err := MarshalPrivateKeyShare(shares[0])
	require.NoError(t, err)
	got, err := UnmarshalPrivateKeyShare(data)
	require.NoError(t, err)
	require.Equal(t, shares[0].Id, got.Id)
	require.Zero(t, got.Si.Cmp(shares[0].Si), "Si mismatch")
}

func TestCiphertextAndPartialDecryptionRoundTrip(t *testing.T) {
	pk, sk := testKeyPair(t)
	c, err := pk.Encrypt(paillier.PlaintextFromInt64(7), rand.Reader)
	require.NoError(t, err)
	cData, err := MarshalCiphertext(c)
	require.NoError(t, err)
	gotC, err := UnmarshalCiphertext(cData)
	require.NoError(t, err)
	require.Zero(t, gotC.Int().Cmp(c.Int()), "ciphertext mismatch")

	shares, err := sk.Share([]int{0, 1}, rand.Reader)
	require.NoError(t, err)
	pd := shares[0].ShareDecrypt(pk, c)
	pdData, err := MarshalPartialDecryption(pd)
	require.NoError(t, err)
	gotPd, err := UnmarshalPartialDecryption(pdData)
	require.NoError(t, err)
	require.Equal(t, pd.Id, gotPd.Id)
	require.Zero(t, gotPd.Val.Cmp(pd.Val), "partial decryption value mismatch")
}

func TestPlaintextRoundTrip(t *testing.T) {
	p := paillier.PlaintextFromInt64(12345)
	data, err := MarshalPlaintext(p)
	require.NoError(t, err)
	got, err := UnmarshalPlaintext(data)
	require.NoError(t, err)
	require.True(t, got.Equal(p), "round trip: got %v, want %v", got, p)
}

func TestUnmarshalPublicKeyRejectsTruncatedData(t *testing.T) {
	_, err := UnmarshalPublicKey([]byte{1, 2, 3})
	require.Error(t, err, "expected an error for truncated data")
}
