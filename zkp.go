package paillier

import (
	"crypto/rand"
	"io"
	"math/big"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"golang.org/x/crypto/sha3"
)

// ShareDecryptionProof is a non-interactive zero-knowledge proof, built on
// the Fiat-Shamir heuristic, that a PartialDecryption was produced by
// correctly raising a ciphertext to a server's real secret share. It proves
// equality of the discrete logs log_{c^4}(c_i^2) and log_V(Vi), where Vi =
// V^(delta*s_i) mod n^2 is the server's public verification value.
//
// This extension is entirely optional: ShareDecrypt and ShareCombine never
// require or produce a proof. A dealer wires it in only when decryption
// servers are not otherwise trusted to honestly evaluate their share.
type ShareDecryptionProof struct {
	// E is the Fiat-Shamir challenge.
	E *big.Int
	// Z ties the challenge to the prover's secret share.
	Z *big.Int
}

// VerificationValues computes the per-server public verification values Vi =
// V^(delta*s_i) mod n^2 for a freshly produced set of shares. The dealer
// calls this once, right after PrivateKey.Share, and distributes Vi[k] to
// the server holding shares[k] (or to every server, since Vi is public)
// alongside the rest of the system's public key material.
func VerificationValues(pk *PublicKey, shares []*PrivateKeyShare) []*big.Int {
	vi := make([]*big.Int, len(shares))
	for i, share := range shares {
		exponent := new(big.Int).Mul(share.Si, pk.delta)
		vi[i] = new(big.Int).Exp(pk.V, exponent, pk.NSquare)
	}
	return vi
}

// ShareDecryptWithProof behaves like ShareDecrypt but additionally produces
// a ShareDecryptionProof attesting that Val was computed from this server's
// genuine share.
func (s *PrivateKeyShare) ShareDecryptWithProof(pk *PublicKey, c Ciphertext, random io.Reader) (*PartialDecryption, *ShareDecryptionProof, error) {
	pd := s.ShareDecrypt(pk, c)

	r, err := rand.Int(random, pk.NSquare)
	if err != nil {
		return nil, nil, errors.Wrap(err, "zkp: drawing random witness")
	}

	cFour := new(big.Int).Exp(c.Int(), four, nil)
	a := new(big.Int).Exp(cFour, r, pk.NSquare)
	b := new(big.Int).Exp(pk.V, r, pk.NSquare)
	decryptionSquared := new(big.Int).Exp(pd.Val, two, nil)

	e := fiatShamirChallenge(a, b, cFour, decryptionSquared)

	z := new(big.Int).Mul(e, pk.delta)
	z.Mul(z, s.Si)
	z.Add(z, r)

	return pd, &ShareDecryptionProof{E: e, Z: z}, nil
}

// Verify checks that pd was honestly computed for ciphertext c against the
// given server's public verification value vi (from VerificationValues).
func (proof *ShareDecryptionProof) Verify(pk *PublicKey, c Ciphertext, pd *PartialDecryption, vi *big.Int) bool {
	cFour := new(big.Int).Exp(c.Int(), four, nil)
	decryptionSquared := new(big.Int).Exp(pd.Val, two, nil)

	a1 := new(big.Int).Exp(cFour, proof.Z, pk.NSquare)
	a2 := new(big.Int).Exp(decryptionSquared, proof.E, pk.NSquare)
	a2 = new(big.Int).ModInverse(a2, pk.NSquare)
	if a2 == nil {
		return false
	}
	a := new(big.Int).Mod(new(big.Int).Mul(a1, a2), pk.NSquare)

	b1 := new(big.Int).Exp(pk.V, proof.Z, pk.NSquare)
	b2 := new(big.Int).Exp(vi, proof.E, pk.NSquare)
	b2 = new(big.Int).ModInverse(b2, pk.NSquare)
	if b2 == nil {
		return false
	}
	b := new(big.Int).Mod(new(big.Int).Mul(b1, b2), pk.NSquare)

	expectedE := fiatShamirChallenge(a, b, cFour, decryptionSquared)
	return proof.E.Cmp(expectedE) == 0
}

// fiatShamirChallenge derives the non-interactive challenge from the
// transcript (a, b, c^4, c_i^2) using SHA-3/256, mirroring the construction
// above but with a modern sponge hash in place of SHA-256.
func fiatShamirChallenge(a, b, cFour, decryptionSquared *big.Int) *big.Int {
	h := sha3.New256()
	h.Write(a.Bytes())
	h.Write(b.Bytes())
	h.Write(cFour.Bytes())
	h.Write(decryptionSquared.Bytes())
	return new(big.Int).SetBytes(h.Sum(nil))
}

// Validate self-checks a freshly received share by encrypting a random
// probe plaintext, share-decrypting it with a proof, and verifying that
// proof against vi. It is meant to be run once by a decryption server right
// after receiving its share and verification value from the dealer.
func (s *PrivateKeyShare) Validate(pk *PublicKey, vi *big.Int, random io.Reader) error {
	probe, err := rand.Int(random, pk.N)
	if err != nil {
		return errors.Wrap(err, "zkp: drawing probe plaintext")
	}
	c, err := pk.Encrypt(NewPlaintext(probe), random)
	if err != nil {
		return errors.Wrap(err, "zkp: encrypting probe plaintext")
	}
	pd, proof, err := s.ShareDecryptWithProof(pk, c, random)
	if err != nil {
		return err
	}
	if !proof.Verify(pk, c, pd, vi) {
		return errors.Wrap(ErrPreconditionViolated, "zkp: share failed self-validation")
	}
	return nil
}

// ShareCombineVerified is ShareCombine preceded by a proof check of every
// supplied share. Unlike ShareCombine, which fails fast on the first bad
// input, this collects every verification failure via a multierror so a
// dealer can identify and eject every misbehaving server at once.
func (pk *PublicKey) ShareCombineVerified(shares []*PartialDecryption, proofs []*ShareDecryptionProof, vis []*big.Int, c Ciphertext) (Plaintext, error) {
	if len(shares) != len(proofs) || len(shares) != len(vis) {
		return Plaintext{}, errors.Wrap(ErrPreconditionViolated, "zkp: shares, proofs and verification values must align")
	}

	var result *multierror.Error
	for i, share := range shares {
		if !proofs[i].Verify(pk, c, share, vis[i]) {
			result = multierror.Append(result, errors.Wrapf(ErrPreconditionViolated, "zkp: share %d failed verification", share.Id))
		}
	}
	if result != nil {
		return Plaintext{}, result.ErrorOrNil()
	}

	return pk.ShareCombine(shares)
}
