package wire

import (
	"bytes"
	"encoding/binary"
	"io"
	"math/big"

	"github.com/pkg/errors"

	paillier "github.com/paillier-go/tpaillier"
)

func putInt(w io.Writer, n int) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], uint32(n))
	_, err := w.Write(buf[:])
	return err
}

func readInt(r io.Reader) (int, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return int(int32(binary.BigEndian.Uint32(buf[:]))), nil
}

// MarshalPublicKey encodes a PublicKey's reconstructible fields.
func MarshalPublicKey(pk *paillier.PublicKey) ([]byte, error) {
	threshold, totalServers, n, g, nSquare, v := pk.MarshalFields()
	var buf bytes.Buffer
	for _, i := range []int{threshold, totalServers} {
		if err := putInt(&buf, i); err != nil {
			return nil, errors.Wrap(err, "wire: marshaling public key")
		}
	}
	for _, bi := range []*big.Int{n, g, nSquare, v} {
		if err := PutBigInt(&buf, bi); err != nil {
			return nil, errors.Wrap(err, "wire: marshaling public key")
		}
	}
	return buf.Bytes(), nil
}

// UnmarshalPublicKey decodes a PublicKey previously encoded by
// MarshalPublicKey.
func UnmarshalPublicKey(data []byte) (*paillier.PublicKey, error) {
	r := bytes.NewReader(data)
	threshold, err := readInt(r)
	if err != nil {
		return nil, errors.Wrap(ErrMalformed, "public key: threshold")
	}
	totalServers, err := readInt(r)
	if err != nil {
		return nil, errors.Wrap(ErrMalformed, "public key: total servers")
	}
	n, err := BigInt(r)
	if err != nil {
		return nil, errors.Wrap(ErrMalformed, "public key: n")
	}
	g, err := BigInt(r)
	if err != nil {
		return nil, errors.Wrap(ErrMalformed, "public key: g")
	}
	nSquare, err := BigInt(r)
	if err != nil {
		return nil, errors.Wrap(ErrMalformed, "public key: n^2")
	}
	v, err := BigInt(r)
	if err != nil {
		return nil, errors.Wrap(ErrMalformed, "public key: v")
	}
	return paillier.PublicKeyFromFields(threshold, totalServers, n, g, nSquare, v)
}

// MarshalPrivateKey encodes a PrivateKey's fields. Callers should treat the
// result as sensitive, equivalent in trust level to the key itself.
func MarshalPrivateKey(sk *paillier.PrivateKey) ([]byte, error) {
	threshold, totalServers, n, nSquare, nm, d := sk.MarshalFields()
	var buf bytes.Buffer
	for _, i := range []int{threshold, totalServers} {
		if err := putInt(&buf, i); err != nil {
			return nil, errors.Wrap(err, "wire: marshaling private key")
		}
	}
	for _, bi := range []*big.Int{n, nSquare, nm, d} {
		if err := PutBigInt(&buf, bi); err != nil {
			return nil, errors.Wrap(err, "wire: marshaling private key")
		}
	}
	return buf.Bytes(), nil
}

// UnmarshalPrivateKey decodes a PrivateKey previously encoded by
// MarshalPrivateKey.
func UnmarshalPrivateKey(data []byte) (*paillier.PrivateKey, error) {
	r := bytes.NewReader(data)
	threshold, err := readInt(r)
	if err != nil {
		return nil, errors.Wrap(ErrMalformed, "private key: threshold")
	}
	totalServers, err := readInt(r)
	if err != nil {
		return nil, errors.Wrap(ErrMalformed, "private key: total servers")
	}
	n, err := BigInt(r)
	if err != nil {
		return nil, errors.Wrap(ErrMalformed, "private key: n")
	}
	nSquare, err := BigInt(r)
	if err != nil {
		return nil, errors.Wrap(ErrMalformed, "private key: n^2")
	}
	nm, err := BigInt(r)
	if err != nil {
		return nil, errors.Wrap(ErrMalformed, "private key: nm")
	}
	d, err := BigInt(r)
	if err != nil {
		return nil, errors.Wrap(ErrMalformed, "private key: d")
	}
	return paillier.PrivateKeyFromFields(threshold, totalServers, n, nSquare, nm, d), nil
}

// MarshalPrivateKeyShare encodes a single decryption server's share.
func MarshalPrivateKeyShare(share *paillier.PrivateKeyShare) ([]byte, error) {
	var buf bytes.Buffer
	if err := putInt(&buf, share.Id); err != nil {
		return nil, errors.Wrap(err, "wire: marshaling private key share")
	}
	if err := PutBigInt(&buf, share.Si); err != nil {
		return nil, errors.Wrap(err, "wire: marshaling private key share")
	}
	return buf.Bytes(), nil
}

// UnmarshalPrivateKeyShare decodes a PrivateKeyShare previously encoded by
// MarshalPrivateKeyShare.
func UnmarshalPrivateKeyShare(data []byte) (*paillier.PrivateKeyShare, error) {
	r := bytes.NewReader(data)
	id, err := readInt(r)
	if err != nil {
		return nil, errors.Wrap(ErrMalformed, "private key share: id")
	}
	si, err := BigInt(r)
	if err != nil {
		return nil, errors.Wrap(ErrMalformed, "private key share: si")
	}
	return &paillier.PrivateKeyShare{Id: id, Si: si}, nil
}

// MarshalPartialDecryption encodes one server's contribution to a
// ShareCombine call.
func MarshalPartialDecryption(pd *paillier.PartialDecryption) ([]byte, error) {
	var buf bytes.Buffer
	if err := putInt(&buf, pd.Id); err != nil {
		return nil, errors.Wrap(err, "wire: marshaling partial decryption")
	}
	if err := PutBigInt(&buf, pd.Val); err != nil {
		return nil, errors.Wrap(err, "wire: marshaling partial decryption")
	}
	return buf.Bytes(), nil
}

// UnmarshalPartialDecryption decodes a PartialDecryption previously encoded
// by MarshalPartialDecryption.
func UnmarshalPartialDecryption(data []byte) (*paillier.PartialDecryption, error) {
	r := bytes.NewReader(data)
	id, err := readInt(r)
	if err != nil {
		return nil, errors.Wrap(ErrMalformed, "partial decryption: id")
	}
	val, err := BigInt(r)
	if err != nil {
		return nil, errors.Wrap(ErrMalformed, "partial decryption: val")
	}
	return &paillier.PartialDecryption{Id: id, Val: val}, nil
}

// MarshalCiphertext encodes a Ciphertext as a single wire big integer.
func MarshalCiphertext(c paillier.Ciphertext) ([]byte, error) {
	var buf bytes.Buffer
	if err := PutBigInt(&buf, c.Int()); err != nil {
		return nil, errors.Wrap(err, "wire: marshaling ciphertext")
	}
	return buf.Bytes(), nil
}

// UnmarshalCiphertext decodes a Ciphertext previously encoded by
// MarshalCiphertext.
func UnmarshalCiphertext(data []byte) (paillier.Ciphertext, error) {
	r := bytes.NewReader(data)
	c, err := BigInt(r)
	if err != nil {
		return paillier.Ciphertext{}, errors.Wrap(ErrMalformed, "ciphertext")
	}
	return paillier.NewCiphertext(c), nil
}

// MarshalPlaintext encodes a Plaintext as a single wire big integer.
func MarshalPlaintext(p paillier.Plaintext) ([]byte, error) {
	var buf bytes.Buffer
	if err := PutBigInt(&buf, p.Int()); err != nil {
		return nil, errors.Wrap(err, "wire: marshaling plaintext")
	}
	return buf.Bytes(), nil
}

// UnmarshalPlaintext decodes a Plaintext previously encoded by
// MarshalPlaintext.
func UnmarshalPlaintext(data []byte) (paillier.Plaintext, error) {
	r := bytes.NewReader(data)
	m, err := BigInt(r)
	if err != nil {
		return paillier.Plaintext{}, errors.Wrap(ErrMalformed, "plaintext")
	}
	return paillier.NewPlaintext(m), nil
}
