// Package wire implements binary serialization for threshold Paillier key
// material and ciphertexts, kept in its own package so the cryptographic
// core never has to know about wire formats.
//
// Every big integer is encoded as a digit-count prefix, a sign byte, and
// then that many 8-byte digits, least-significant digit first, each digit
// itself big-endian.
package wire

import (
	"encoding/binary"
	"io"
	"math/big"

	"github.com/pkg/errors"
)

const digitSize = 8

// ErrMalformed is returned when a byte stream does not decode to a
// well-formed value.
var ErrMalformed = errors.New("wire: malformed encoding")

// PutBigInt appends the encoding of n to w: a big-endian uint32 digit
// count, a sign byte (0 for non-negative, 1 for negative), then that many
// 8-byte digits of n's magnitude, least-significant digit first, each
// digit big-endian.
func PutBigInt(w io.Writer, n *big.Int) error {
	mag := new(big.Int).Abs(n)
	digits := toDigits(mag)

	var header [5]byte
	binary.BigEndian.PutUint32(header[:4], uint32(len(digits)))
	if n.Sign() < 0 {
		header[4] = 1
	}
	if _, err := w.Write(header[:]); err != nil {
		return errors.Wrap(err, "wire: writing bigint header")
	}
	for _, digit := range digits {
		var buf [digitSize]byte
		binary.BigEndian.PutUint64(buf[:], digit)
		if _, err := w.Write(buf[:]); err != nil {
			return errors.Wrap(err, "wire: writing bigint digit")
		}
	}
	return nil
}

// BigInt reads a value encoded by PutBigInt from r.
func BigInt(r io.Reader) (*big.Int, error) {
	var header [5]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, errors.Wrap(err, "wire: reading bigint header")
	}
	count := binary.BigEndian.Uint32(header[:4])
	negative := header[4] == 1

	digits := make([]uint64, count)
	for i := range digits {
		var buf [digitSize]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return nil, errors.Wrap(err, "wire: reading bigint digit")
		}
		digits[i] = binary.BigEndian.Uint64(buf[:])
	}

	n := fromDigits(digits)
	if negative {
		n.Neg(n)
	}
	return n, nil
}

// toDigits decomposes the magnitude of a non-negative big.Int into 8-byte
// digits, least-significant digit first.
func toDigits(mag *big.Int) []uint64 {
	if mag.Sign() == 0 {
		return []uint64{0}
	}
	base := new(big.Int).Lsh(big.NewInt(1), 64)
	rest := new(big.Int).Set(mag)
	var digits []uint64
	for rest.Sign() > 0 {
		digit := new(big.Int)
		digit.Mod(rest, base)
		digits = append(digits, digit.Uint64())
		rest.Rsh(rest, 64)
	}
	return digits
}

// fromDigits reassembles a magnitude from 8-byte digits, least-significant
// digit first.
func fromDigits(digits []uint64) *big.Int {
	n := new(big.Int)
	for i := len(digits) - 1; i >= 0; i-- {
		n.Lsh(n, 64)
		n.Or(n, new(big.Int).SetUint64(digits[i]))
	}
	return n
}
