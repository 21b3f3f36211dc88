// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The code is based on the original Go implementation of rand.Prime,
// optimized for generating safe (Sophie Germain) primes. A safe prime is a
// prime number of the form 2p + 1, where p is also prime.

package paillier

import (
	"context"
	"io"
	"math/big"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// smallPrimes is a list of small, prime numbers that allows us to rapidly
// exclude some fraction of composite candidates when searching for a random
// prime. This list is truncated at the point where smallPrimesProduct exceeds
// a uint64. It does not include two because we ensure that the candidates are
// odd by construction.
var smallPrimes = []uint8{
	3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 41, 43, 47, 53,
}

// smallPrimesProduct is the product of the values in smallPrimes and allows us
// to reduce a candidate prime by this number and then determine whether it's
// coprime to all the elements of smallPrimes without further big.Int
// operations.
var smallPrimesProduct = new(big.Int).SetUint64(16294579238595022365)

// GenerateSafePrime searches concurrently for a safe prime. The returned
// result is a safe prime p and a prime q such that p = 2q+1. The search fans
// out concurrencyLevel workers drawing from random and joins on the first
// success; if no worker succeeds within timeout, or a worker's read from
// random fails, ErrPrimeGen is returned.
//
// Concurrency level should be set depending on the expected bitLen. For a
// 512-bit safe prime, concurrencyLevel=1 is a matter of milliseconds on a
// typical workstation; a 1024-bit prime usually wants at least 2, and a
// 2048-bit prime at least 4 to finish in reasonable time.
//
// GenerateSafePrime only produces safe primes of at least 6 bits; the two
// most significant bits of every generated safe prime are always set to 1 so
// the result is never unexpectedly small.
func GenerateSafePrime(
	bitLen int,
	concurrencyLevel int,
	timeout time.Duration,
	random io.Reader,
) (p *big.Int, q *big.Int, err error) {
	if bitLen < 6 {
		return nil, nil, errors.Wrap(ErrPrimeGen, "safe prime size must be at least 6 bits")
	}

	primeChan := make(chan safePrime, 1)
	errChan := make(chan error, 1)

	defer close(primeChan)
	defer close(errChan)

	mutex := &sync.Mutex{}
	waitGroup := &sync.WaitGroup{}
	waitGroup.Add(concurrencyLevel)

	ctx, cancel := context.WithCancel(context.Background())

	for i := 0; i < concurrencyLevel; i++ {
		runGenPrimeRoutine(ctx, primeChan, errChan, mutex, waitGroup, random, bitLen)
	}

	// Cancel after the specified timeout.
	timer := time.AfterFunc(timeout, func() {
		mutex.Lock()
		cancel()
		mutex.Unlock()
	})
	defer timer.Stop()

	select {
	case result := <-primeChan:
		mutex.Lock()
		cancel()
		mutex.Unlock()
		p, q, err = result.p, result.q, nil
	case workerErr := <-errChan:
		mutex.Lock()
		cancel()
		mutex.Unlock()
		p, q, err = nil, nil, errors.Wrap(ErrPrimeGen, workerErr.Error())
	case <-ctx.Done():
		p, q, err = nil, nil, errors.Wrapf(ErrPrimeGen, "generator timed out after %v", timeout)
	}

	waitGroup.Wait()
	return
}

type safePrime struct {
	p *big.Int // p = 2q + 1
	q *big.Int
}

// runGenPrimeRoutine starts a goroutine searching for a safe prime of the
// specified pBitLen. On success it writes a prime p and a prime q such that
// p = 2q+1 to primeChan. p has bit length pBitLen and q has bit length
// pBitLen-1.
//
// Each iteration draws a random odd candidate q, sieves it and p = 2q+1
// against smallPrimes to reject obvious composites for nearly free, rejects
// q = 1 (mod 3) (which forces 3 | p), and only then spends a real primality
// test: Miller-Rabin/Baillie-PSW on q, then Pocklington's criterion on p (a
// single base-2 Fermat test), which is far cheaper than testing p directly.
func runGenPrimeRoutine(
	ctx context.Context,
	primeChan chan safePrime,
	errChan chan error,
	mutex *sync.Mutex,
	waitGroup *sync.WaitGroup,
	random io.Reader,
	pBitLen int,
) {
	qBitLen := pBitLen - 1
	b := uint(qBitLen % 8)
	if b == 0 {
		b = 8
	}

	bytes := make([]byte, (qBitLen+7)/8)
	p := new(big.Int)
	q := new(big.Int)

	bigMod := new(big.Int)

	go func() {
		for {
			select {
			case <-ctx.Done():
				waitGroup.Done()
				return
			default:
				_, err := io.ReadFull(random, bytes)
				if err != nil {
					// GenerateSafePrime reads at most one error; later ones
					// are dropped so this worker never blocks on a full channel.
					select {
					case errChan <- err:
					default:
					}
					waitGroup.Done()
					return
				}

				// Clear bits in the first byte to make sure the candidate has
				// a size <= bits.
				bytes[0] &= uint8(int(1<<b) - 1)
				// Don't let the value be too small, i.e, set the most
				// significant two bits.
				if b >= 2 {
					bytes[0] |= 3 << (b - 2)
				} else {
					// Here b==1, because b cannot be zero.
					bytes[0] |= 1
					if len(bytes) > 1 {
						bytes[1] |= 0x80
					}
				}
				// Make the value odd since an even number this large
				// certainly isn't prime.
				bytes[len(bytes)-1] |= 1

				q.SetBytes(bytes)

				// Calculate the value mod the product of smallPrimes. If
				// it's a multiple of any of these primes we add two until
				// it isn't. The probability of overflowing is minimal and
				// is still caught by the Miller-Rabin test on the result.
				bigMod.Mod(q, smallPrimesProduct)
				mod := bigMod.Uint64()

			NextDelta:
				for delta := uint64(0); delta < 1<<20; delta += 2 {
					m := mod + delta
					for _, prime := range smallPrimes {
						if m%uint64(prime) == 0 && (qBitLen > 6 || m != uint64(prime)) {
							continue NextDelta
						}
					}

					if delta > 0 {
						bigMod.SetUint64(delta)
						q.Add(q, bigMod)
					}

					qMod3 := new(big.Int).Mod(q, big.NewInt(3))
					if qMod3.Cmp(big.NewInt(1)) == 0 {
						continue NextDelta
					}

					// p = 2q+1
					p.Mul(q, big.NewInt(2))
					p.Add(p, big.NewInt(1))
					if !isPrimeCandidate(p) {
						continue NextDelta
					}

					break
				}

				// There is a tiny possibility that, by adding delta, we
				// caused the number to be one bit too long. Thus we check
				// BitLen here.
				if q.ProbablyPrime(20) &&
					isPocklingtonCriterionSatisfied(p) &&
					q.BitLen() == qBitLen {

					mutex.Lock()
					if ctx.Err() == nil {
						primeChan <- safePrime{p, q}
					}
					mutex.Unlock()

					waitGroup.Done()
					return
				}
			}
		}
	}()
}

func isPocklingtonCriterionSatisfied(p *big.Int) bool {
	return new(big.Int).Exp(
		big.NewInt(2),
		new(big.Int).Sub(p, big.NewInt(1)),
		p,
	).Cmp(big.NewInt(1)) == 0
}

func isPrimeCandidate(number *big.Int) bool {
	m := new(big.Int).Mod(number, smallPrimesProduct).Uint64()

	for _, prime := range smallPrimes {
		if m%uint64(prime) == 0 && m != uint64(prime) {
			return false
		}
	}

	return true
}
