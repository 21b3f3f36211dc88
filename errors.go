package paillier

import "github.com/pkg/errors"

// Sentinel error kinds, per the error handling design: PrimeGen covers
// failures of the underlying safe-prime search, NoInverse covers a missing
// modular inverse (either at key generation or while combining a
// negative-exponent share), and PreconditionViolated covers a contract
// breach detectable by the caller (wrong share count, duplicate ids).
var (
	ErrPrimeGen             = errors.New("paillier: safe prime generation failed")
	ErrNoInverse            = errors.New("paillier: modular inverse does not exist")
	ErrPreconditionViolated = errors.New("paillier: precondition violated")
)
