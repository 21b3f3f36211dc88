package paillier

import (
	"crypto/rand"
	"math/big"
	"testing"
)

func TestFactorial(t *testing.T) {
	var tests = map[string]struct {
		n        int
		expected int64
	}{
		"zero":  {0, 1},
		"one":   {1, 1},
		"five":  {5, 120},
		"seven": {7, 5040},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			actual := factorial(test.n)
			if actual.Cmp(big.NewInt(test.expected)) != 0 {
				t.Errorf("factorial(%d) = %v, want %d", test.n, actual, test.expected)
			}
		})
	}
}

func TestRandomInMultiplicativeGroup(t *testing.T) {
	n := big.NewInt(143) // 11 * 13
	for i := 0; i < 50; i++ {
		r, err := randomInMultiplicativeGroup(n, rand.Reader)
		if err != nil {
			t.Fatal(err)
		}
		if r.Sign() == 0 {
			t.Fatal("drew zero, which is never coprime to n")
		}
		gcd := new(big.Int).GCD(nil, nil, n, r)
		if gcd.Cmp(one) != 0 {
			t.Errorf("draw %v is not coprime to %v (gcd %v)", r, n, gcd)
		}
	}
}

func TestCrt2(t *testing.T) {
	var tests = map[string]struct {
		a1, m1, a2, m2 int64
		expected       int64
	}{
		"textbook 2 mod 3, 3 mod 5": {2, 3, 3, 5, 8},
		"zero remainders":           {0, 7, 0, 11, 0},
		"a1 equals modulus minus 1": {6, 7, 1, 5, 6},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			x, err := crt2(big.NewInt(test.a1), big.NewInt(test.m1), big.NewInt(test.a2), big.NewInt(test.m2))
			if err != nil {
				t.Fatal(err)
			}
			if x.Cmp(big.NewInt(test.expected)) != 0 {
				t.Errorf("crt2(%d,%d,%d,%d) = %v, want %d", test.a1, test.m1, test.a2, test.m2, x, test.expected)
			}
			if new(big.Int).Mod(x, big.NewInt(test.m1)).Cmp(big.NewInt(test.a1%test.m1)) != 0 {
				t.Errorf("result %v does not satisfy x = %d (mod %d)", x, test.a1, test.m1)
			}
		})
	}
}

func TestCrt2NonCoprimeModuli(t *testing.T) {
	_, err := crt2(one, big.NewInt(6), one, big.NewInt(9))
	if err == nil {
		t.Fatal("expected an error for non-coprime moduli")
	}
}
