package paillier

import (
	"crypto/rand"
	"math/big"
	"testing"
)

func TestShareRejectsWrongCount(t *testing.T) {
	_, sk := testKeyPair(t, 2, 3)
	_, err := sk.Share([]int{0}, rand.Reader)
	if err == nil {
		t.Fatal("expected an error when supplying fewer indices than the threshold")
	}
}

func TestShareRejectsDuplicateIndices(t *testing.T) {
	_, sk := testKeyPair(t, 2, 3)
	_, err := sk.Share([]int{0, 0}, rand.Reader)
	if err == nil {
		t.Fatal("expected an error for duplicate indices")
	}
}

func TestShareProducesDistinctIds(t *testing.T) {
	_, sk := testKeyPair(t, 2, 3)
	shares, err := sk.Share([]int{0, 2}, rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	if len(shares) != 2 {
		t.Fatalf("got %d shares, want 2", len(shares))
	}
	ids := map[int]bool{}
	for _, share := range shares {
		ids[share.Id] = true
	}
	if len(ids) != 2 {
		t.Fatal("expected distinct share ids")
	}
	// Indices are 0-indexed on the interface, ids are 1-indexed internally.
	if !ids[1] || !ids[3] {
		t.Errorf("expected ids {1,3} for indices {0,2}, got %v", ids)
	}
}

func TestPolynomialEvaluateIsConsistentWithDirectComputation(t *testing.T) {
	_, sk := testKeyPair(t, 3, 3)
	poly, err := newPolynomial(sk, rand.Reader)
	if err != nil {
		t.Fatal(err)
	}

	// P(0) must always equal the secret d.
	if poly.evaluate(0).Cmp(sk.d) != 0 {
		t.Error("P(0) should equal the shared secret")
	}

	// Every server position must match the direct sum of a_k * x^k mod nm.
	for x := 1; x <= 3; x++ {
		direct := new(big.Int)
		power := big.NewInt(1)
		for _, coefficient := range poly.coefficients {
			direct.Add(direct, new(big.Int).Mul(coefficient, power))
			power.Mul(power, big.NewInt(int64(x)))
		}
		direct.Mod(direct, sk.Nm)
		if got := poly.evaluate(x); got.Cmp(direct) != 0 {
			t.Errorf("P(%d) = %v, want %v", x, got, direct)
		}
	}
}
