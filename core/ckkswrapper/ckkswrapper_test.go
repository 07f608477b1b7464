package ckkswrapper

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tuneinsight/lattigo/v5/core/rlwe"
)

func testValues(n int) []float64 {
	vals := make([]float64, n)
	for i := range vals {
		vals[i] = float64(i%100) / 100
	}
	return vals
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("key generation is slow")
	}
	h, err := NewHeContext(DefaultLogN, 2)
	require.NoError(t, err)

	// Spans two ciphertexts.
	vals := testValues(h.Slots() + 17)
	cts, err := h.Encrypt(vals)
	require.NoError(t, err)
	require.Len(t, cts, 2)

	got, err := h.Decrypt(cts, len(vals))
	require.NoError(t, err)
	for i := range vals {
		if math.Abs(got[i]-vals[i]) > 1e-6 {
			t.Fatalf("at %d: got %f, want %f", i, got[i], vals[i])
		}
	}
}

func TestFourthPower(t *testing.T) {
	if testing.Short() {
		t.Skip("key generation is slow")
	}
	h, err := NewHeContext(DefaultLogN, DefaultDepth)
	require.NoError(t, err)

	vals := testValues(64)
	cts, err := h.Encrypt(vals)
	require.NoError(t, err)

	x := cts[0]
	acc := x
	for i := 0; i < 3; i++ {
		acc, err = h.Mul(acc, x)
		require.NoError(t, err)
	}
	require.Equal(t, 0, acc.Level())

	got, err := h.Decrypt([]*rlwe.Ciphertext{acc}, len(vals))
	require.NoError(t, err)
	for i, v := range vals {
		want := v * v * v * v
		if math.Abs(got[i]-want) > 1e-5 {
			t.Fatalf("at %d: got %f, want %f", i, got[i], want)
		}
	}
}

func TestMulRefreshesExhaustedOperand(t *testing.T) {
	if testing.Short() {
		t.Skip("key generation is slow")
	}
	h, err := NewHeContext(DefaultLogN, 1)
	require.NoError(t, err)

	vals := testValues(32)
	cts, err := h.Encrypt(vals)
	require.NoError(t, err)

	sq, err := h.Mul(cts[0], cts[0])
	require.NoError(t, err)
	require.True(t, NeedsRefresh(sq))

	// sq has no level left, so Mul must refresh it before multiplying.
	cube, err := h.Mul(sq, cts[0])
	require.NoError(t, err)

	got, err := h.Decrypt([]*rlwe.Ciphertext{cube}, len(vals))
	require.NoError(t, err)
	for i, v := range vals {
		if math.Abs(got[i]-v*v*v) > 1e-5 {
			t.Fatalf("at %d: got %f, want %f", i, got[i], v*v*v)
		}
	}
}
