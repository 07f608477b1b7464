// Package ckkswrapper bundles the lattigo CKKS objects used to run
// element-wise arithmetic on encrypted float64 vectors.
package ckkswrapper

import (
	"fmt"

	"github.com/tuneinsight/lattigo/v5/core/rlwe"
	"github.com/tuneinsight/lattigo/v5/he/hefloat"
)

const (
	// DefaultLogN is the ring degree exponent; a ciphertext holds 2^(LogN-1) slots.
	DefaultLogN = 14
	// DefaultDepth is the number of rescales available before a refresh.
	DefaultDepth = 3

	logScale = 45
)

// HeContext holds the parameters, keys and evaluator for a single CKKS instance.
type HeContext struct {
	Params    hefloat.Parameters
	Encoder   *hefloat.Encoder
	Encryptor *rlwe.Encryptor
	Decryptor *rlwe.Decryptor
	Evaluator *hefloat.Evaluator
}

// NewHeContext generates fresh keys for a ring of degree 2^logN with depth
// multiplicative levels.
func NewHeContext(logN, depth int) (*HeContext, error) {
	if depth < 1 {
		return nil, fmt.Errorf("ckks depth must be at least 1, got %d", depth)
	}
	logQ := make([]int, depth+1)
	logQ[0] = 55
	for i := 1; i <= depth; i++ {
		logQ[i] = logScale
	}
	params, err := hefloat.NewParametersFromLiteral(hefloat.ParametersLiteral{
		LogN:            logN,
		LogQ:            logQ,
		LogP:            []int{61},
		LogDefaultScale: logScale,
	})
	if err != nil {
		return nil, fmt.Errorf("ckks parameters: %w", err)
	}

	kgen := hefloat.NewKeyGenerator(params)
	sk, pk := kgen.GenKeyPairNew()
	rlk := kgen.GenRelinearizationKeyNew(sk)
	evk := rlwe.NewMemEvaluationKeySet(rlk)

	return &HeContext{
		Params:    params,
		Encoder:   hefloat.NewEncoder(params),
		Encryptor: hefloat.NewEncryptor(params, pk),
		Decryptor: hefloat.NewDecryptor(params, sk),
		Evaluator: hefloat.NewEvaluator(params, evk),
	}, nil
}

// Slots returns the number of values packed into one ciphertext.
func (h *HeContext) Slots() int {
	return h.Params.MaxSlots()
}

// Encrypt packs values into as many ciphertexts as needed, in order.
func (h *HeContext) Encrypt(values []float64) ([]*rlwe.Ciphertext, error) {
	slots := h.Slots()
	cts := make([]*rlwe.Ciphertext, 0, (len(values)+slots-1)/slots)
	for start := 0; start < len(values); start += slots {
		end := min(start+slots, len(values))
		pt := hefloat.NewPlaintext(h.Params, h.Params.MaxLevel())
		if err := h.Encoder.Encode(values[start:end], pt); err != nil {
			return nil, fmt.Errorf("encode chunk at %d: %w", start, err)
		}
		ct, err := h.Encryptor.EncryptNew(pt)
		if err != nil {
			return nil, fmt.Errorf("encrypt chunk at %d: %w", start, err)
		}
		cts = append(cts, ct)
	}
	return cts, nil
}

// Decrypt reverses Encrypt and returns the first n values.
func (h *HeContext) Decrypt(cts []*rlwe.Ciphertext, n int) ([]float64, error) {
	slots := h.Slots()
	out := make([]float64, n)
	buf := make([]complex128, slots)
	for i, ct := range cts {
		start := i * slots
		if start >= n {
			break
		}
		pt := h.Decryptor.DecryptNew(ct)
		if err := h.Encoder.Decode(pt, buf); err != nil {
			return nil, fmt.Errorf("decode chunk %d: %w", i, err)
		}
		for j, v := range buf[:min(slots, n-start)] {
			out[start+j] = real(v)
		}
	}
	return out, nil
}

// Mul returns a*b relinearized and rescaled. Operands with no level left are
// refreshed first.
func (h *HeContext) Mul(a, b *rlwe.Ciphertext) (*rlwe.Ciphertext, error) {
	var err error
	if NeedsRefresh(a) {
		if a, err = h.CheatBootstrap(a); err != nil {
			return nil, err
		}
	}
	if NeedsRefresh(b) {
		if b, err = h.CheatBootstrap(b); err != nil {
			return nil, err
		}
	}
	ct, err := h.Evaluator.MulRelinNew(a, b)
	if err != nil {
		return nil, fmt.Errorf("mul: %w", err)
	}
	if err := h.Evaluator.Rescale(ct, ct); err != nil {
		return nil, fmt.Errorf("rescale: %w", err)
	}
	return ct, nil
}
