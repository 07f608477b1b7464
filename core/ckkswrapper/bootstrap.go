package ckkswrapper

import (
	"github.com/tuneinsight/lattigo/v5/core/rlwe"
	"github.com/tuneinsight/lattigo/v5/he/hefloat"
)

// CheatBootstrap refreshes a ciphertext's level by decrypting and
// re-encrypting it. It needs the secret key, so it only stands in for real
// bootstrapping inside a single-party benchmark.
func (h *HeContext) CheatBootstrap(ct *rlwe.Ciphertext) (*rlwe.Ciphertext, error) {
	pt := h.Decryptor.DecryptNew(ct)

	values := make([]complex128, h.Params.MaxSlots())
	if err := h.Encoder.Decode(pt, values); err != nil {
		return nil, err
	}

	fresh := hefloat.NewPlaintext(h.Params, h.Params.MaxLevel())
	if err := h.Encoder.Encode(values, fresh); err != nil {
		return nil, err
	}
	return h.Encryptor.EncryptNew(fresh)
}

// NeedsRefresh reports whether ct has no level left to rescale into.
func NeedsRefresh(ct *rlwe.Ciphertext) bool {
	return ct.Level() == 0
}
