package rlwe

import (
	"math"
	"math/big"

	"github.com/sealedhe/sealed/ring"
	"github.com/sealedhe/sealed/utils/bignum"
)

// NoiseCiphertext returns the log2 of the standard deviation of the noise of the
// input ciphertext with respect to the given secret-key, i.e. of
// c0 + c1*s - Delta*pt. If pt is nil, the phase itself is measured.
func NoiseCiphertext(ct *Ciphertext, pt *Plaintext, sk *SecretKey) (noise float64) {

	params := ct.params

	dec, err := NewDecryptor(params, sk)
	if err != nil {
		// Sanity check, this error should not happen for matching parameters.
		panic(err)
	}

	rQ := params.RingQ()

	phase := rQ.NewRNSPoly()
	if err = dec.Phase(ct, phase); err != nil {
		panic(err)
	}

	if pt != nil {
		scaled := rQ.NewRNSPoly()
		AddScaledPlaintext(params, pt, scaled)
		rQ.Sub(phase, scaled, phase)
	}

	return rQ.Stats(phase)[0]
}

// NoisePublicKey returns the log2 of the standard deviation of the noise
// of the input public-key with respect to the given secret-key.
func NoisePublicKey(pk *PublicKey, sk *SecretKey) (noise float64) {
	ct := &Ciphertext{params: pk.params, Value: []ring.RNSPoly{pk.Value[0], pk.Value[1]}}
	return NoiseCiphertext(ct, nil, sk)
}

// NoiseRelinearizationKey returns the largest log2 of the standard deviation of
// the noise of the pairs of the input relinearization key with respect to the
// given secret-key.
func NoiseRelinearizationKey(rlk *RelinearizationKey, sk *SecretKey) (noise float64) {

	params := rlk.params
	rQ := params.RingQ()

	skNTT := rQ.NewRNSPoly()
	rQ.NTT(sk.Value, skNTT)

	sk2NTT := rQ.NewRNSPoly()
	rQ.MulCoeffsBarrett(skNTT, skNTT, sk2NTT)

	e := rQ.NewRNSPoly()

	noise = math.Inf(-1)

	for j := range rlk.Value {

		qj := rQ[j].Modulus

		for k := range rlk.Value[j] {

			// e = b + a*s - 2^{LogBase*k} * s^2 on q_j only
			e.CopyLvl(e.Level(), &rlk.Value[j][k][0])
			rQ.MulCoeffsBarrettThenAdd(rlk.Value[j][k][1], skNTT, e)

			g := ring.ModExp(2, uint64(rlk.LogBase*k), qj)
			rQ[j].MulScalarMontgomeryThenAdd(sk2NTT.At(j), ring.MForm(qj-g, qj, rQ[j].BRedConstant), e.At(j))

			rQ.INTT(e, e)

			noise = math.Max(noise, rQ.Stats(e)[0])
		}
	}

	return
}

// Norm returns the log2 of the standard deviation and of the
// infinity norm of the centered phase c0 + c1*s of the ciphertext.
func Norm(ct *Ciphertext, dec *Decryptor) (std, max float64) {

	rQ := dec.params.RingQ()

	phase := rQ.NewRNSPoly()
	if err := dec.Phase(ct, phase); err != nil {
		panic(err)
	}

	values := make([]big.Int, dec.params.N())
	rQ.PolyToBigintCentered(phase, 1, values)

	return bignum.Stats(values)[0], bignum.Log2(bignum.MaxAbs(values))
}
