package rlwe

import (
	"sync"

	"github.com/sealedhe/sealed/ring"
	"github.com/sealedhe/sealed/utils/sampling"
)

// KeyGenerator is a structure that generates and caches the keys of a single
// secret. Each key is sampled at most once per instance, on first request,
// and the same key is returned by every subsequent call. Two instances, even
// over the same parameters, sample independent secrets.
//
// A KeyGenerator is safe for concurrent use.
type KeyGenerator struct {
	params Parameters
	seed   [sampling.SeedSize]byte

	skOnce  sync.Once
	pkOnce  sync.Once
	rlkOnce sync.Once

	sk  *SecretKey
	pk  *PublicKey
	rlk *RelinearizationKey
}

// NewKeyGenerator creates a new [KeyGenerator] with a fresh random seed.
func NewKeyGenerator(params ParameterProvider) *KeyGenerator {
	return NewKeyGeneratorWithSeed(params, sampling.NewSeed())
}

// NewKeyGeneratorWithSeed creates a new [KeyGenerator] whose keys are
// deterministically derived from seed.
func NewKeyGeneratorWithSeed(params ParameterProvider, seed [sampling.SeedSize]byte) *KeyGenerator {
	return &KeyGenerator{
		params: *params.GetRLWEParameters(),
		seed:   seed,
	}
}

// GetRLWEParameters returns the underlying [Parameters].
func (kgen *KeyGenerator) GetRLWEParameters() *Parameters {
	return &kgen.params
}

// SecretKey returns the secret key of the instance.
func (kgen *KeyGenerator) SecretKey() *SecretKey {
	kgen.skOnce.Do(func() {
		kgen.sk = kgen.genSecretKey(sampling.NewSource(sampling.DeriveSeed(kgen.seed, "secret")))
	})
	return kgen.sk
}

// PublicKey returns the public key of the instance.
func (kgen *KeyGenerator) PublicKey() *PublicKey {
	kgen.pkOnce.Do(func() {
		kgen.pk = kgen.genPublicKey(kgen.SecretKey(), sampling.NewSource(sampling.DeriveSeed(kgen.seed, "public")))
	})
	return kgen.pk
}

// RelinearizationKey returns the relinearization key of the instance,
// with base 2^[DefaultRelinearizationLogBase].
func (kgen *KeyGenerator) RelinearizationKey() *RelinearizationKey {
	kgen.rlkOnce.Do(func() {
		kgen.rlk = kgen.genRelinearizationKey(kgen.SecretKey(), DefaultRelinearizationLogBase, sampling.NewSource(sampling.DeriveSeed(kgen.seed, "relinearization")))
	})
	return kgen.rlk
}

// GenerateKeys returns the public key, the secret key and the relinearization
// key of the instance. Repeated calls return the same keys.
func (kgen *KeyGenerator) GenerateKeys() (pk *PublicKey, sk *SecretKey, rlk *RelinearizationKey) {
	return kgen.PublicKey(), kgen.SecretKey(), kgen.RelinearizationKey()
}

func (kgen *KeyGenerator) newSampler(source *sampling.Source, X ring.DistributionParameters) ring.Sampler {
	sampler, err := ring.NewSampler(source, kgen.params.Q(), X)
	if err != nil {
		// Sanity check, this error should not happen: distributions are checked by NewParametersFromLiteral.
		panic(err)
	}
	return sampler
}

func (kgen *KeyGenerator) genSecretKey(source *sampling.Source) (sk *SecretKey) {
	sk = NewSecretKey(kgen.params)
	kgen.newSampler(source, kgen.params.Xs()).Read(sk.Value)
	return
}

// genPublicKey returns (-(a*s + e), a) with a uniform and e sampled from Xe.
func (kgen *KeyGenerator) genPublicKey(sk *SecretKey, source *sampling.Source) (pk *PublicKey) {

	rQ := kgen.params.RingQ()

	pk = NewPublicKey(kgen.params)

	ring.NewUniformSampler(source.NewSource(), kgen.params.Q()).Read(pk.Value[1])

	rQ.MulPoly(pk.Value[1], sk.Value, pk.Value[0])
	kgen.newSampler(source.NewSource(), kgen.params.Xe()).ReadAndAdd(pk.Value[0])
	rQ.Neg(pk.Value[0], pk.Value[0])

	return
}

func (kgen *KeyGenerator) genRelinearizationKey(sk *SecretKey, logBase int, source *sampling.Source) (rlk *RelinearizationKey) {

	rQ := kgen.params.RingQ()

	rlk = NewRelinearizationKey(kgen.params, logBase)

	uniform := ring.NewUniformSampler(source.NewSource(), kgen.params.Q())
	gaussian := kgen.newSampler(source.NewSource(), kgen.params.Xe())

	skNTT := rQ.NewRNSPoly()
	rQ.NTT(sk.Value, skNTT)

	sk2NTT := rQ.NewRNSPoly()
	rQ.MulCoeffsBarrett(skNTT, skNTT, sk2NTT)

	e := rQ.NewRNSPoly()

	for j := range rlk.Value {

		qj := rQ[j].Modulus

		for k := range rlk.Value[j] {

			b, a := rlk.Value[j][k][0], rlk.Value[j][k][1]

			// a is uniform in the NTT domain
			uniform.Read(a)

			gaussian.Read(e)
			rQ.NTT(e, b)

			// b = -(a*s + e)
			rQ.MulCoeffsBarrettThenAdd(a, skNTT, b)
			rQ.Neg(b, b)

			// b = b + 2^{logBase*k} * s^2 on q_j only
			rQ[j].MulScalarMontgomeryThenAdd(sk2NTT.At(j), ring.MForm(ring.ModExp(2, uint64(logBase*k), qj), qj, rQ[j].BRedConstant), b.At(j))
		}
	}

	return
}
