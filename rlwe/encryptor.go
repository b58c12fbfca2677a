package rlwe

import (
	"fmt"

	"github.com/sealedhe/sealed/ring"
	"github.com/sealedhe/sealed/utils/sampling"
)

// Encryptor is a structure used to encrypt [Plaintext] under a [PublicKey].
// Each encryption draws a fresh seed from [crypto/rand], so an Encryptor
// is safe for concurrent use and never produces twice the same ciphertext.
type Encryptor struct {
	params Parameters
	pk     *PublicKey
	pkNTT  [2]ring.RNSPoly
}

// NewEncryptor instantiates a new [Encryptor] for the given public key.
func NewEncryptor(params ParameterProvider, pk *PublicKey) (enc *Encryptor, err error) {

	p := params.GetRLWEParameters()

	if pk == nil {
		return nil, fmt.Errorf("%w: public key is nil", ErrParameter)
	}

	if !p.Equal(&pk.params) {
		return nil, fmt.Errorf("%w: public key parameters do not match", ErrParameter)
	}

	rQ := p.RingQ()

	enc = &Encryptor{params: *p, pk: pk}

	for i := range enc.pkNTT {
		enc.pkNTT[i] = rQ.NewRNSPoly()
		rQ.NTT(pk.Value[i], enc.pkNTT[i])
	}

	return
}

// GetRLWEParameters returns the underlying [Parameters].
func (enc Encryptor) GetRLWEParameters() *Parameters {
	return &enc.params
}

// EncryptNew encrypts pt and returns the result in a new [Ciphertext] of degree one.
func (enc Encryptor) EncryptNew(pt *Plaintext) (ct *Ciphertext, err error) {
	ct = NewCiphertext(enc.params, 1, pt.Encoding)
	return ct, enc.Encrypt(pt, ct)
}

// Encrypt encrypts pt on ct, which must be of degree one:
//
//	ct = (p0*u + e0 + Delta*pt, p1*u + e1)
//
// with u sampled from Xs and e0, e1 from Xe.
func (enc Encryptor) Encrypt(pt *Plaintext, ct *Ciphertext) (err error) {

	if pt == nil || !enc.params.Equal(&pt.params) {
		return fmt.Errorf("%w: plaintext parameters do not match", ErrParameter)
	}

	if ct.Degree() != 1 {
		return fmt.Errorf("invalid ciphertext: degree must be 1 but is %d", ct.Degree())
	}

	rQ := enc.params.RingQ()
	Q := enc.params.Q()

	source := sampling.NewSource(sampling.NewSeed())

	xs, err := ring.NewSampler(source.NewSource(), Q, enc.params.Xs())
	if err != nil {
		// Sanity check, this error should not happen.
		panic(err)
	}

	xe, err := ring.NewSampler(source.NewSource(), Q, enc.params.Xe())
	if err != nil {
		// Sanity check, this error should not happen.
		panic(err)
	}

	u := rQ.NewRNSPoly()
	xs.Read(u)
	rQ.NTT(u, u)

	for i := range ct.Value {
		rQ.MulCoeffsBarrett(enc.pkNTT[i], u, ct.Value[i])
		rQ.INTT(ct.Value[i], ct.Value[i])
		xe.ReadAndAdd(ct.Value[i])
	}

	AddScaledPlaintext(enc.params, pt, ct.Value[0])

	ct.params = enc.params
	ct.Encoding = pt.Encoding

	return
}

// AddScaledPlaintext evaluates p = p + floor(Q/T) * pt.
func AddScaledPlaintext(params ParameterProvider, pt *Plaintext, p ring.RNSPoly) {

	prm := params.GetRLWEParameters()

	rQ := prm.RingQ()
	deltaMod := prm.DeltaMod()

	m := rQ[0].NewPoly()

	for i, s := range rQ {
		s.Reduce(pt.Value, m)
		s.MulScalarMontgomeryThenAdd(m, ring.MForm(deltaMod[i], s.Modulus, s.BRedConstant), p.At(i))
	}
}
