package rlwe

import (
	"fmt"
	"math/big"

	"github.com/sealedhe/sealed/ring"
	"github.com/sealedhe/sealed/utils/bignum"
)

// Decryptor is a structure used to decrypt [Ciphertext].
// It stores the secret-key.
type Decryptor struct {
	params Parameters
	sk     *SecretKey
	skNTT  ring.RNSPoly
}

// NewDecryptor instantiates a new [Decryptor].
func NewDecryptor(params ParameterProvider, sk *SecretKey) (dec *Decryptor, err error) {

	p := params.GetRLWEParameters()

	if sk == nil {
		return nil, fmt.Errorf("%w: secret key is nil", ErrParameter)
	}

	if !p.Equal(&sk.params) {
		return nil, fmt.Errorf("%w: secret key parameters do not match", ErrParameter)
	}

	rQ := p.RingQ()
	skNTT := rQ.NewRNSPoly()
	rQ.NTT(sk.Value, skNTT)

	return &Decryptor{
		params: *p,
		sk:     sk,
		skNTT:  skNTT,
	}, nil
}

// GetRLWEParameters returns the underlying [Parameters].
func (d Decryptor) GetRLWEParameters() *Parameters {
	return &d.params
}

// DecryptNew decrypts ct and returns the result in a new [Plaintext]
// with the same [Encoding] as ct.
//
// Decryption never fails on a ciphertext whose noise exceeds its budget:
// it silently returns a wrong plaintext. See [Decryptor.Phase].
func (d Decryptor) DecryptNew(ct *Ciphertext) (pt *Plaintext, err error) {
	pt = NewPlaintext(d.params, ct.Encoding)
	return pt, d.Decrypt(ct, pt)
}

// Decrypt decrypts ct on pt: pt = round(T * (c0 + c1*s + ...)/Q) mod T.
func (d Decryptor) Decrypt(ct *Ciphertext, pt *Plaintext) (err error) {

	phase := d.params.RingQ().NewRNSPoly()
	if err = d.Phase(ct, phase); err != nil {
		return
	}

	N := d.params.N()

	values := make([]big.Int, N)
	d.params.RingQ().PolyToBigint(phase, 1, values)

	T := new(big.Int).SetUint64(d.params.T())
	Q := d.params.QBigint()

	if len(pt.Value) != N {
		pt.Value = ring.NewPoly(N)
	}

	tmp := new(big.Int)
	for i := range values {
		bignum.ScaleRound(&values[i], T, Q, tmp)
		pt.Value[i] = tmp.Mod(tmp, T).Uint64()
	}

	pt.params = d.params
	pt.Encoding = ct.Encoding

	return
}

// Phase evaluates phase = c0 + c1*s + ... + cd*s^d mod Q, in the
// coefficient domain. For a degree one ciphertext the phase is
// Delta*m + v where v is the noise.
func (d Decryptor) Phase(ct *Ciphertext, phase ring.RNSPoly) (err error) {

	if ct == nil || !d.params.Equal(&ct.params) {
		return fmt.Errorf("%w: ciphertext parameters do not match", ErrParameter)
	}

	rQ := d.params.RingQ()

	degree := ct.Degree()

	buff := rQ.NewRNSPoly()

	rQ.NTT(ct.Value[degree], phase)

	for i := degree; i > 0; i-- {
		rQ.MulCoeffsBarrett(phase, d.skNTT, phase)
		rQ.NTT(ct.Value[i-1], buff)
		rQ.Add(phase, buff, phase)
	}

	rQ.INTT(phase, phase)

	return
}
