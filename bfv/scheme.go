package bfv

import (
	"bufio"
	"fmt"
	"io"
	"math/big"
	"sync"

	"github.com/sealedhe/sealed/rlwe"
	"github.com/sealedhe/sealed/utils/buffer"
)

// CipherScheme bundles the parameters, a [rlwe.KeyGenerator], an [Encoder]
// and an [Evaluator] behind a single object.
//
// The evaluator of a CipherScheme relinearizes with the relinearization key
// of its own key generator, which is generated on first use of the evaluator.
type CipherScheme struct {
	params    rlwe.Parameters
	kgen      *rlwe.KeyGenerator
	encoder   *Encoder
	evaluator func() *Evaluator
}

// NewCipherScheme creates a new [CipherScheme] for the ring degree N, the
// plaintext modulus t and the ciphertext modulus q, where q = 0 derives q
// from the security table for the given security level.
// See [rlwe.NewParameters].
func NewCipherScheme(N int, t, q uint64, security int) (cs *CipherScheme, err error) {

	var params rlwe.Parameters
	if params, err = rlwe.NewParameters(N, t, q, security); err != nil {
		return nil, fmt.Errorf("rlwe.NewParameters: %w", err)
	}

	return NewCipherSchemeFromParameters(params), nil
}

// NewDefaultCipherScheme creates a new [CipherScheme] from [rlwe.DefaultParametersLiteral].
func NewDefaultCipherScheme() (cs *CipherScheme, err error) {

	var params rlwe.Parameters
	if params, err = rlwe.NewParametersFromLiteral(rlwe.DefaultParametersLiteral); err != nil {
		return nil, fmt.Errorf("rlwe.NewParametersFromLiteral: %w", err)
	}

	return NewCipherSchemeFromParameters(params), nil
}

// NewCipherSchemeFromParameters creates a new [CipherScheme] from the provided parameters.
func NewCipherSchemeFromParameters(params rlwe.ParameterProvider) (cs *CipherScheme) {
	cs = new(CipherScheme)
	cs.init(*params.GetRLWEParameters())
	return
}

func (cs *CipherScheme) init(params rlwe.Parameters) {
	cs.params = params
	cs.kgen = rlwe.NewKeyGenerator(params)
	cs.encoder = NewEncoder(params)
	cs.evaluator = sync.OnceValue(func() *Evaluator {
		return NewEvaluator(params, cs.kgen.RelinearizationKey())
	})
}

// GetRLWEParameters returns the underlying [rlwe.Parameters].
func (cs *CipherScheme) GetRLWEParameters() *rlwe.Parameters {
	return &cs.params
}

// KeyGenerator returns the key generator of the scheme.
func (cs *CipherScheme) KeyGenerator() *rlwe.KeyGenerator {
	return cs.kgen
}

// Encoder returns the encoder of the scheme.
func (cs *CipherScheme) Encoder() *Encoder {
	return cs.encoder
}

// Evaluator returns the evaluator of the scheme.
func (cs *CipherScheme) Evaluator() *Evaluator {
	return cs.evaluator()
}

// GenerateKeys returns the public key, the secret key and the relinearization
// key of the scheme. Repeated calls return the same keys.
func (cs *CipherScheme) GenerateKeys() (pk *rlwe.PublicKey, sk *rlwe.SecretKey, rlk *rlwe.RelinearizationKey) {
	return cs.kgen.GenerateKeys()
}

// Encode encodes value with the given encoding. See [Encoder.Encode].
func (cs *CipherScheme) Encode(value interface{}, enc rlwe.Encoding) (pt *rlwe.Plaintext, err error) {
	return cs.encoder.Encode(value, enc)
}

// Encrypt encodes value with [rlwe.DefaultEncoding] and encrypts it under pk.
func (cs *CipherScheme) Encrypt(pk *rlwe.PublicKey, value interface{}) (ct *Ciphertext, err error) {
	return cs.EncryptWithEncoding(pk, value, rlwe.DefaultEncoding())
}

// EncryptWithEncoding encodes value with enc and encrypts it under pk.
func (cs *CipherScheme) EncryptWithEncoding(pk *rlwe.PublicKey, value interface{}, enc rlwe.Encoding) (ct *Ciphertext, err error) {

	var pt *rlwe.Plaintext
	if pt, err = cs.encoder.Encode(value, enc); err != nil {
		return
	}

	return cs.EncryptPlaintext(pk, pt)
}

// EncryptPlaintext encrypts pt under pk.
func (cs *CipherScheme) EncryptPlaintext(pk *rlwe.PublicKey, pt *rlwe.Plaintext) (ct *Ciphertext, err error) {

	var enc *rlwe.Encryptor
	if enc, err = rlwe.NewEncryptor(cs.params, pk); err != nil {
		return
	}

	var ctRLWE *rlwe.Ciphertext
	if ctRLWE, err = enc.EncryptNew(pt); err != nil {
		return
	}

	return cs.NewCiphertext(ctRLWE), nil
}

// Decrypt decrypts ct with sk and returns the decoded value.
// A ciphertext whose noise budget is exhausted silently decrypts to a wrong value.
func (cs *CipherScheme) Decrypt(sk *rlwe.SecretKey, ct *Ciphertext) (value *big.Float, err error) {

	var pt *rlwe.Plaintext
	if pt, err = cs.DecryptPlaintext(sk, ct); err != nil {
		return
	}

	return cs.encoder.Decode(pt)
}

// DecryptInt decrypts ct with sk and returns the decoded value rounded to the nearest integer.
func (cs *CipherScheme) DecryptInt(sk *rlwe.SecretKey, ct *Ciphertext) (value *big.Int, err error) {

	var pt *rlwe.Plaintext
	if pt, err = cs.DecryptPlaintext(sk, ct); err != nil {
		return
	}

	return cs.encoder.DecodeInt(pt)
}

// DecryptPlaintext decrypts ct with sk without decoding.
func (cs *CipherScheme) DecryptPlaintext(sk *rlwe.SecretKey, ct *Ciphertext) (pt *rlwe.Plaintext, err error) {

	if ct == nil {
		return nil, fmt.Errorf("%w: ciphertext is nil", rlwe.ErrParameter)
	}

	var dec *rlwe.Decryptor
	if dec, err = rlwe.NewDecryptor(cs.params, sk); err != nil {
		return
	}

	return dec.DecryptNew(ct.Ciphertext)
}

// NewCiphertext wraps ct with the receiver.
func (cs *CipherScheme) NewCiphertext(ct *rlwe.Ciphertext) *Ciphertext {
	return &Ciphertext{Ciphertext: ct, scheme: cs}
}

// UnmarshalCiphertext decodes a ciphertext serialized with or without its
// parameters and wraps it with the receiver.
func (cs *CipherScheme) UnmarshalCiphertext(data []byte) (ct *Ciphertext, err error) {

	ctRLWE := new(rlwe.Ciphertext)
	if err = ctRLWE.UnmarshalBinaryWithParameters(cs.params, data); err != nil {
		return
	}

	return cs.NewCiphertext(ctRLWE), nil
}

// Equal returns true if both schemes share the same parameters.
func (cs *CipherScheme) Equal(other *CipherScheme) bool {
	return other != nil && cs.params.Equal(&other.params)
}

func (cs *CipherScheme) String() string {
	return cs.params.String()
}

// BinarySize returns the serialized size of the object in bytes.
func (cs *CipherScheme) BinarySize() int {
	return cs.params.BinarySize()
}

// WriteTo writes the parameters of the scheme on w.
// Keys are not serialized.
func (cs *CipherScheme) WriteTo(w io.Writer) (n int64, err error) {
	return cs.params.WriteTo(w)
}

// ReadFrom reads parameters from r and resets the receiver with them,
// including a new key generator.
func (cs *CipherScheme) ReadFrom(r io.Reader) (n int64, err error) {
	switch r := r.(type) {
	case buffer.Reader:

		var params rlwe.Parameters
		if n, err = params.ReadFrom(r); err != nil {
			return n, fmt.Errorf("params.ReadFrom: %w", err)
		}

		cs.init(params)

		return

	default:
		return cs.ReadFrom(bufio.NewReader(r))
	}
}

// MarshalBinary encodes the object into a binary form on a newly allocated slice of bytes.
func (cs *CipherScheme) MarshalBinary() (data []byte, err error) {
	return cs.params.MarshalBinary()
}

// UnmarshalBinary decodes a slice of bytes generated by
// [CipherScheme.MarshalBinary] on the object.
func (cs *CipherScheme) UnmarshalBinary(data []byte) (err error) {
	_, err = cs.ReadFrom(buffer.NewBuffer(data))
	return
}
