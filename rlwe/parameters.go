package rlwe

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"math/bits"
	"slices"

	"github.com/google/go-cmp/cmp"

	"github.com/sealedhe/sealed/ring"
	"github.com/sealedhe/sealed/utils/bignum"
	"github.com/sealedhe/sealed/utils/buffer"
)

const (
	// MinLogN is the log2 of the smallest supported ring degree.
	MinLogN = 1
	// MaxLogN is the log2 of the largest supported ring degree.
	MaxLogN = 17
	// AuxiliaryPrimeBitSize is the bit-size of the primes of the auxiliary basis P.
	AuxiliaryPrimeBitSize = 60
)

var (
	// DefaultXs is the default distribution of the secret: uniform ternary.
	DefaultXs = ring.Ternary{P: 2.0 / 3.0}
	// DefaultXe is the default distribution of the error: discrete Gaussian
	// of standard deviation 3.2 truncated at 6 sigma.
	DefaultXe = ring.DiscreteGaussian{Sigma: 3.2, Bound: 19.2}
)

// ParameterProvider is an interface for types that can provide [Parameters].
type ParameterProvider interface {
	GetRLWEParameters() *Parameters
}

// Parameters represents a set of generic BFV parameters. Its fields are private and
// immutable. See [ParametersLiteral] for user-specified parameters.
type Parameters struct {
	t        uint64
	security int
	xs       ring.DistributionParameters
	xe       ring.DistributionParameters
	ringQ    ring.RNSRing
	ringQP   ring.RNSRing
	delta    *big.Int
	deltaMod []uint64
}

// NewParameters instantiates a set of [Parameters] from the ring degree N, the
// plaintext modulus t and the coefficient modulus q. If q is zero, the modulus
// is generated from the [SecurityTable] entry for (N, security). If security
// is zero, [DefaultSecurity] is used.
func NewParameters(N int, t, q uint64, security int) (params Parameters, err error) {

	if N < 1<<MinLogN || N&(N-1) != 0 {
		return Parameters{}, fmt.Errorf("%w: N=%d is not a power of two greater or equal to %d", ErrParameter, N, 1<<MinLogN)
	}

	pl := ParametersLiteral{
		LogN:     bits.Len64(uint64(N)) - 1,
		T:        t,
		Security: security,
	}

	if q != 0 {
		pl.Q = []uint64{q}
	}

	return NewParametersFromLiteral(pl)
}

// NewParametersFromLiteral instantiates a set of [Parameters] from a [ParametersLiteral]
// specification. It returns an error wrapping [ErrParameter] if the parameters are invalid.
func NewParametersFromLiteral(pl ParametersLiteral) (params Parameters, err error) {

	if pl.LogN < MinLogN || pl.LogN > MaxLogN {
		return Parameters{}, fmt.Errorf("%w: LogN=%d is not in [%d, %d]", ErrParameter, pl.LogN, MinLogN, MaxLogN)
	}

	N := 1 << pl.LogN

	if pl.T < 2 {
		return Parameters{}, fmt.Errorf("%w: T=%d must be at least 2", ErrParameter, pl.T)
	}

	params.t = pl.T

	if params.security = pl.Security; params.security == 0 {
		params.security = DefaultSecurity
	}

	var Q []uint64
	switch {
	case len(pl.Q) != 0 && len(pl.LogQ) != 0:
		return Parameters{}, fmt.Errorf("%w: Q and LogQ cannot both be set", ErrParameter)
	case len(pl.Q) != 0:
		Q = append([]uint64{}, pl.Q...)
	case len(pl.LogQ) != 0:
		if Q, err = GenerateNTTPrimes(pl.LogQ, uint64(N)<<1); err != nil {
			return Parameters{}, err
		}
	default:
		var logQ int
		if logQ, err = MaxLogQ(N, params.security); err != nil {
			return Parameters{}, err
		}
		if Q, err = GenerateNTTPrimes(SplitLogQ(logQ), uint64(N)<<1); err != nil {
			return Parameters{}, err
		}
	}

	if params.ringQ, err = ring.NewRNSRing(N, Q); err != nil {
		return Parameters{}, fmt.Errorf("%w: %w", ErrParameter, err)
	}

	QBig := params.ringQ.Modulus()

	if QBig.Cmp(new(big.Int).SetUint64(params.t)) <= 0 {
		return Parameters{}, fmt.Errorf("%w: T=%d must be smaller than Q=%v", ErrParameter, params.t, QBig)
	}

	var P []uint64
	if P, err = auxiliaryPrimes(N, QBig, Q); err != nil {
		return Parameters{}, fmt.Errorf("%w: %w", ErrParameter, err)
	}

	if params.ringQP, err = params.ringQ.AddModuli(P); err != nil {
		return Parameters{}, fmt.Errorf("%w: %w", ErrParameter, err)
	}

	if pl.Xs == nil {
		xs := DefaultXs
		pl.Xs = &xs
	}

	if pl.Xe == nil {
		xe := DefaultXe
		pl.Xe = &xe
	}

	for _, X := range []ring.DistributionParameters{pl.Xs, pl.Xe} {
		if _, isUniform := X.(*ring.Uniform); isUniform {
			return Parameters{}, fmt.Errorf("%w: secret and error distributions cannot be uniform", ErrParameter)
		}
		if _, err = ring.NewSampler(nil, Q, X); err != nil {
			return Parameters{}, fmt.Errorf("%w: %w", ErrParameter, err)
		}
	}

	params.xs = pl.Xs
	params.xe = pl.Xe

	params.delta = new(big.Int).Quo(QBig, new(big.Int).SetUint64(params.t))
	params.deltaMod = make([]uint64, len(Q))
	tmp := new(big.Int)
	for i, qi := range Q {
		params.deltaMod[i] = tmp.Mod(params.delta, tmp.SetUint64(qi)).Uint64()
	}

	return
}

// GenerateNTTPrimes generates one prime congruent to 1 modulo NthRoot for each
// bit-size of logQ. Each prime is the largest available below 2^logQ[i] and all
// primes are distinct.
func GenerateNTTPrimes(logQ []int, NthRoot uint64) (primes []uint64, err error) {

	generators := map[int]*ring.NTTFriendlyPrimesGenerator{}

	primes = make([]uint64, len(logQ))

	for i, logqi := range logQ {

		if logqi <= bits.Len64(NthRoot) || logqi > ring.MaximumModulusBitSize {
			return nil, fmt.Errorf("%w: LogQ[%d]=%d is not in [%d, %d]", ErrParameter, i, logqi, bits.Len64(NthRoot)+1, ring.MaximumModulusBitSize)
		}

		g, ok := generators[logqi]
		if !ok {
			gen := ring.NewNTTFriendlyPrimesGenerator(uint64(logqi), NthRoot)
			g = &gen
			generators[logqi] = g
		}

		if primes[i], err = g.NextDownstreamPrime(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrParameter, err)
		}
	}

	return
}

// auxiliaryPrimes returns the smallest number of [AuxiliaryPrimeBitSize]-bit
// primes, distinct from Q, whose product P satisfies P > 2NQ.
func auxiliaryPrimes(N int, QBig *big.Int, Q []uint64) (P []uint64, err error) {

	bound := new(big.Int).Mul(QBig, big.NewInt(int64(2*N)))

	g := ring.NewNTTFriendlyPrimesGenerator(AuxiliaryPrimeBitSize, uint64(N)<<1)

	PBig := big.NewInt(1)

	for PBig.Cmp(bound) <= 0 {

		var pi uint64
		if pi, err = g.NextDownstreamPrime(); err != nil {
			return nil, err
		}

		if !slices.Contains(Q, pi) {
			P = append(P, pi)
			PBig.Mul(PBig, new(big.Int).SetUint64(pi))
		}
	}

	return
}

// GetRLWEParameters returns a pointer to the receiver.
func (p Parameters) GetRLWEParameters() *Parameters {
	return &p
}

// ParametersLiteral returns the [ParametersLiteral] of the target [Parameters].
func (p Parameters) ParametersLiteral() ParametersLiteral {
	return ParametersLiteral{
		LogN:     p.LogN(),
		Q:        p.Q(),
		T:        p.t,
		Security: p.security,
		Xs:       p.xs,
		Xe:       p.xe,
	}
}

// N returns the ring degree.
func (p Parameters) N() int {
	return p.ringQ.N()
}

// LogN returns the log2 of the ring degree.
func (p Parameters) LogN() int {
	return p.ringQ.LogN()
}

// T returns the plaintext modulus.
func (p Parameters) T() uint64 {
	return p.t
}

// Security returns the security level in bits the parameters were requested with.
func (p Parameters) Security() int {
	return p.security
}

// Xs returns the distribution of the secret.
func (p Parameters) Xs() ring.DistributionParameters {
	return p.xs
}

// Xe returns the distribution of the error.
func (p Parameters) Xe() ring.DistributionParameters {
	return p.xe
}

// RingQ returns the ring of the ciphertexts.
func (p Parameters) RingQ() ring.RNSRing {
	return p.ringQ
}

// RingQP returns the ring of the ciphertexts extended with the auxiliary basis P.
// The first len(Q) moduli of the returned ring are the moduli of [Parameters.RingQ].
func (p Parameters) RingQP() ring.RNSRing {
	return p.ringQP
}

// Q returns a new slice with the moduli of the ciphertext modulus.
func (p Parameters) Q() []uint64 {
	return p.ringQ.ModuliChain()
}

// P returns a new slice with the moduli of the auxiliary basis.
func (p Parameters) P() []uint64 {
	return p.ringQP.ModuliChain()[len(p.ringQ):]
}

// QBigint returns the ciphertext modulus Q = prod q_i.
func (p Parameters) QBigint() *big.Int {
	return p.ringQ.Modulus()
}

// Delta returns a new *big.Int equal to floor(Q/T).
func (p Parameters) Delta() *big.Int {
	return new(big.Int).Set(p.delta)
}

// DeltaMod returns floor(Q/T) mod q_i for each modulus q_i of Q.
func (p Parameters) DeltaMod() []uint64 {
	return append([]uint64{}, p.deltaMod...)
}

// LogQ returns log2(Q).
func (p Parameters) LogQ() float64 {
	return bignum.Log2(p.ringQ.Modulus())
}

// QBitLen returns the bit-length of Q.
func (p Parameters) QBitLen() int {
	return p.ringQ.Modulus().BitLen()
}

// Equal returns true if the receiver and other have the same
// ring degree, plaintext modulus and ciphertext modulus.
func (p Parameters) Equal(other *Parameters) bool {

	if other == nil {
		return false
	}

	type identity struct {
		N int
		T uint64
		Q []uint64
	}

	id := func(p *Parameters) identity {
		if p.ringQ == nil {
			return identity{}
		}
		return identity{N: p.N(), T: p.t, Q: p.Q()}
	}

	return cmp.Equal(id(&p), id(other))
}

// String returns a short description of the parameters.
func (p Parameters) String() string {
	return fmt.Sprintf("N=%d T=%d logQ=%.2f (%d limbs) security=%d", p.N(), p.t, p.LogQ(), len(p.ringQ), p.security)
}

// BinarySize returns the serialized size of the object in bytes.
func (p Parameters) BinarySize() int {
	return 4 + 8 + 4 + 8*len(p.ringQ) + 4
}

// WriteTo writes the object on an io.Writer. It implements the io.WriterTo
// interface, and will write exactly object.BinarySize() bytes on w.
//
// The layout is N (uint32), T (uint64), len(Q) (uint32), Q (uint64 each)
// and Security (uint32), all little-endian.
func (p Parameters) WriteTo(w io.Writer) (n int64, err error) {
	switch w := w.(type) {
	case buffer.Writer:

		var inc int64

		if inc, err = buffer.WriteAsUint32[int](w, p.N()); err != nil {
			return n + inc, fmt.Errorf("buffer.WriteAsUint32[int]: %w", err)
		}

		n += inc

		if inc, err = buffer.WriteUint64(w, p.t); err != nil {
			return n + inc, fmt.Errorf("buffer.WriteUint64: %w", err)
		}

		n += inc

		if inc, err = buffer.WriteAsUint32[int](w, len(p.ringQ)); err != nil {
			return n + inc, fmt.Errorf("buffer.WriteAsUint32[int]: %w", err)
		}

		n += inc

		if inc, err = buffer.WriteUint64Slice(w, p.Q()); err != nil {
			return n + inc, fmt.Errorf("buffer.WriteUint64Slice: %w", err)
		}

		n += inc

		if inc, err = buffer.WriteAsUint32[int](w, p.security); err != nil {
			return n + inc, fmt.Errorf("buffer.WriteAsUint32[int]: %w", err)
		}

		n += inc

		return n, w.Flush()

	default:
		return p.WriteTo(bufio.NewWriter(w))
	}
}

// ReadFrom reads on the object from an io.Writer. It implements the
// io.ReaderFrom interface.
//
// The moduli are taken as written: the [SecurityTable] is never consulted.
func (p *Parameters) ReadFrom(r io.Reader) (n int64, err error) {
	switch r := r.(type) {
	case buffer.Reader:

		var inc int64

		var N, count, security int
		var T uint64

		if inc, err = buffer.ReadAsUint32[int](r, &N); err != nil {
			return n + inc, fmt.Errorf("buffer.ReadAsUint32[int]: %w", err)
		}

		n += inc

		if inc, err = buffer.ReadUint64(r, &T); err != nil {
			return n + inc, fmt.Errorf("buffer.ReadUint64: %w", err)
		}

		n += inc

		if inc, err = buffer.ReadAsUint32[int](r, &count); err != nil {
			return n + inc, fmt.Errorf("buffer.ReadAsUint32[int]: %w", err)
		}

		n += inc

		if count < 1 || count > 1<<10 {
			return n, fmt.Errorf("%w: invalid number of moduli %d", ErrParameter, count)
		}

		Q := make([]uint64, count)

		if inc, err = buffer.ReadUint64Slice(r, Q); err != nil {
			return n + inc, fmt.Errorf("buffer.ReadUint64Slice: %w", err)
		}

		n += inc

		if inc, err = buffer.ReadAsUint32[int](r, &security); err != nil {
			return n + inc, fmt.Errorf("buffer.ReadAsUint32[int]: %w", err)
		}

		n += inc

		if N < 1<<MinLogN || N&(N-1) != 0 {
			return n, fmt.Errorf("%w: N=%d is not a power of two greater or equal to %d", ErrParameter, N, 1<<MinLogN)
		}

		var params Parameters
		if params, err = NewParametersFromLiteral(ParametersLiteral{
			LogN:     bits.Len64(uint64(N)) - 1,
			Q:        Q,
			T:        T,
			Security: security,
		}); err != nil {
			return n, err
		}

		*p = params

		return

	default:
		return p.ReadFrom(bufio.NewReader(r))
	}
}

// MarshalBinary encodes the object into a binary form on a newly allocated slice of bytes.
func (p Parameters) MarshalBinary() (data []byte, err error) {
	buf := buffer.NewBufferSize(p.BinarySize())
	_, err = p.WriteTo(buf)
	return buf.Bytes(), err
}

// UnmarshalBinary decodes a slice of bytes generated by
// MarshalBinary or WriteTo on the object.
func (p *Parameters) UnmarshalBinary(data []byte) (err error) {
	_, err = p.ReadFrom(buffer.NewBuffer(data))
	return
}

// MarshalJSON returns a JSON representation of this parameter set. See Marshal from the [encoding/json] package.
func (p Parameters) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.ParametersLiteral())
}

// UnmarshalJSON reads a JSON representation of a parameter set into the receiver Parameter. See Unmarshal from the [encoding/json] package.
func (p *Parameters) UnmarshalJSON(data []byte) (err error) {
	var params ParametersLiteral
	if err = json.Unmarshal(data, &params); err != nil {
		return
	}
	*p, err = NewParametersFromLiteral(params)
	return
}
