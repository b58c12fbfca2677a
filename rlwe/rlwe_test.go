package rlwe

import (
	"encoding/binary"
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"math/big"
	"math/bits"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sealedhe/sealed/ring"
	"github.com/sealedhe/sealed/utils/buffer"
	"github.com/sealedhe/sealed/utils/sampling"
)

var flagParamString = flag.String("params", "", "specify the test cryptographic parameters as a JSON string. Overrides -short.")

var testInsecure = []ParametersLiteral{
	{
		LogN: 10,
		LogQ: []int{45, 35, 35},
		T:    65537,
	},
	{
		LogN: 11,
		T:    256,
	},
}

func testString(params Parameters, opname string) string {
	return fmt.Sprintf("%s/logN=%d/logQ=%d/Qi=%d/T=%d",
		opname,
		params.LogN(),
		int(math.Round(params.LogQ())),
		len(params.Q()),
		params.T())
}

type testContext struct {
	params Parameters
	kgen   *KeyGenerator
	sk     *SecretKey
	pk     *PublicKey
	enc    *Encryptor
	dec    *Decryptor
}

func newTestContext(params Parameters) (tc *testContext, err error) {

	tc = &testContext{params: params}

	tc.kgen = NewKeyGenerator(params)
	tc.sk, tc.pk = tc.kgen.SecretKey(), tc.kgen.PublicKey()

	if tc.enc, err = NewEncryptor(params, tc.pk); err != nil {
		return nil, err
	}

	if tc.dec, err = NewDecryptor(params, tc.sk); err != nil {
		return nil, err
	}

	return
}

func newRandomPlaintext(params Parameters, enc Encoding, source *sampling.Source) (pt *Plaintext) {
	pt = NewPlaintext(params, enc)
	for i := range pt.Value {
		pt.Value[i] = source.Uint64() % params.T()
	}
	return
}

func TestRLWE(t *testing.T) {

	var err error

	paramsLiterals := testInsecure

	if *flagParamString != "" {
		var pl ParametersLiteral
		if err = json.Unmarshal([]byte(*flagParamString), &pl); err != nil {
			t.Fatal(err)
		}
		paramsLiterals = []ParametersLiteral{pl}
	}

	for _, pl := range paramsLiterals {

		var params Parameters
		if params, err = NewParametersFromLiteral(pl); err != nil {
			t.Fatal(err)
		}

		tc, err := newTestContext(params)
		require.NoError(t, err)

		for _, testSet := range []func(tc *testContext, t *testing.T){
			testParameters,
			testKeyGenerator,
			testEncryptor,
			testMarshaller,
		} {
			testSet(tc, t)
		}
	}

	testUserDefinedParameters(t)
	testEncoding(t)
}

func testUserDefinedParameters(t *testing.T) {

	t.Run("Parameters/SecurityTable", func(t *testing.T) {
		for _, security := range []int{128, 192, 256} {
			for _, N := range []int{1024, 2048, 4096} {
				params, err := NewParameters(N, 256, 0, security)
				require.NoError(t, err)
				logQ, err := MaxLogQ(N, security)
				require.NoError(t, err)
				require.Equal(t, SplitLogQ(logQ), func() (logQi []int) {
					for _, qi := range params.Q() {
						logQi = append(logQi, bits.Len64(qi))
					}
					return
				}())
				require.LessOrEqual(t, params.QBitLen(), logQ)
				for _, qi := range params.Q() {
					require.True(t, ring.IsPrime(qi))
					require.Equal(t, uint64(1), qi%uint64(2*N))
				}
			}
		}
	})

	t.Run("Parameters/DefaultSecurity", func(t *testing.T) {
		params, err := NewParameters(2048, 256, 0, 0)
		require.NoError(t, err)
		require.Equal(t, DefaultSecurity, params.Security())
		require.Equal(t, 1, len(params.Q()))
		require.Equal(t, 54, params.QBitLen())
	})

	t.Run("Parameters/ExplicitQ", func(t *testing.T) {
		params, err := NewParameters(2048, 293, 0x7fffffffba0001, 128)
		require.NoError(t, err)
		require.Equal(t, []uint64{0x7fffffffba0001}, params.Q())
		require.Equal(t, 0, new(big.Int).Quo(params.QBigint(), big.NewInt(293)).Cmp(params.Delta()))
	})

	t.Run("Parameters/SplitLogQ", func(t *testing.T) {
		require.Equal(t, []int{27}, SplitLogQ(27))
		require.Equal(t, []int{55, 54}, SplitLogQ(109))
		require.Equal(t, []int{55, 55, 54, 54}, SplitLogQ(218))
	})

	t.Run("Parameters/Invalid", func(t *testing.T) {

		for _, tt := range []struct {
			name string
			pl   ParametersLiteral
		}{
			{"LogN=0", ParametersLiteral{LogN: 0, LogQ: []int{30}, T: 17}},
			{"T=1", ParametersLiteral{LogN: 10, LogQ: []int{30}, T: 1}},
			{"QAndLogQ", ParametersLiteral{LogN: 10, Q: []uint64{0x7fffffffba0001}, LogQ: []int{30}, T: 17}},
			{"QNotPrime", ParametersLiteral{LogN: 10, Q: []uint64{1 << 40}, T: 17}},
			{"QNotNTTFriendly", ParametersLiteral{LogN: 10, Q: []uint64{1000000007}, T: 17}},
			{"TLargerThanQ", ParametersLiteral{LogN: 4, Q: []uint64{97}, T: 257}},
			{"LogQTooSmall", ParametersLiteral{LogN: 10, LogQ: []int{11}, T: 17}},
			{"NoTableEntry", ParametersLiteral{LogN: 6, T: 17}},
			{"UnknownSecurity", ParametersLiteral{LogN: 11, T: 17, Security: 100}},
			{"UniformSecret", ParametersLiteral{LogN: 10, LogQ: []int{30}, T: 17, Xs: &ring.Uniform{}}},
			{"InvalidTernary", ParametersLiteral{LogN: 10, LogQ: []int{30}, T: 17, Xs: &ring.Ternary{P: 0.5, H: 3}}},
		} {
			t.Run(tt.name, func(t *testing.T) {
				params, err := NewParametersFromLiteral(tt.pl)
				require.ErrorIs(t, err, ErrParameter)
				require.Equal(t, Parameters{}, params)
			})
		}

		_, err := NewParameters(1000, 256, 0, 128)
		require.ErrorIs(t, err, ErrParameter)
	})

	t.Run("Parameters/Equal", func(t *testing.T) {
		p0, err := NewParameters(2048, 256, 0, 128)
		require.NoError(t, err)
		p1, err := NewParametersFromLiteral(ParametersLiteral{LogN: 11, Q: p0.Q(), T: 256, Security: 192})
		require.NoError(t, err)
		p2, err := NewParameters(2048, 257, 0, 128)
		require.NoError(t, err)
		require.True(t, p0.Equal(&p1))
		require.False(t, p0.Equal(&p2))
		require.False(t, p0.Equal(nil))
	})

	t.Run("Parameters/UnmarshalJSON", func(t *testing.T) {

		dataWithLogModuli := []byte(`{"LogN":10,"LogQ":[40,30],"T":65537}`)
		var params Parameters
		require.NoError(t, json.Unmarshal(dataWithLogModuli, &params))
		require.Equal(t, 2, len(params.Q()))
		require.True(t, params.Xe().Equal(&DefaultXe))
		require.True(t, params.Xs().Equal(&DefaultXs))

		dataWithCustomDist := []byte(`{"LogN":10,"LogQ":[40,30],"T":65537,"Xs":{"Type":"Ternary","H":192},"Xe":{"Type":"DiscreteGaussian","Sigma":6.4,"Bound":38}}`)
		require.NoError(t, json.Unmarshal(dataWithCustomDist, &params))
		require.True(t, params.Xs().Equal(&ring.Ternary{H: 192}))
		require.True(t, params.Xe().Equal(&ring.DiscreteGaussian{Sigma: 6.4, Bound: 38}))

		data, err := json.Marshal(params)
		require.NoError(t, err)
		var paramsNew Parameters
		require.NoError(t, json.Unmarshal(data, &paramsNew))
		require.True(t, params.Equal(&paramsNew))
		require.True(t, params.Xs().Equal(paramsNew.Xs()))

		dataWithBadDist := []byte(`{"LogN":10,"LogQ":[40,30],"T":65537,"Xs":{"Type":"Ternary","H":192,"P":0.5}}`)
		require.Error(t, json.Unmarshal(dataWithBadDist, &params))
	})
}

func testParameters(tc *testContext, t *testing.T) {

	params := tc.params

	t.Run(testString(params, "Parameters/Delta"), func(t *testing.T) {
		Q := params.QBigint()
		T := new(big.Int).SetUint64(params.T())
		require.Equal(t, 0, new(big.Int).Quo(Q, T).Cmp(params.Delta()))
		for i, qi := range params.Q() {
			require.Equal(t, new(big.Int).Mod(params.Delta(), new(big.Int).SetUint64(qi)).Uint64(), params.DeltaMod()[i])
		}
		require.InDelta(t, float64(Q.BitLen()), params.LogQ(), 1)
	})

	t.Run(testString(params, "Parameters/AuxiliaryBasis"), func(t *testing.T) {
		P := params.RingQP()[len(params.Q()):].Modulus()
		bound := new(big.Int).Mul(params.QBigint(), big.NewInt(int64(2*params.N())))
		require.Equal(t, 1, P.Cmp(bound))
		require.Equal(t, params.Q(), params.RingQP().ModuliChain()[:len(params.Q())])
		for _, pi := range params.P() {
			require.Equal(t, AuxiliaryPrimeBitSize, bits.Len64(pi))
		}
	})
}

func testKeyGenerator(tc *testContext, t *testing.T) {

	params := tc.params

	t.Run(testString(params, "KeyGenerator/SecretKey"), func(t *testing.T) {
		require.Same(t, tc.sk, tc.kgen.SecretKey())
		for i, s := range params.RingQ() {
			for _, c := range tc.sk.Value.At(i) {
				require.True(t, c == 0 || c == 1 || c == s.Modulus-1)
			}
		}
	})

	t.Run(testString(params, "KeyGenerator/GenerateKeys/Idempotent"), func(t *testing.T) {
		pk0, sk0, rlk0 := tc.kgen.GenerateKeys()
		pk1, sk1, rlk1 := tc.kgen.GenerateKeys()
		require.Same(t, pk0, pk1)
		require.Same(t, sk0, sk1)
		require.Same(t, rlk0, rlk1)
		require.Same(t, tc.pk, pk0)
	})

	t.Run(testString(params, "KeyGenerator/Concurrent"), func(t *testing.T) {
		kgen := NewKeyGenerator(params)
		sks := make([]*SecretKey, 8)
		var wg sync.WaitGroup
		for i := range sks {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				sks[i] = kgen.SecretKey()
			}(i)
		}
		wg.Wait()
		for i := range sks {
			require.Same(t, sks[0], sks[i])
		}
	})

	t.Run(testString(params, "KeyGenerator/Independent"), func(t *testing.T) {
		other := NewKeyGenerator(params)
		require.False(t, tc.sk.Equal(other.SecretKey()))
		require.False(t, tc.pk.Equal(other.PublicKey()))
	})

	t.Run(testString(params, "KeyGenerator/Seeded"), func(t *testing.T) {
		seed := sampling.NewSeed()
		kgen0 := NewKeyGeneratorWithSeed(params, seed)
		kgen1 := NewKeyGeneratorWithSeed(params, seed)
		require.True(t, kgen0.SecretKey().Equal(kgen1.SecretKey()))
		require.True(t, kgen0.PublicKey().Equal(kgen1.PublicKey()))
	})

	sigma := params.Xe().(*ring.DiscreteGaussian).Sigma

	t.Run(testString(params, "KeyGenerator/PublicKey"), func(t *testing.T) {
		require.GreaterOrEqual(t, math.Log2(sigma)+1, NoisePublicKey(tc.pk, tc.sk))
	})

	t.Run(testString(params, "KeyGenerator/RelinearizationKey"), func(t *testing.T) {
		rlk := tc.kgen.RelinearizationKey()
		require.Equal(t, DefaultRelinearizationLogBase, rlk.LogBase)
		digits := RelinearizationDigits(params, DefaultRelinearizationLogBase)
		for j := range rlk.Value {
			require.Equal(t, digits[j], len(rlk.Value[j]))
		}
		require.GreaterOrEqual(t, math.Log2(sigma)+1, NoiseRelinearizationKey(rlk, tc.sk))
	})
}

func testEncryptor(tc *testContext, t *testing.T) {

	params := tc.params
	source := sampling.NewSource(sampling.NewSeed())
	enc := Encoding{Base: 3, Signed: true, IntegralDigits: 16}

	t.Run(testString(params, "Encryptor/Decryptor"), func(t *testing.T) {
		pt := newRandomPlaintext(params, enc, source)
		ct, err := tc.enc.EncryptNew(pt)
		require.NoError(t, err)
		require.Equal(t, 2, ct.Size())
		require.Equal(t, enc, ct.Encoding)

		have, err := tc.dec.DecryptNew(ct)
		require.NoError(t, err)
		require.True(t, pt.Equal(have))

		sigma := params.Xe().(*ring.DiscreteGaussian).Sigma
		require.GreaterOrEqual(t, math.Log2(sigma*math.Sqrt(2*float64(params.N())))+2, NoiseCiphertext(ct, pt, tc.sk))

		// the phase is dominated by Delta*pt
		std, max := Norm(ct, tc.dec)
		require.LessOrEqual(t, std, max)
		require.LessOrEqual(t, max, params.LogQ())
	})

	t.Run(testString(params, "Encryptor/Randomized"), func(t *testing.T) {
		pt := newRandomPlaintext(params, enc, source)
		ct0, err := tc.enc.EncryptNew(pt)
		require.NoError(t, err)
		ct1, err := tc.enc.EncryptNew(pt)
		require.NoError(t, err)
		require.False(t, ct0.Equal(ct1))
	})

	t.Run(testString(params, "Encryptor/WrongSecretKey"), func(t *testing.T) {
		pt := newRandomPlaintext(params, enc, source)
		ct, err := tc.enc.EncryptNew(pt)
		require.NoError(t, err)
		dec, err := NewDecryptor(params, NewKeyGenerator(params).SecretKey())
		require.NoError(t, err)
		have, err := dec.DecryptNew(ct)
		require.NoError(t, err)
		require.False(t, pt.Equal(have))
	})

	t.Run(testString(params, "Encryptor/Invalid"), func(t *testing.T) {
		_, err := NewEncryptor(params, nil)
		require.ErrorIs(t, err, ErrParameter)

		_, err = NewDecryptor(params, nil)
		require.ErrorIs(t, err, ErrParameter)

		other, err := NewParametersFromLiteral(ParametersLiteral{LogN: params.LogN(), LogQ: []int{40}, T: params.T()})
		require.NoError(t, err)

		_, err = NewEncryptor(other, tc.pk)
		require.ErrorIs(t, err, ErrParameter)

		_, err = tc.enc.EncryptNew(NewPlaintext(other, enc))
		require.ErrorIs(t, err, ErrParameter)
	})
}

func testMarshaller(tc *testContext, t *testing.T) {

	params := tc.params
	source := sampling.NewSource(sampling.NewSeed())

	t.Run(testString(params, "Marshaller/Parameters"), func(t *testing.T) {
		buffer.RequireSerializerCorrect(t, &params)

		data, err := params.MarshalBinary()
		require.NoError(t, err)
		require.Equal(t, 4+8+4+8*len(params.Q())+4, len(data))

		var paramsNew Parameters
		require.NoError(t, paramsNew.UnmarshalBinary(data))
		require.True(t, params.Equal(&paramsNew))
		require.Equal(t, params.Security(), paramsNew.Security())
	})

	t.Run(testString(params, "Marshaller/Encoding"), func(t *testing.T) {
		enc := Encoding{Base: 7, Signed: true, IntegralDigits: 13, FractionalDigits: 5}
		data := buffer.NewBufferSize(enc.BinarySize())
		_, err := enc.WriteTo(data)
		require.NoError(t, err)
		var encNew Encoding
		_, err = encNew.ReadFrom(buffer.NewBuffer(data.Bytes()))
		require.NoError(t, err)
		require.Equal(t, enc, encNew)
	})

	t.Run(testString(params, "Marshaller/SecretKey"), func(t *testing.T) {
		buffer.RequireSerializerCorrect(t, tc.sk)
	})

	t.Run(testString(params, "Marshaller/PublicKey"), func(t *testing.T) {
		buffer.RequireSerializerCorrect(t, tc.pk)
	})

	t.Run(testString(params, "Marshaller/RelinearizationKey"), func(t *testing.T) {
		buffer.RequireSerializerCorrect(t, tc.kgen.RelinearizationKey())
	})

	t.Run(testString(params, "Marshaller/Ciphertext"), func(t *testing.T) {

		pt := newRandomPlaintext(params, DefaultEncoding(), source)
		ct, err := tc.enc.EncryptNew(pt)
		require.NoError(t, err)

		buffer.RequireSerializerCorrect(t, ct)

		data, err := ct.MarshalBinary()
		require.NoError(t, err)

		ctNew := new(Ciphertext)
		require.NoError(t, ctNew.UnmarshalBinary(data))
		require.True(t, ct.Equal(ctNew))

		have, err := tc.dec.DecryptNew(ctNew)
		require.NoError(t, err)
		require.True(t, pt.Equal(have))
	})

	t.Run(testString(params, "Marshaller/Detached"), func(t *testing.T) {

		data, err := tc.pk.MarshalBinaryDetached()
		require.NoError(t, err)
		require.Equal(t, 1+tc.pk.Value[0].BinarySize()+tc.pk.Value[1].BinarySize(), len(data))

		pkNew := new(PublicKey)
		require.ErrorIs(t, pkNew.UnmarshalBinary(data), ErrMissingContext)

		require.NoError(t, pkNew.UnmarshalBinaryWithParameters(params, data))
		require.True(t, tc.pk.Equal(pkNew))

		data, err = tc.kgen.RelinearizationKey().MarshalBinaryDetached()
		require.NoError(t, err)
		rlkNew := new(RelinearizationKey)
		require.ErrorIs(t, rlkNew.UnmarshalBinary(data), ErrMissingContext)
		require.NoError(t, rlkNew.UnmarshalBinaryWithParameters(params, data))
		require.True(t, tc.kgen.RelinearizationKey().Equal(rlkNew))
	})

	t.Run(testString(params, "Marshaller/InvalidPayload"), func(t *testing.T) {

		data, err := tc.pk.MarshalBinaryDetached()
		require.NoError(t, err)

		// flag | #limbs | #coefficients | coefficients of the first limb
		offset := 1 + 8 + 8

		corrupted := append([]byte{}, data...)
		binary.LittleEndian.PutUint64(corrupted[offset:], params.Q()[0])
		require.Error(t, new(PublicKey).UnmarshalBinaryWithParameters(params, corrupted))

		// one modulus too many
		corrupted = append([]byte{}, data...)
		binary.LittleEndian.PutUint64(corrupted[1:], uint64(len(params.Q())+1))
		require.Error(t, new(PublicKey).UnmarshalBinaryWithParameters(params, corrupted))
	})

	t.Run(testString(params, "Marshaller/MismatchedParameters"), func(t *testing.T) {

		other, err := NewParametersFromLiteral(ParametersLiteral{LogN: params.LogN(), LogQ: []int{40}, T: params.T()})
		require.NoError(t, err)

		data, err := tc.sk.MarshalBinary()
		require.NoError(t, err)

		require.ErrorIs(t, new(SecretKey).UnmarshalBinaryWithParameters(other, data), ErrParameter)
	})
}

func testEncoding(t *testing.T) {

	params, err := NewParametersFromLiteral(ParametersLiteral{LogN: 8, LogQ: []int{40}, T: 256})
	require.NoError(t, err)

	t.Run("Encoding/Validate", func(t *testing.T) {
		require.NoError(t, DefaultEncoding().Validate(params))
		require.NoError(t, Encoding{Base: 255, IntegralDigits: 128, FractionalDigits: 128}.Validate(params))
		require.ErrorIs(t, Encoding{Base: 1, IntegralDigits: 8}.Validate(params), ErrParameter)
		require.ErrorIs(t, Encoding{Base: 256, IntegralDigits: 8}.Validate(params), ErrParameter)
		require.ErrorIs(t, Encoding{Base: 2, IntegralDigits: 0}.Validate(params), ErrParameter)
		require.ErrorIs(t, Encoding{Base: 2, IntegralDigits: 129}.Validate(params), ErrParameter)
		require.ErrorIs(t, Encoding{Base: 2, IntegralDigits: 8, FractionalDigits: 129}.Validate(params), ErrParameter)
	})

	t.Run("Encoding/Equal", func(t *testing.T) {
		enc := DefaultEncoding()
		require.True(t, enc.Equal(&Encoding{Base: 2, Signed: true, IntegralDigits: 64, FractionalDigits: 32}))
		require.False(t, enc.Equal(&Encoding{Base: 3, Signed: true, IntegralDigits: 64, FractionalDigits: 32}))
		require.False(t, enc.Equal(&Encoding{Base: 2, Signed: false, IntegralDigits: 64, FractionalDigits: 32}))
		require.False(t, enc.Equal(&Encoding{Base: 2, Signed: true, IntegralDigits: 64, FractionalDigits: 0}))
		require.False(t, enc.Equal(nil))
	})
}
