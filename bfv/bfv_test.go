package bfv_test

import (
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"math/big"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sealedhe/sealed/bfv"
	"github.com/sealedhe/sealed/rlwe"
	"github.com/sealedhe/sealed/utils/buffer"
)

var flagPrintNoise = flag.Bool("print-noise", false, "print the noise budget of the evaluated ciphertexts")
var flagParamString = flag.String("params", "", "specify the test cryptographic parameters as a JSON string. Overrides -short.")

// Insecure parameters used for the sole purpose of fast testing.
var testInsecure = rlwe.ParametersLiteral{
	LogN: 11,
	T:    256,
}

func testString(params rlwe.Parameters, opname string) string {
	return fmt.Sprintf("%s/LogN=%d/logQ=%d/Qi=%d/T=%d",
		opname,
		params.LogN(),
		int(math.Round(params.LogQ())),
		len(params.Q()),
		params.T())
}

type testContext struct {
	params rlwe.Parameters
	kgen   *rlwe.KeyGenerator
	sk     *rlwe.SecretKey
	pk     *rlwe.PublicKey
	rlk    *rlwe.RelinearizationKey
	ecd    *bfv.Encoder
	enc    *rlwe.Encryptor
	dec    *rlwe.Decryptor
	eval   *bfv.Evaluator
}

func newTestContext(params rlwe.Parameters) (tc *testContext, err error) {

	tc = &testContext{params: params}

	tc.kgen = rlwe.NewKeyGenerator(params)
	tc.pk, tc.sk, tc.rlk = tc.kgen.GenerateKeys()

	tc.ecd = bfv.NewEncoder(params)

	if tc.enc, err = rlwe.NewEncryptor(params, tc.pk); err != nil {
		return nil, err
	}

	if tc.dec, err = rlwe.NewDecryptor(params, tc.sk); err != nil {
		return nil, err
	}

	tc.eval = bfv.NewEvaluator(params, tc.rlk)

	return
}

func (tc *testContext) encrypt(t *testing.T, value interface{}, enc rlwe.Encoding) *rlwe.Ciphertext {
	pt, err := tc.ecd.Encode(value, enc)
	require.NoError(t, err)
	ct, err := tc.enc.EncryptNew(pt)
	require.NoError(t, err)
	return ct
}

func (tc *testContext) decrypt(t *testing.T, ct *rlwe.Ciphertext) *big.Float {
	pt, err := tc.dec.DecryptNew(ct)
	require.NoError(t, err)
	value, err := tc.ecd.Decode(pt)
	require.NoError(t, err)
	return value
}

func (tc *testContext) decryptInt(t *testing.T, ct *rlwe.Ciphertext) int64 {
	pt, err := tc.dec.DecryptNew(ct)
	require.NoError(t, err)
	value, err := tc.ecd.DecodeInt(pt)
	require.NoError(t, err)
	require.True(t, value.IsInt64())
	return value.Int64()
}

func (tc *testContext) budget(t *testing.T, ct *rlwe.Ciphertext) int {
	budget, err := tc.eval.NoiseBudget(ct, tc.sk)
	require.NoError(t, err)
	if *flagPrintNoise {
		t.Logf("noise budget: %d", budget)
	}
	return budget
}

func requireFloat(t *testing.T, want float64, have *big.Float, delta float64) {
	f, _ := have.Float64()
	require.InDelta(t, want, f, delta)
}

func TestBFV(t *testing.T) {

	var err error

	pl := testInsecure

	if *flagParamString != "" {
		if err = json.Unmarshal([]byte(*flagParamString), &pl); err != nil {
			t.Fatal(err)
		}
	}

	var params rlwe.Parameters
	if params, err = rlwe.NewParametersFromLiteral(pl); err != nil {
		t.Fatal(err)
	}

	tc, err := newTestContext(params)
	require.NoError(t, err)

	for _, testSet := range []func(tc *testContext, t *testing.T){
		testEvaluator,
		testNoiseBudget,
		testTypeIncompatibility,
	} {
		testSet(tc, t)
	}

	testPower(t)
	testCipherScheme(t)
}

func testEvaluator(tc *testContext, t *testing.T) {

	integer := rlwe.Encoding{Base: 2, Signed: true, IntegralDigits: 64}
	fixed := rlwe.DefaultEncoding()

	// 2^-32 rounding per encoded operand
	delta := 1e-8

	t.Run(testString(tc.params, "Evaluator/Add/Ct/Ct"), func(t *testing.T) {

		ct0 := tc.encrypt(t, 1234, integer)
		ct1 := tc.encrypt(t, -5678, integer)

		ct2, err := tc.eval.AddNew(ct0, ct1)
		require.NoError(t, err)
		require.Equal(t, 2, ct2.Size())
		require.Equal(t, int64(1234-5678), tc.decryptInt(t, ct2))

		// in place
		require.NoError(t, tc.eval.Add(ct0, ct1, ct0))
		require.Equal(t, int64(1234-5678), tc.decryptInt(t, ct0))

		ct0 = tc.encrypt(t, 3.3, fixed)
		ct1 = tc.encrypt(t, -1.25, fixed)

		ct2, err = tc.eval.AddNew(ct0, ct1)
		require.NoError(t, err)
		requireFloat(t, 3.3-1.25, tc.decrypt(t, ct2), delta)
	})

	t.Run(testString(tc.params, "Evaluator/Add/Ct/Pt"), func(t *testing.T) {

		ct0 := tc.encrypt(t, 3, integer)

		pt, err := tc.ecd.Encode(4, integer)
		require.NoError(t, err)

		ct1, err := tc.eval.AddNew(ct0, pt)
		require.NoError(t, err)
		require.Equal(t, int64(7), tc.decryptInt(t, ct1))

		ct0 = tc.encrypt(t, 3.3, fixed)

		pt, err = tc.ecd.Encode(3.3, fixed)
		require.NoError(t, err)

		ct1, err = tc.eval.AddNew(ct0, pt)
		require.NoError(t, err)
		requireFloat(t, 6.6, tc.decrypt(t, ct1), delta)
	})

	t.Run(testString(tc.params, "Evaluator/Add/Ct/Scalar"), func(t *testing.T) {

		ct0 := tc.encrypt(t, 3.3, fixed)

		// integers are encoded with the encoding of the ciphertext
		ct1, err := tc.eval.AddNew(ct0, 2)
		require.NoError(t, err)
		requireFloat(t, 5.3, tc.decrypt(t, ct1), delta)

		ct1, err = tc.eval.AddNew(ct0, big.NewFloat(-0.3))
		require.NoError(t, err)
		requireFloat(t, 3.0, tc.decrypt(t, ct1), delta)
	})

	t.Run(testString(tc.params, "Evaluator/Sub"), func(t *testing.T) {

		ct0 := tc.encrypt(t, 10, integer)
		ct1 := tc.encrypt(t, 25, integer)

		ct2, err := tc.eval.SubNew(ct0, ct1)
		require.NoError(t, err)
		require.Equal(t, int64(-15), tc.decryptInt(t, ct2))

		ct2, err = tc.eval.SubNew(ct0, 4)
		require.NoError(t, err)
		require.Equal(t, int64(6), tc.decryptInt(t, ct2))

		ct0 = tc.encrypt(t, 0.5, fixed)

		ct2, err = tc.eval.SubNew(ct0, 1.75)
		require.NoError(t, err)
		requireFloat(t, -1.25, tc.decrypt(t, ct2), delta)
	})

	t.Run(testString(tc.params, "Evaluator/Neg"), func(t *testing.T) {

		ct0 := tc.encrypt(t, 42, integer)

		ct1, err := tc.eval.NegNew(ct0)
		require.NoError(t, err)
		require.Equal(t, int64(-42), tc.decryptInt(t, ct1))

		// the input is left untouched
		require.Equal(t, int64(42), tc.decryptInt(t, ct0))

		ct0 = tc.encrypt(t, -3.3, fixed)

		ct1, err = tc.eval.NegNew(ct0)
		require.NoError(t, err)
		requireFloat(t, 3.3, tc.decrypt(t, ct1), delta)
	})

	t.Run(testString(tc.params, "Evaluator/Mul/Ct/Ct"), func(t *testing.T) {

		ct0 := tc.encrypt(t, 7, integer)
		ct1 := tc.encrypt(t, -6, integer)

		ct2, err := tc.eval.MulRelinNew(ct0, ct1)
		require.NoError(t, err)
		require.Equal(t, 2, ct2.Size())
		require.Equal(t, int64(-42), tc.decryptInt(t, ct2))

		ct0 = tc.encrypt(t, 3.3, fixed)
		ct1 = tc.encrypt(t, 3.3, fixed)

		ct2, err = tc.eval.MulRelinNew(ct0, ct1)
		require.NoError(t, err)
		requireFloat(t, 3.3*3.3, tc.decrypt(t, ct2), 1e-6)

		ct0 = tc.encrypt(t, -3.3, fixed)
		ct1 = tc.encrypt(t, 2.5, fixed)

		ct2, err = tc.eval.MulRelinNew(ct0, ct1)
		require.NoError(t, err)
		requireFloat(t, -8.25, tc.decrypt(t, ct2), 1e-6)
	})

	t.Run(testString(tc.params, "Evaluator/Mul/Relinearize"), func(t *testing.T) {

		ct0 := tc.encrypt(t, 12, integer)
		ct1 := tc.encrypt(t, 11, integer)

		ct2, err := tc.eval.MulNew(ct0, ct1)
		require.NoError(t, err)
		require.Equal(t, 2, ct2.Degree())

		// degree two ciphertexts decrypt with s^2
		require.Equal(t, int64(132), tc.decryptInt(t, ct2))

		ct3, err := tc.eval.RelinearizeNew(ct2)
		require.NoError(t, err)
		require.Equal(t, 1, ct3.Degree())
		require.Equal(t, int64(132), tc.decryptInt(t, ct3))

		// squaring in place
		require.NoError(t, tc.eval.MulRelin(ct0, ct0, ct0))
		require.Equal(t, 1, ct0.Degree())
		require.Equal(t, int64(144), tc.decryptInt(t, ct0))

		_, err = bfv.NewEvaluator(tc.params, nil).MulRelinNew(ct1, ct1)
		require.ErrorIs(t, err, rlwe.ErrParameter)

		_, err = tc.eval.RelinearizeNew(ct1)
		require.Error(t, err)
	})

	t.Run(testString(tc.params, "Evaluator/Mul/Ct/Pt"), func(t *testing.T) {

		ct0 := tc.encrypt(t, 7.0, fixed)

		pt, err := tc.ecd.Encode(0.1, fixed)
		require.NoError(t, err)

		ct1, err := tc.eval.MulRelinNew(ct0, pt)
		require.NoError(t, err)
		requireFloat(t, 0.7, tc.decrypt(t, ct1), 1e-6)

		ct0 = tc.encrypt(t, -9, integer)

		ct1, err = tc.eval.MulNew(ct0, 5)
		require.NoError(t, err)
		require.Equal(t, 1, ct1.Degree())
		require.Equal(t, int64(-45), tc.decryptInt(t, ct1))
	})

	t.Run(testString(tc.params, "Evaluator/Concurrency"), func(t *testing.T) {

		ct0 := tc.encrypt(t, 3, integer)

		var wg sync.WaitGroup
		results := make([]*rlwe.Ciphertext, 4)
		errs := make([]error, len(results))

		for i := range results {
			wg.Add(1)
			go func() {
				defer wg.Done()
				results[i], errs[i] = tc.eval.MulRelinNew(ct0, ct0)
			}()
		}

		wg.Wait()

		for i := range results {
			require.NoError(t, errs[i])
			require.Equal(t, int64(9), tc.decryptInt(t, results[i]))
		}
	})
}

func testNoiseBudget(tc *testContext, t *testing.T) {

	// bounds are calibrated for N=2048 and T=256
	if tc.params.N() != 2048 || tc.params.T() != 256 {
		return
	}

	integer := rlwe.Encoding{Base: 2, Signed: true, IntegralDigits: 64}

	t.Run(testString(tc.params, "NoiseBudget"), func(t *testing.T) {

		ct0 := tc.encrypt(t, 12, integer)
		ct1 := tc.encrypt(t, 5, integer)

		fresh := min(tc.budget(t, ct0), tc.budget(t, ct1))
		require.GreaterOrEqual(t, fresh, 30)
		require.LessOrEqual(t, fresh, 40)

		add, err := tc.eval.AddNew(ct0, ct1)
		require.NoError(t, err)
		require.LessOrEqual(t, fresh-tc.budget(t, add), 1)

		mul, err := tc.eval.MulRelinNew(ct0, ct1)
		require.NoError(t, err)

		budget := tc.budget(t, mul)
		require.Greater(t, budget, 0)
		require.InDelta(t, float64(fresh), float64(2*budget), 5)

		require.Equal(t, int64(60), tc.decryptInt(t, mul))
	})

	t.Run(testString(tc.params, "NoiseBudget/Exhaustion"), func(t *testing.T) {

		ct := tc.encrypt(t, 1, integer)

		var err error
		for i := 0; i < 8 && tc.budget(t, ct) > 0; i++ {
			if ct, err = tc.eval.MulRelinNew(ct, ct); err != nil {
				t.Fatal(err)
			}
		}

		require.Zero(t, tc.budget(t, ct))

		ct, err = tc.eval.MulRelinNew(ct, ct)
		require.NoError(t, err)

		// decryption does not fail, the result is garbage
		pt, err := tc.dec.DecryptNew(ct)
		require.NoError(t, err)

		one, err := tc.ecd.Encode(1, integer)
		require.NoError(t, err)

		require.False(t, pt.Equal(one))
	})
}

func testTypeIncompatibility(tc *testContext, t *testing.T) {

	t.Run(testString(tc.params, "TypeIncompatibility"), func(t *testing.T) {

		ctInt := tc.encrypt(t, 3, rlwe.DefaultEncoding())
		ctReal := tc.encrypt(t, 3.3, rlwe.DefaultEncoding())

		_, err := tc.eval.AddNew(ctInt, ctReal)
		require.ErrorIs(t, err, bfv.ErrTypeIncompatibility)

		_, err = tc.eval.SubNew(ctReal, ctInt)
		require.ErrorIs(t, err, bfv.ErrTypeIncompatibility)

		_, err = tc.eval.MulRelinNew(ctInt, ctReal)
		require.ErrorIs(t, err, bfv.ErrTypeIncompatibility)

		_, err = tc.eval.MulNew(ctReal, ctInt)
		require.ErrorIs(t, err, bfv.ErrTypeIncompatibility)

		pt, err := tc.ecd.Encode(3, rlwe.Encoding{Base: 3, Signed: true, IntegralDigits: 32})
		require.NoError(t, err)

		_, err = tc.eval.AddNew(ctInt, pt)
		require.ErrorIs(t, err, bfv.ErrTypeIncompatibility)

		_, err = tc.eval.MulNew(ctInt, pt)
		require.ErrorIs(t, err, bfv.ErrTypeIncompatibility)

		// the output is left untouched
		ct := ctInt.Clone()
		require.ErrorIs(t, tc.eval.Add(ctInt, ctReal, ct), bfv.ErrTypeIncompatibility)
		require.True(t, ct.Equal(ctInt))
	})

	t.Run(testString(tc.params, "TypeIncompatibility/Encodings"), func(t *testing.T) {

		for _, pair := range []struct {
			name   string
			value  interface{}
			e0, e1 rlwe.Encoding
		}{
			{"Base", 3, rlwe.Encoding{Base: 3, Signed: true, IntegralDigits: 32}, rlwe.Encoding{Base: 2, Signed: true, IntegralDigits: 32}},
			{"Signed", 3, rlwe.Encoding{Base: 2, Signed: false, IntegralDigits: 32}, rlwe.Encoding{Base: 2, Signed: true, IntegralDigits: 32}},
			{"IntegralDigits", 3, rlwe.Encoding{Base: 2, Signed: true, IntegralDigits: 32}, rlwe.Encoding{Base: 2, Signed: true, IntegralDigits: 16}},
			{"FractionalDigits", 0.5, rlwe.Encoding{Base: 2, Signed: true, IntegralDigits: 32, FractionalDigits: 16}, rlwe.Encoding{Base: 2, Signed: true, IntegralDigits: 32, FractionalDigits: 8}},
		} {
			ct0 := tc.encrypt(t, pair.value, pair.e0)
			ct1 := tc.encrypt(t, pair.value, pair.e1)

			_, err := tc.eval.AddNew(ct0, ct1)
			require.ErrorIs(t, err, bfv.ErrTypeIncompatibility, pair.name)

			_, err = tc.eval.SubNew(ct0, ct1)
			require.ErrorIs(t, err, bfv.ErrTypeIncompatibility, pair.name)

			_, err = tc.eval.MulRelinNew(ct0, ct1)
			require.ErrorIs(t, err, bfv.ErrTypeIncompatibility, pair.name)

			pt, err := tc.ecd.Encode(pair.value, pair.e1)
			require.NoError(t, err)

			_, err = tc.eval.SubNew(ct0, pt)
			require.ErrorIs(t, err, bfv.ErrTypeIncompatibility, pair.name)
		}
	})

	t.Run(testString(tc.params, "TypeIncompatibility/RealScalar"), func(t *testing.T) {

		// reals are never rounded to the encoding of an integer ciphertext
		ct := tc.encrypt(t, 7, rlwe.DefaultEncoding())

		for _, value := range []interface{}{0.1, 2.5, float32(1.5), big.NewFloat(0.25)} {

			_, err := tc.eval.AddNew(ct, value)
			require.ErrorIs(t, err, bfv.ErrTypeIncompatibility)

			_, err = tc.eval.SubNew(ct, value)
			require.ErrorIs(t, err, bfv.ErrTypeIncompatibility)

			_, err = tc.eval.MulNew(ct, value)
			require.ErrorIs(t, err, bfv.ErrTypeIncompatibility)

			_, err = tc.eval.MulRelinNew(ct, value)
			require.ErrorIs(t, err, bfv.ErrTypeIncompatibility)
		}

		// integers still combine with real ciphertexts
		ctReal := tc.encrypt(t, 0.5, rlwe.DefaultEncoding())
		res, err := tc.eval.MulNew(ctReal, 3)
		require.NoError(t, err)
		requireFloat(t, 1.5, tc.decrypt(t, res), 1e-6)
	})
}

func testPower(t *testing.T) {

	params, err := rlwe.NewParametersFromLiteral(rlwe.ParametersLiteral{LogN: 12, T: 256})
	require.NoError(t, err)

	tc, err := newTestContext(params)
	require.NoError(t, err)

	integer := rlwe.Encoding{Base: 2, Signed: true, IntegralDigits: 64}

	t.Run(testString(params, "Evaluator/Power"), func(t *testing.T) {

		for _, c := range []struct {
			v, k, want int64
		}{
			{3, 5, 243},
			{2, 6, 64},
			{-2, 3, -8},
			{17, 1, 17},
			{-1, 4, 1},
		} {
			ct := tc.encrypt(t, c.v, integer)

			res, err := tc.eval.PowerNew(ct, int(c.k))
			require.NoError(t, err)
			require.Equal(t, 2, res.Size())
			require.Equal(t, c.want, tc.decryptInt(t, res), "%d^%d", c.v, c.k)

			tc.budget(t, res)
		}

		ct := tc.encrypt(t, 1.5, rlwe.DefaultEncoding())

		res, err := tc.eval.PowerNew(ct, 4)
		require.NoError(t, err)
		requireFloat(t, 5.0625, tc.decrypt(t, res), 1e-9)
	})

	t.Run(testString(params, "Evaluator/Power/InvalidExponent"), func(t *testing.T) {

		ct := tc.encrypt(t, 3, integer)

		for _, k := range []int{0, -1} {
			_, err := tc.eval.PowerNew(ct, k)
			require.ErrorIs(t, err, bfv.ErrInvalidExponent)
		}
	})

	t.Run("Evaluator/Power/Reals/LogN=13/T=1024", func(t *testing.T) {

		if testing.Short() {
			t.Skip("skipped in -short")
		}

		cs, err := bfv.NewCipherScheme(8192, 1024, 0, 128)
		require.NoError(t, err)

		pk, sk, _ := cs.GenerateKeys()

		// 3.3 ~ 845/256
		enc := rlwe.Encoding{Base: 2, Signed: true, IntegralDigits: 64, FractionalDigits: 8}

		ct, err := cs.EncryptWithEncoding(pk, 3.3, enc)
		require.NoError(t, err)

		res, err := ct.Pow(5)
		require.NoError(t, err)

		have, err := res.Decrypt(sk)
		require.NoError(t, err)

		requireFloat(t, math.Pow(845.0/256.0, 5), have, 1e-9)
		requireFloat(t, math.Pow(3.3, 5), have, 0.5)
	})
}

func testCipherScheme(t *testing.T) {

	cs, err := bfv.NewCipherScheme(2048, 256, 0, 128)
	require.NoError(t, err)

	pk, sk, rlk := cs.GenerateKeys()

	t.Run(testString(*cs.GetRLWEParameters(), "CipherScheme/GenerateKeys"), func(t *testing.T) {

		pk1, sk1, rlk1 := cs.GenerateKeys()
		require.Same(t, pk, pk1)
		require.Same(t, sk, sk1)
		require.Same(t, rlk, rlk1)

		other, err := bfv.NewCipherScheme(2048, 256, 0, 128)
		require.NoError(t, err)
		require.True(t, cs.Equal(other))

		pk2, sk2, _ := other.GenerateKeys()
		require.False(t, sk.Equal(sk2))

		// keys of another generator work with the scheme
		ct, err := cs.Encrypt(pk2, 5)
		require.NoError(t, err)

		have, err := cs.DecryptInt(sk2, ct)
		require.NoError(t, err)
		require.Equal(t, int64(5), have.Int64())

		have, err = cs.DecryptInt(sk, ct)
		require.NoError(t, err)
		require.NotEqual(t, int64(5), have.Int64())
	})

	t.Run(testString(*cs.GetRLWEParameters(), "CipherScheme/Ciphertext"), func(t *testing.T) {

		ct0, err := cs.Encrypt(pk, 42)
		require.NoError(t, err)
		require.Equal(t, 2, ct0.Size())

		ct1, err := cs.Encrypt(pk, -2)
		require.NoError(t, err)

		sum, err := ct0.Add(ct1)
		require.NoError(t, err)

		prod, err := sum.Mul(ct1)
		require.NoError(t, err)
		require.Equal(t, 2, prod.Size())

		neg, err := prod.Neg()
		require.NoError(t, err)

		diff, err := neg.Sub(ct0)
		require.NoError(t, err)

		// -((42 - 2) * -2) - 42
		have, err := diff.DecryptInt(sk)
		require.NoError(t, err)
		require.Equal(t, int64(38), have.Int64())

		budget, err := diff.NoiseBudget(sk)
		require.NoError(t, err)
		require.Greater(t, budget, 0)

		fixed, err := cs.Encrypt(pk, 7.0)
		require.NoError(t, err)

		res, err := fixed.MulScalar(0.1)
		require.NoError(t, err)

		value, err := res.Decrypt(sk)
		require.NoError(t, err)
		requireFloat(t, 0.7, value, 1e-6)

		res, err = fixed.AddScalar(3)
		require.NoError(t, err)

		value, err = res.Decrypt(sk)
		require.NoError(t, err)
		requireFloat(t, 10, value, 1e-8)

		pt, err := cs.Encode(2.5, rlwe.DefaultEncoding())
		require.NoError(t, err)

		res, err = fixed.AddPlaintext(pt)
		require.NoError(t, err)

		value, err = res.Decrypt(sk)
		require.NoError(t, err)
		requireFloat(t, 9.5, value, 1e-8)

		res, err = fixed.MulPlaintext(pt)
		require.NoError(t, err)

		value, err = res.Decrypt(sk)
		require.NoError(t, err)
		requireFloat(t, 17.5, value, 1e-6)

		_, err = ct0.Add(fixed)
		require.ErrorIs(t, err, bfv.ErrTypeIncompatibility)

		// 7 * 0.1 and 7 + 2.5 on an integer ciphertext
		seven, err := cs.Encrypt(pk, 7)
		require.NoError(t, err)

		_, err = seven.MulScalar(0.1)
		require.ErrorIs(t, err, bfv.ErrTypeIncompatibility)

		_, err = seven.AddScalar(2.5)
		require.ErrorIs(t, err, bfv.ErrTypeIncompatibility)

		_, err = ct0.MulScalar(ct1)
		require.Error(t, err)

		_, err = ct0.Pow(0)
		require.ErrorIs(t, err, bfv.ErrInvalidExponent)
	})

	t.Run(testString(*cs.GetRLWEParameters(), "CipherScheme/Marshalling"), func(t *testing.T) {

		buffer.RequireSerializerCorrect(t, cs)

		data, err := cs.MarshalBinary()
		require.NoError(t, err)

		other := new(bfv.CipherScheme)
		require.NoError(t, other.UnmarshalBinary(data))
		require.True(t, cs.Equal(other))

		ct, err := cs.Encrypt(pk, -1234)
		require.NoError(t, err)

		data, err = ct.MarshalBinary()
		require.NoError(t, err)

		// serialized ciphertexts are readable by any scheme with the same parameters
		ctNew, err := other.UnmarshalCiphertext(data)
		require.NoError(t, err)
		require.True(t, ct.Equal(ctNew.Ciphertext))

		have, err := cs.DecryptInt(sk, ctNew)
		require.NoError(t, err)
		require.Equal(t, int64(-1234), have.Int64())

		data, err = ct.MarshalBinaryDetached()
		require.NoError(t, err)

		ctNew, err = cs.UnmarshalCiphertext(data)
		require.NoError(t, err)
		require.True(t, ct.Equal(ctNew.Ciphertext))

		require.ErrorIs(t, new(rlwe.Ciphertext).UnmarshalBinary(data), rlwe.ErrMissingContext)
	})

	t.Run(testString(*cs.GetRLWEParameters(), "CipherScheme/Default"), func(t *testing.T) {

		def, err := bfv.NewDefaultCipherScheme()
		require.NoError(t, err)
		require.True(t, def.Equal(cs))

		pk, sk, _ := def.GenerateKeys()

		ct, err := def.Encrypt(pk, 1)
		require.NoError(t, err)
		require.Equal(t, 2, ct.Size())

		sum, err := ct.Add(ct)
		require.NoError(t, err)

		have, err := sum.DecryptInt(sk)
		require.NoError(t, err)
		require.Equal(t, int64(2), have.Int64())

		data, err := def.MarshalBinary()
		require.NoError(t, err)

		other := new(bfv.CipherScheme)
		require.NoError(t, other.UnmarshalBinary(data))
		require.True(t, other.Equal(def))
	})

	t.Run("CipherScheme/InvalidParameters", func(t *testing.T) {

		_, err := bfv.NewCipherScheme(1000, 256, 0, 128)
		require.ErrorIs(t, err, rlwe.ErrParameter)

		_, err = bfv.NewCipherScheme(2048, 256, 0, 100)
		require.ErrorIs(t, err, rlwe.ErrParameter)

		_, err = bfv.NewCipherScheme(65536, 256, 0, 128)
		require.ErrorIs(t, err, rlwe.ErrParameter)
	})
}
