package sampling

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPRNG(t *testing.T) {

	key := []byte{0x49, 0x0a, 0x42, 0x3d, 0x97, 0x9d, 0xc1, 0x07, 0xa1, 0xd7, 0xe9, 0x7b, 0x3b, 0xce, 0xa1, 0xdb,
		0x42, 0xf3, 0xa6, 0xd5, 0x75, 0xd2, 0x0c, 0x92, 0xb7, 0x35, 0xce, 0x0c, 0xee, 0x09, 0x7c, 0x98}

	t.Run("KeyedPRNG/Reset", func(t *testing.T) {

		Ha, err := NewKeyedPRNG(key)
		require.NoError(t, err)
		Hb, err := NewKeyedPRNG(key)
		require.NoError(t, err)

		sum0 := make([]byte, 512)
		sum1 := make([]byte, 512)

		for i := 0; i < 128; i++ {
			_, err = Hb.Read(sum1)
			require.NoError(t, err)
		}

		Hb.Reset()

		_, err = Ha.Read(sum0)
		require.NoError(t, err)
		_, err = Hb.Read(sum1)
		require.NoError(t, err)

		require.Equal(t, sum0, sum1)
		require.Equal(t, key, Ha.Key())
	})

	t.Run("Source/Deterministic", func(t *testing.T) {
		var seed [SeedSize]byte
		copy(seed[:], key)

		s0 := NewSource(seed)
		s1 := NewSource(seed)

		for i := 0; i < 64; i++ {
			require.Equal(t, s0.Uint64(), s1.Uint64())
		}

		require.Equal(t, s0.NewSeed(), s1.NewSeed())
	})

	t.Run("Source/Independent", func(t *testing.T) {
		s0 := NewSource(NewSeed())
		s1 := NewSource(NewSeed())
		require.NotEqual(t, s0.NewSeed(), s1.NewSeed())
	})

	t.Run("DeriveSeed", func(t *testing.T) {
		var seed [SeedSize]byte
		copy(seed[:], key)

		require.Equal(t, DeriveSeed(seed, "secret"), DeriveSeed(seed, "secret"))
		require.NotEqual(t, DeriveSeed(seed, "secret"), DeriveSeed(seed, "public"))
		require.NotEqual(t, seed, DeriveSeed(seed, "secret"))
	})
}
