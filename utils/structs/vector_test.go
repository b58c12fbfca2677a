package structs

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sealedhe/sealed/utils/buffer"
)

func TestVector(t *testing.T) {

	t.Run("Serialization/uint64", func(t *testing.T) {
		v := Vector[uint64]{1, 2, 3, 0xFFFFFFFFFFFFFFFF}
		buffer.RequireSerializerCorrect(t, &v)
	})

	t.Run("Serialization/uint32", func(t *testing.T) {
		v := Vector[uint32]{7, 0, 0xFFFFFFFF}
		buffer.RequireSerializerCorrect(t, &v)
	})

	t.Run("Clone/Equal", func(t *testing.T) {
		v := Vector[int]{-1, 0, 1}
		w := v.Clone()
		require.True(t, v.Equal(w))
		w[0] = 5
		require.False(t, v.Equal(w))
		require.Equal(t, -1, v[0])
	})
}
