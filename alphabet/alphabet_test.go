// Copyright (c) 2025 Nikita Kamenev
// Licensed under the MIT License. See LICENSE file in the project root for details.
package alphabet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithSentinel(t *testing.T) {
	mapped, a := WithSentinel([]byte("aabca"))
	require.Equal(t, 4, a.Size(), "sentinel + a,b,c")
	assert.Equal(t, int32(0), mapped[len(mapped)-1], "sentinel terminates the text")
	for _, v := range mapped[:len(mapped)-1] {
		assert.NotEqual(t, int32(0), v, "no non-sentinel position holds 0")
	}
}

func TestMapOrderPreserving(t *testing.T) {
	_, a := WithSentinel([]byte("aabca"))
	mapped, err := a.Map([]byte("cab"))
	require.NoError(t, err)
	assert.Equal(t, []int32{3, 1, 2}, mapped)
}

func TestMapUnknownSymbol(t *testing.T) {
	_, a := WithSentinel([]byte("aabca"))
	_, err := a.Map([]byte("x"))
	require.Error(t, err)
	var unknown *UnknownSymbolError
	assert.ErrorAs(t, err, &unknown)
	assert.Equal(t, byte('x'), unknown.Symbol)
}

func TestCharRoundTrip(t *testing.T) {
	_, a := WithSentinel([]byte("aabca"))
	mapped, err := a.Map([]byte("bca"))
	require.NoError(t, err)
	for i, code := range mapped {
		assert.Equal(t, "bca"[i], a.Char(code))
	}
}
