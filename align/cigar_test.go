// Copyright (c) 2025 Nikita Kamenev
// Licensed under the MIT License. See LICENSE file in the project root for details.
package align

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEditsToCigarRoundTrip(t *testing.T) {
	edits := []Edit{Match, Match, Insert, Match, Delete}
	cigar := EditsToCigar(edits)
	assert.Equal(t, "2M1I1M1D", cigar.String())

	back, err := CigarToEdits(cigar)
	require.NoError(t, err)
	assert.Equal(t, edits, back)
}

func TestParseCigarRoundTrip(t *testing.T) {
	cigar, err := ParseCigar("2M1I1M1D")
	require.NoError(t, err)
	assert.Equal(t, Cigar{{2, 'M'}, {1, 'I'}, {1, 'M'}, {1, 'D'}}, cigar)
	assert.Equal(t, "2M1I1M1D", cigar.String())
}

func TestParseCigarMalformed(t *testing.T) {
	_, err := ParseCigar("2MX")
	assert.Error(t, err)
	_, err = ParseCigar("M")
	assert.Error(t, err)
}

func TestExtractAndCountEdits(t *testing.T) {
	cigar, err := ParseCigar("1M1D1M")
	require.NoError(t, err)
	alignment := ExtractAlignment([]byte("aacgt"), []byte("agt"), 1, cigar)
	assert.Equal(t, 1, CountEdits(alignment))
}

func TestExtractAlignmentInsert(t *testing.T) {
	// pattern has an extra base relative to text: text="ac", pattern="acg"
	cigar := Cigar{{2, 'M'}, {1, 'I'}}
	alignment := ExtractAlignment([]byte("ac"), []byte("acg"), 0, cigar)
	assert.Equal(t, "ac-", string(alignment.Text))
	assert.Equal(t, "acg", string(alignment.Pattern))
	assert.Equal(t, 1, CountEdits(alignment))
}

func TestCigarQueryLength(t *testing.T) {
	cigar, err := ParseCigar("3M2I1D4M")
	require.NoError(t, err)
	assert.Equal(t, 3+2+4, cigar.QueryLength())
}
