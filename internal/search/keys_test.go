// internal/search/keys_test.go
package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseQueryValidPairs(t *testing.T) {
	parsed := ParseQuery("tit:economics zdb:ZDB-1-EWE")

	assert.Len(t, parsed.Pairs, 2)
	assert.Equal(t, SearchKeyTitle, parsed.Pairs[0].Key)
	assert.Equal(t, "economics", parsed.Pairs[0].Values)
	assert.Equal(t, SearchKeyZDBID, parsed.Pairs[1].Key)
	assert.Equal(t, "ZDB-1-EWE", parsed.Pairs[1].Values)
	assert.Empty(t, parsed.InvalidKeys)
	assert.False(t, parsed.HasTokenWithNoKey)
}

func TestParseQueryQuotedValues(t *testing.T) {
	parsed := ParseQuery(`tit:'world trade report' com:"economics department"`)

	assert.Len(t, parsed.Pairs, 2)
	assert.Equal(t, SearchKeyTitle, parsed.Pairs[0].Key)
	assert.Equal(t, "world trade report", parsed.Pairs[0].Values)
	assert.Equal(t, SearchKeyCommunity, parsed.Pairs[1].Key)
	assert.Equal(t, "economics department", parsed.Pairs[1].Values)
}

func TestParseQueryInvalidKey(t *testing.T) {
	parsed := ParseQuery("foo:bar tit:economics")

	assert.Len(t, parsed.Pairs, 1)
	assert.Equal(t, SearchKeyTitle, parsed.Pairs[0].Key)
	assert.Equal(t, []string{"foo"}, parsed.InvalidKeys)
}

func TestParseQueryTokenWithNoKey(t *testing.T) {
	parsed := ParseQuery("tit:economics stray")

	assert.Len(t, parsed.Pairs, 1)
	assert.True(t, parsed.HasTokenWithNoKey)
}

func TestParseQueryEmptyTerm(t *testing.T) {
	parsed := ParseQuery("   ")

	assert.Empty(t, parsed.Pairs)
	assert.Empty(t, parsed.InvalidKeys)
	assert.False(t, parsed.HasTokenWithNoKey)
}

func TestParseSearchKey(t *testing.T) {
	for _, valid := range []string{"col", "com", "sig", "tit", "zdb", "hdl", "ppn"} {
		key, ok := ParseSearchKey(valid)
		assert.True(t, ok, valid)
		assert.NotEmpty(t, key.Column(), valid)
	}

	_, ok := ParseSearchKey("title")
	assert.False(t, ok)
}

func TestPairsToStringRoundTrip(t *testing.T) {
	pairs := []SearchPair{
		{Key: SearchKeyTitle, Values: "world trade report"},
		{Key: SearchKeyZDBID, Values: "ZDB-1-EWE"},
	}

	rendered := PairsToString(pairs)
	assert.Equal(t, "tit:'world trade report' zdb:'ZDB-1-EWE'", rendered)

	parsed := ParseQuery(rendered)
	assert.Equal(t, pairs, parsed.Pairs)
	assert.Empty(t, parsed.InvalidKeys)
	assert.False(t, parsed.HasTokenWithNoKey)
}
