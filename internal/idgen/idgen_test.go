package idgen

import (
	"sort"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUID(t *testing.T) {
	id := UUID()()
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.NotEqual(t, id, UUID()())
}

func TestULID_SortedAndUnique(t *testing.T) {
	next := ULID()
	ids := make([]string, 500)
	seen := make(map[string]bool, len(ids))
	for i := range ids {
		ids[i] = next()
		_, err := ulid.ParseStrict(ids[i])
		require.NoError(t, err)
		seen[ids[i]] = true
	}
	assert.Len(t, seen, len(ids))
	assert.True(t, sort.StringsAreSorted(ids))
}

func TestFromName(t *testing.T) {
	src, err := FromName("ULID")
	require.NoError(t, err)
	assert.Len(t, src(), 26)

	src, err = FromName("")
	require.NoError(t, err)
	assert.Len(t, src(), 36)

	_, err = FromName("snowflake")
	assert.Error(t, err)
}

func TestPrefixAndSequence(t *testing.T) {
	seq := Sequence("res")
	assert.Equal(t, "res-1", seq())
	assert.Equal(t, "res-2", seq())

	id := WithPrefix("lst_", UUID())()
	assert.True(t, strings.HasPrefix(id, "lst_"))
}
