package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRating_ScoreRange(t *testing.T) {
	rater, rated := newAccount(t, "a", 0), newAccount(t, "b", 0)

	for _, score := range []int{0, 6, -3} {
		_, err := NewRating("r", rater, rated, score, "", "res", epoch)
		assert.True(t, errors.Is(err, ErrValidation), "score %d", score)
	}

	r, err := NewRating("r", rater, rated, 4, "on time", "res", epoch)
	require.NoError(t, err)
	assert.Equal(t, "★★★★☆", r.Stars())
	assert.Contains(t, r.String(), "First-a Last")
}
