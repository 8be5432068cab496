package replytree

import (
	"testing"

	"github.com/anonto42/alumni-forum/backend/internal/apperr"
	"github.com/anonto42/alumni-forum/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleVote(t *testing.T) {
	votes, err := ToggleVote(nil, "u1", models.VoteUp)
	require.NoError(t, err)
	assert.Equal(t, 1, VoteCount(votes))

	// same direction again withdraws
	votes, err = ToggleVote(votes, "u1", models.VoteUp)
	require.NoError(t, err)
	assert.Empty(t, votes)

	votes, _ = ToggleVote(votes, "u1", models.VoteUp)
	votes, _ = ToggleVote(votes, "u2", models.VoteUp)
	votes, err = ToggleVote(votes, "u1", models.VoteDown)
	require.NoError(t, err)
	assert.Len(t, votes, 2)
	assert.Equal(t, 0, VoteCount(votes))
}

func TestToggleVote_Invalid(t *testing.T) {
	_, err := ToggleVote(nil, "", models.VoteUp)
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	_, err = ToggleVote(nil, "u1", models.VoteType("sideways"))
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestVoteCount_IgnoresUnknownTypes(t *testing.T) {
	votes := []models.Vote{
		{UserID: "a", Type: models.VoteDown},
		{UserID: "b", Type: models.VoteDown},
		{UserID: "c", Type: "meh"},
	}
	assert.Equal(t, -2, VoteCount(votes))
}
