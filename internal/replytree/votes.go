package replytree

import (
	"github.com/anonto42/alumni-forum/backend/internal/apperr"
	"github.com/anonto42/alumni-forum/backend/internal/models"
	"github.com/pkg/errors"
)

// VoteCount is upvotes minus downvotes
func VoteCount(votes []models.Vote) int {
	count := 0
	for _, v := range votes {
		switch v.Type {
		case models.VoteUp:
			count++
		case models.VoteDown:
			count--
		}
	}
	return count
}

// ToggleVote records a user's vote. Repeating the same vote withdraws it;
// voting the other way switches it.
func ToggleVote(votes []models.Vote, userID string, voteType models.VoteType) ([]models.Vote, error) {
	if userID == "" {
		return votes, errors.Wrap(apperr.ErrInvalidInput, "voter is required")
	}
	if voteType != models.VoteUp && voteType != models.VoteDown {
		return votes, errors.Wrapf(apperr.ErrInvalidInput, "unknown vote type %q", voteType)
	}

	out := make([]models.Vote, 0, len(votes)+1)
	found := false
	for _, v := range votes {
		if v.UserID != userID {
			out = append(out, v)
			continue
		}
		found = true
		if v.Type != voteType {
			out = append(out, models.Vote{UserID: userID, Type: voteType})
		}
	}
	if !found {
		out = append(out, models.Vote{UserID: userID, Type: voteType})
	}
	return out, nil
}
