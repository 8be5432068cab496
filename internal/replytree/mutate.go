package replytree

import (
	"slices"
	"strings"
	"time"

	"github.com/anonto42/alumni-forum/backend/internal/apperr"
	"github.com/anonto42/alumni-forum/backend/internal/models"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NewReply carries the caller supplied fields of a reply about to be created
type NewReply struct {
	Content    string
	AuthorID   string
	AuthorName string
	ParentID   *primitive.ObjectID
}

// Index returns the position of the reply with the given id, or -1
func Index(replies []models.Reply, id primitive.ObjectID) int {
	for i := range replies {
		if replies[i].ID == id {
			return i
		}
	}
	return -1
}

// Find returns the reply with the given id
func Find(replies []models.Reply, id primitive.ObjectID) (models.Reply, bool) {
	i := Index(replies, id)
	if i < 0 {
		return models.Reply{}, false
	}
	return replies[i], true
}

// InsertReply appends a new reply. If the named parent does not exist the
// reply is created at the top level instead.
func InsertReply(replies []models.Reply, in NewReply, now time.Time) ([]models.Reply, models.Reply, error) {
	if strings.TrimSpace(in.Content) == "" {
		return replies, models.Reply{}, errors.Wrap(apperr.ErrInvalidInput, "reply content is empty")
	}
	if in.AuthorID == "" {
		return replies, models.Reply{}, errors.Wrap(apperr.ErrInvalidInput, "reply author is required")
	}

	reply := models.Reply{
		ID:         primitive.NewObjectID(),
		Content:    in.Content,
		AuthorID:   in.AuthorID,
		AuthorName: in.AuthorName,
		Votes:      []models.Vote{},
		CreatedAt:  now,
	}
	if in.ParentID != nil {
		if parent, ok := Find(replies, *in.ParentID); ok {
			parentID := parent.ID
			reply.ParentID = &parentID
			reply.Level = parent.Level + 1
		}
	}

	out := make([]models.Reply, len(replies), len(replies)+1)
	copy(out, replies)
	return append(out, reply), reply, nil
}

// DeleteReply removes the target reply and every reply below it. The ids of
// all removed replies are returned in their stored order.
func DeleteReply(replies []models.Reply, target primitive.ObjectID) ([]models.Reply, []primitive.ObjectID, error) {
	if Index(replies, target) < 0 {
		return replies, nil, errors.Wrapf(apperr.ErrNotFound, "reply %s", target.Hex())
	}

	doomed := make(map[primitive.ObjectID]struct{})
	var collect func(id primitive.ObjectID)
	collect = func(id primitive.ObjectID) {
		doomed[id] = struct{}{}
		for _, r := range replies {
			if r.ParentID == nil || *r.ParentID != id {
				continue
			}
			if _, seen := doomed[r.ID]; !seen {
				collect(r.ID)
			}
		}
	}
	collect(target)

	kept := make([]models.Reply, 0, len(replies)-len(doomed))
	removed := make([]primitive.ObjectID, 0, len(doomed))
	for _, r := range replies {
		if _, ok := doomed[r.ID]; ok {
			removed = append(removed, r.ID)
			continue
		}
		kept = append(kept, r)
	}
	return kept, removed, nil
}

// EditReply replaces the content of a reply. Parent, level and creation time are left alone.
func EditReply(replies []models.Reply, target primitive.ObjectID, content string, now time.Time) ([]models.Reply, error) {
	i := Index(replies, target)
	if i < 0 {
		return replies, errors.Wrapf(apperr.ErrNotFound, "reply %s", target.Hex())
	}
	if strings.TrimSpace(content) == "" {
		return replies, errors.Wrap(apperr.ErrInvalidInput, "reply content is empty")
	}

	out := slices.Clone(replies)
	out[i].Content = content
	edited := now
	out[i].UpdatedAt = &edited
	return out, nil
}

// VoteReply toggles the user's vote on a reply and returns the new vote count
func VoteReply(replies []models.Reply, target primitive.ObjectID, userID string, voteType models.VoteType) ([]models.Reply, int, error) {
	i := Index(replies, target)
	if i < 0 {
		return replies, 0, errors.Wrapf(apperr.ErrNotFound, "reply %s", target.Hex())
	}
	votes, err := ToggleVote(replies[i].Votes, userID, voteType)
	if err != nil {
		return replies, 0, err
	}
	out := slices.Clone(replies)
	out[i].Votes = votes
	return out, VoteCount(votes), nil
}
