package services

import (
	"context"
	"time"

	"github.com/anonto42/alumni-forum/backend/internal/apperr"
	"github.com/anonto42/alumni-forum/backend/internal/metrics"
	"github.com/anonto42/alumni-forum/backend/internal/models"
	"github.com/anonto42/alumni-forum/backend/internal/replytree"
	"github.com/anonto42/alumni-forum/backend/internal/repositories"
	"github.com/anonto42/alumni-forum/backend/pkg/logger"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/singleflight"
)

// sharedReadTimeout bounds a coalesced post read, which outlives the caller that started it
const sharedReadTimeout = 10 * time.Second

// ReplyService runs reply operations against one post at a time. Every
// operation reads the post, changes its flat reply list in memory, writes the
// whole post back and returns the rebuilt forest.
type ReplyService struct {
	posts repositories.PostRepository
	now   func() time.Time
	reads singleflight.Group
}

// NewReplyService creates a new ReplyService
func NewReplyService(posts repositories.PostRepository) *ReplyService {
	return &ReplyService{
		posts: posts,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// ListReplies returns the reply forest of a post. Concurrent calls for the
// same post share a single fetch. The shared fetch is detached from any one
// caller's cancellation; each caller still stops waiting when its own ctx ends.
func (s *ReplyService) ListReplies(ctx context.Context, postID string) ([]*replytree.Node, error) {
	fetchCtx := context.WithoutCancel(ctx)
	ch := s.reads.DoChan(postID, func() (interface{}, error) {
		readCtx, cancel := context.WithTimeout(fetchCtx, sharedReadTimeout)
		defer cancel()
		post, err := s.posts.GetPostByID(readCtx, postID)
		if err != nil {
			return nil, err
		}
		return post.Replies, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		observe("list", res.Err)
		if res.Err != nil {
			return nil, res.Err
		}
		return buildForest(res.Val.([]models.Reply)), nil
	}
}

// CreateReply adds a reply to a post, nested under parentID when that reply exists
func (s *ReplyService) CreateReply(ctx context.Context, postID string, actor models.Actor, req models.CreateReplyRequest) ([]*replytree.Node, models.Reply, error) {
	forest, created, err := s.createReply(ctx, postID, actor, req)
	observe("create", err)
	return forest, created, err
}

func (s *ReplyService) createReply(ctx context.Context, postID string, actor models.Actor, req models.CreateReplyRequest) ([]*replytree.Node, models.Reply, error) {
	in := replytree.NewReply{
		Content:    req.Content,
		AuthorID:   actor.ID,
		AuthorName: actor.Name,
	}
	if req.ParentID != "" {
		parentID, err := primitive.ObjectIDFromHex(req.ParentID)
		if err != nil {
			return nil, models.Reply{}, errors.Wrapf(apperr.ErrInvalidInput, "invalid parent ID %q", req.ParentID)
		}
		in.ParentID = &parentID
	}

	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, models.Reply{}, err
	}

	replies, created, err := replytree.InsertReply(post.Replies, in, s.now())
	if err != nil {
		return nil, models.Reply{}, err
	}
	if in.ParentID != nil && created.ParentID == nil {
		logger.Debug("parent reply not found, created at top level",
			logger.String("post_id", postID),
			logger.String("parent_id", in.ParentID.Hex()))
	}

	post.Replies = replies
	if err := s.save(ctx, post); err != nil {
		return nil, models.Reply{}, err
	}

	logger.Info("reply created",
		logger.String("post_id", postID),
		logger.String("reply_id", created.ID.Hex()),
		logger.Int("level", created.Level))
	return buildForest(post.Replies), created, nil
}

// EditReply replaces the content of a reply written by the actor
func (s *ReplyService) EditReply(ctx context.Context, postID, replyID string, actor models.Actor, content string) ([]*replytree.Node, error) {
	forest, err := s.editReply(ctx, postID, replyID, actor, content)
	observe("edit", err)
	return forest, err
}

func (s *ReplyService) editReply(ctx context.Context, postID, replyID string, actor models.Actor, content string) ([]*replytree.Node, error) {
	post, target, err := s.loadReply(ctx, postID, replyID, actor)
	if err != nil {
		return nil, err
	}

	replies, err := replytree.EditReply(post.Replies, target, content, s.now())
	if err != nil {
		return nil, err
	}
	post.Replies = replies
	if err := s.save(ctx, post); err != nil {
		return nil, err
	}
	return buildForest(post.Replies), nil
}

// DeleteReply removes a reply and everything nested below it
func (s *ReplyService) DeleteReply(ctx context.Context, postID, replyID string, actor models.Actor) ([]*replytree.Node, error) {
	forest, err := s.deleteReply(ctx, postID, replyID, actor)
	observe("delete", err)
	return forest, err
}

func (s *ReplyService) deleteReply(ctx context.Context, postID, replyID string, actor models.Actor) ([]*replytree.Node, error) {
	post, target, err := s.loadReply(ctx, postID, replyID, actor)
	if err != nil {
		return nil, err
	}

	replies, removed, err := replytree.DeleteReply(post.Replies, target)
	if err != nil {
		return nil, err
	}
	post.Replies = replies
	if err := s.save(ctx, post); err != nil {
		return nil, err
	}

	metrics.ObserveRepliesRemoved(len(removed))
	logger.Info("reply deleted",
		logger.String("post_id", postID),
		logger.String("reply_id", replyID),
		logger.Int("removed", len(removed)))
	return buildForest(post.Replies), nil
}

// VoteReply toggles the actor's vote on a reply and returns the new vote count
func (s *ReplyService) VoteReply(ctx context.Context, postID, replyID string, actor models.Actor, voteType models.VoteType) (int, error) {
	count, err := s.voteReply(ctx, postID, replyID, actor, voteType)
	observe("vote", err)
	return count, err
}

func (s *ReplyService) voteReply(ctx context.Context, postID, replyID string, actor models.Actor, voteType models.VoteType) (int, error) {
	target, err := parseReplyID(replyID)
	if err != nil {
		return 0, err
	}
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return 0, err
	}

	replies, count, err := replytree.VoteReply(post.Replies, target, actor.ID, voteType)
	if err != nil {
		return 0, err
	}
	post.Replies = replies
	if err := s.save(ctx, post); err != nil {
		return 0, err
	}
	return count, nil
}

// loadReply fetches the post and checks that the actor may change the reply
func (s *ReplyService) loadReply(ctx context.Context, postID, replyID string, actor models.Actor) (*models.Post, primitive.ObjectID, error) {
	target, err := parseReplyID(replyID)
	if err != nil {
		return nil, target, err
	}
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, target, err
	}
	existing, ok := replytree.Find(post.Replies, target)
	if !ok {
		return nil, target, errors.Wrapf(apperr.ErrNotFound, "reply %s", replyID)
	}
	if !actor.Owns(existing.AuthorID) {
		return nil, target, errors.Wrapf(apperr.ErrForbidden, "reply %s belongs to another user", replyID)
	}
	return post, target, nil
}

func (s *ReplyService) save(ctx context.Context, post *models.Post) error {
	err := s.posts.SavePost(ctx, post)
	if errors.Is(err, apperr.ErrConflict) {
		metrics.ObserveSaveConflict()
	}
	return err
}

func parseReplyID(id string) (primitive.ObjectID, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return objID, errors.Wrapf(apperr.ErrNotFound, "invalid reply ID %q", id)
	}
	return objID, nil
}

func buildForest(replies []models.Reply) []*replytree.Node {
	start := time.Now()
	forest := replytree.BuildForest(replies)
	metrics.ObserveForestBuild(len(replies), time.Since(start))
	return forest
}

func observe(operation string, err error) {
	switch {
	case err == nil:
		metrics.ObserveReplyOperation(operation, metrics.ResultOK)
	case apperr.IsClientError(err):
		metrics.ObserveReplyOperation(operation, metrics.ResultClientError)
	default:
		metrics.ObserveReplyOperation(operation, metrics.ResultServerError)
		logger.Error("reply operation failed", logger.String("operation", operation), logger.ErrorField(err))
	}
}
