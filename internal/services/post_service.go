package services

import (
	"context"

	"github.com/anonto42/alumni-forum/backend/internal/apperr"
	"github.com/anonto42/alumni-forum/backend/internal/models"
	"github.com/anonto42/alumni-forum/backend/internal/replytree"
	"github.com/anonto42/alumni-forum/backend/internal/repositories"
	"github.com/anonto42/alumni-forum/backend/pkg/logger"
	"github.com/pkg/errors"
)

// PostSummary is a post as shown in listings
type PostSummary struct {
	models.Post
	VoteCount int `json:"voteCount"`
}

// PostView is a single post with its reply thread
type PostView struct {
	PostSummary
	ReplyCount int               `json:"replyCount"`
	Replies    []*replytree.Node `json:"replies"`
}

// PostService handles forum posts
type PostService struct {
	posts repositories.PostRepository
}

// NewPostService creates a new PostService
func NewPostService(posts repositories.PostRepository) *PostService {
	return &PostService{posts: posts}
}

// CreatePost stores a new post written by the actor
func (s *PostService) CreatePost(ctx context.Context, actor models.Actor, req models.CreatePostRequest) (*PostSummary, error) {
	post := &models.Post{
		Title:      req.Title,
		Content:    req.Content,
		AuthorID:   actor.ID,
		AuthorName: actor.Name,
	}
	if err := s.posts.CreatePost(ctx, post); err != nil {
		return nil, err
	}
	logger.Info("post created", logger.String("post_id", post.ID.Hex()), logger.String("author_id", actor.ID))
	return &PostSummary{Post: *post}, nil
}

// GetPost returns a post and its reply forest
func (s *PostService) GetPost(ctx context.Context, id string) (*PostView, error) {
	post, err := s.posts.GetPostByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &PostView{
		PostSummary: PostSummary{Post: *post, VoteCount: replytree.VoteCount(post.Votes)},
		ReplyCount:  len(post.Replies),
		Replies:     buildForest(post.Replies),
	}, nil
}

// ListPosts returns every post, newest first
func (s *PostService) ListPosts(ctx context.Context) ([]PostSummary, error) {
	posts, err := s.posts.GetPosts(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]PostSummary, len(posts))
	for i := range posts {
		out[i] = PostSummary{Post: posts[i], VoteCount: replytree.VoteCount(posts[i].Votes)}
	}
	return out, nil
}

// DeletePost removes a post together with all of its replies
func (s *PostService) DeletePost(ctx context.Context, id string, actor models.Actor) error {
	post, err := s.posts.GetPostByID(ctx, id)
	if err != nil {
		return err
	}
	if !actor.Owns(post.AuthorID) {
		return errors.Wrapf(apperr.ErrForbidden, "post %s belongs to another user", id)
	}
	if err := s.posts.DeletePost(ctx, id); err != nil {
		return err
	}
	logger.Info("post deleted", logger.String("post_id", id), logger.Int("replies", len(post.Replies)))
	return nil
}

// VotePost toggles the actor's vote on a post and returns the new vote count
func (s *PostService) VotePost(ctx context.Context, id string, actor models.Actor, voteType models.VoteType) (int, error) {
	post, err := s.posts.GetPostByID(ctx, id)
	if err != nil {
		return 0, err
	}
	votes, err := replytree.ToggleVote(post.Votes, actor.ID, voteType)
	if err != nil {
		return 0, err
	}
	post.Votes = votes
	if err := s.posts.SavePost(ctx, post); err != nil {
		return 0, err
	}
	return replytree.VoteCount(votes), nil
}
