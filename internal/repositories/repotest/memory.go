// Package repotest provides an in-memory PostRepository for tests of the
// layers above the repositories.
package repotest

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/anonto42/alumni-forum/backend/internal/apperr"
	"github.com/anonto42/alumni-forum/backend/internal/models"
	"github.com/anonto42/alumni-forum/backend/internal/repositories"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemPostRepository keeps posts in a map and applies the same version check
// as the MongoDB implementation. Hooks and injected errors must be set before
// the repository is shared between goroutines.
type MemPostRepository struct {
	mu    sync.Mutex
	posts map[string]models.Post
	gets  int
	saves int

	GetErr  error
	SaveErr error
	// BeforeGet runs before a read looks at the store; an error fails the read
	BeforeGet func(ctx context.Context, id string) error
	// AfterGet runs after a read returns, to simulate a concurrent writer
	AfterGet func(id string)
}

var _ repositories.PostRepository = (*MemPostRepository)(nil)

// NewMemPostRepository creates an empty repository
func NewMemPostRepository() *MemPostRepository {
	return &MemPostRepository{posts: map[string]models.Post{}}
}

func clonePost(p models.Post) models.Post {
	p.Replies = slices.Clone(p.Replies)
	p.Votes = slices.Clone(p.Votes)
	return p
}

// Seed stores p as is, filling in an id and version 1 when missing
func (r *MemPostRepository) Seed(p models.Post) models.Post {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if p.Version == 0 {
		p.Version = 1
	}
	r.posts[p.ID.Hex()] = clonePost(p)
	return p
}

// Stored returns a copy of the stored post
func (r *MemPostRepository) Stored(id string) models.Post {
	r.mu.Lock()
	defer r.mu.Unlock()
	return clonePost(r.posts[id])
}

// BumpVersion changes the stored version as another writer would
func (r *MemPostRepository) BumpVersion(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.posts[id]
	p.Version++
	r.posts[id] = p
}

// Gets is the number of GetPostByID calls so far
func (r *MemPostRepository) Gets() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gets
}

// Saves is the number of SavePost calls so far
func (r *MemPostRepository) Saves() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves
}

func (r *MemPostRepository) CreatePost(_ context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now().UTC()
	post.UpdatedAt = post.CreatedAt
	post.Version = 1
	r.mu.Lock()
	defer r.mu.Unlock()
	r.posts[post.ID.Hex()] = clonePost(*post)
	return nil
}

func (r *MemPostRepository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	r.mu.Lock()
	r.gets++
	r.mu.Unlock()

	if r.BeforeGet != nil {
		if err := r.BeforeGet(ctx, id); err != nil {
			return nil, err
		}
	}
	if r.GetErr != nil {
		return nil, r.GetErr
	}

	r.mu.Lock()
	p, ok := r.posts[id]
	r.mu.Unlock()
	if !ok {
		return nil, errors.Wrapf(apperr.ErrNotFound, "post %s", id)
	}
	out := clonePost(p)
	if r.AfterGet != nil {
		r.AfterGet(id)
	}
	return &out, nil
}

func (r *MemPostRepository) GetPosts(_ context.Context) ([]models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Post, 0, len(r.posts))
	for _, p := range r.posts {
		p.Replies = nil
		out = append(out, clonePost(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *MemPostRepository) SavePost(_ context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves++
	if r.SaveErr != nil {
		return r.SaveErr
	}
	current, ok := r.posts[post.ID.Hex()]
	if !ok {
		return errors.Wrapf(apperr.ErrNotFound, "post %s", post.ID.Hex())
	}
	if current.Version != post.Version {
		return errors.Wrapf(apperr.ErrConflict, "post %s was modified concurrently", post.ID.Hex())
	}
	post.Version++
	post.UpdatedAt = time.Now().UTC()
	r.posts[post.ID.Hex()] = clonePost(*post)
	return nil
}

func (r *MemPostRepository) DeletePost(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[id]; !ok {
		return errors.Wrapf(apperr.ErrNotFound, "post %s", id)
	}
	delete(r.posts, id)
	return nil
}
