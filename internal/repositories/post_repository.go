package repositories

import (
	"context"
	"time"

	"github.com/anonto42/alumni-forum/backend/internal/apperr"
	"github.com/anonto42/alumni-forum/backend/internal/models"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PostRepository defines the interface for post data operations.
// Posts are read and written as whole documents, replies included.
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id string) (*models.Post, error)
	GetPosts(ctx context.Context) ([]models.Post, error)
	SavePost(ctx context.Context, post *models.Post) error
	DeletePost(ctx context.Context, id string) error
}

// MongoPostRepository implements PostRepository for MongoDB
type MongoPostRepository struct {
	collection *mongo.Collection
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{collection: db.Collection("posts")}
}

func parsePostID(id string) (primitive.ObjectID, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, errors.Wrapf(apperr.ErrNotFound, "invalid post ID %q", id)
	}
	return objID, nil
}

// CreatePost creates a new post in MongoDB
func (r *MongoPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	now := time.Now().UTC()
	post.ID = primitive.NewObjectID()
	post.CreatedAt = now
	post.UpdatedAt = now
	post.Version = 1
	if post.Replies == nil {
		post.Replies = []models.Reply{}
	}
	if post.Votes == nil {
		post.Votes = []models.Vote{}
	}
	if _, err := r.collection.InsertOne(ctx, post); err != nil {
		return errors.Wrap(err, "insert post")
	}
	return nil
}

// GetPostByID retrieves a post by ID from MongoDB
func (r *MongoPostRepository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	objID, err := parsePostID(id)
	if err != nil {
		return nil, err
	}

	var post models.Post
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errors.Wrapf(apperr.ErrNotFound, "post %s", id)
		}
		return nil, errors.Wrapf(err, "find post %s", id)
	}
	return &post, nil
}

// GetPosts retrieves all posts, newest first. Replies are left out of the projection.
func (r *MongoPostRepository) GetPosts(ctx context.Context) ([]models.Post, error) {
	findOptions := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetProjection(bson.M{"replies": 0})
	cursor, err := r.collection.Find(ctx, bson.D{}, findOptions)
	if err != nil {
		return nil, errors.Wrap(err, "find posts")
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, errors.Wrap(err, "decode posts")
	}
	return posts, nil
}

// SavePost writes the whole post back, replies included. The write only
// lands if the stored version still matches post.Version; on success the
// version is bumped. A stale version yields apperr.ErrConflict. A post read
// at version 0 also matches documents that have no version field yet.
func (r *MongoPostRepository) SavePost(ctx context.Context, post *models.Post) error {
	expected := post.Version
	next := *post
	next.Version = expected + 1
	next.UpdatedAt = time.Now().UTC()

	res, err := r.collection.ReplaceOne(ctx, versionFilter(post.ID, expected), next)
	if err != nil {
		return errors.Wrapf(err, "replace post %s", post.ID.Hex())
	}
	if res.MatchedCount == 0 {
		err = r.collection.FindOne(ctx, bson.M{"_id": post.ID},
			options.FindOne().SetProjection(bson.M{"version": 1})).Err()
		if errors.Is(err, mongo.ErrNoDocuments) {
			return errors.Wrapf(apperr.ErrNotFound, "post %s", post.ID.Hex())
		}
		if err != nil {
			return errors.Wrapf(err, "find post %s", post.ID.Hex())
		}
		return errors.Wrapf(apperr.ErrConflict, "post %s was modified concurrently", post.ID.Hex())
	}

	post.Version = next.Version
	post.UpdatedAt = next.UpdatedAt
	return nil
}

func versionFilter(id primitive.ObjectID, version int64) bson.M {
	if version == 0 {
		return bson.M{"_id": id, "version": bson.M{"$in": bson.A{int64(0), nil}}}
	}
	return bson.M{"_id": id, "version": version}
}

// DeletePost deletes a post by ID from MongoDB
func (r *MongoPostRepository) DeletePost(ctx context.Context, id string) error {
	objID, err := parsePostID(id)
	if err != nil {
		return err
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return errors.Wrapf(err, "delete post %s", id)
	}
	if res.DeletedCount == 0 {
		return errors.Wrapf(apperr.ErrNotFound, "post %s", id)
	}
	return nil
}
