package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/anonto42/alumni-forum/backend/internal/apperr"
	"github.com/anonto42/alumni-forum/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func namespace(mt *mtest.T) string {
	return mt.Coll.Database().Name() + "." + mt.Coll.Name()
}

func TestMongoPostRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("get post decodes embedded replies", func(mt *mtest.T) {
		repo := &MongoPostRepository{collection: mt.Coll}
		postID := primitive.NewObjectID()
		parentID := primitive.NewObjectID()
		childID := primitive.NewObjectID()
		created := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch, bson.D{
			{Key: "_id", Value: postID},
			{Key: "title", Value: "Class of 2010 reunion"},
			{Key: "author_id", Value: "3"},
			{Key: "version", Value: int64(4)},
			{Key: "replies", Value: bson.A{
				bson.D{
					{Key: "_id", Value: parentID},
					{Key: "level", Value: 0},
					{Key: "content", Value: "count me in"},
					{Key: "created_at", Value: created},
				},
				bson.D{
					{Key: "_id", Value: childID},
					{Key: "parent_id", Value: parentID},
					{Key: "level", Value: 1},
					{Key: "content", Value: "same"},
					{Key: "created_at", Value: created.Add(time.Minute)},
				},
			}},
		}))

		post, err := repo.GetPostByID(context.Background(), postID.Hex())
		require.NoError(mt, err)
		assert.Equal(mt, "Class of 2010 reunion", post.Title)
		assert.Equal(mt, int64(4), post.Version)
		require.Len(mt, post.Replies, 2)
		assert.Nil(mt, post.Replies[0].ParentID)
		require.NotNil(mt, post.Replies[1].ParentID)
		assert.Equal(mt, parentID, *post.Replies[1].ParentID)
		assert.Equal(mt, 1, post.Replies[1].Level)
	})

	mt.Run("get post not found", func(mt *mtest.T) {
		repo := &MongoPostRepository{collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch))

		_, err := repo.GetPostByID(context.Background(), primitive.NewObjectID().Hex())
		assert.ErrorIs(mt, err, apperr.ErrNotFound)
	})

	mt.Run("get post with malformed id", func(mt *mtest.T) {
		repo := &MongoPostRepository{collection: mt.Coll}
		_, err := repo.GetPostByID(context.Background(), "not-an-id")
		assert.ErrorIs(mt, err, apperr.ErrNotFound)
	})

	mt.Run("save post bumps version", func(mt *mtest.T) {
		repo := &MongoPostRepository{collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		post := &models.Post{ID: primitive.NewObjectID(), Version: 2}
		require.NoError(mt, repo.SavePost(context.Background(), post))
		assert.Equal(mt, int64(3), post.Version)
		assert.False(mt, post.UpdatedAt.IsZero())

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, int64(2), started.Command.Lookup("updates", "0", "q", "version").Int64())
		assert.Equal(mt, int64(3), started.Command.Lookup("updates", "0", "u", "version").Int64())
	})

	mt.Run("save post without a stored version", func(mt *mtest.T) {
		repo := &MongoPostRepository{collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		post := &models.Post{ID: primitive.NewObjectID()}
		require.NoError(mt, repo.SavePost(context.Background(), post))
		assert.Equal(mt, int64(1), post.Version)

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		require.Equal(mt, "update", started.CommandName)
		values, err := started.Command.Lookup("updates", "0", "q", "version", "$in").Array().Values()
		require.NoError(mt, err)
		require.Len(mt, values, 2)
		assert.Equal(mt, bson.TypeInt64, values[0].Type)
		assert.Equal(mt, bson.TypeNull, values[1].Type, "a document with no version field matches")
	})

	mt.Run("save post with stale version conflicts", func(mt *mtest.T) {
		repo := &MongoPostRepository{collection: mt.Coll}
		postID := primitive.NewObjectID()
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
			mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch, bson.D{
				{Key: "_id", Value: postID},
				{Key: "version", Value: int64(9)},
			}),
		)

		post := &models.Post{ID: postID, Version: 2}
		err := repo.SavePost(context.Background(), post)
		assert.ErrorIs(mt, err, apperr.ErrConflict)
		assert.Equal(mt, int64(2), post.Version)
	})

	mt.Run("save post that was deleted", func(mt *mtest.T) {
		repo := &MongoPostRepository{collection: mt.Coll}
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
			mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch),
		)

		err := repo.SavePost(context.Background(), &models.Post{ID: primitive.NewObjectID(), Version: 1})
		assert.ErrorIs(mt, err, apperr.ErrNotFound)
	})

	mt.Run("save post surfaces server errors", func(mt *mtest.T) {
		repo := &MongoPostRepository{collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    2,
			Name:    "BadValue",
			Message: "bad value",
		}))

		err := repo.SavePost(context.Background(), &models.Post{ID: primitive.NewObjectID(), Version: 1})
		require.Error(mt, err)
		assert.Equal(mt, 500, apperr.StatusCode(err))
	})

	mt.Run("create post initialises document", func(mt *mtest.T) {
		repo := &MongoPostRepository{collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		post := &models.Post{Title: "Mentors wanted", Content: "...", AuthorID: "1"}
		require.NoError(mt, repo.CreatePost(context.Background(), post))
		assert.False(mt, post.ID.IsZero())
		assert.Equal(mt, int64(1), post.Version)
		assert.NotNil(mt, post.Replies)
	})

	mt.Run("delete missing post", func(mt *mtest.T) {
		repo := &MongoPostRepository{collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		err := repo.DeletePost(context.Background(), primitive.NewObjectID().Hex())
		assert.ErrorIs(mt, err, apperr.ErrNotFound)
	})
}
