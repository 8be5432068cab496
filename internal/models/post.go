package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post represents a forum post stored in MongoDB. Replies are embedded as a
// flat, insertion-ordered list; the nested thread is derived on read.
type Post struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Title      string             `json:"title" bson:"title"`
	Content    string             `json:"content" bson:"content"`
	AuthorID   string             `json:"authorId" bson:"author_id"`
	AuthorName string             `json:"authorName" bson:"author_name"`
	Votes      []Vote             `json:"-" bson:"votes"`
	Replies    []Reply            `json:"-" bson:"replies"`
	Version    int64              `json:"version" bson:"version"`
	CreatedAt  time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt  time.Time          `json:"updatedAt" bson:"updated_at"`
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Title   string `json:"title" validate:"required,min=1,max=200"`
	Content string `json:"content" validate:"required,min=1,max=10000"`
}
