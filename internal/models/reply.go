package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Reply is one comment on a post. ParentID is nil for a top-level reply.
// Level is fixed when the reply is created and is not recomputed later.
type Reply struct {
	ID         primitive.ObjectID  `json:"id" bson:"_id"`
	ParentID   *primitive.ObjectID `json:"parentId" bson:"parent_id,omitempty"`
	Level      int                 `json:"level" bson:"level"`
	Content    string              `json:"content" bson:"content"`
	AuthorID   string              `json:"authorId" bson:"author_id"`
	AuthorName string              `json:"authorName" bson:"author_name"`
	Votes      []Vote              `json:"-" bson:"votes"`
	CreatedAt  time.Time           `json:"createdAt" bson:"created_at"`
	UpdatedAt  *time.Time          `json:"updatedAt,omitempty" bson:"updated_at,omitempty"`
}

// CreateReplyRequest defines the request body for replying to a post or to another reply
type CreateReplyRequest struct {
	Content  string `json:"content" validate:"required,min=1,max=5000"`
	ParentID string `json:"parentId,omitempty" validate:"omitempty,hexadecimal,len=24"`
}

// UpdateReplyRequest defines the request body for editing a reply
type UpdateReplyRequest struct {
	Content string `json:"content" validate:"required,min=1,max=5000"`
}
