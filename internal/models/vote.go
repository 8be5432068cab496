package models

// VoteType is the direction of a vote
type VoteType string

const (
	VoteUp   VoteType = "up"
	VoteDown VoteType = "down"
)

// Vote is a single user's vote on a post or reply. A user holds at most one vote per target.
type Vote struct {
	UserID string   `json:"userId" bson:"user_id"`
	Type   VoteType `json:"type" bson:"type"`
}

// VoteRequest defines the request body for voting on a post or reply
type VoteRequest struct {
	Type VoteType `json:"type" validate:"required,oneof=up down"`
}
