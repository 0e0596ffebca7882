package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Maximum nesting depth for comment threads. Replies to a comment already at
// this depth are clamped to it instead of being rejected.
const MaxCommentDepth = 5

// Comment statuses
const (
	CommentStatusActive  = "active"
	CommentStatusDeleted = "deleted"
	CommentStatusFlagged = "flagged"
	CommentStatusHidden  = "hidden"
)

// EditRecord is one entry in a comment's edit history
type EditRecord struct {
	PriorContent string    `json:"prior_content" bson:"prior_content"`
	EditedAt     time.Time `json:"edited_at" bson:"edited_at"`
}

// Comment represents a threaded comment on a post, stored in MongoDB.
// Moderation never removes the document; it only changes Status.
type Comment struct {
	ID       primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	PostID   string             `json:"post_id" bson:"post_id"`     // MongoDB ObjectID of the post as hex string
	AuthorID uint               `json:"author_id" bson:"author_id"` // PostgreSQL user ID of the comment author
	ParentID *string            `json:"parent_id,omitempty" bson:"parent_id,omitempty"`
	Depth    int                `json:"depth" bson:"depth"` // 0 for top-level, capped at MaxCommentDepth
	Content  string             `json:"content" bson:"content"`
	Status   string             `json:"status" bson:"status"`

	IsAcceptedAnswer bool         `json:"is_accepted_answer" bson:"is_accepted_answer"`
	Edited           bool         `json:"edited" bson:"edited"`
	EditHistory      []EditRecord `json:"edit_history,omitempty" bson:"edit_history,omitempty"`
	LikeUserIDs      []uint       `json:"like_user_ids" bson:"like_user_ids"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// CreateCommentRequest defines the request body for creating a new comment
type CreateCommentRequest struct {
	Content  string `json:"content" validate:"required,min=1,max=2000"`
	ParentID string `json:"parent_id,omitempty" validate:"omitempty,len=24,hexadecimal"`
}

// UpdateCommentRequest defines the request body for editing a comment
type UpdateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=2000"`
}
