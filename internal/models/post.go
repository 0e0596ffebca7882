package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post types
const (
	PostTypeNote     = "note"
	PostTypeQuestion = "question"
	PostTypeResource = "resource"
)

// Post statuses
const (
	PostStatusDraft     = "draft"
	PostStatusPublished = "published"
	PostStatusArchived  = "archived"
	PostStatusFlagged   = "flagged"
	PostStatusDeleted   = "deleted"
)

// ViewRecord is one entry in a post's view history
type ViewRecord struct {
	UserID   uint      `json:"user_id" bson:"user_id"`
	ViewedAt time.Time `json:"viewed_at" bson:"viewed_at"`
}

// Post represents a study post stored in MongoDB
type Post struct {
	ID       primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	AuthorID uint               `json:"author_id" bson:"author_id"` // PostgreSQL user ID of the post author
	Title    string             `json:"title" bson:"title"`
	Content  string             `json:"content" bson:"content"`
	Subject  string             `json:"subject" bson:"subject"`
	PostType string             `json:"post_type" bson:"post_type"` // note, question or resource
	Status   string             `json:"status" bson:"status"`
	IsSolved bool               `json:"is_solved" bson:"is_solved"`

	// Engagement counters. Like/save sets are maintained with $addToSet/$pull
	// so a user appears in each at most once; views is $inc-ed atomically.
	LikeUserIDs []uint       `json:"like_user_ids" bson:"like_user_ids"`
	SaveUserIDs []uint       `json:"save_user_ids" bson:"save_user_ids"`
	Views       int64        `json:"views" bson:"views"`
	ViewHistory []ViewRecord `json:"view_history,omitempty" bson:"view_history,omitempty"`

	Rating        RatingSummary `json:"rating" bson:"rating"`
	CommentsCount int64         `json:"comments_count" bson:"comments_count"`

	PublishedAt  time.Time `json:"published_at" bson:"published_at"`
	LastActivity time.Time `json:"last_activity" bson:"last_activity"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}

// LikesCount returns the size of the like set.
func (p *Post) LikesCount() int { return len(p.LikeUserIDs) }

// SavesCount returns the size of the save set.
func (p *Post) SavesCount() int { return len(p.SaveUserIDs) }

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Title    string `json:"title" validate:"required,min=1,max=200"`
	Content  string `json:"content" validate:"required,min=1,max=20000"`
	Subject  string `json:"subject" validate:"required,min=1,max=100"`
	PostType string `json:"post_type" validate:"required,oneof=note question resource"`
}

// UpdatePostRequest defines the request body for updating an existing post
type UpdatePostRequest struct {
	Title   string `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Content string `json:"content,omitempty" validate:"omitempty,min=1,max=20000"`
	Subject string `json:"subject,omitempty" validate:"omitempty,min=1,max=100"`
}

// AddRatingRequest defines the request body for rating a post
type AddRatingRequest struct {
	Value int `json:"value" validate:"required,min=1,max=5"`
}

// TrendingPost is a ranked post joined with author display fields and
// read-time-computed extras for the trending feed.
type TrendingPost struct {
	Post
	TrendingScore      float64     `json:"trending_score"`
	PopularityScore    float64     `json:"popularity_score"`
	ReadingTimeMinutes int         `json:"reading_time_minutes"`
	Author             UserCompact `json:"author"`
}
