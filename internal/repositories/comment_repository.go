package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nahid-dev/studyhive/backend/internal/apperrors"
	"github.com/nahid-dev/studyhive/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CommentRepository defines the interface for comment data operations.
// Comments are never physically removed; moderation changes Status only.
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentByID(ctx context.Context, id string) (*models.Comment, error)
	GetCommentsByPostID(ctx context.Context, postID string) ([]models.Comment, error)
	GetReplies(ctx context.Context, parentID string) ([]models.Comment, error)
	UpdateContent(ctx context.Context, id string, content string, prior models.EditRecord) error
	SetStatus(ctx context.Context, id string, status string) error
	ClearAcceptedAnswer(ctx context.Context, postID string) error
	SetAcceptedAnswer(ctx context.Context, id string) error
	AddLike(ctx context.Context, id string, userID uint) (bool, error)
	RemoveLike(ctx context.Context, id string, userID uint) (bool, error)
}

// MongoCommentRepository implements CommentRepository for MongoDB
type MongoCommentRepository struct {
	collection *mongo.Collection
}

// NewMongoCommentRepository creates a new MongoCommentRepository
func NewMongoCommentRepository(db *mongo.Database) *MongoCommentRepository {
	return &MongoCommentRepository{collection: db.Collection("comments")}
}

// CreateComment creates a new comment in MongoDB
func (r *MongoCommentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	comment.ID = primitive.NewObjectID()
	now := time.Now()
	comment.CreatedAt = now
	comment.UpdatedAt = now
	if comment.Status == "" {
		comment.Status = models.CommentStatusActive
	}
	if comment.LikeUserIDs == nil {
		comment.LikeUserIDs = []uint{}
	}
	_, err := r.collection.InsertOne(ctx, comment)
	return err
}

// GetCommentByID retrieves a comment by ID from MongoDB
func (r *MongoCommentRepository) GetCommentByID(ctx context.Context, id string) (*models.Comment, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid comment ID %q: %w", id, apperrors.ErrNotFound)
	}

	var comment models.Comment
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&comment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("comment %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, err
	}
	return &comment, nil
}

// GetCommentsByPostID retrieves all comments for a post ordered by creation
// time ascending
func (r *MongoCommentRepository) GetCommentsByPostID(ctx context.Context, postID string) ([]models.Comment, error) {
	return r.find(ctx, bson.M{"post_id": postID})
}

// GetReplies retrieves the direct children of a comment ordered by creation
// time ascending. Each call issues a fresh query, so the sequence is
// restartable.
func (r *MongoCommentRepository) GetReplies(ctx context.Context, parentID string) ([]models.Comment, error) {
	return r.find(ctx, bson.M{"parent_id": parentID})
}

func (r *MongoCommentRepository) find(ctx context.Context, filter bson.M) ([]models.Comment, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	comments := []models.Comment{}
	if err = cursor.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// UpdateContent replaces the comment body, appending the prior content to
// the edit history in the same update
func (r *MongoCommentRepository) UpdateContent(ctx context.Context, id string, content string, prior models.EditRecord) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid comment ID %q: %w", id, apperrors.ErrNotFound)
	}
	update := bson.M{
		"$set":  bson.M{"content": content, "edited": true, "updated_at": time.Now()},
		"$push": bson.M{"edit_history": prior},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("comment %s: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

// SetStatus changes the moderation status of a comment
func (r *MongoCommentRepository) SetStatus(ctx context.Context, id string, status string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid comment ID %q: %w", id, apperrors.ErrNotFound)
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("comment %s: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

// ClearAcceptedAnswer unsets the accepted flag on every comment of a post,
// keeping the at-most-one invariant before a new answer is marked
func (r *MongoCommentRepository) ClearAcceptedAnswer(ctx context.Context, postID string) error {
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"post_id": postID, "is_accepted_answer": true},
		bson.M{"$set": bson.M{"is_accepted_answer": false}})
	return err
}

// SetAcceptedAnswer marks a comment as the accepted answer
func (r *MongoCommentRepository) SetAcceptedAnswer(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid comment ID %q: %w", id, apperrors.ErrNotFound)
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID},
		bson.M{"$set": bson.M{"is_accepted_answer": true}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("comment %s: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

// AddLike adds userID to the comment's like set
func (r *MongoCommentRepository) AddLike(ctx context.Context, id string, userID uint) (bool, error) {
	return r.updateLikeSet(ctx, id, "$addToSet", userID)
}

// RemoveLike removes userID from the comment's like set
func (r *MongoCommentRepository) RemoveLike(ctx context.Context, id string, userID uint) (bool, error) {
	return r.updateLikeSet(ctx, id, "$pull", userID)
}

func (r *MongoCommentRepository) updateLikeSet(ctx context.Context, id string, op string, userID uint) (bool, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, fmt.Errorf("invalid comment ID %q: %w", id, apperrors.ErrNotFound)
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{op: bson.M{"like_user_ids": userID}})
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 0 {
		return false, fmt.Errorf("comment %s: %w", id, apperrors.ErrNotFound)
	}
	return res.ModifiedCount > 0, nil
}
