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

// PostRepository defines the interface for post data operations. All counter
// mutations are single atomic read-modify-write updates against MongoDB so
// concurrent requests never lose increments.
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id string) (*models.Post, error)
	GetPublishedPosts(ctx context.Context, subject string) ([]models.Post, error)
	GetPostsByAuthor(ctx context.Context, authorID uint, skip, limit int64) ([]models.Post, error)
	UpdatePost(ctx context.Context, id string, post *models.Post) error
	SetStatus(ctx context.Context, id string, status string) error
	MarkSolved(ctx context.Context, id string) error

	AddLike(ctx context.Context, id string, userID uint) (bool, error)
	RemoveLike(ctx context.Context, id string, userID uint) (bool, error)
	AddSave(ctx context.Context, id string, userID uint) (bool, error)
	RemoveSave(ctx context.Context, id string, userID uint) (bool, error)

	IncrementViews(ctx context.Context, id string) error
	AppendViewRecord(ctx context.Context, id string, rec models.ViewRecord) error

	RecordRating(ctx context.Context, id string, value int) (*models.Post, error)

	RecordCommentActivity(ctx context.Context, id string, at time.Time) error
}

// MongoPostRepository implements PostRepository for MongoDB
type MongoPostRepository struct {
	collection *mongo.Collection
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{collection: db.Collection("posts")}
}

// CreatePost creates a new post in MongoDB
func (r *MongoPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	now := time.Now()
	post.CreatedAt = now
	post.UpdatedAt = now
	if post.Status == "" {
		post.Status = models.PostStatusPublished
	}
	if post.Status == models.PostStatusPublished && post.PublishedAt.IsZero() {
		post.PublishedAt = now
	}
	post.LastActivity = now
	if post.LikeUserIDs == nil {
		post.LikeUserIDs = []uint{}
	}
	if post.SaveUserIDs == nil {
		post.SaveUserIDs = []uint{}
	}
	post.Rating = post.Rating.Histogram.Summarize()
	_, err := r.collection.InsertOne(ctx, post)
	return err
}

// GetPostByID retrieves a post by ID from MongoDB
func (r *MongoPostRepository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid post ID %q: %w", id, apperrors.ErrNotFound)
	}

	var post models.Post
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("post %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, err
	}
	return &post, nil
}

// GetPublishedPosts retrieves all published posts, optionally filtered by
// subject. The trending ranker scores and sorts the result itself.
func (r *MongoPostRepository) GetPublishedPosts(ctx context.Context, subject string) ([]models.Post, error) {
	filter := bson.M{"status": models.PostStatusPublished}
	if subject != "" {
		filter["subject"] = subject
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// GetPostsByAuthor retrieves posts by a specific author with pagination
func (r *MongoPostRepository) GetPostsByAuthor(ctx context.Context, authorID uint, skip, limit int64) ([]models.Post, error) {
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"author_id": authorID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// UpdatePost updates the content fields of an existing post
func (r *MongoPostRepository) UpdatePost(ctx context.Context, id string, post *models.Post) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid post ID %q: %w", id, apperrors.ErrNotFound)
	}

	post.UpdatedAt = time.Now()
	update := bson.M{
		"$set": bson.M{
			"title":      post.Title,
			"content":    post.Content,
			"subject":    post.Subject,
			"updated_at": post.UpdatedAt,
		},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("post %s: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

// SetStatus changes the lifecycle status of a post
func (r *MongoPostRepository) SetStatus(ctx context.Context, id string, status string) error {
	return r.setFields(ctx, id, bson.M{"status": status, "updated_at": time.Now()})
}

// MarkSolved flags a question post as solved
func (r *MongoPostRepository) MarkSolved(ctx context.Context, id string) error {
	return r.setFields(ctx, id, bson.M{"is_solved": true, "updated_at": time.Now()})
}

// AddLike adds userID to the like set. Returns false when the user had
// already liked the post ($addToSet matched but modified nothing).
func (r *MongoPostRepository) AddLike(ctx context.Context, id string, userID uint) (bool, error) {
	return r.updateSet(ctx, id, "$addToSet", "like_user_ids", userID)
}

// RemoveLike removes userID from the like set
func (r *MongoPostRepository) RemoveLike(ctx context.Context, id string, userID uint) (bool, error) {
	return r.updateSet(ctx, id, "$pull", "like_user_ids", userID)
}

// AddSave adds userID to the save set
func (r *MongoPostRepository) AddSave(ctx context.Context, id string, userID uint) (bool, error) {
	return r.updateSet(ctx, id, "$addToSet", "save_user_ids", userID)
}

// RemoveSave removes userID from the save set
func (r *MongoPostRepository) RemoveSave(ctx context.Context, id string, userID uint) (bool, error) {
	return r.updateSet(ctx, id, "$pull", "save_user_ids", userID)
}

// IncrementViews atomically increments the raw view counter
func (r *MongoPostRepository) IncrementViews(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid post ID %q: %w", id, apperrors.ErrNotFound)
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$inc": bson.M{"views": 1}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("post %s: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

// AppendViewRecord pushes an entry onto the view history
func (r *MongoPostRepository) AppendViewRecord(ctx context.Context, id string, rec models.ViewRecord) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid post ID %q: %w", id, apperrors.ErrNotFound)
	}
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$push": bson.M{"view_history": rec}})
	return err
}

// RecordRating increments the histogram bucket for the given value and
// rewrites the derived average/count from the updated histogram in the same
// atomic update, so the stored pair can never disagree with the histogram.
// Returns the post as it stood after the write. Uses an aggregation-pipeline
// update (MongoDB 4.2+).
func (r *MongoPostRepository) RecordRating(ctx context.Context, id string, value int) (*models.Post, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid post ID %q: %w", id, apperrors.ErrNotFound)
	}

	bucket := value - 1
	buckets := bson.M{"$range": bson.A{0, len(models.RatingHistogram{})}}
	update := bson.A{
		bson.M{"$set": bson.M{
			"rating.histogram": bson.M{"$map": bson.M{
				"input": buckets,
				"as":    "i",
				"in": bson.M{"$add": bson.A{
					bson.M{"$arrayElemAt": bson.A{"$rating.histogram", "$$i"}},
					bson.M{"$cond": bson.A{bson.M{"$eq": bson.A{"$$i", bucket}}, 1, 0}},
				}},
			}},
		}},
		bson.M{"$set": bson.M{
			"rating.count": bson.M{"$sum": "$rating.histogram"},
			"rating.average": bson.M{"$round": bson.A{
				bson.M{"$divide": bson.A{
					bson.M{"$sum": bson.M{"$map": bson.M{
						"input": buckets,
						"as":    "i",
						"in": bson.M{"$multiply": bson.A{
							bson.M{"$add": bson.A{"$$i", 1}},
							bson.M{"$arrayElemAt": bson.A{"$rating.histogram", "$$i"}},
						}},
					}}},
					bson.M{"$sum": "$rating.histogram"},
				}},
				1,
			}},
		}},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var post models.Post
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": objID}, update, opts).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("post %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, err
	}
	return &post, nil
}

// RecordCommentActivity bumps the comment counter and last-activity
// timestamp in a single update
func (r *MongoPostRepository) RecordCommentActivity(ctx context.Context, id string, at time.Time) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid post ID %q: %w", id, apperrors.ErrNotFound)
	}
	update := bson.M{
		"$inc": bson.M{"comments_count": 1},
		"$set": bson.M{"last_activity": at},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("post %s: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

func (r *MongoPostRepository) setFields(ctx context.Context, id string, fields bson.M) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid post ID %q: %w", id, apperrors.ErrNotFound)
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("post %s: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

func (r *MongoPostRepository) updateSet(ctx context.Context, id string, op, field string, userID uint) (bool, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, fmt.Errorf("invalid post ID %q: %w", id, apperrors.ErrNotFound)
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{op: bson.M{field: userID}})
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 0 {
		return false, fmt.Errorf("post %s: %w", id, apperrors.ErrNotFound)
	}
	return res.ModifiedCount > 0, nil
}
