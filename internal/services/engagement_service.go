package services

import (
	"context"
	"time"

	"github.com/nahid-dev/studyhive/backend/internal/apperrors"
	"github.com/nahid-dev/studyhive/backend/internal/models"
	"github.com/nahid-dev/studyhive/backend/internal/repositories"
	"github.com/nahid-dev/studyhive/backend/pkg/logger"
)

// A user viewing the same post again within this window does not get a new
// view-history entry. The raw view counter still increments.
const viewHistoryWindow = 24 * time.Hour

// EngagementService owns the raw engagement signals of a post: views,
// likes, saves and ratings. Counter updates go through single atomic
// repository operations; the author stat side effects follow in order.
type EngagementService struct {
	postRepository repositories.PostRepository
	userRepository repositories.UserRepository
	now            func() time.Time
}

// NewEngagementService creates a new EngagementService
func NewEngagementService(postRepo repositories.PostRepository, userRepo repositories.UserRepository) *EngagementService {
	return &EngagementService{
		postRepository: postRepo,
		userRepository: userRepo,
		now:            time.Now,
	}
}

// IncrementView records a view of a post. The view counter increment is
// unconditional and atomic. When userID is known (non-zero), a view-history
// entry is appended unless the user already viewed the post within the last
// 24 hours; the check and the append are separate operations, so duplicate
// history entries under concurrent requests can occur and are tolerated.
func (s *EngagementService) IncrementView(ctx context.Context, postID string, userID uint) error {
	post, err := s.postRepository.GetPostByID(ctx, postID)
	if err != nil {
		return err
	}

	if err := s.postRepository.IncrementViews(ctx, postID); err != nil {
		return err
	}

	if userID == 0 {
		return nil
	}

	cutoff := s.now().Add(-viewHistoryWindow)
	for _, rec := range post.ViewHistory {
		if rec.UserID == userID && rec.ViewedAt.After(cutoff) {
			return nil
		}
	}

	rec := models.ViewRecord{UserID: userID, ViewedAt: s.now()}
	if err := s.postRepository.AppendViewRecord(ctx, postID, rec); err != nil {
		// The counter is already safe; losing a history entry is acceptable.
		logger.L().Warnw("failed to append view history", "post_id", postID, "user_id", userID, "error", err)
	}
	return nil
}

// AddRating records a rating event for a post and returns the resulting
// average/count pair. Values outside 1..5 are rejected. Ratings are counted
// per event, not deduplicated per user. The bucket increment and the derived
// average/count rewrite happen in one atomic store update, so the stored
// summary always matches the histogram even under concurrent ratings.
func (s *EngagementService) AddRating(ctx context.Context, postID string, userID uint, value int) (*models.RatingResult, error) {
	if value < 1 || value > 5 {
		return nil, apperrors.ErrInvalidRating
	}

	post, err := s.postRepository.RecordRating(ctx, postID, value)
	if err != nil {
		return nil, err
	}

	logger.L().Debugw("rating recorded", "post_id", postID, "user_id", userID, "value", value, "count", post.Rating.Count)
	return &models.RatingResult{Average: post.Rating.Average, Count: post.Rating.Count}, nil
}

// LikePost adds the user to the post's like set. Returns false when the
// user had already liked it; the author's likes_received stat moves only on
// an actual set change.
func (s *EngagementService) LikePost(ctx context.Context, postID string, userID uint) (bool, error) {
	return s.updateSetWith(ctx, postID, userID,
		s.postRepository.AddLike, s.userRepository.AddLikesReceived, 1)
}

// UnlikePost removes the user from the post's like set
func (s *EngagementService) UnlikePost(ctx context.Context, postID string, userID uint) (bool, error) {
	return s.updateSetWith(ctx, postID, userID,
		s.postRepository.RemoveLike, s.userRepository.AddLikesReceived, -1)
}

// SavePost adds the user to the post's save set
func (s *EngagementService) SavePost(ctx context.Context, postID string, userID uint) (bool, error) {
	return s.updateSetWith(ctx, postID, userID,
		s.postRepository.AddSave, s.userRepository.AddSavesReceived, 1)
}

// UnsavePost removes the user from the post's save set
func (s *EngagementService) UnsavePost(ctx context.Context, postID string, userID uint) (bool, error) {
	return s.updateSetWith(ctx, postID, userID,
		s.postRepository.RemoveSave, s.userRepository.AddSavesReceived, -1)
}

func (s *EngagementService) updateSetWith(
	ctx context.Context,
	postID string,
	userID uint,
	setOp func(context.Context, string, uint) (bool, error),
	statOp func(uint, int64) error,
	delta int64,
) (bool, error) {
	post, err := s.postRepository.GetPostByID(ctx, postID)
	if err != nil {
		return false, err
	}

	changed, err := setOp(ctx, postID, userID)
	if err != nil {
		return false, err
	}
	if !changed {
		return false, nil
	}

	if err := statOp(post.AuthorID, delta); err != nil {
		logger.L().Warnw("failed to update author stat", "post_id", postID, "author_id", post.AuthorID, "error", err)
	}
	return true, nil
}
