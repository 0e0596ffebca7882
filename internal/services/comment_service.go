package services

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/nahid-dev/studyhive/backend/internal/apperrors"
	"github.com/nahid-dev/studyhive/backend/internal/models"
	"github.com/nahid-dev/studyhive/backend/internal/repositories"
	"github.com/nahid-dev/studyhive/backend/pkg/logger"
)

const (
	minCommentLength = 1
	maxCommentLength = 2000
)

// CommentService manages the threaded comment tree of a post: creation with
// depth clamping, edits with history, moderation status changes and
// accepted-answer marking for question posts.
type CommentService struct {
	commentRepository repositories.CommentRepository
	postRepository    repositories.PostRepository
	userRepository    repositories.UserRepository
	now               func() time.Time
}

// NewCommentService creates a new CommentService
func NewCommentService(commentRepo repositories.CommentRepository, postRepo repositories.PostRepository, userRepo repositories.UserRepository) *CommentService {
	return &CommentService{
		commentRepository: commentRepo,
		postRepository:    postRepo,
		userRepository:    userRepo,
		now:               time.Now,
	}
}

// CreateComment adds a comment to a post, optionally as a reply. The child
// depth is parent depth + 1, clamped at models.MaxCommentDepth rather than
// rejected. On success the post's last_activity and comment count and the
// author's comments_count stat are updated, in that order, as one named
// sequence.
func (s *CommentService) CreateComment(ctx context.Context, postID string, authorID uint, content string, parentID string) (*models.Comment, error) {
	if err := validateCommentContent(content); err != nil {
		return nil, err
	}

	if _, err := s.postRepository.GetPostByID(ctx, postID); err != nil {
		return nil, err
	}

	depth := 0
	var parentRef *string
	if parentID != "" {
		parent, err := s.commentRepository.GetCommentByID(ctx, parentID)
		if err != nil {
			return nil, err
		}
		if parent.PostID != postID {
			return nil, apperrors.InvalidState("parent comment %s does not belong to post %s", parentID, postID)
		}
		depth = parent.Depth + 1
		if depth > models.MaxCommentDepth {
			depth = models.MaxCommentDepth
		}
		parentRef = &parentID
	}

	comment := &models.Comment{
		PostID:   postID,
		AuthorID: authorID,
		ParentID: parentRef,
		Depth:    depth,
		Content:  content,
		Status:   models.CommentStatusActive,
	}

	if err := s.commentRepository.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	if err := s.postRepository.RecordCommentActivity(ctx, postID, s.now()); err != nil {
		logger.L().Warnw("failed to record comment activity", "post_id", postID, "error", err)
	}
	if err := s.userRepository.IncrementCommentsCount(authorID); err != nil {
		logger.L().Warnw("failed to bump author comment stat", "author_id", authorID, "error", err)
	}

	return comment, nil
}

// EditComment replaces the comment body. Only the author may edit, and only
// while the comment is active. The prior content goes onto the edit history.
func (s *CommentService) EditComment(ctx context.Context, commentID string, editorID uint, newContent string) (*models.Comment, error) {
	if err := validateCommentContent(newContent); err != nil {
		return nil, err
	}

	comment, err := s.commentRepository.GetCommentByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.Status != models.CommentStatusActive {
		return nil, apperrors.Validation("comment %s is not active", commentID)
	}
	if comment.AuthorID != editorID {
		return nil, apperrors.Validation("comment %s is not owned by user %d", commentID, editorID)
	}

	prior := models.EditRecord{PriorContent: comment.Content, EditedAt: s.now()}
	if err := s.commentRepository.UpdateContent(ctx, commentID, newContent, prior); err != nil {
		return nil, err
	}

	comment.EditHistory = append(comment.EditHistory, prior)
	comment.Content = newContent
	comment.Edited = true
	return comment, nil
}

// AcceptAnswer marks a comment as the accepted answer of a question post.
// Any previously accepted comment is unmarked first, so at most one answer
// per post carries the flag. The post is flagged solved.
func (s *CommentService) AcceptAnswer(ctx context.Context, postID, commentID string, callerID uint) error {
	post, err := s.postRepository.GetPostByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.PostType != models.PostTypeQuestion {
		return apperrors.InvalidState("post %s is not a question", postID)
	}
	if post.AuthorID != callerID {
		return apperrors.Validation("post %s is not owned by user %d", postID, callerID)
	}

	comment, err := s.commentRepository.GetCommentByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.PostID != postID {
		return apperrors.InvalidState("comment %s does not belong to post %s", commentID, postID)
	}

	if err := s.commentRepository.ClearAcceptedAnswer(ctx, postID); err != nil {
		return fmt.Errorf("clearing accepted answer for post %s: %w", postID, err)
	}
	if err := s.commentRepository.SetAcceptedAnswer(ctx, commentID); err != nil {
		return err
	}
	if err := s.postRepository.MarkSolved(ctx, postID); err != nil {
		return err
	}
	return nil
}

// RequireOwnership loads a comment and verifies userID authored it.
func (s *CommentService) RequireOwnership(ctx context.Context, commentID string, userID uint) (*models.Comment, error) {
	comment, err := s.commentRepository.GetCommentByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.AuthorID != userID {
		return nil, apperrors.Validation("comment %s is not owned by user %d", commentID, userID)
	}
	return comment, nil
}

// ListReplies returns the direct children of a comment ordered by creation
// time ascending.
func (s *CommentService) ListReplies(ctx context.Context, commentID string) ([]models.Comment, error) {
	if _, err := s.commentRepository.GetCommentByID(ctx, commentID); err != nil {
		return nil, err
	}
	return s.commentRepository.GetReplies(ctx, commentID)
}

// ListPostComments returns every comment of a post ordered by creation time
// ascending.
func (s *CommentService) ListPostComments(ctx context.Context, postID string) ([]models.Comment, error) {
	if _, err := s.postRepository.GetPostByID(ctx, postID); err != nil {
		return nil, err
	}
	return s.commentRepository.GetCommentsByPostID(ctx, postID)
}

// LikeComment adds the user to the comment's like set. Returns false when
// the user had already liked it. Only active comments accept likes.
func (s *CommentService) LikeComment(ctx context.Context, commentID string, userID uint) (bool, error) {
	comment, err := s.commentRepository.GetCommentByID(ctx, commentID)
	if err != nil {
		return false, err
	}
	if comment.Status != models.CommentStatusActive {
		return false, apperrors.InvalidState("comment %s is not active", commentID)
	}
	return s.commentRepository.AddLike(ctx, commentID, userID)
}

// UnlikeComment removes the user from the comment's like set.
func (s *CommentService) UnlikeComment(ctx context.Context, commentID string, userID uint) (bool, error) {
	return s.commentRepository.RemoveLike(ctx, commentID, userID)
}

// ModerateComment changes a comment's status. Deletion is a status change;
// the document stays.
func (s *CommentService) ModerateComment(ctx context.Context, commentID string, status string) error {
	switch status {
	case models.CommentStatusActive, models.CommentStatusDeleted,
		models.CommentStatusFlagged, models.CommentStatusHidden:
	default:
		return apperrors.Validation("unknown comment status %q", status)
	}
	return s.commentRepository.SetStatus(ctx, commentID, status)
}

func validateCommentContent(content string) error {
	n := utf8.RuneCountInString(content)
	if n < minCommentLength || n > maxCommentLength {
		return apperrors.Validation("comment content length must be between %d and %d characters", minCommentLength, maxCommentLength)
	}
	return nil
}
