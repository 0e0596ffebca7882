package services

import (
	"context"
	"time"

	"github.com/nahid-dev/studyhive/backend/internal/models"
	"github.com/nahid-dev/studyhive/backend/internal/repositories"
	"github.com/nahid-dev/studyhive/backend/internal/scoring"
	"github.com/nahid-dev/studyhive/backend/pkg/logger"
)

// TrendingService computes the trending feed: published posts scored by
// time-decayed popularity, author display fields joined in at query time.
// It is read-only and works on whatever counter snapshot the store returns;
// concurrent writes are fine.
type TrendingService struct {
	postRepository repositories.PostRepository
	userRepository repositories.UserRepository
	now            func() time.Time
}

// NewTrendingService creates a new TrendingService
func NewTrendingService(postRepo repositories.PostRepository, userRepo repositories.UserRepository) *TrendingService {
	return &TrendingService{
		postRepository: postRepo,
		userRepository: userRepo,
		now:            time.Now,
	}
}

// GetTrending returns the top limit published posts by trending score,
// optionally restricted to one subject. Ties are broken by post ID
// ascending. limit <= 0 and subjects with no posts both yield an empty
// result.
func (s *TrendingService) GetTrending(ctx context.Context, limit int, subject string) ([]models.TrendingPost, error) {
	if limit <= 0 {
		return []models.TrendingPost{}, nil
	}

	posts, err := s.postRepository.GetPublishedPosts(ctx, subject)
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return []models.TrendingPost{}, nil
	}

	byID := make(map[string]models.Post, len(posts))
	candidates := make([]scoring.Candidate, 0, len(posts))
	for _, p := range posts {
		id := p.ID.Hex()
		byID[id] = p
		candidates = append(candidates, scoring.Candidate{
			ID: id,
			Snapshot: scoring.EngagementSnapshot{
				Likes:         p.LikesCount(),
				Saves:         p.SavesCount(),
				Comments:      p.CommentsCount,
				Views:         p.Views,
				RatingAverage: p.Rating.Average,
				PublishedAt:   p.PublishedAt,
			},
		})
	}

	ranked := scoring.Rank(candidates, s.now())
	if limit < len(ranked) {
		ranked = ranked[:limit]
	}

	authorIDs := make([]uint, 0, len(ranked))
	seen := make(map[uint]bool, len(ranked))
	for _, r := range ranked {
		id := byID[r.ID].AuthorID
		if !seen[id] {
			seen[id] = true
			authorIDs = append(authorIDs, id)
		}
	}
	authors, err := s.userRepository.GetUsersByIDs(authorIDs)
	if err != nil {
		return nil, err
	}

	result := make([]models.TrendingPost, 0, len(ranked))
	for _, r := range ranked {
		post := byID[r.ID]
		tp := models.TrendingPost{
			Post:               post,
			TrendingScore:      r.Trending,
			PopularityScore:    r.Popularity,
			ReadingTimeMinutes: scoring.ReadingTimeMinutes(post.Content),
		}
		if author, ok := authors[post.AuthorID]; ok {
			tp.Author = author.Compact()
		} else {
			// Author row missing (e.g. deleted account): keep the post,
			// leave display fields empty.
			logger.L().Debugw("trending author not found", "post_id", r.ID, "author_id", post.AuthorID)
			tp.Author = models.UserCompact{ID: post.AuthorID}
		}
		result = append(result, tp)
	}
	return result, nil
}
