package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/nahid-dev/studyhive/backend/internal/apperrors"
	"github.com/nahid-dev/studyhive/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakePostRepo is an in-memory PostRepository for service tests.
type fakePostRepo struct {
	posts map[string]*models.Post
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: map[string]*models.Post{}}
}

func (r *fakePostRepo) put(p *models.Post) string {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	r.posts[p.ID.Hex()] = p
	return p.ID.Hex()
}

func (r *fakePostRepo) get(id string) (*models.Post, error) {
	p, ok := r.posts[id]
	if !ok {
		return nil, fmt.Errorf("post %s: %w", id, apperrors.ErrNotFound)
	}
	return p, nil
}

func (r *fakePostRepo) CreatePost(_ context.Context, post *models.Post) error {
	now := time.Now()
	post.CreatedAt = now
	post.UpdatedAt = now
	if post.Status == "" {
		post.Status = models.PostStatusPublished
	}
	r.put(post)
	return nil
}

func (r *fakePostRepo) GetPostByID(_ context.Context, id string) (*models.Post, error) {
	p, err := r.get(id)
	if err != nil {
		return nil, err
	}
	cp := *p
	return &cp, nil
}

func (r *fakePostRepo) GetPublishedPosts(_ context.Context, subject string) ([]models.Post, error) {
	out := []models.Post{}
	for _, p := range r.posts {
		if p.Status != models.PostStatusPublished {
			continue
		}
		if subject != "" && p.Subject != subject {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (r *fakePostRepo) GetPostsByAuthor(_ context.Context, authorID uint, _, _ int64) ([]models.Post, error) {
	out := []models.Post{}
	for _, p := range r.posts {
		if p.AuthorID == authorID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakePostRepo) UpdatePost(_ context.Context, id string, post *models.Post) error {
	p, err := r.get(id)
	if err != nil {
		return err
	}
	p.Title = post.Title
	p.Content = post.Content
	p.Subject = post.Subject
	return nil
}

func (r *fakePostRepo) SetStatus(_ context.Context, id string, status string) error {
	p, err := r.get(id)
	if err != nil {
		return err
	}
	p.Status = status
	return nil
}

func (r *fakePostRepo) MarkSolved(_ context.Context, id string) error {
	p, err := r.get(id)
	if err != nil {
		return err
	}
	p.IsSolved = true
	return nil
}

func (r *fakePostRepo) AddLike(_ context.Context, id string, userID uint) (bool, error) {
	p, err := r.get(id)
	if err != nil {
		return false, err
	}
	for _, u := range p.LikeUserIDs {
		if u == userID {
			return false, nil
		}
	}
	p.LikeUserIDs = append(p.LikeUserIDs, userID)
	return true, nil
}

func (r *fakePostRepo) RemoveLike(_ context.Context, id string, userID uint) (bool, error) {
	p, err := r.get(id)
	if err != nil {
		return false, err
	}
	for i, u := range p.LikeUserIDs {
		if u == userID {
			p.LikeUserIDs = append(p.LikeUserIDs[:i], p.LikeUserIDs[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *fakePostRepo) AddSave(_ context.Context, id string, userID uint) (bool, error) {
	p, err := r.get(id)
	if err != nil {
		return false, err
	}
	for _, u := range p.SaveUserIDs {
		if u == userID {
			return false, nil
		}
	}
	p.SaveUserIDs = append(p.SaveUserIDs, userID)
	return true, nil
}

func (r *fakePostRepo) RemoveSave(_ context.Context, id string, userID uint) (bool, error) {
	p, err := r.get(id)
	if err != nil {
		return false, err
	}
	for i, u := range p.SaveUserIDs {
		if u == userID {
			p.SaveUserIDs = append(p.SaveUserIDs[:i], p.SaveUserIDs[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *fakePostRepo) IncrementViews(_ context.Context, id string) error {
	p, err := r.get(id)
	if err != nil {
		return err
	}
	p.Views++
	return nil
}

func (r *fakePostRepo) AppendViewRecord(_ context.Context, id string, rec models.ViewRecord) error {
	p, err := r.get(id)
	if err != nil {
		return err
	}
	p.ViewHistory = append(p.ViewHistory, rec)
	return nil
}

func (r *fakePostRepo) RecordRating(_ context.Context, id string, value int) (*models.Post, error) {
	p, err := r.get(id)
	if err != nil {
		return nil, err
	}
	// Bucket increment and derived summary in one step, like the Mongo
	// pipeline update.
	p.Rating.Histogram[value-1]++
	p.Rating = p.Rating.Histogram.Summarize()
	cp := *p
	return &cp, nil
}

func (r *fakePostRepo) RecordCommentActivity(_ context.Context, id string, at time.Time) error {
	p, err := r.get(id)
	if err != nil {
		return err
	}
	p.CommentsCount++
	p.LastActivity = at
	return nil
}

// fakeCommentRepo is an in-memory CommentRepository for service tests.
type fakeCommentRepo struct {
	comments map[string]*models.Comment
	seq      int
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: map[string]*models.Comment{}}
}

func (r *fakeCommentRepo) get(id string) (*models.Comment, error) {
	c, ok := r.comments[id]
	if !ok {
		return nil, fmt.Errorf("comment %s: %w", id, apperrors.ErrNotFound)
	}
	return c, nil
}

func (r *fakeCommentRepo) CreateComment(_ context.Context, comment *models.Comment) error {
	comment.ID = primitive.NewObjectID()
	// Strictly increasing creation times so ordering is deterministic.
	r.seq++
	comment.CreatedAt = time.Unix(int64(r.seq), 0)
	comment.UpdatedAt = comment.CreatedAt
	if comment.Status == "" {
		comment.Status = models.CommentStatusActive
	}
	r.comments[comment.ID.Hex()] = comment
	return nil
}

func (r *fakeCommentRepo) GetCommentByID(_ context.Context, id string) (*models.Comment, error) {
	c, err := r.get(id)
	if err != nil {
		return nil, err
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCommentRepo) GetCommentsByPostID(_ context.Context, postID string) ([]models.Comment, error) {
	out := []models.Comment{}
	for _, c := range r.comments {
		if c.PostID == postID {
			out = append(out, *c)
		}
	}
	sortByCreated(out)
	return out, nil
}

func (r *fakeCommentRepo) GetReplies(_ context.Context, parentID string) ([]models.Comment, error) {
	out := []models.Comment{}
	for _, c := range r.comments {
		if c.ParentID != nil && *c.ParentID == parentID {
			out = append(out, *c)
		}
	}
	sortByCreated(out)
	return out, nil
}

func sortByCreated(cs []models.Comment) {
	sort.Slice(cs, func(i, j int) bool { return cs[i].CreatedAt.Before(cs[j].CreatedAt) })
}

func (r *fakeCommentRepo) UpdateContent(_ context.Context, id string, content string, prior models.EditRecord) error {
	c, err := r.get(id)
	if err != nil {
		return err
	}
	c.Content = content
	c.Edited = true
	c.EditHistory = append(c.EditHistory, prior)
	return nil
}

func (r *fakeCommentRepo) SetStatus(_ context.Context, id string, status string) error {
	c, err := r.get(id)
	if err != nil {
		return err
	}
	c.Status = status
	return nil
}

func (r *fakeCommentRepo) ClearAcceptedAnswer(_ context.Context, postID string) error {
	for _, c := range r.comments {
		if c.PostID == postID {
			c.IsAcceptedAnswer = false
		}
	}
	return nil
}

func (r *fakeCommentRepo) SetAcceptedAnswer(_ context.Context, id string) error {
	c, err := r.get(id)
	if err != nil {
		return err
	}
	c.IsAcceptedAnswer = true
	return nil
}

func (r *fakeCommentRepo) AddLike(_ context.Context, id string, userID uint) (bool, error) {
	c, err := r.get(id)
	if err != nil {
		return false, err
	}
	for _, u := range c.LikeUserIDs {
		if u == userID {
			return false, nil
		}
	}
	c.LikeUserIDs = append(c.LikeUserIDs, userID)
	return true, nil
}

func (r *fakeCommentRepo) RemoveLike(_ context.Context, id string, userID uint) (bool, error) {
	c, err := r.get(id)
	if err != nil {
		return false, err
	}
	for i, u := range c.LikeUserIDs {
		if u == userID {
			c.LikeUserIDs = append(c.LikeUserIDs[:i], c.LikeUserIDs[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// fakeUserRepo is an in-memory UserRepository for service tests.
type fakeUserRepo struct {
	users map[uint]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uint]*models.User{}}
}

func (r *fakeUserRepo) put(u *models.User) { r.users[u.ID] = u }

func (r *fakeUserRepo) CreateUser(user *models.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetUserByID(id uint) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user %d: %w", id, apperrors.ErrNotFound)
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetUserByEmail(email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", email, apperrors.ErrNotFound)
}

func (r *fakeUserRepo) GetUsersByIDs(ids []uint) (map[uint]models.User, error) {
	out := map[uint]models.User{}
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out[id] = *u
		}
	}
	return out, nil
}

func (r *fakeUserRepo) UpdateUser(user *models.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) SearchUsers(string) ([]models.User, error) { return nil, nil }

func (r *fakeUserRepo) IncrementPostsCount(userID uint) error {
	return r.add(userID, func(u *models.User) { u.PostsCount++ })
}

func (r *fakeUserRepo) IncrementCommentsCount(userID uint) error {
	return r.add(userID, func(u *models.User) { u.CommentsCount++ })
}

func (r *fakeUserRepo) AddLikesReceived(userID uint, delta int64) error {
	return r.add(userID, func(u *models.User) { u.LikesReceived += delta })
}

func (r *fakeUserRepo) AddSavesReceived(userID uint, delta int64) error {
	return r.add(userID, func(u *models.User) { u.SavesReceived += delta })
}

func (r *fakeUserRepo) add(userID uint, fn func(*models.User)) error {
	u, ok := r.users[userID]
	if !ok {
		return fmt.Errorf("user %d: %w", userID, apperrors.ErrNotFound)
	}
	fn(u)
	return nil
}
