// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"flowshare/internal/models"
	"flowshare/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// flowPool is the set of flow names demo posts are filed under. Mixed casing
// is intentional, flow names are case-sensitive and the demo data should
// exercise that.
var flowPool = []string{
	"photography", "travel", "food", "gaming", "music",
	"nature", "architecture", "street-art", "diy", "pets",
	"Cinema", "Retro", "sunsets", "macro", "urbex",
}

// Factory builds domain entities and persists them through the repository
// layer so denormalized counters stay consistent with the real write paths.
type Factory struct {
	db          *gorm.DB
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	voteRepo    repository.VoteRepository
	rng         *rand.Rand

	// all seeded accounts share one bcrypt hash so seeding stays fast
	passwordHash string
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, seedValue int64) (*Factory, error) {
	gofakeit.Seed(seedValue)

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		return nil, fmt.Errorf("hash seed password: %w", err)
	}

	return &Factory{
		db:           db,
		postRepo:     repository.NewPostRepository(db),
		commentRepo:  repository.NewCommentRepository(db),
		voteRepo:     repository.NewVoteRepository(db),
		rng:          rand.New(rand.NewSource(seedValue)),
		passwordHash: string(hash),
	}, nil
}

// CreateUser persists a demo account with a unique generated username.
func (f *Factory) CreateUser(i int) (*models.User, error) {
	username := fmt.Sprintf("%s%d", strings.ToLower(gofakeit.Username()), i)
	if len(username) > 32 {
		username = username[:32]
	}
	user := &models.User{
		Username: username,
		Password: f.passwordHash,
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreatePost persists a post with one to four media items and up to three
// flows drawn from the pool. Roughly one post in ten is private.
func (f *Factory) CreatePost(ctx context.Context, user *models.User) (*models.Post, error) {
	visibility := models.PostVisibilityPublic
	if f.rng.Intn(10) == 0 {
		visibility = models.PostVisibilityPrivate
	}

	title := gofakeit.Sentence(3 + f.rng.Intn(5))
	if len(title) > 128 {
		title = title[:128]
	}

	uid := user.ID
	post := &models.Post{
		Title:      strings.TrimSuffix(title, "."),
		UserID:     &uid,
		Visibility: visibility,
	}

	mediaCount := 1 + f.rng.Intn(4)
	for i := 0; i < mediaCount; i++ {
		post.Media = append(post.Media, models.PostMedia{
			URL:         fmt.Sprintf("https://picsum.photos/seed/%s/800/800", gofakeit.UUID()),
			Description: gofakeit.Sentence(4),
			Position:    i,
		})
	}
	post.ThumbnailURL = post.Media[0].URL

	var flows []string
	if visibility == models.PostVisibilityPublic {
		flows = f.pickFlows(1 + f.rng.Intn(3))
	}

	if err := f.postRepo.Create(ctx, post, flows); err != nil {
		return nil, err
	}
	return post, nil
}

// CreateComment persists a top-level comment on the given post.
func (f *Factory) CreateComment(ctx context.Context, post *models.Post, user *models.User) (*models.Comment, error) {
	comment := &models.Comment{
		PostID:  post.ID,
		UserID:  user.ID,
		Content: gofakeit.Sentence(5 + f.rng.Intn(15)),
	}
	if err := f.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateReply persists a reply to the given top-level comment.
func (f *Factory) CreateReply(ctx context.Context, parent *models.Comment, user *models.User) (*models.Comment, error) {
	parentID := parent.ID
	comment := &models.Comment{
		PostID:   parent.PostID,
		UserID:   user.ID,
		Content:  gofakeit.Sentence(3 + f.rng.Intn(10)),
		ParentID: &parentID,
	}
	if err := f.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// UpvotePost casts an upvote through the vote ledger.
func (f *Factory) UpvotePost(ctx context.Context, post *models.Post, user *models.User) error {
	_, err := f.voteRepo.CastPostUpvote(ctx, post.ID, user.ID)
	return err
}

// UpvoteComment casts a comment upvote through the vote ledger.
func (f *Factory) UpvoteComment(ctx context.Context, comment *models.Comment, user *models.User) error {
	_, err := f.voteRepo.CastCommentUpvote(ctx, comment.ID, user.ID)
	return err
}

// pickFlows draws n distinct flow names from the pool.
func (f *Factory) pickFlows(n int) []string {
	idx := f.rng.Perm(len(flowPool))
	if n > len(idx) {
		n = len(idx)
	}
	names := make([]string, 0, n)
	for _, i := range idx[:n] {
		names = append(names, flowPool[i])
	}
	return names
}
