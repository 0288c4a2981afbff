// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"

	"flowshare/internal/cache"
	"flowshare/internal/models"
	"flowshare/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Sort tokens accepted by the listing queries. Services validate the token
// before it reaches the repository.
const (
	SortNewest    = "newest"
	SortTop       = "top"
	SortMostLiked = "most-liked"
	SortOldest    = "oldest"
)

const publicIDAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const publicIDRetries = 5

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post, flowNames []string) error
	GetByPublicID(ctx context.Context, publicID string, viewerID uint) (*models.Post, error)
	ResolveID(ctx context.Context, publicID string) (uint, error)
	IncrementViews(ctx context.Context, publicID string) error
	List(ctx context.Context, limit, offset int, viewerID uint, sort string) ([]*models.Post, error)
	ListByFlow(ctx context.Context, flowName string, limit, offset int, viewerID uint, sort string) ([]*models.Post, error)
	ListByUserID(ctx context.Context, userID uint, limit, offset int, viewerID uint) ([]*models.Post, error)
	Search(ctx context.Context, query string, limit, offset int, viewerID uint, sort string) ([]*models.Post, error)
	UpdateTitle(ctx context.Context, post *models.Post, title string) error
}

// postRepository implements PostRepository
type postRepository struct {
	db      *gorm.DB
	log     *observability.RepoLogger
	metrics *observability.DatabaseMetrics
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{
		db:      db,
		log:     observability.NewRepoLogger("posts"),
		metrics: observability.NewDatabaseMetrics(db),
	}
}

// newPublicID returns a random identifier for use in post URLs.
func newPublicID() string {
	buf := make([]byte, models.PublicIDLength)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("reading random bytes: %v", err))
	}
	for i, b := range buf {
		buf[i] = publicIDAlphabet[int(b)%len(publicIDAlphabet)]
	}
	return string(buf)
}

// Create persists the post, its media gallery and its flow associations in a
// single transaction. Flow rows are created lazily; flow post counts move in
// the same transaction as the association that justifies them. A collision on
// the random public identifier rolls the whole transaction back and retries
// with a fresh one.
func (r *postRepository) Create(ctx context.Context, post *models.Post, flowNames []string) error {
	defer r.metrics.TrackQuery("create", "posts")()

	var err error
	for attempt := 0; attempt < publicIDRetries; attempt++ {
		post.PostID = newPublicID()
		err = r.createOnce(ctx, post, flowNames)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			post.ID = 0
			continue
		}
		break
	}
	if err != nil {
		r.log.LogError(ctx, err, "create")
		return err
	}
	r.log.LogCreate(ctx, map[string]interface{}{
		"post_id": post.PostID,
		"flows":   len(post.Flows),
		"media":   len(post.Media),
	})
	cache.InvalidateFlowOverview(ctx)
	return nil
}

func (r *postRepository) createOnce(ctx context.Context, post *models.Post, flowNames []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Flows").Create(post).Error; err != nil {
			return err
		}
		if post.Visibility != models.PostVisibilityPublic {
			return nil
		}
		for _, name := range flowNames {
			flow, err := ensureFlow(tx, name)
			if err != nil {
				return err
			}
			if err := tx.Exec(
				"INSERT INTO post_flows (post_id, flow_id) VALUES (?, ?)",
				post.ID, flow.ID,
			).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.Flow{}).
				Where("id = ?", flow.ID).
				UpdateColumn("post_count", gorm.Expr("post_count + 1")).Error; err != nil {
				return err
			}
			post.Flows = append(post.Flows, *flow)
		}
		return nil
	})
}

// ensureFlow returns the flow row for name, creating it when absent. The
// unique index on name makes concurrent creations converge on one row.
func ensureFlow(tx *gorm.DB, name string) (*models.Flow, error) {
	flow := models.Flow{Name: name}
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&flow).Error; err != nil {
		return nil, err
	}
	if flow.ID == 0 {
		// Lost the race (or the flow already existed); read the winning row.
		if err := tx.Where("name = ?", name).Take(&flow).Error; err != nil {
			return nil, err
		}
	}
	return &flow, nil
}

func (r *postRepository) GetByPublicID(ctx context.Context, publicID string, viewerID uint) (*models.Post, error) {
	var post models.Post

	fetch := func() error {
		return applyPostDetails(r.db.WithContext(ctx), viewerID).
			Preload("User").
			Preload("Media", func(db *gorm.DB) *gorm.DB {
				return db.Order("position ASC")
			}).
			Preload("Flows").
			Where("post_id = ?", publicID).
			First(&post).Error
	}

	var err error
	if viewerID == 0 {
		// Anonymous reads are cache-aside. IncrementViews keeps moving the
		// counter underneath the cached copy, so Views can lag by up to
		// PostTTL on these reads. Write paths invalidate the key.
		err = cache.Aside(ctx, cache.PostKey(publicID), &post, cache.PostTTL, fetch)
	} else {
		err = fetch()
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) ResolveID(ctx context.Context, publicID string) (uint, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).
		Select("id").
		Where("post_id = ?", publicID).
		Take(&post).Error; err != nil {
		return 0, err
	}
	return post.ID, nil
}

func (r *postRepository) IncrementViews(ctx context.Context, publicID string) error {
	return r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("post_id = ?", publicID).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
}

func (r *postRepository) List(ctx context.Context, limit, offset int, viewerID uint, sort string) ([]*models.Post, error) {
	var posts []*models.Post
	base := applyPostDetails(r.db.WithContext(ctx), viewerID).
		Preload("User").
		Preload("Flows").
		Where("visibility = ?", models.PostVisibilityPublic)
	err := applyPostSort(base, sort).
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) ListByFlow(ctx context.Context, flowName string, limit, offset int, viewerID uint, sort string) ([]*models.Post, error) {
	var posts []*models.Post
	base := applyPostDetails(r.db.WithContext(ctx), viewerID).
		Preload("User").
		Preload("Flows").
		Joins("JOIN post_flows ON post_flows.post_id = posts.id").
		Joins("JOIN flows ON flows.id = post_flows.flow_id").
		Where("flows.name = ?", flowName).
		Where("posts.visibility = ?", models.PostVisibilityPublic)
	err := applyPostSort(base, sort).
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) ListByUserID(ctx context.Context, userID uint, limit, offset int, viewerID uint) ([]*models.Post, error) {
	var posts []*models.Post
	err := applyPostDetails(r.db.WithContext(ctx), viewerID).
		Preload("User").
		Preload("Flows").
		Where("user_id = ?", userID).
		Where("visibility = ?", models.PostVisibilityPublic).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) Search(ctx context.Context, query string, limit, offset int, viewerID uint, sort string) ([]*models.Post, error) {
	defer r.metrics.TrackQuery("search", "posts")()

	var posts []*models.Post
	needle := "%" + strings.ToLower(escapeLike(query)) + "%"
	base := applyPostDetails(r.db.WithContext(ctx), viewerID).
		Preload("User").
		Preload("Flows").
		Where("visibility = ?", models.PostVisibilityPublic).
		Where("LOWER(title) LIKE ? ESCAPE '\\'", needle)
	err := applyPostSort(base, sort).
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, err
}

// UpdateTitle edits the title and stamps updated_at, which stays NULL until
// the first edit.
func (r *postRepository) UpdateTitle(ctx context.Context, post *models.Post, title string) error {
	now := nowUTC()
	if err := r.db.WithContext(ctx).
		Model(post).
		UpdateColumns(map[string]interface{}{
			"title":      title,
			"updated_at": now,
		}).Error; err != nil {
		return err
	}
	post.Title = title
	post.UpdatedAt = &now
	r.log.LogUpdate(ctx, map[string]interface{}{"post_id": post.PostID})
	cache.InvalidatePost(ctx, post.PostID)
	return nil
}

// applyPostDetails projects the viewer's upvote state in the same query.
// With no viewer the column is a bound constant and no subquery runs.
func applyPostDetails(db *gorm.DB, viewerID uint) *gorm.DB {
	if viewerID != 0 {
		return db.Select(
			"posts.*, EXISTS(SELECT 1 FROM post_upvotes WHERE post_upvotes.post_id = posts.id AND post_upvotes.user_id = ?) AS has_upvote",
			viewerID,
		)
	}
	return db.Select("posts.*, ? AS has_upvote", false)
}

// applyPostSort appends the ORDER BY clause for the requested sort token.
// Ties always break on recency so page boundaries are stable.
func applyPostSort(db *gorm.DB, sort string) *gorm.DB {
	switch sort {
	case SortTop:
		return db.Order("score DESC, posts.created_at DESC")
	default: // SortNewest and anything unrecognized
		return db.Order("posts.created_at DESC")
	}
}

// escapeLike neutralizes LIKE pattern metacharacters in user input.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
