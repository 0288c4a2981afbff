package seed

import (
	"context"
	"fmt"
	"log"
	"time"

	"flowshare/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
	Seed        int64
}

// Seed populates the database with demo data. Posts, comments and votes go
// through the repositories so every denormalized counter matches the ledger.
func Seed(db *gorm.DB, opts Options) error {
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	log.Printf("Seeding database with %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Printf("Warning: could not clear all existing data: %v", err)
		}
	}

	f, err := NewFactory(db, opts.Seed)
	if err != nil {
		return err
	}
	ctx := context.Background()

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user, err := f.CreateUser(i)
		if err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		users = append(users, user)
	}
	log.Printf("Created %d users", len(users))

	if len(users) == 0 {
		return fmt.Errorf("at least one user is required to seed posts")
	}

	posts := make([]*models.Post, 0, opts.NumPosts)
	for i := 0; i < opts.NumPosts; i++ {
		author := users[f.rng.Intn(len(users))]
		post, err := f.CreatePost(ctx, author)
		if err != nil {
			return fmt.Errorf("create post: %w", err)
		}
		posts = append(posts, post)
	}
	log.Printf("Created %d posts", len(posts))

	comments := 0
	votes := 0
	for _, post := range posts {
		for i := 0; i < f.rng.Intn(5); i++ {
			commenter := users[f.rng.Intn(len(users))]
			comment, err := f.CreateComment(ctx, post, commenter)
			if err != nil {
				return fmt.Errorf("create comment: %w", err)
			}
			comments++

			for j := 0; j < f.rng.Intn(3); j++ {
				replier := users[f.rng.Intn(len(users))]
				if _, err := f.CreateReply(ctx, comment, replier); err != nil {
					return fmt.Errorf("create reply: %w", err)
				}
				comments++
			}

			if f.rng.Intn(2) == 0 {
				voter := users[f.rng.Intn(len(users))]
				if err := f.UpvoteComment(ctx, comment, voter); err != nil {
					return fmt.Errorf("upvote comment: %w", err)
				}
				votes++
			}
		}

		for i := 0; i < f.rng.Intn(8); i++ {
			voter := users[f.rng.Intn(len(users))]
			if err := f.UpvotePost(ctx, post, voter); err != nil {
				return fmt.Errorf("upvote post: %w", err)
			}
			votes++
		}
	}
	log.Printf("Created %d comments and %d upvotes", comments, votes)

	log.Println("Database seeding completed")
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("Clearing existing data...")
	sql := `TRUNCATE TABLE comment_upvotes, post_upvotes, comments, post_flows, post_media, posts, flows, users RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}
