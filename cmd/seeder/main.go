package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"comment-service/configs"
	"comment-service/internal/comment"
	"comment-service/internal/migrate"
	"comment-service/internal/post"
	"comment-service/internal/shared/db"
	"comment-service/internal/shared/jwt"
	"comment-service/internal/user"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

type options struct {
	users    int
	posts    int
	comments int
	password string
	seed     int64
}

func main() {
	var opts options
	cmd := &cobra.Command{
		Use:   "seeder",
		Short: "Fill the comment database with fake users, posts and comments",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts)
		},
	}
	cmd.Flags().IntVar(&opts.users, "users", 5, "number of users to create")
	cmd.Flags().IntVar(&opts.posts, "posts", 10, "number of posts to create")
	cmd.Flags().IntVar(&opts.comments, "comments", 50, "number of comments to create")
	cmd.Flags().StringVar(&opts.password, "password", "123456", "password for every seeded user")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "random seed (0 = time based)")

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options) error {
	if opts.users <= 0 || opts.posts <= 0 {
		return fmt.Errorf("need at least one user and one post")
	}
	if opts.seed == 0 {
		opts.seed = time.Now().UnixNano()
	}
	gofakeit.Seed(opts.seed)

	cfg, err := configs.LoadConfig()
	if err != nil {
		return err
	}
	store, err := db.Open(cfg)
	if err != nil {
		return err
	}
	if err := migrate.AutoMigrateAll(store); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(opts.password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	users := user.NewRepository(store)
	posts := post.NewRepository(store)
	signer := jwt.NewSigner(cfg.JWTSecret, 0)

	names := make([]string, 0, opts.users)
	for i := 0; i < opts.users; i++ {
		u := &user.User{Username: fmt.Sprintf("%s%d", gofakeit.Username(), gofakeit.Number(100, 999)), PassHash: string(hash)}
		if err := users.Create(ctx, u); err != nil {
			return err
		}
		tok, err := signer.Make(u.Username)
		if err != nil {
			return fmt.Errorf("token for %s: %w", u.Username, err)
		}
		names = append(names, u.Username)
		log.Printf("[seed] user %s token=%s", u.Username, tok)
	}

	postIDs := make([]uint64, 0, opts.posts)
	for i := 0; i < opts.posts; i++ {
		p := &post.Post{
			Username: names[gofakeit.Number(0, len(names)-1)],
			Title:    gofakeit.Sentence(5),
			Content:  gofakeit.Paragraph(2, 4, 12, " "),
		}
		if err := posts.Create(ctx, p); err != nil {
			return err
		}
		postIDs = append(postIDs, p.ID)
	}
	log.Printf("[seed] %d posts", len(postIDs))

	svc := comment.NewService(comment.Deps{
		Posts:    posts,
		Users:    users,
		Comments: comment.NewRepository(store),
		Tx:       store,
	})
	for i := 0; i < opts.comments; i++ {
		in := comment.CreateReq{
			PostID:  postIDs[gofakeit.Number(0, len(postIDs)-1)],
			Content: gofakeit.Sentence(gofakeit.Number(3, 15)),
		}
		if _, err := svc.Create(ctx, names[gofakeit.Number(0, len(names)-1)], in); err != nil {
			return err
		}
	}
	log.Printf("[seed] %d comments", opts.comments)
	return nil
}
