package migrate

import (
	"comment-service/internal/comment"
	"comment-service/internal/post"
	"comment-service/internal/shared/db"
	"comment-service/internal/user"
)

func AutoMigrateAll(store *db.Store) error {
	return store.Base.AutoMigrate(
		&user.User{},
		&post.Post{},
		&comment.Comment{},
	)
}
