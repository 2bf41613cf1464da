package comment

import (
	"testing"

	"comment-service/internal/shared/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestByPostOrdersNewestFirst(t *testing.T) {
	s, err := db.DryRun()
	require.NoError(t, err)

	sql := s.Base.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var out []Comment
		return byPost(tx, 7).Find(&out)
	})

	assert.Contains(t, sql, `FROM "comments"`)
	assert.Contains(t, sql, "post_id = 7")
	assert.Contains(t, sql, "ORDER BY created_at DESC, id DESC")
}
