package db

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DryRun is test support: it returns a Store that builds postgres SQL
// without a live server. Queries are rendered with (*gorm.DB).ToSQL.
// Production code opens stores with Open.
func DryRun() (*Store, error) {
	base, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=dryrun dbname=dryrun sslmode=disable",
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	return New(base), nil
}
