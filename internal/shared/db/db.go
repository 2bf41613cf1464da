package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/url"
	"regexp"
	"strings"
	"time"

	"comment-service/configs"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
	"gorm.io/plugin/opentelemetry/tracing"
)

type Store struct{ Base *gorm.DB }

func New(base *gorm.DB) *Store { return &Store{Base: base} }

// Open connects to the primary with retries, registers read replicas and tracing.
func Open(cfg *configs.Config) (*Store, error) {
	base, err := openWithRetry(cfg.DSN(), 8, time.Second)
	if err != nil {
		return nil, fmt.Errorf("db open %s: %w", RedactDSN(cfg.DSN()), err)
	}

	sqlDB, _ := base.DB()
	sqlDB.SetMaxOpenConns(40)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if len(cfg.DBReplicas) > 0 {
		replicas := make([]gorm.Dialector, 0, len(cfg.DBReplicas))
		for _, dsn := range cfg.DBReplicas {
			replicas = append(replicas, postgres.Open(dsn))
			log.Printf("[db] read replica %s", RedactDSN(dsn))
		}
		if err := base.Use(dbresolver.Register(dbresolver.Config{
			Replicas: replicas,
			Policy:   dbresolver.RandomPolicy{},
		})); err != nil {
			return nil, fmt.Errorf("dbresolver: %w", err)
		}
	}

	if err := base.Use(tracing.NewPlugin()); err != nil {
		return nil, fmt.Errorf("db tracing: %w", err)
	}
	return &Store{Base: base}, nil
}

type TxMode int

const (
	ReadOnly TxMode = iota
	ReadWrite
)

func (m TxMode) String() string {
	if m == ReadOnly {
		return "read-only"
	}
	return "read-write"
}

type txKey struct{}

// InTx runs fn in a transaction of the given mode. Repositories reach the
// transaction through Conn(ctx). A nested call joins the outer transaction.
func (s *Store) InTx(ctx context.Context, mode TxMode, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	opts := &sql.TxOptions{ReadOnly: mode == ReadOnly}
	base := s.Base.WithContext(ctx)
	if mode == ReadOnly {
		base = base.Clauses(dbresolver.Read)
	} else {
		base = base.Clauses(dbresolver.Write)
	}
	return base.Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	}, opts)
}

// Conn returns the transaction bound to ctx, or a session on the base pool.
func (s *Store) Conn(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return s.Base.WithContext(ctx)
}

func openWithRetry(dsn string, attempts int, sleep time.Duration) (*gorm.DB, error) {
	var last error
	for i := 1; i <= attempts; i++ {
		db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
		if err == nil {
			sqlDB, err2 := db.DB()
			if err2 == nil {
				if last = pingWithTimeout(sqlDB, 2*time.Second); last == nil {
					return db, nil
				}
			} else {
				last = err2
			}
		} else {
			last = err
		}
		log.Printf("[db] open attempt %d/%d failed: %v", i, attempts, last)
		time.Sleep(sleep)
		if sleep < 8*time.Second {
			sleep *= 2
		}
	}
	return nil, last
}

func pingWithTimeout(sqlDB *sql.DB, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("db ping timeout after %s", timeout)
		}
		return err
	}
	return nil
}

var reKV = regexp.MustCompile(`\b(host|port|dbname)=\S+`)

// RedactDSN keeps only host, port and database name of a DSN for logs.
// It accepts both key=value and postgres:// URL forms.
func RedactDSN(dsn string) string {
	if strings.Contains(dsn, "://") {
		u, err := url.Parse(dsn)
		if err != nil || u.Host == "" {
			return "[unparsable dsn]"
		}
		return u.Scheme + "://" + u.Host + u.Path
	}
	parts := reKV.FindAllString(dsn, -1)
	if len(parts) == 0 {
		return "[unparsable dsn]"
	}
	return fmt.Sprintf("%s", parts)
}
