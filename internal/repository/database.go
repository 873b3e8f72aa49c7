package repository

import (
	"context"
	"fmt"

	"github.com/inkle/inkle-api/internal/config"
	"github.com/inkle/inkle-api/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Database struct {
	*gorm.DB
}

// Repositories groups every table repository bound to the same *gorm.DB,
// which inside Database.Transaction is the transaction handle.
type Repositories struct {
	Users      *UserRepository
	Posts      *PostRepository
	Likes      *LikeRepository
	Follows    *FollowRepository
	Blocks     *BlockRepository
	Activities *ActivityRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Users:      NewUserRepository(db),
		Posts:      NewPostRepository(db),
		Likes:      NewLikeRepository(db),
		Follows:    NewFollowRepository(db),
		Blocks:     NewBlockRepository(db),
		Activities: NewActivityRepository(db),
	}
}

func NewDatabase(cfg *config.DatabaseConfig) (*Database, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN())
	case "postgres":
		dialector = postgres.Open(cfg.DSN())
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	gormConfig := &gorm.Config{
		Logger:         logger.Default.LogMode(gormLogLevel(cfg.LogLevel)),
		TranslateError: true,
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	return &Database{db}, nil
}

func gormLogLevel(level string) logger.LogLevel {
	switch level {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

func (db *Database) AutoMigrate() error {
	return db.DB.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Like{},
		&models.Follow{},
		&models.Block{},
		&models.Activity{},
	)
}

// Transaction runs fn in a single database transaction. Any error returned by
// fn, or a panic, rolls back every write made through repos.
func (db *Database) Transaction(ctx context.Context, fn func(repos *Repositories) error) error {
	return db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}

// Repositories returns repositories outside of any transaction, for reads.
func (db *Database) Repositories() *Repositories {
	return NewRepositories(db.DB)
}

func (db *Database) Ping(ctx context.Context) error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (db *Database) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
