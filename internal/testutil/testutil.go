package testutil

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/inkle/inkle-api/internal/config"
	"github.com/inkle/inkle-api/internal/repository"
	"github.com/inkle/inkle-api/pkg/cache"
)

// TestDatabase is an isolated in-memory SQLite database with the schema
// migrated.
type TestDatabase struct {
	DB  *repository.Database
	DSN string
}

// TestRedis holds a miniredis server and a client connected to it.
type TestRedis struct {
	Server *miniredis.Miniredis
	Client *cache.RedisClient
}

// SetupTestDatabase opens a fresh named in-memory database. A single open
// connection serialises transactions, which keeps concurrent tests
// deterministic.
func SetupTestDatabase(t *testing.T) *TestDatabase {
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=on"

	db, err := repository.NewDatabase(&config.DatabaseConfig{
		Driver:       "sqlite",
		Path:         dsn,
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		LogLevel:     "silent",
	})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.AutoMigrate(); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return &TestDatabase{DB: db, DSN: dsn}
}

func (td *TestDatabase) Teardown(t *testing.T) {
	if err := td.DB.Close(); err != nil {
		t.Logf("Warning: Failed to close database: %v", err)
	}
}

// Count returns the number of rows in table matching the optional condition.
func (td *TestDatabase) Count(t *testing.T, table string, query string, args ...interface{}) int64 {
	var count int64
	db := td.DB.Table(table)
	if query != "" {
		db = db.Where(query, args...)
	}
	if err := db.Count(&count).Error; err != nil {
		t.Fatalf("Failed to count %s: %v", table, err)
	}
	return count
}

func SetupTestRedis(t *testing.T) *TestRedis {
	server, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}

	return &TestRedis{
		Server: server,
		Client: cache.NewRedisClient(server.Addr(), "", 0, 5, 1),
	}
}

func (tr *TestRedis) Teardown(t *testing.T) {
	if err := tr.Client.Close(); err != nil {
		t.Logf("Warning: Failed to close redis client: %v", err)
	}
	tr.Server.Close()
}
