package database

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/library-service/internal/config"
)

func TestDSN(t *testing.T) {
	cfg := config.Config{
		DBUser: "library",
		DBPass: "s3cret",
		DBHost: "db.internal",
		DBPort: "3306",
		DBName: "library",
	}
	assert.Equal(t,
		"library:s3cret@tcp(db.internal:3306)/library?charset=utf8mb4&parseTime=true&loc=UTC",
		dsn(cfg))
}

func TestDSNWithoutPassword(t *testing.T) {
	cfg := config.Config{
		DBUser: "library",
		DBHost: "localhost",
		DBPort: "3306",
		DBName: "library",
	}
	assert.Equal(t,
		"library@tcp(localhost:3306)/library?charset=utf8mb4&parseTime=true&loc=UTC",
		dsn(cfg))
}
