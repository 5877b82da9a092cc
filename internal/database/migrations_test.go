package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSchema_DefinesUserRecords(t *testing.T) {
	sql := Schema()

	assert.Contains(t, sql, "CREATE TABLE IF NOT EXISTS user_records")
	for _, col := range []string{"id", "name", "email", "password", "assets", "created_at"} {
		assert.Contains(t, sql, col)
	}
}
