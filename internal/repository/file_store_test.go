package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"galpe/internal/domain"
	"galpe/internal/logger"
)

func newTestFileStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := NewFileStore(filepath.Join(t.TempDir(), "data", "users.json"), logger.Discard())
	require.NoError(t, err)
	return s
}

func sampleRecords() []*domain.UserRecord {
	return []*domain.UserRecord{
		{
			ID:        uuid.MustParse("00000000-0000-0000-0000-000000000001"),
			Name:      "Ana",
			Email:     "a@x.com",
			Password:  "secret1",
			Assets:    []domain.Asset{{Symbol: "BTC", Amount: decimal.RequireFromString("0.5")}},
			CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		},
		{
			ID:       uuid.MustParse("00000000-0000-0000-0000-000000000002"),
			Email:    "b@x.com",
			Password: "pw",
			Assets:   []domain.Asset{},
		},
	}
}

func TestFileStore_GetAll_MissingFileIsEmpty(t *testing.T) {
	s := newTestFileStore(t)

	records, err := s.GetAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestFileStore_SaveThenGetAll_RoundTrips(t *testing.T) {
	s := newTestFileStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveAll(ctx, sampleRecords()))

	got, err := s.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a@x.com", got[0].Email)
	assert.Equal(t, "secret1", got[0].Password)
	assert.True(t, got[0].Assets[0].Amount.Equal(decimal.RequireFromString("0.5")))
	assert.Equal(t, "b@x.com", got[1].Email)
}

func TestFileStore_GetAll_CorruptFileIsUnavailable(t *testing.T) {
	s := newTestFileStore(t)
	require.NoError(t, os.WriteFile(s.Path(), []byte("{not json"), 0o600))

	_, err := s.GetAll(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrStoreUnavailable))
}

func TestFileStore_GetAll_UnreadableIsUnavailable(t *testing.T) {
	s := newTestFileStore(t)
	// a directory at the file path cannot be read as a file
	require.NoError(t, os.Mkdir(s.Path(), 0o750))

	_, err := s.GetAll(context.Background())
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

func TestFileStore_GetAll_InvalidEntriesAreUnavailable(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{
			name: "null entry",
			data: `[{"id":"00000000-0000-0000-0000-000000000001","email":"a@x.com","password":"pw","assets":[]}, null]`,
		},
		{
			name: "repeated id",
			data: `[
				{"id":"00000000-0000-0000-0000-000000000001","email":"a@x.com","password":"pw","assets":[]},
				{"id":"00000000-0000-0000-0000-000000000001","email":"c@x.com","password":"pw","assets":[]}
			]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestFileStore(t)
			require.NoError(t, os.WriteFile(s.Path(), []byte(tt.data), 0o600))

			got, err := s.GetAll(context.Background())
			assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
			assert.Nil(t, got)
		})
	}
}

func TestFileStore_SaveAll_FailureLeavesPreviousContents(t *testing.T) {
	s := newTestFileStore(t)
	ctx := context.Background()
	require.NoError(t, s.SaveAll(ctx, sampleRecords()))

	s.rename = func(string, string) error { return errors.New("disk full") }

	changed := sampleRecords()
	changed[0].Email = "new@x.com"
	require.Error(t, s.SaveAll(ctx, changed))

	got, err := s.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", got[0].Email)

	entries, err := os.ReadDir(filepath.Dir(s.Path()))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file should be cleaned up")
}

func TestFileStore_SaveAll_NilWritesEmptyArray(t *testing.T) {
	s := newTestFileStore(t)

	require.NoError(t, s.SaveAll(context.Background(), nil))

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(data))
}

func TestNewFileStore_RequiresPath(t *testing.T) {
	_, err := NewFileStore("", logger.Discard())
	assert.Error(t, err)
}
