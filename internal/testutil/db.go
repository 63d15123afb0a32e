// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"cronicas-api/internal/config"
	"cronicas-api/internal/platform/database"
)

var dbSeq atomic.Int64

// NewDB opens a migrated in-memory SQLite database private to t.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	cfg := config.DatabaseConfig{
		Driver: "sqlite",
		Name:   fmt.Sprintf("file:%s_%d", name, dbSeq.Add(1)),
		Params: "mode=memory&cache=shared",
	}

	db, err := database.New(context.Background(), cfg)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(context.Background(), db))
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}
