package infra

import (
	"path/filepath"
	"testing"

	"github.com/st9-8/mouegne/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "/tmp/pos.db?_foreign_keys=on", sqliteDSN("sqlite:///tmp/pos.db"))
	assert.Equal(t, "pos.db?cache=shared&_foreign_keys=on", sqliteDSN("sqlite://pos.db?cache=shared"))
	assert.Equal(t, "pos.db?_fk=0", sqliteDSN("sqlite://pos.db?_fk=0"))
}

func TestNewDatabase_SQLiteEnforcesForeignKeys(t *testing.T) {
	db, err := NewDatabase("sqlite://" + filepath.Join(t.TempDir(), "fk.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	require.NoError(t, AutoMigrate(db))

	var enabled int
	require.NoError(t, db.Raw("PRAGMA foreign_keys").Scan(&enabled).Error)
	assert.Equal(t, 1, enabled)

	orphan := &model.Item{Name: "Orphan", CategoryID: uuid.New(), Price: decimal.NewFromInt(100)}
	assert.Error(t, db.Create(orphan).Error)

	cat := &model.Category{Name: "Drinks"}
	require.NoError(t, db.Create(cat).Error)
	assert.NoError(t, db.Create(&model.Item{Name: "Water", CategoryID: cat.ID}).Error)
}
