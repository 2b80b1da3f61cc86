package places

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/andresreyes/spotlists-backend/pkg/db/models"
)

func setupPlacesTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file:placesrepo?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, conn.Exec(`DROP TABLE IF EXISTS places`).Error)
	require.NoError(t, conn.Exec(`
CREATE TABLE places (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  google_places_id TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  address TEXT NOT NULL,
  city TEXT NOT NULL,
  state TEXT NOT NULL,
  zip TEXT NOT NULL,
  lat REAL NOT NULL,
  lng REAL NOT NULL,
  recommendations INTEGER NOT NULL DEFAULT 0,
  ratings_count INTEGER NOT NULL DEFAULT 0,
  is_operational INTEGER NOT NULL,
  is_archived INTEGER NOT NULL DEFAULT 0,
  is_approved INTEGER NOT NULL DEFAULT 1,
  is_flagged INTEGER NOT NULL DEFAULT 0,
  archived_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
)`).Error)

	return conn
}

func seedPlace(t *testing.T, conn *gorm.DB, place *models.Place) *models.Place {
	t.Helper()
	require.NoError(t, conn.Create(place).Error)
	return place
}

func TestPlaceRepositoryListVisibleFiltersModeratedRows(t *testing.T) {
	conn := setupPlacesTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	visible := seedPlace(t, conn, &models.Place{GooglePlacesID: "g1", Name: "Open", Address: "1 St", City: "Austin", State: "TX", Zip: "78701", IsOperational: true, IsApproved: true})
	seedPlace(t, conn, &models.Place{GooglePlacesID: "g2", Name: "Closed", Address: "2 St", City: "Austin", State: "TX", Zip: "78701", IsOperational: false, IsApproved: true})
	seedPlace(t, conn, &models.Place{GooglePlacesID: "g3", Name: "Archived", Address: "3 St", City: "Austin", State: "TX", Zip: "78701", IsOperational: true, IsApproved: true, IsArchived: true})
	seedPlace(t, conn, &models.Place{GooglePlacesID: "g4", Name: "Unapproved", Address: "4 St", City: "Austin", State: "TX", Zip: "78701", IsOperational: true, IsApproved: false})
	seedPlace(t, conn, &models.Place{GooglePlacesID: "g5", Name: "Flagged", Address: "5 St", City: "Austin", State: "TX", Zip: "78701", IsOperational: true, IsApproved: true, IsFlagged: true})

	rows, total, err := repo.ListVisible(ctx, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, rows, 1)
	assert.Equal(t, visible.ID, rows[0].ID)
}

func TestPlaceRepositoryUpsertCreatesThenRefreshes(t *testing.T) {
	conn := setupPlacesTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	first := &models.Place{GooglePlacesID: "g1", Name: "Taco Spot", Address: "1 St", City: "Austin", State: "TX", Zip: "78701", Lat: 30.2, Lng: -97.7, RatingsCount: 10, IsOperational: true, IsApproved: true}
	require.NoError(t, repo.UpsertByProviderID(ctx, first))
	require.NotZero(t, first.ID)

	// Flag the row, then re-import with fresh provider data.
	require.NoError(t, conn.Model(&models.Place{}).Where("id = ?", first.ID).Update("is_flagged", true).Error)

	second := &models.Place{GooglePlacesID: "g1", Name: "Taco Spot Rebranded", Address: "1 St", City: "Austin", State: "TX", Zip: "78701", Lat: 30.2, Lng: -97.7, RatingsCount: 25, IsOperational: false}
	require.NoError(t, repo.UpsertByProviderID(ctx, second))
	assert.Equal(t, first.ID, second.ID)

	reloaded, err := repo.FindByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Taco Spot Rebranded", reloaded.Name)
	assert.Equal(t, 25, reloaded.RatingsCount)
	assert.False(t, reloaded.IsOperational)
	assert.True(t, reloaded.IsFlagged, "upsert must not touch moderation flags")
}

func TestPlaceRepositoryFindByIDMissing(t *testing.T) {
	conn := setupPlacesTestDB(t)
	repo := NewRepository(conn)

	_, err := repo.FindByID(context.Background(), 404)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
