package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newFavoriteStore() *service.PairStore[models.Favorite] {
	return service.NewPairStore("user_id", "recipe_id",
		func(user, recipe uint) *models.Favorite {
			return &models.Favorite{UserID: user, RecipeID: recipe}
		},
		"already present", "not present",
	)
}

func concurrentAdds(t *testing.T, db *gorm.DB, workers int) (succeeded, conflicts int) {
	t.Helper()
	user := testhelpers.CreateUser(t, db, "racer")
	recipe := testhelpers.CreateRecipe(t, db, user, "contested", nil)
	store := newFavoriteStore()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := store.Add(context.Background(), db, user.ID, recipe.ID)
			mu.Lock()
			errs = append(errs, err)
			mu.Unlock()
		}()
	}
	wg.Wait()

	for _, err := range errs {
		var serr *service.StateError
		switch {
		case err == nil:
			succeeded++
		case errors.As(err, &serr):
			conflicts++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}

	var rows int64
	require.NoError(t, db.Model(&models.Favorite{}).Where("user_id = ? AND recipe_id = ?", user.ID, recipe.ID).Count(&rows).Error)
	assert.Equal(t, int64(1), rows)
	return succeeded, conflicts
}

func TestPairStoreConcurrentAddSQLite(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	succeeded, conflicts := concurrentAdds(t, db, 8)
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 7, conflicts)
}

func TestPairStoreConcurrentAddPostgres(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container-based test in short mode")
	}
	db := testhelpers.SetupTestDatabase(t)
	succeeded, conflicts := concurrentAdds(t, db, 16)
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 15, conflicts)
}

func TestPairStoreRightsOf(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	user := testhelpers.CreateUser(t, db, "cook")
	recipe := testhelpers.CreateRecipe(t, db, user, "soup", nil)
	store := newFavoriteStore()
	ctx := context.Background()

	present, err := store.RightsOf(ctx, db, user.ID, []uint{recipe.ID})
	require.NoError(t, err)
	assert.Empty(t, present)

	require.NoError(t, store.Add(ctx, db, user.ID, recipe.ID))
	present, err = store.RightsOf(ctx, db, user.ID, []uint{recipe.ID, recipe.ID + 1})
	require.NoError(t, err)
	assert.Equal(t, map[uint]bool{recipe.ID: true}, present)

	// anonymous viewers never have pairs
	present, err = store.RightsOf(ctx, db, 0, []uint{recipe.ID})
	require.NoError(t, err)
	assert.Empty(t, present)
}
