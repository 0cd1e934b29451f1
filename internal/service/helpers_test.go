package service_test

import (
	"testing"

	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/storage"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/pageza/foodgram/backend/internal/types"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const mediaURL = "http://testserver/media"

type testEnv struct {
	db      *gorm.DB
	media   string
	users   *service.UserService
	recipes *service.RecipeService
	catalog *service.CatalogService
}

func setupServices(t *testing.T) *testEnv {
	t.Helper()
	db := testhelpers.SetupSQLite(t)
	media := t.TempDir()
	store, err := storage.NewLocalStore(media, mediaURL)
	require.NoError(t, err)

	images := service.NewImageService(store)
	users := service.NewUserService(db, images)
	return &testEnv{
		db:      db,
		media:   media,
		users:   users,
		recipes: service.NewRecipeService(db, images, users),
		catalog: service.NewCatalogService(db),
	}
}

func ptr[T any](v T) *T {
	return &v
}

func recipeRequest(ingredients ...types.RecipeIngredientInput) *types.RecipeWriteRequest {
	return &types.RecipeWriteRequest{
		Ingredients: &ingredients,
		Image:       ptr(testhelpers.PNGDataURI),
		Name:        ptr("Pancakes"),
		Text:        ptr("Mix and fry."),
		CookingTime: ptr(20),
	}
}

func requireValidationField(t *testing.T, err error, field string) {
	t.Helper()
	var verr *service.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Fields, field)
}

func requireStateError(t *testing.T, err error) {
	t.Helper()
	var serr *service.StateError
	require.ErrorAs(t, err, &serr)
}
