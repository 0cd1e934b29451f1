package api_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/api"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/storage"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

type testServer struct {
	router *gin.Engine
	db     *gorm.DB
	auth   *service.AuthService
}

func init() {
	gin.SetMode(gin.TestMode)
}

func setupServer(t *testing.T) *testServer {
	t.Helper()
	db := testhelpers.SetupSQLite(t)
	store, err := storage.NewLocalStore(t.TempDir(), "http://testserver/media")
	require.NoError(t, err)

	images := service.NewImageService(store)
	users := service.NewUserService(db, images)
	auth := service.NewAuthService(db, nil, "test-secret", time.Hour)

	router := gin.New()
	api.RegisterRoutes(router, api.Services{
		Auth:    auth,
		Users:   users,
		Recipes: service.NewRecipeService(db, images, users),
		Catalog: service.NewCatalogService(db),
	})
	return &testServer{router: router, db: db, auth: auth}
}

// token returns an Authorization header value for user.
func (s *testServer) token(t *testing.T, user *models.User) string {
	t.Helper()
	tok, err := s.auth.GenerateToken(user)
	require.NoError(t, err)
	return "Token " + tok
}

func (s *testServer) do(t *testing.T, method, path, auth string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func recipeBody(ingredientID uint) map[string]any {
	return map[string]any{
		"ingredients":  []map[string]any{{"id": ingredientID, "amount": 10}},
		"tags":         []uint{},
		"image":        testhelpers.PNGDataURI,
		"name":         "Pancakes",
		"text":         "Mix and fry.",
		"cooking_time": 15,
	}
}

func requireStatus(t *testing.T, w *httptest.ResponseRecorder, status int) {
	t.Helper()
	require.Equal(t, status, w.Code, w.Body.String())
}

