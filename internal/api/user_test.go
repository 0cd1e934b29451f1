package api_test

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/pageza/foodgram/backend/internal/types"
)

func userPath(id uint, suffix string) string {
	return "/api/users/" + strconv.FormatUint(uint64(id), 10) + "/" + suffix
}

func TestRegisterAndLogin(t *testing.T) {
	srv := setupServer(t)

	body := map[string]any{
		"email":      "cook@example.com",
		"username":   "cook",
		"first_name": "Ada",
		"last_name":  "Lovelace",
		"password":   "long-enough-password",
	}
	w := srv.do(t, http.MethodPost, "/api/users/", "", body)
	requireStatus(t, w, http.StatusCreated)
	registered := decode[types.RegisterResponse](t, w)
	assert.Equal(t, "cook", registered.Username)

	w = srv.do(t, http.MethodPost, "/api/users/", "", body)
	requireStatus(t, w, http.StatusBadRequest)
	assert.Contains(t, decode[map[string][]string](t, w), "email")

	bad := map[string]any{"email": "nope", "username": "bad name!", "password": "short"}
	w = srv.do(t, http.MethodPost, "/api/users/", "", bad)
	requireStatus(t, w, http.StatusBadRequest)
	fields := decode[map[string][]string](t, w)
	for _, field := range []string{"email", "username", "first_name", "last_name", "password"} {
		assert.Contains(t, fields, field)
	}

	w = srv.do(t, http.MethodPost, "/api/auth/token/login/", "", map[string]any{"email": "cook@example.com", "password": "long-enough-password"})
	requireStatus(t, w, http.StatusOK)
	token := decode[types.TokenResponse](t, w)
	require.NotEmpty(t, token.AuthToken)

	w = srv.do(t, http.MethodGet, "/api/users/me/", "Token "+token.AuthToken, nil)
	requireStatus(t, w, http.StatusOK)
	assert.Equal(t, registered.ID, decode[types.UserResponse](t, w).ID)

	w = srv.do(t, http.MethodPost, "/api/auth/token/login/", "", map[string]any{"email": "cook@example.com", "password": "wrong"})
	requireStatus(t, w, http.StatusBadRequest)

	requireStatus(t, srv.do(t, http.MethodPost, "/api/auth/token/logout/", "Token "+token.AuthToken, nil), http.StatusNoContent)
	requireStatus(t, srv.do(t, http.MethodPost, "/api/auth/token/logout/", "", nil), http.StatusUnauthorized)
}

func TestUserEndpoints(t *testing.T) {
	srv := setupServer(t)
	alice := testhelpers.CreateUser(t, srv.db, "alice")
	bob := testhelpers.CreateUser(t, srv.db, "bob")
	token := srv.token(t, bob)

	w := srv.do(t, http.MethodGet, "/api/users/", "", nil)
	requireStatus(t, w, http.StatusOK)
	page := decode[types.Page[types.UserResponse]](t, w)
	assert.Equal(t, int64(2), page.Count)

	requireStatus(t, srv.do(t, http.MethodGet, userPath(alice.ID, ""), "", nil), http.StatusOK)
	requireStatus(t, srv.do(t, http.MethodGet, userPath(999, ""), "", nil), http.StatusNotFound)
	requireStatus(t, srv.do(t, http.MethodGet, "/api/users/me/", "", nil), http.StatusUnauthorized)

	w = srv.do(t, http.MethodPost, "/api/users/set_password/", token, map[string]any{
		"current_password": "wrong-password",
		"new_password":     "another-password",
	})
	requireStatus(t, w, http.StatusBadRequest)
	assert.Contains(t, decode[map[string][]string](t, w), "current_password")

	w = srv.do(t, http.MethodPost, "/api/users/set_password/", token, map[string]any{
		"current_password": testhelpers.TestPassword,
		"new_password":     "another-password",
	})
	requireStatus(t, w, http.StatusNoContent)
}

func TestAvatarEndpoints(t *testing.T) {
	srv := setupServer(t)
	user := testhelpers.CreateUser(t, srv.db, "cook")
	token := srv.token(t, user)

	w := srv.do(t, http.MethodPut, "/api/users/me/avatar/", token, map[string]any{"avatar": testhelpers.PNGDataURI})
	requireStatus(t, w, http.StatusOK)
	avatar := decode[types.AvatarResponse](t, w)
	require.NotNil(t, avatar.Avatar)

	w = srv.do(t, http.MethodGet, userPath(user.ID, "avatar/"), "", nil)
	requireStatus(t, w, http.StatusOK)
	assert.Equal(t, avatar.Avatar, decode[types.AvatarResponse](t, w).Avatar)

	requireStatus(t, srv.do(t, http.MethodPut, "/api/users/me/avatar/", token, map[string]any{}), http.StatusBadRequest)
	requireStatus(t, srv.do(t, http.MethodDelete, "/api/users/me/avatar/", token, nil), http.StatusNoContent)
	requireStatus(t, srv.do(t, http.MethodDelete, "/api/users/me/avatar/", token, nil), http.StatusNoContent)

	w = srv.do(t, http.MethodGet, "/api/users/me/avatar/", token, nil)
	requireStatus(t, w, http.StatusOK)
	assert.JSONEq(t, `{"avatar":null}`, w.Body.String())
}

func TestSubscriptionEndpoints(t *testing.T) {
	srv := setupServer(t)
	alice := testhelpers.CreateUser(t, srv.db, "alice")
	bob := testhelpers.CreateUser(t, srv.db, "bob")
	for i := 0; i < 3; i++ {
		testhelpers.CreateRecipe(t, srv.db, alice, "dish"+strconv.Itoa(i), nil)
	}
	token := srv.token(t, bob)

	w := srv.do(t, http.MethodPost, userPath(alice.ID, "subscribe/?recipes_limit=1"), token, nil)
	requireStatus(t, w, http.StatusCreated)
	sub := decode[types.SubscriptionResponse](t, w)
	assert.True(t, sub.IsSubscribed)
	assert.Len(t, sub.Recipes, 1)
	assert.Equal(t, int64(3), sub.RecipesCount)

	requireStatus(t, srv.do(t, http.MethodPost, userPath(alice.ID, "subscribe/"), token, nil), http.StatusBadRequest)
	requireStatus(t, srv.do(t, http.MethodPost, userPath(bob.ID, "subscribe/"), token, nil), http.StatusBadRequest)
	requireStatus(t, srv.do(t, http.MethodPost, userPath(999, "subscribe/"), token, nil), http.StatusNotFound)
	requireStatus(t, srv.do(t, http.MethodPost, userPath(alice.ID, "subscribe/?recipes_limit=x"), token, nil), http.StatusBadRequest)

	w = srv.do(t, http.MethodGet, "/api/users/subscriptions/?recipes_limit=2", token, nil)
	requireStatus(t, w, http.StatusOK)
	page := decode[types.Page[types.SubscriptionResponse]](t, w)
	require.Equal(t, int64(1), page.Count)
	assert.Len(t, page.Results[0].Recipes, 2)

	requireStatus(t, srv.do(t, http.MethodDelete, userPath(alice.ID, "subscribe/"), token, nil), http.StatusNoContent)
	requireStatus(t, srv.do(t, http.MethodDelete, userPath(alice.ID, "subscribe/"), token, nil), http.StatusBadRequest)
	requireStatus(t, srv.do(t, http.MethodGet, "/api/users/subscriptions/", "", nil), http.StatusUnauthorized)
}

func TestCatalogEndpoints(t *testing.T) {
	srv := setupServer(t)
	testhelpers.CreateIngredient(t, srv.db, "Salt", "g")
	sugar := testhelpers.CreateIngredient(t, srv.db, "Sugar", "g")
	tag := testhelpers.CreateTag(t, srv.db, "Lunch", "#49B64E", "lunch")

	w := srv.do(t, http.MethodGet, "/api/ingredients/?name=su", "", nil)
	requireStatus(t, w, http.StatusOK)
	ingredients := decode[[]types.IngredientResponse](t, w)
	require.Len(t, ingredients, 1)
	assert.Equal(t, sugar.ID, ingredients[0].ID)

	w = srv.do(t, http.MethodGet, "/api/ingredients/?limit=1", "", nil)
	assert.Len(t, decode[[]types.IngredientResponse](t, w), 1)

	requireStatus(t, srv.do(t, http.MethodGet, "/api/ingredients/"+strconv.FormatUint(uint64(sugar.ID), 10)+"/", "", nil), http.StatusOK)

	w = srv.do(t, http.MethodGet, "/api/tags/", "", nil)
	requireStatus(t, w, http.StatusOK)
	assert.Len(t, decode[[]types.TagResponse](t, w), 1)

	requireStatus(t, srv.do(t, http.MethodGet, "/api/tags/"+strconv.FormatUint(uint64(tag.ID), 10)+"/", "", nil), http.StatusOK)
	requireStatus(t, srv.do(t, http.MethodGet, "/api/tags/999/", "", nil), http.StatusNotFound)
}
