package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/pageza/foodgram/backend/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	req := &types.RegisterRequest{
		Email:     "cook@example.com",
		Username:  "cook",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Password:  "long-enough-password",
	}
	user, err := env.users.Register(ctx, req)
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "cook", user.Username)

	var profiles int64
	require.NoError(t, env.db.Model(&models.Profile{}).Where("user_id = ?", user.ID).Count(&profiles).Error)
	assert.Equal(t, int64(1), profiles)

	dup := *req
	dup.Username = "other"
	dup.Email = "COOK@example.com"
	_, err = env.users.Register(ctx, &dup)
	requireValidationField(t, err, "email")

	dup = *req
	dup.Email = "other@example.com"
	_, err = env.users.Register(ctx, &dup)
	requireValidationField(t, err, "username")
}

func TestGetUserProjection(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	alice := testhelpers.CreateUser(t, env.db, "alice")
	bob := testhelpers.CreateUser(t, env.db, "bob")

	_, err := env.users.Subscribe(ctx, types.UserViewer(bob.ID), alice.ID, 0)
	require.NoError(t, err)

	seenByBob, err := env.users.Get(ctx, types.UserViewer(bob.ID), alice.ID)
	require.NoError(t, err)
	assert.True(t, seenByBob.IsSubscribed)
	assert.Nil(t, seenByBob.Avatar)

	seenByAnonymous, err := env.users.Get(ctx, types.Anonymous(), alice.ID)
	require.NoError(t, err)
	assert.False(t, seenByAnonymous.IsSubscribed)

	_, err = env.users.Get(ctx, types.Anonymous(), bob.ID+100)
	assert.ErrorIs(t, err, service.ErrNotFound)

	me, err := env.users.Me(ctx, types.UserViewer(bob.ID))
	require.NoError(t, err)
	assert.Equal(t, "bob", me.Username)

	_, err = env.users.Me(ctx, types.Anonymous())
	assert.ErrorIs(t, err, service.ErrUnauthenticated)

	list, total, err := env.users.List(ctx, types.UserViewer(bob.ID), types.PageRequest{Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, list, 1)
	assert.Equal(t, alice.ID, list[0].ID)
	assert.True(t, list[0].IsSubscribed)
}

func TestSelfSubscriptionAlwaysFails(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	alice := testhelpers.CreateUser(t, env.db, "alice")
	viewer := types.UserViewer(alice.ID)

	_, err := env.users.Subscribe(ctx, viewer, alice.ID, 0)
	requireStateError(t, err)

	// a pre-existing row cannot exist because of the check constraint
	err = env.db.Create(&models.Subscription{UserID: alice.ID, AuthorID: alice.ID}).Error
	assert.Error(t, err)

	_, err = env.users.Subscribe(ctx, viewer, alice.ID, 0)
	requireStateError(t, err)
}

func TestSubscriptionToggle(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	alice := testhelpers.CreateUser(t, env.db, "alice")
	bob := testhelpers.CreateUser(t, env.db, "bob")
	viewer := types.UserViewer(bob.ID)

	for i := 0; i < 3; i++ {
		testhelpers.CreateRecipe(t, env.db, alice, "r"+itoa(uint(i)), nil)
	}

	sub, err := env.users.Subscribe(ctx, viewer, alice.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, sub.ID)
	assert.True(t, sub.IsSubscribed)
	assert.Equal(t, int64(3), sub.RecipesCount)
	require.Len(t, sub.Recipes, 2)
	assert.Equal(t, "r2", sub.Recipes[0].Name)

	_, err = env.users.Subscribe(ctx, viewer, alice.ID, 0)
	requireStateError(t, err)

	_, err = env.users.Subscribe(ctx, viewer, alice.ID+100, 0)
	assert.ErrorIs(t, err, service.ErrNotFound)

	subs, total, err := env.users.Subscriptions(ctx, viewer, types.PageRequest{Limit: 6}, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, subs, 1)
	assert.Len(t, subs[0].Recipes, 3)

	require.NoError(t, env.users.Unsubscribe(ctx, viewer, alice.ID))
	requireStateError(t, env.users.Unsubscribe(ctx, viewer, alice.ID))

	subs, total, err = env.users.Subscriptions(ctx, viewer, types.PageRequest{Limit: 6}, 0)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, subs)
}

func TestSetPassword(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	user := testhelpers.CreateUser(t, env.db, "cook")
	viewer := types.UserViewer(user.ID)

	err := env.users.SetPassword(ctx, viewer, &types.SetPasswordRequest{CurrentPassword: "wrong", NewPassword: "brand-new-pass"})
	requireValidationField(t, err, "current_password")

	err = env.users.SetPassword(ctx, viewer, &types.SetPasswordRequest{CurrentPassword: testhelpers.TestPassword, NewPassword: "brand-new-pass"})
	require.NoError(t, err)

	auth := service.NewAuthService(env.db, nil, "secret", 0)
	_, err = auth.Login(ctx, &types.LoginRequest{Email: user.Email, Password: testhelpers.TestPassword})
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	// re-submitting the current password is allowed
	err = env.users.SetPassword(ctx, viewer, &types.SetPasswordRequest{CurrentPassword: "brand-new-pass", NewPassword: "brand-new-pass"})
	require.NoError(t, err)
	_, err = auth.Login(ctx, &types.LoginRequest{Email: user.Email, Password: "brand-new-pass"})
	assert.NoError(t, err)
}

func TestAvatarLifecycle(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	user := testhelpers.CreateUser(t, env.db, "cook")
	viewer := types.UserViewer(user.ID)

	avatar, err := env.users.Avatar(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, avatar.Avatar)

	// nothing to delete yet
	require.NoError(t, env.users.DeleteAvatar(ctx, viewer))

	set, err := env.users.SetAvatar(ctx, viewer, testhelpers.PNGDataURI)
	require.NoError(t, err)
	require.NotNil(t, set.Avatar)
	assert.True(t, strings.HasPrefix(*set.Avatar, mediaURL+"/users/avatars/"))

	got, err := env.users.Get(ctx, types.Anonymous(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, set.Avatar, got.Avatar)

	_, err = env.users.SetAvatar(ctx, viewer, "not-a-data-uri")
	requireValidationField(t, err, "avatar")

	require.NoError(t, env.users.DeleteAvatar(ctx, viewer))
	require.NoError(t, env.users.DeleteAvatar(ctx, viewer))

	avatar, err = env.users.Avatar(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, avatar.Avatar)
}
