package service_test

import (
	"context"
	"strconv"
	"testing"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/pageza/foodgram/backend/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func TestShoppingListAggregation(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	cook := testhelpers.CreateUser(t, env.db, "cook")
	viewer := types.UserViewer(cook.ID)

	salt := testhelpers.CreateIngredient(t, env.db, "Salt", "g")
	sugar := testhelpers.CreateIngredient(t, env.db, "Sugar", "g")
	flour := testhelpers.CreateIngredient(t, env.db, "Flour", "g")

	a := testhelpers.CreateRecipe(t, env.db, cook, "A", map[uint]int{salt.ID: 10, sugar.ID: 5})
	b := testhelpers.CreateRecipe(t, env.db, cook, "B", map[uint]int{salt.ID: 20, flour.ID: 200})
	testhelpers.CreateRecipe(t, env.db, cook, "not-in-cart", map[uint]int{salt.ID: 1000})

	for _, id := range []uint{a.ID, b.ID} {
		_, err := env.recipes.AddToShoppingCart(ctx, viewer, id)
		require.NoError(t, err)
	}

	items, err := env.recipes.ShoppingList(ctx, viewer)
	require.NoError(t, err)
	assert.Equal(t, []types.ShoppingListItem{
		{Name: "Flour", MeasurementUnit: "g", Total: 200},
		{Name: "Salt", MeasurementUnit: "g", Total: 30},
		{Name: "Sugar", MeasurementUnit: "g", Total: 5},
	}, items)
}

func TestShoppingListIsSumOfParts(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	cook := testhelpers.CreateUser(t, env.db, "cook")
	viewer := types.UserViewer(cook.ID)

	salt := testhelpers.CreateIngredient(t, env.db, "Salt", "g")
	saltPinch := testhelpers.CreateIngredient(t, env.db, "Salt", "pinch")
	eggs := testhelpers.CreateIngredient(t, env.db, "Eggs", "pcs")

	r1 := testhelpers.CreateRecipe(t, env.db, cook, "r1", map[uint]int{salt.ID: 7, eggs.ID: 2})
	r2 := testhelpers.CreateRecipe(t, env.db, cook, "r2", map[uint]int{salt.ID: 32000, saltPinch.ID: 1, eggs.ID: 3})

	aggregate := func(ids ...uint) map[string]int64 {
		require.NoError(t, env.db.Where("user_id = ?", cook.ID).Delete(&models.ShoppingCart{}).Error)
		for _, id := range ids {
			_, err := env.recipes.AddToShoppingCart(ctx, viewer, id)
			require.NoError(t, err)
		}
		items, err := env.recipes.ShoppingList(ctx, viewer)
		require.NoError(t, err)
		out := make(map[string]int64, len(items))
		for _, item := range items {
			out[item.Name+"|"+item.MeasurementUnit] = item.Total
		}
		return out
	}

	left := aggregate(r1.ID)
	right := aggregate(r2.ID)
	merged := make(map[string]int64)
	for _, part := range []map[string]int64{left, right} {
		for k, v := range part {
			merged[k] += v
		}
	}

	assert.Equal(t, merged, aggregate(r1.ID, r2.ID))
	assert.Equal(t, merged, aggregate(r2.ID, r1.ID))
	assert.Equal(t, int64(32007), merged["Salt|g"])
	assert.Equal(t, int64(1), merged["Salt|pinch"])
}

func TestShoppingListEmptyCart(t *testing.T) {
	env := setupServices(t)
	cook := testhelpers.CreateUser(t, env.db, "cook")

	items, err := env.recipes.ShoppingList(context.Background(), types.UserViewer(cook.ID))
	require.NoError(t, err)
	assert.Empty(t, items)
}
