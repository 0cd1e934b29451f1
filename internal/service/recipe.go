package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RecipeService struct {
	db        *gorm.DB
	images    *ImageService
	users     *UserService
	favorites *PairStore[models.Favorite]
	carts     *PairStore[models.ShoppingCart]
}

func NewRecipeService(db *gorm.DB, images *ImageService, users *UserService) *RecipeService {
	return &RecipeService{
		db:     db,
		images: images,
		users:  users,
		favorites: NewPairStore("user_id", "recipe_id",
			func(user, recipe uint) *models.Favorite {
				return &models.Favorite{UserID: user, RecipeID: recipe}
			},
			"Recipe is already in favorites",
			"Recipe is not in favorites",
		),
		carts: NewPairStore("user_id", "recipe_id",
			func(user, recipe uint) *models.ShoppingCart {
				return &models.ShoppingCart{UserID: user, RecipeID: recipe}
			},
			"Recipe is already in the shopping cart",
			"Recipe is not in the shopping cart",
		),
	}
}

// CreateRecipe stores a recipe authored by the viewer and returns its read
// representation.
func (s *RecipeService) CreateRecipe(ctx context.Context, viewer types.Viewer, req *types.RecipeWriteRequest) (*types.RecipeResponse, error) {
	if !viewer.IsAuthenticated() {
		return nil, ErrUnauthenticated
	}
	in, err := s.validateRecipeWrite(ctx, req, true)
	if err != nil {
		return nil, err
	}

	key, err := s.images.Save(ctx, recipeImagePrefix, in.image)
	if err != nil {
		return nil, fmt.Errorf("failed to store recipe image: %w", err)
	}

	recipe := models.Recipe{
		AuthorID:    viewer.UserID,
		Name:        *in.name,
		Text:        *in.text,
		CookingTime: *in.cookingTime,
		Image:       key,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&recipe).Error; err != nil {
			return fmt.Errorf("failed to create recipe: %w", err)
		}
		if err := replaceIngredients(tx, recipe.ID, in.ingredients); err != nil {
			return err
		}
		if in.hasTags {
			if err := replaceTags(tx, &recipe, in.tags); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.images.Remove(ctx, key)
		return nil, err
	}

	return s.GetRecipe(ctx, viewer, recipe.ID)
}

// UpdateRecipe applies the supplied fields. A supplied ingredient list
// replaces the stored one inside the same transaction.
func (s *RecipeService) UpdateRecipe(ctx context.Context, viewer types.Viewer, id uint, req *types.RecipeWriteRequest) (*types.RecipeResponse, error) {
	recipe, err := s.ownedRecipe(ctx, viewer, id)
	if err != nil {
		return nil, err
	}
	in, err := s.validateRecipeWrite(ctx, req, false)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.name != nil {
		updates["name"] = *in.name
	}
	if in.text != nil {
		updates["text"] = *in.text
	}
	if in.cookingTime != nil {
		updates["cooking_time"] = *in.cookingTime
	}

	var newKey string
	if in.image != nil {
		if newKey, err = s.images.Save(ctx, recipeImagePrefix, in.image); err != nil {
			return nil, fmt.Errorf("failed to store recipe image: %w", err)
		}
		updates["image"] = newKey
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(recipe).Omit(clause.Associations).Updates(updates).Error; err != nil {
				return fmt.Errorf("failed to update recipe: %w", err)
			}
		}
		if in.ingredients != nil {
			if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
				return fmt.Errorf("failed to clear recipe ingredients: %w", err)
			}
			if err := replaceIngredients(tx, recipe.ID, in.ingredients); err != nil {
				return err
			}
		}
		if in.hasTags {
			if err := replaceTags(tx, recipe, in.tags); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.images.Remove(ctx, newKey)
		return nil, err
	}
	if newKey != "" {
		s.images.Remove(ctx, recipe.Image)
	}

	return s.GetRecipe(ctx, viewer, recipe.ID)
}

// DeleteRecipe removes the recipe with its ingredient rows, tag links,
// favorites and cart entries.
func (s *RecipeService) DeleteRecipe(ctx context.Context, viewer types.Viewer, id uint) error {
	recipe, err := s.ownedRecipe(ctx, viewer, id)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{&models.RecipeIngredient{}, &models.Favorite{}, &models.ShoppingCart{}} {
			if err := tx.Where("recipe_id = ?", recipe.ID).Delete(model).Error; err != nil {
				return fmt.Errorf("failed to delete recipe relations: %w", err)
			}
		}
		if err := tx.Model(recipe).Association("Tags").Clear(); err != nil {
			return fmt.Errorf("failed to delete recipe tags: %w", err)
		}
		if err := tx.Delete(recipe).Error; err != nil {
			return fmt.Errorf("failed to delete recipe: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.images.Remove(ctx, recipe.Image)
	return nil
}

func (s *RecipeService) GetRecipe(ctx context.Context, viewer types.Viewer, id uint) (*types.RecipeResponse, error) {
	var recipe models.Recipe
	if err := s.withDetails(s.db.WithContext(ctx)).First(&recipe, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load recipe: %w", err)
	}
	out, err := s.project(ctx, viewer, []models.Recipe{recipe})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

// ListRecipes returns one page of recipes, newest first. The is_favorited
// and is_in_shopping_cart filters are ignored for anonymous viewers.
func (s *RecipeService) ListRecipes(ctx context.Context, viewer types.Viewer, filter types.RecipeFilter, page types.PageRequest) ([]types.RecipeResponse, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.Recipe{})

	if filter.AuthorID != 0 {
		q = q.Where("recipes.author_id = ?", filter.AuthorID)
	}
	if len(filter.Tags) > 0 {
		tagged := s.db.Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", filter.Tags)
		q = q.Where("recipes.id IN (?)", tagged)
	}
	if viewer.IsAuthenticated() {
		q = pairFilter(q, filter.IsFavorited, s.favorites.LeftScope(s.db, viewer.UserID))
		q = pairFilter(q, filter.IsInShoppingCart, s.carts.LeftScope(s.db, viewer.UserID))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + escapeLike(strings.ToLower(search)) + "%"
		authors := s.db.Model(&models.User{}).Select("id").Where(`LOWER(username) LIKE ? ESCAPE '\'`, pattern)
		q = q.Where(`LOWER(recipes.name) LIKE ? ESCAPE '\' OR recipes.author_id IN (?)`, pattern, authors)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count recipes: %w", err)
	}

	var recipes []models.Recipe
	err := s.withDetails(q).Order("recipes.id DESC").Limit(page.Limit).Offset(page.Offset).Find(&recipes).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list recipes: %w", err)
	}

	out, err := s.project(ctx, viewer, recipes)
	return out, total, err
}

func (s *RecipeService) AddFavorite(ctx context.Context, viewer types.Viewer, id uint) (*types.RecipeShortResponse, error) {
	return s.addPair(ctx, viewer, id, s.favorites.Add)
}

func (s *RecipeService) RemoveFavorite(ctx context.Context, viewer types.Viewer, id uint) error {
	return s.removePair(ctx, viewer, id, s.favorites.Remove)
}

func (s *RecipeService) AddToShoppingCart(ctx context.Context, viewer types.Viewer, id uint) (*types.RecipeShortResponse, error) {
	return s.addPair(ctx, viewer, id, s.carts.Add)
}

func (s *RecipeService) RemoveFromShoppingCart(ctx context.Context, viewer types.Viewer, id uint) error {
	return s.removePair(ctx, viewer, id, s.carts.Remove)
}

// ShortLink returns the absolute URL of the recipe under baseURL.
func (s *RecipeService) ShortLink(ctx context.Context, id uint, baseURL string) (*types.ShortLinkResponse, error) {
	if _, err := s.findRecipe(ctx, id); err != nil {
		return nil, err
	}
	return &types.ShortLinkResponse{
		ShortLink: fmt.Sprintf("%s/api/recipes/%d/", strings.TrimRight(baseURL, "/"), id),
	}, nil
}

type pairFunc func(ctx context.Context, db *gorm.DB, left, right uint) error

func (s *RecipeService) addPair(ctx context.Context, viewer types.Viewer, id uint, add pairFunc) (*types.RecipeShortResponse, error) {
	if !viewer.IsAuthenticated() {
		return nil, ErrUnauthenticated
	}
	recipe, err := s.findRecipe(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := add(ctx, s.db, viewer.UserID, recipe.ID); err != nil {
		return nil, err
	}
	short := shortRecipe(s.images, recipe)
	return &short, nil
}

func (s *RecipeService) removePair(ctx context.Context, viewer types.Viewer, id uint, remove pairFunc) error {
	if !viewer.IsAuthenticated() {
		return ErrUnauthenticated
	}
	if _, err := s.findRecipe(ctx, id); err != nil {
		return err
	}
	return remove(ctx, s.db, viewer.UserID, id)
}

func (s *RecipeService) findRecipe(ctx context.Context, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load recipe: %w", err)
	}
	return &recipe, nil
}

func (s *RecipeService) ownedRecipe(ctx context.Context, viewer types.Viewer, id uint) (*models.Recipe, error) {
	if !viewer.IsAuthenticated() {
		return nil, ErrUnauthenticated
	}
	recipe, err := s.findRecipe(ctx, id)
	if err != nil {
		return nil, err
	}
	if recipe.AuthorID != viewer.UserID {
		return nil, ErrForbidden
	}
	return recipe, nil
}

func (s *RecipeService) withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Author.Profile").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.name") }).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("recipe_ingredients.id") }).
		Preload("Ingredients.Ingredient")
}

// project renders recipes for viewer. Favorite and cart flags are loaded in
// one query each and are false for anonymous viewers.
func (s *RecipeService) project(ctx context.Context, viewer types.Viewer, recipes []models.Recipe) ([]types.RecipeResponse, error) {
	ids := make([]uint, len(recipes))
	authors := make([]models.User, 0, len(recipes))
	seen := make(map[uint]bool)
	for i, r := range recipes {
		ids[i] = r.ID
		if !seen[r.AuthorID] {
			seen[r.AuthorID] = true
			authors = append(authors, r.Author)
		}
	}

	projected, err := s.users.project(ctx, viewer, authors)
	if err != nil {
		return nil, err
	}
	authorByID := make(map[uint]types.UserResponse, len(projected))
	for _, a := range projected {
		authorByID[a.ID] = a
	}

	favorited, err := s.favorites.RightsOf(ctx, s.db, viewer.UserID, ids)
	if err != nil {
		return nil, err
	}
	inCart, err := s.carts.RightsOf(ctx, s.db, viewer.UserID, ids)
	if err != nil {
		return nil, err
	}

	out := make([]types.RecipeResponse, len(recipes))
	for i, r := range recipes {
		tags := make([]types.TagResponse, len(r.Tags))
		for j, t := range r.Tags {
			tags[j] = tagResponse(&t)
		}
		ingredients := make([]types.RecipeIngredientResponse, len(r.Ingredients))
		for j, ri := range r.Ingredients {
			ingredients[j] = types.RecipeIngredientResponse{
				ID:              ri.IngredientID,
				Name:            ri.Ingredient.Name,
				MeasurementUnit: ri.Ingredient.MeasurementUnit,
				Amount:          ri.Amount,
			}
		}

		out[i] = types.RecipeResponse{
			ID:               r.ID,
			Tags:             tags,
			Author:           authorByID[r.AuthorID],
			Ingredients:      ingredients,
			IsFavorited:      favorited[r.ID],
			IsInShoppingCart: inCart[r.ID],
			Name:             r.Name,
			Image:            s.images.store.URL(r.Image),
			Text:             r.Text,
			CookingTime:      r.CookingTime,
		}
	}
	return out, nil
}

// pairFilter keeps (want true) or drops (want false) the recipes selected by
// scope. A nil want leaves q unchanged.
func pairFilter(q *gorm.DB, want *bool, scope *gorm.DB) *gorm.DB {
	switch {
	case want == nil:
		return q
	case *want:
		return q.Where("recipes.id IN (?)", scope)
	default:
		return q.Where("recipes.id NOT IN (?)", scope)
	}
}

func replaceIngredients(tx *gorm.DB, recipeID uint, items []types.RecipeIngredientInput) error {
	rows := make([]models.RecipeIngredient, len(items))
	for i, item := range items {
		rows[i] = models.RecipeIngredient{RecipeID: recipeID, IngredientID: item.ID, Amount: item.Amount}
	}
	if err := tx.Omit(clause.Associations).Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to store recipe ingredients: %w", err)
	}
	return nil
}

func replaceTags(tx *gorm.DB, recipe *models.Recipe, tags []models.Tag) error {
	if err := tx.Model(recipe).Omit("Tags.*").Association("Tags").Replace(tags); err != nil {
		return fmt.Errorf("failed to store recipe tags: %w", err)
	}
	return nil
}

func shortRecipe(images *ImageService, r *models.Recipe) types.RecipeShortResponse {
	return types.RecipeShortResponse{
		ID:          r.ID,
		Name:        r.Name,
		Image:       images.store.URL(r.Image),
		CookingTime: r.CookingTime,
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
