package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

const (
	MinAmount      = 1
	MaxAmount      = 32000
	MinCookingTime = 1
	MaxCookingTime = 32000

	maxRecipeNameLength = 200

	msgRequired = "This field is required."
	msgBlank    = "This field may not be blank."
)

// recipeWrite is a validated recipe payload. Nil fields were not supplied.
type recipeWrite struct {
	name        *string
	text        *string
	cookingTime *int
	image       *DecodedImage
	ingredients []types.RecipeIngredientInput
	tags        []models.Tag
	hasTags     bool
}

// validateRecipeWrite checks a recipe payload. On create every field except
// tags is required; on update only supplied fields are checked.
func (s *RecipeService) validateRecipeWrite(ctx context.Context, req *types.RecipeWriteRequest, create bool) (*recipeWrite, error) {
	verr := &ValidationError{}
	out := &recipeWrite{}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		switch {
		case name == "":
			verr.Add("name", msgBlank)
		case utf8.RuneCountInString(name) > maxRecipeNameLength:
			verr.Add("name", fmt.Sprintf("Ensure this field has no more than %d characters.", maxRecipeNameLength))
		default:
			out.name = &name
		}
	} else if create {
		verr.Add("name", msgRequired)
	}

	if req.Text != nil {
		text := strings.TrimSpace(*req.Text)
		if text == "" {
			verr.Add("text", msgBlank)
		} else {
			out.text = &text
		}
	} else if create {
		verr.Add("text", msgRequired)
	}

	if req.CookingTime != nil {
		if *req.CookingTime < MinCookingTime || *req.CookingTime > MaxCookingTime {
			verr.Add("cooking_time", fmt.Sprintf("Cooking time must be between %d and %d.", MinCookingTime, MaxCookingTime))
		} else {
			out.cookingTime = req.CookingTime
		}
	} else if create {
		verr.Add("cooking_time", msgRequired)
	}

	switch {
	case req.Image != nil && strings.TrimSpace(*req.Image) != "":
		img, err := DecodeDataURI(strings.TrimSpace(*req.Image))
		if err != nil {
			verr.Add("image", err.Error())
		} else {
			out.image = img
		}
	case req.Image != nil:
		verr.Add("image", msgBlank)
	case create:
		verr.Add("image", msgRequired)
	}

	if req.Ingredients != nil {
		ingredients, err := s.validateIngredients(ctx, *req.Ingredients, verr)
		if err != nil {
			return nil, err
		}
		out.ingredients = ingredients
	} else if create {
		verr.Add("ingredients", msgRequired)
	}

	if req.Tags != nil {
		tags, err := s.validateTags(ctx, *req.Tags, verr)
		if err != nil {
			return nil, err
		}
		out.tags = tags
		out.hasTags = true
	}

	if err := verr.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *RecipeService) validateIngredients(ctx context.Context, items []types.RecipeIngredientInput, verr *ValidationError) ([]types.RecipeIngredientInput, error) {
	if len(items) == 0 {
		verr.Add("ingredients", "At least one ingredient is required.")
		return nil, nil
	}

	seen := make(map[uint]bool, len(items))
	ids := make([]uint, 0, len(items))
	valid := true
	for _, item := range items {
		if item.Amount < MinAmount || item.Amount > MaxAmount {
			verr.Add("ingredients", fmt.Sprintf("Amount must be between %d and %d.", MinAmount, MaxAmount))
			valid = false
		}
		if seen[item.ID] {
			verr.Add("ingredients", fmt.Sprintf("Ingredient %d is listed more than once.", item.ID))
			valid = false
			continue
		}
		seen[item.ID] = true
		ids = append(ids, item.ID)
	}

	missing, err := s.missingIDs(ctx, &models.Ingredient{}, ids)
	if err != nil {
		return nil, err
	}
	for _, id := range missing {
		verr.Add("ingredients", fmt.Sprintf("Ingredient with id %d does not exist.", id))
		valid = false
	}

	if !valid {
		return nil, nil
	}
	return items, nil
}

func (s *RecipeService) validateTags(ctx context.Context, ids []uint, verr *ValidationError) ([]models.Tag, error) {
	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			verr.Add("tags", fmt.Sprintf("Tag %d is listed more than once.", id))
			return nil, nil
		}
		seen[id] = true
	}
	if len(ids) == 0 {
		return []models.Tag{}, nil
	}

	var tags []models.Tag
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Order("name").Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("failed to load tags: %w", err)
	}
	if len(tags) != len(ids) {
		found := make(map[uint]bool, len(tags))
		for _, t := range tags {
			found[t.ID] = true
		}
		for _, id := range ids {
			if !found[id] {
				verr.Add("tags", fmt.Sprintf("Tag with id %d does not exist.", id))
			}
		}
		return nil, nil
	}
	return tags, nil
}

// missingIDs returns the ids that have no row in model's table.
func (s *RecipeService) missingIDs(ctx context.Context, model interface{}, ids []uint) ([]uint, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []uint
	if err := s.db.WithContext(ctx).Model(model).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return nil, fmt.Errorf("failed to check ids: %w", err)
	}
	present := make(map[uint]bool, len(found))
	for _, id := range found {
		present[id] = true
	}
	var missing []uint
	for _, id := range ids {
		if !present[id] {
			missing = append(missing, id)
		}
	}
	return missing, nil
}
