package main

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/foodgram/backend/internal/models"
)

type demoUser struct {
	username  string
	firstName string
	lastName  string
}

type demoRecipe struct {
	author      string
	name        string
	text        string
	cookingTime int
	tag         string
	ingredients map[[2]string]int
}

var demoUsers = []demoUser{
	{"johndoe", "John", "Doe"},
	{"janesmith", "Jane", "Smith"},
	{"bobwilson", "Bob", "Wilson"},
}

var demoTags = []models.Tag{
	{Name: "Breakfast", Color: "#E26C2D", Slug: "breakfast"},
	{Name: "Lunch", Color: "#49B64E", Slug: "lunch"},
	{Name: "Dinner", Color: "#8775D2", Slug: "dinner"},
}

var demoRecipes = []demoRecipe{
	{
		author: "johndoe", name: "Buttermilk pancakes", cookingTime: 25, tag: "breakfast",
		text: "Whisk the dry ingredients, fold in buttermilk and eggs, fry in butter.",
		ingredients: map[[2]string]int{
			{"flour", "g"}: 200, {"buttermilk", "ml"}: 300, {"eggs", "pcs"}: 2, {"sugar", "g"}: 20,
		},
	},
	{
		author: "janesmith", name: "Tomato soup", cookingTime: 40, tag: "lunch",
		text: "Roast the tomatoes with garlic, blend with stock and season.",
		ingredients: map[[2]string]int{
			{"tomatoes", "g"}: 800, {"garlic", "cloves"}: 3, {"vegetable stock", "ml"}: 500, {"salt", "g"}: 5,
		},
	},
	{
		author: "bobwilson", name: "Garlic butter pasta", cookingTime: 20, tag: "dinner",
		text: "Boil the pasta, toss with garlic butter and parmesan.",
		ingredients: map[[2]string]int{
			{"spaghetti", "g"}: 250, {"butter", "g"}: 50, {"garlic", "cloves"}: 4, {"salt", "g"}: 5,
		},
	},
}

type seedSummary struct {
	users   int
	recipes int
}

func seed(db *gorm.DB, password string) (seedSummary, error) {
	var summary seedSummary

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return summary, fmt.Errorf("hash password: %w", err)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&demoTags).Error; err != nil {
			return fmt.Errorf("create tags: %w", err)
		}

		authors := make(map[string]*models.User, len(demoUsers))
		for _, u := range demoUsers {
			user, created, err := ensureUser(tx, u, string(hash))
			if err != nil {
				return err
			}
			authors[u.username] = user
			if created {
				summary.users++
			}
		}

		for _, r := range demoRecipes {
			created, err := ensureRecipe(tx, authors[r.author], r)
			if err != nil {
				return err
			}
			if created {
				summary.recipes++
			}
		}
		return nil
	})
	return summary, err
}

func ensureUser(tx *gorm.DB, u demoUser, hash string) (*models.User, bool, error) {
	var user models.User
	err := tx.Where("username = ?", u.username).First(&user).Error
	if err == nil {
		return &user, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("load user %s: %w", u.username, err)
	}

	user = models.User{
		Email:        u.username + "@example.com",
		Username:     u.username,
		FirstName:    u.firstName,
		LastName:     u.lastName,
		PasswordHash: hash,
	}
	if err := tx.Create(&user).Error; err != nil {
		return nil, false, fmt.Errorf("create user %s: %w", u.username, err)
	}
	return &user, true, nil
}

func ensureRecipe(tx *gorm.DB, author *models.User, r demoRecipe) (bool, error) {
	var count int64
	if err := tx.Model(&models.Recipe{}).Where("author_id = ? AND name = ?", author.ID, r.name).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check recipe %s: %w", r.name, err)
	}
	if count > 0 {
		return false, nil
	}

	var tag models.Tag
	if err := tx.Where("slug = ?", r.tag).First(&tag).Error; err != nil {
		return false, fmt.Errorf("load tag %s: %w", r.tag, err)
	}

	recipe := models.Recipe{
		AuthorID:    author.ID,
		Name:        r.name,
		Text:        r.text,
		CookingTime: r.cookingTime,
	}
	if err := tx.Omit(clause.Associations).Create(&recipe).Error; err != nil {
		return false, fmt.Errorf("create recipe %s: %w", r.name, err)
	}
	if err := tx.Model(&recipe).Omit("Tags.*").Association("Tags").Append(&tag); err != nil {
		return false, fmt.Errorf("tag recipe %s: %w", r.name, err)
	}

	for key, amount := range r.ingredients {
		ingredient := models.Ingredient{Name: key[0], MeasurementUnit: key[1]}
		if err := tx.Where(&ingredient).FirstOrCreate(&ingredient).Error; err != nil {
			return false, fmt.Errorf("ingredient %s: %w", key[0], err)
		}
		row := models.RecipeIngredient{RecipeID: recipe.ID, IngredientID: ingredient.ID, Amount: amount}
		if err := tx.Omit(clause.Associations).Create(&row).Error; err != nil {
			return false, fmt.Errorf("add %s to %s: %w", key[0], r.name, err)
		}
	}
	return true, nil
}
