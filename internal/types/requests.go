package types

// LoginRequest represents the request body for obtaining a token
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest represents the request body for creating a user
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email,max=254"`
	Username  string `json:"username" binding:"required,max=150,username"`
	FirstName string `json:"first_name" binding:"required,max=150"`
	LastName  string `json:"last_name" binding:"required,max=150"`
	Password  string `json:"password" binding:"required,min=8,max=128"`
}

// SetPasswordRequest represents the request body for changing the password
type SetPasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8,max=128"`
}

// AvatarRequest carries a base64 data URI
type AvatarRequest struct {
	Avatar string `json:"avatar" binding:"required"`
}

// RecipeIngredientInput is one (ingredient, amount) pair of a recipe write
type RecipeIngredientInput struct {
	ID     uint `json:"id"`
	Amount int  `json:"amount"`
}

// RecipeWriteRequest is the write representation of a recipe. A nil field
// was not supplied; on update it leaves the stored value untouched.
type RecipeWriteRequest struct {
	Ingredients *[]RecipeIngredientInput `json:"ingredients"`
	Tags        *[]uint                  `json:"tags"`
	Image       *string                  `json:"image"`
	Name        *string                  `json:"name"`
	Text        *string                  `json:"text"`
	CookingTime *int                     `json:"cooking_time"`
}

// PageRequest holds limit/offset pagination parameters. Limit 0 means
// "not given".
type PageRequest struct {
	Limit  int
	Offset int
}

// RecipeFilter holds the query filters of the recipe list
type RecipeFilter struct {
	AuthorID         uint
	Tags             []string
	// nil leaves the list unfiltered; false excludes the viewer's pairs
	IsFavorited      *bool
	IsInShoppingCart *bool
	Search           string
}
