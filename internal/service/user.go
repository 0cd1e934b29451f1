package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService handles registration, profiles, avatars and subscriptions.
type UserService struct {
	db            *gorm.DB
	images        *ImageService
	subscriptions *PairStore[models.Subscription]
}

func NewUserService(db *gorm.DB, images *ImageService) *UserService {
	return &UserService{
		db:     db,
		images: images,
		subscriptions: NewPairStore("user_id", "author_id",
			func(user, author uint) *models.Subscription {
				return &models.Subscription{UserID: user, AuthorID: author}
			},
			"You are already subscribed to this user",
			"You are not subscribed to this user",
		),
	}
}

// Register creates a user. Its profile is created by the model hook.
func (s *UserService) Register(ctx context.Context, req *types.RegisterRequest) (*types.RegisterResponse, error) {
	email := strings.TrimSpace(req.Email)
	username := strings.TrimSpace(req.Username)

	verr := &ValidationError{}
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("LOWER(email) = LOWER(?)", email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if count > 0 {
		verr.Add("email", "A user with that email already exists.")
	}
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if count > 0 {
		verr.Add("username", "A user with that username already exists.")
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Email:        email,
		Username:     username,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		PasswordHash: string(hash),
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, NewValidationError("username", "A user with that email or username already exists.")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &types.RegisterResponse{
		ID:        user.ID,
		Email:     user.Email,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}, nil
}

func (s *UserService) List(ctx context.Context, viewer types.Viewer, page types.PageRequest) ([]types.UserResponse, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	var users []models.User
	err := s.db.WithContext(ctx).Preload("Profile").
		Order("id").Limit(page.Limit).Offset(page.Offset).
		Find(&users).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	out, err := s.project(ctx, viewer, users)
	return out, total, err
}

func (s *UserService) Get(ctx context.Context, viewer types.Viewer, id uint) (*types.UserResponse, error) {
	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	out, err := s.project(ctx, viewer, []models.User{*user})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

// Me returns the current user's own projection.
func (s *UserService) Me(ctx context.Context, viewer types.Viewer) (*types.UserResponse, error) {
	if !viewer.IsAuthenticated() {
		return nil, ErrUnauthenticated
	}
	return s.Get(ctx, viewer, viewer.UserID)
}

func (s *UserService) Avatar(ctx context.Context, id uint) (*types.AvatarResponse, error) {
	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return &types.AvatarResponse{Avatar: s.images.URL(user.Profile.Avatar)}, nil
}

// SetAvatar replaces the viewer's avatar with the decoded data URI.
func (s *UserService) SetAvatar(ctx context.Context, viewer types.Viewer, dataURI string) (*types.AvatarResponse, error) {
	if !viewer.IsAuthenticated() {
		return nil, ErrUnauthenticated
	}
	img, err := DecodeDataURI(dataURI)
	if err != nil {
		return nil, NewValidationError("avatar", err.Error())
	}

	user, err := s.find(ctx, viewer.UserID)
	if err != nil {
		return nil, err
	}

	key, err := s.images.Save(ctx, avatarPrefix, img)
	if err != nil {
		return nil, fmt.Errorf("failed to store avatar: %w", err)
	}

	if err := s.db.WithContext(ctx).Model(&models.Profile{}).Where("user_id = ?", user.ID).Update("avatar", key).Error; err != nil {
		s.images.Remove(ctx, key)
		return nil, fmt.Errorf("failed to update avatar: %w", err)
	}
	s.images.Remove(ctx, user.Profile.Avatar)

	return &types.AvatarResponse{Avatar: s.images.URL(key)}, nil
}

// DeleteAvatar clears the viewer's avatar. Clearing an unset avatar succeeds.
func (s *UserService) DeleteAvatar(ctx context.Context, viewer types.Viewer) error {
	if !viewer.IsAuthenticated() {
		return ErrUnauthenticated
	}
	user, err := s.find(ctx, viewer.UserID)
	if err != nil {
		return err
	}
	if user.Profile.Avatar == "" {
		return nil
	}

	if err := s.db.WithContext(ctx).Model(&models.Profile{}).Where("user_id = ?", user.ID).Update("avatar", "").Error; err != nil {
		return fmt.Errorf("failed to remove avatar: %w", err)
	}
	s.images.Remove(ctx, user.Profile.Avatar)
	return nil
}

func (s *UserService) SetPassword(ctx context.Context, viewer types.Viewer, req *types.SetPasswordRequest) error {
	if !viewer.IsAuthenticated() {
		return ErrUnauthenticated
	}
	user, err := s.find(ctx, viewer.UserID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return NewValidationError("current_password", "Invalid password.")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.db.WithContext(ctx).Model(user).Update("password_hash", string(hash)).Error; err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// Subscribe makes the viewer follow authorID. Following oneself is always
// rejected, whatever the current state.
func (s *UserService) Subscribe(ctx context.Context, viewer types.Viewer, authorID uint, recipesLimit int) (*types.SubscriptionResponse, error) {
	if !viewer.IsAuthenticated() {
		return nil, ErrUnauthenticated
	}
	if viewer.UserID == authorID {
		return nil, &StateError{Message: "You cannot subscribe to yourself"}
	}
	author, err := s.find(ctx, authorID)
	if err != nil {
		return nil, err
	}

	if err := s.subscriptions.Add(ctx, s.db, viewer.UserID, authorID); err != nil {
		return nil, err
	}

	out, err := s.subscriptionsOf(ctx, viewer, []models.User{*author}, recipesLimit)
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

func (s *UserService) Unsubscribe(ctx context.Context, viewer types.Viewer, authorID uint) error {
	if !viewer.IsAuthenticated() {
		return ErrUnauthenticated
	}
	if _, err := s.find(ctx, authorID); err != nil {
		return err
	}
	return s.subscriptions.Remove(ctx, s.db, viewer.UserID, authorID)
}

// Subscriptions lists the authors the viewer follows, each with up to
// recipesLimit of their newest recipes (all when recipesLimit <= 0).
func (s *UserService) Subscriptions(ctx context.Context, viewer types.Viewer, page types.PageRequest, recipesLimit int) ([]types.SubscriptionResponse, int64, error) {
	if !viewer.IsAuthenticated() {
		return nil, 0, ErrUnauthenticated
	}

	followed := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id IN (?)", s.subscriptions.LeftScope(s.db, viewer.UserID)).
		Session(&gorm.Session{})

	var total int64
	if err := followed.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count subscriptions: %w", err)
	}

	var authors []models.User
	if err := followed.Preload("Profile").Order("id").Limit(page.Limit).Offset(page.Offset).Find(&authors).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	out, err := s.subscriptionsOf(ctx, viewer, authors, recipesLimit)
	return out, total, err
}

func (s *UserService) subscriptionsOf(ctx context.Context, viewer types.Viewer, authors []models.User, recipesLimit int) ([]types.SubscriptionResponse, error) {
	users, err := s.project(ctx, viewer, authors)
	if err != nil {
		return nil, err
	}
	out := make([]types.SubscriptionResponse, len(users))
	if len(authors) == 0 {
		return out, nil
	}

	ids := make([]uint, len(authors))
	for i, a := range authors {
		ids[i] = a.ID
	}

	var recipes []models.Recipe
	if err := s.db.WithContext(ctx).Where("author_id IN ?", ids).Order("id DESC").Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to load author recipes: %w", err)
	}

	byAuthor := make(map[uint][]types.RecipeShortResponse)
	counts := make(map[uint]int64)
	for _, r := range recipes {
		counts[r.AuthorID]++
		if recipesLimit > 0 && len(byAuthor[r.AuthorID]) >= recipesLimit {
			continue
		}
		byAuthor[r.AuthorID] = append(byAuthor[r.AuthorID], shortRecipe(s.images, &r))
	}

	for i, u := range users {
		short := byAuthor[u.ID]
		if short == nil {
			short = []types.RecipeShortResponse{}
		}
		out[i] = types.SubscriptionResponse{
			UserResponse: u,
			Recipes:      short,
			RecipesCount: counts[u.ID],
		}
	}
	return out, nil
}

func (s *UserService) find(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Preload("Profile").First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user.Profile == nil {
		user.Profile = &models.Profile{UserID: user.ID}
	}
	return &user, nil
}

// project renders users as seen by viewer, computing is_subscribed in one query.
func (s *UserService) project(ctx context.Context, viewer types.Viewer, users []models.User) ([]types.UserResponse, error) {
	ids := make([]uint, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	subscribed, err := s.subscriptions.RightsOf(ctx, s.db, viewer.UserID, ids)
	if err != nil {
		return nil, err
	}

	out := make([]types.UserResponse, len(users))
	for i, u := range users {
		var avatar *string
		if u.Profile != nil {
			avatar = s.images.URL(u.Profile.Avatar)
		}
		out[i] = types.UserResponse{
			ID:           u.ID,
			Email:        u.Email,
			Username:     u.Username,
			FirstName:    u.FirstName,
			LastName:     u.LastName,
			IsSubscribed: subscribed[u.ID],
			Avatar:       avatar,
		}
	}
	return out, nil
}
