package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/pageza/foodgram/backend/internal/logger"
	"github.com/pageza/foodgram/backend/internal/storage"
)

const (
	recipeImagePrefix = "recipes/images"
	avatarPrefix      = "users/avatars"
	maxImageBytes     = 5 << 20
)

var dataURIPattern = regexp.MustCompile(`^data:image/([a-zA-Z0-9.+-]+);base64,`)

var imageExtensions = map[string]string{
	"png":  "png",
	"jpeg": "jpg",
	"jpg":  "jpg",
	"gif":  "gif",
	"webp": "webp",
}

// DecodedImage is the payload of a data:image/<ext>;base64 URI.
type DecodedImage struct {
	Extension   string
	ContentType string
	Data        []byte
}

// DecodeDataURI parses a base64 image data URI. Line breaks inside the
// payload are ignored.
func DecodeDataURI(uri string) (*DecodedImage, error) {
	m := dataURIPattern.FindStringSubmatch(uri)
	if m == nil {
		return nil, fmt.Errorf("expected a data:image/<type>;base64 URI")
	}
	subtype := strings.ToLower(m[1])
	ext, ok := imageExtensions[subtype]
	if !ok {
		return nil, fmt.Errorf("unsupported image type %q", subtype)
	}

	payload := strings.NewReplacer("\n", "", "\r", "").Replace(uri[len(m[0]):])
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 payload")
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("image is empty")
	}
	if len(data) > maxImageBytes {
		return nil, fmt.Errorf("image exceeds %d bytes", maxImageBytes)
	}

	return &DecodedImage{Extension: ext, ContentType: "image/" + subtype, Data: data}, nil
}

// ImageService stores decoded images and resolves their public URLs.
type ImageService struct {
	store storage.ImageStore
}

func NewImageService(store storage.ImageStore) *ImageService {
	return &ImageService{store: store}
}

// Save stores img under prefix with a random name and returns its key.
func (s *ImageService) Save(ctx context.Context, prefix string, img *DecodedImage) (string, error) {
	key := path.Join(prefix, uuid.NewString()+"."+img.Extension)
	if err := s.store.Save(ctx, key, img.Data, img.ContentType); err != nil {
		return "", err
	}
	return key, nil
}

// Remove deletes a stored image. Failures are logged, never returned.
func (s *ImageService) Remove(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.store.Delete(ctx, key); err != nil {
		logger.Warn(ctx).Err(err).Str("key", key).Msg("failed to delete image")
	}
}

// URL returns the public URL of key, or nil when there is no image.
func (s *ImageService) URL(key string) *string {
	if key == "" {
		return nil
	}
	u := s.store.URL(key)
	return &u
}
