package storage

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/fixmyblock/fixmyblock-backend/internal/config"
)

var allowedPhotoTypes = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

const maxPhotoSize = int64(10 * 1024 * 1024)

var ErrNotConfigured = errors.New("photo storage is not configured")

// PhotoStore uploads report photos and hands back their public URLs. Upload
// always precedes report insertion; the URL is embedded at creation time.
type PhotoStore struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewPhotoStore(cfg *config.Config) (*PhotoStore, error) {
	if cfg.CloudinaryCloudName == "" || cfg.CloudinaryAPIKey == "" || cfg.CloudinaryAPISecret == "" {
		return nil, ErrNotConfigured
	}

	cloudinaryURL := fmt.Sprintf("cloudinary://%s:%s@%s",
		cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryCloudName)

	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary client: %w", err)
	}

	folder := cfg.CloudinaryFolder
	if folder == "" {
		folder = "fixmyblock"
	}

	return &PhotoStore{cld: cld, folder: folder}, nil
}

// ValidatePhoto enforces type and size limits before any upload starts.
func ValidatePhoto(header *multipart.FileHeader) error {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	ok := false
	for _, allowed := range allowedPhotoTypes {
		if ext == allowed {
			ok = true
			break
		}
	}
	if !ok {
		return fmt.Errorf("unsupported photo type %q", ext)
	}
	if header.Size > maxPhotoSize {
		return errors.New("photo exceeds the 10MB limit")
	}
	return nil
}

// UploadPhoto stores the file and returns its public HTTPS URL.
func (s *PhotoStore) UploadPhoto(ctx context.Context, file multipart.File) (string, error) {
	result, err := s.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:       s.folder + "/reports",
		ResourceType: "image",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload photo: %w", err)
	}
	return result.SecureURL, nil
}
