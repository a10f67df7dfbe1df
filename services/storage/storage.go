package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// StorageService stores catalog images and returns their public URLs.
type StorageService interface {
	UploadImage(ctx context.Context, file io.Reader, filename string) (string, error)
	DeleteByURL(ctx context.Context, url string) error
}

// ErrNotConfigured is returned by Unconfigured for every call.
var ErrNotConfigured = errors.New("image storage is not configured")

// Unconfigured stands in when no Cloudinary credentials are set, so the API
// still starts and only image writes fail.
type Unconfigured struct{}

func (Unconfigured) UploadImage(context.Context, io.Reader, string) (string, error) {
	return "", ErrNotConfigured
}

func (Unconfigured) DeleteByURL(context.Context, string) error { return ErrNotConfigured }

// CloudinaryStorage implements StorageService on a Cloudinary account.
type CloudinaryStorage struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// NewStorageService creates a Cloudinary-backed StorageService uploading into folder.
func NewStorageService(cld *cloudinary.Cloudinary, folder string) *CloudinaryStorage {
	return &CloudinaryStorage{cld: cld, folder: folder}
}

// UploadImage uploads the file into the configured folder and returns its secure URL.
func (s *CloudinaryStorage) UploadImage(ctx context.Context, file io.Reader, filename string) (string, error) {
	params := uploader.UploadParams{
		Folder: s.folder,
	}
	if filename != "" {
		params.PublicID = strings.TrimSuffix(path.Base(filename), path.Ext(filename))
	}
	result, err := s.cld.Upload.Upload(ctx, file, params)
	if err != nil {
		return "", fmt.Errorf("CloudinaryStorage: failed to upload file: %w", err)
	}
	if result.Error.Message != "" {
		return "", fmt.Errorf("CloudinaryStorage: upload rejected: %s", result.Error.Message)
	}
	if result.SecureURL == "" {
		return "", fmt.Errorf("CloudinaryStorage: no URL returned")
	}
	return result.SecureURL, nil
}

// DeleteByURL removes the asset that url points to.
func (s *CloudinaryStorage) DeleteByURL(ctx context.Context, url string) error {
	publicID := PublicIDFromURL(url)
	if publicID == "" {
		return fmt.Errorf("CloudinaryStorage: cannot derive public id from %q", url)
	}
	if _, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID}); err != nil {
		return fmt.Errorf("CloudinaryStorage: failed to delete file: %w", err)
	}
	return nil
}

// PublicIDFromURL extracts the Cloudinary public id from a delivery URL: the
// path after "/upload/", minus an optional "v<digits>/" version segment and the
// file extension.
func PublicIDFromURL(url string) string {
	idx := strings.Index(url, "/upload/")
	if idx < 0 {
		return ""
	}
	rest := url[idx+len("/upload/"):]
	if q := strings.IndexAny(rest, "?#"); q >= 0 {
		rest = rest[:q]
	}

	if slash := strings.Index(rest, "/"); slash > 1 && rest[0] == 'v' && isDigits(rest[1:slash]) {
		rest = rest[slash+1:]
	}
	return strings.TrimSuffix(rest, path.Ext(rest))
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
