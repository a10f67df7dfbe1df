package catalog

import (
	"context"
	"strings"

	"glowbook/utils"

	"go.uber.org/zap"
)

// uploadAll stores every image. On failure the images uploaded so far are
// removed again.
func (s *DefaultCatalogService) uploadAll(ctx context.Context, images []Upload) ([]string, error) {
	urls := make([]string, 0, len(images))
	for _, img := range images {
		url, err := s.uploadOne(ctx, img)
		if err != nil {
			s.deleteAll(ctx, urls)
			return nil, utils.Upstream("image upload failed", err)
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func (s *DefaultCatalogService) uploadOne(ctx context.Context, img Upload) (string, error) {
	f, err := img.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()
	return s.Storage.UploadImage(ctx, f, img.Filename)
}

// deleteAll removes hosted images. Failures only leave orphans behind, so
// they are logged.
func (s *DefaultCatalogService) deleteAll(ctx context.Context, urls []string) {
	for _, url := range urls {
		if err := s.Storage.DeleteByURL(ctx, url); err != nil {
			s.Logger.Warn("failed to delete image", zap.String("url", url), zap.Error(err))
		}
	}
}

// retain splits current into the images listed in keep and the ones to
// delete. A nil keep list retains everything.
func retain(current, keep []string) (kept, removed []string) {
	if keep == nil {
		return append([]string{}, current...), nil
	}
	wanted := make(map[string]bool, len(keep))
	for _, k := range keep {
		if k = strings.TrimSpace(k); k != "" {
			wanted[k] = true
		}
	}
	kept = []string{}
	for _, url := range current {
		if wanted[url] {
			kept = append(kept, url)
		} else {
			removed = append(removed, url)
		}
	}
	return kept, removed
}
