package importer

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/bulk"
	"github.com/storefront/backend/internal/domain/catalog"
)

// mediaPrefix marks image references already inside the managed storage tree
const mediaPrefix = "/media/"

// imageExtensions is the allow-list for extensions taken from remote URLs
var imageExtensions = map[string]struct{}{
	"jpg":  {},
	"jpeg": {},
	"png":  {},
	"webp": {},
	"gif":  {},
}

// attachImages resolves up to five ordinal image references for a product.
// Position 1 is marked primary. Fetch or storage failures are returned as
// warnings and never change the row's create/update outcome. On update with
// the job's refresh flag set the existing image set is cleared first, even
// when the row carries no image columns.
func (s *Service) attachImages(ctx context.Context, job *bulk.ImportJob, product *catalog.Product, refs []imageRef, isUpdate bool) []string {
	if isUpdate {
		if !job.RefreshImages {
			return nil
		}
		if err := s.store.RemoveProductImages(ctx, product.ID); err != nil {
			return []string{fmt.Sprintf("failed to clear existing images: %v", err)}
		}
	}
	if len(refs) == 0 {
		return nil
	}

	var warnings []string
	for _, ref := range refs {
		storagePath, warning := s.resolveImage(ctx, product, ref)
		if warning != "" {
			warnings = append(warnings, warning)
			continue
		}
		if storagePath == "" {
			continue
		}
		image, err := catalog.NewProductImage(product.ID, storagePath, ref.Position == 1, ref.Position)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("image %d: %v", ref.Position, err))
			continue
		}
		image.AltText = product.Name
		if err := s.store.AddProductImage(ctx, image); err != nil {
			warnings = append(warnings, fmt.Sprintf("image %d: failed to save: %v", ref.Position, err))
		}
	}
	return warnings
}

// resolveImage turns one reference into a storage-relative path. Remote URLs
// are fetched and stored; references under the media prefix are linked only
// when the blob actually exists; anything else is ignored.
func (s *Service) resolveImage(ctx context.Context, product *catalog.Product, ref imageRef) (string, string) {
	value := ref.Value
	switch {
	case strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://"):
		data, err := s.fetcher.Fetch(ctx, value)
		if err != nil {
			s.logger.Warn("image fetch failed",
				zap.String("url", value),
				zap.Int("position", ref.Position),
				zap.Error(err))
			return "", fmt.Sprintf("image %d: fetch failed: %v", ref.Position, err)
		}
		key := fmt.Sprintf("products/%s_%d.%s", imageBaseName(product.Name), ref.Position, imageExtension(value))
		if err := s.blobs.Upload(ctx, key, data, "image/"+imageExtension(value)); err != nil {
			return "", fmt.Sprintf("image %d: failed to store: %v", ref.Position, err)
		}
		return key, ""
	case strings.HasPrefix(value, mediaPrefix):
		key := strings.TrimPrefix(value, mediaPrefix)
		exists, err := s.blobs.Exists(ctx, key)
		if err != nil {
			return "", fmt.Sprintf("image %d: storage check failed: %v", ref.Position, err)
		}
		if !exists {
			return "", fmt.Sprintf("image %d: %s not found in storage", ref.Position, value)
		}
		return key, ""
	}
	return "", ""
}

func imageBaseName(productName string) string {
	base := slug.Make(productName)
	if len(base) > 30 {
		base = base[:30]
	}
	return base
}

// imageExtension picks the stored file extension from the URL path,
// defaulting to jpg for anything outside the allow-list.
func imageExtension(rawURL string) string {
	ext := "jpg"
	if u, err := url.Parse(rawURL); err == nil {
		candidate := strings.ToLower(strings.TrimPrefix(path.Ext(u.Path), "."))
		if _, ok := imageExtensions[candidate]; ok {
			ext = candidate
		}
	}
	return ext
}
