package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// ErrUnsupportedImage is returned for uploads that are not jpeg, png, gif or webp.
var ErrUnsupportedImage = errors.New("unsupported image type")

// ImageStore persists uploaded product images and returns their public URL.
type ImageStore interface {
	Save(ctx context.Context, filename, contentType string, r io.Reader) (string, error)
}

var allowedExt = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// unsafeNameChars matches runs of characters that are not kept in object names.
var unsafeNameChars = regexp.MustCompile(`[^a-z0-9_-]+`)

// objectName builds a unique, URL-safe name such as
// "1735689600000000000_heirloom_tomatoes.jpg". Repeated image extensions
// ("a.jpg.jpg") are collapsed.
func objectName(original string, now time.Time) (string, error) {
	base := filepath.Base(original)
	ext := strings.ToLower(filepath.Ext(base))
	if _, ok := allowedExt[ext]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedImage, ext)
	}
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	for {
		e := strings.ToLower(filepath.Ext(stem))
		if _, ok := allowedExt[e]; !ok || e == "" {
			break
		}
		stem = strings.TrimSuffix(stem, filepath.Ext(stem))
	}
	stem = strings.Trim(unsafeNameChars.ReplaceAllString(strings.ToLower(stem), "_"), "_")
	if stem == "" {
		stem = "image"
	}
	return fmt.Sprintf("%d_%s%s", now.UnixNano(), stem, ext), nil
}

func contentTypeFor(name, given string) string {
	if given != "" && given != "application/octet-stream" {
		return given
	}
	return allowedExt[strings.ToLower(filepath.Ext(name))]
}
