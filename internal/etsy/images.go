package etsy

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultImageName = "image.jpg"

// ImageFetcher loads listing images from URLs or the local filesystem.
type ImageFetcher struct {
	client *resty.Client
}

// NewImageFetcher creates a fetcher whose downloads time out after timeout.
func NewImageFetcher(timeout time.Duration) *ImageFetcher {
	return &ImageFetcher{
		client: resty.New().
			SetTimeout(timeout).
			SetHeader("User-Agent", "automerch/1.0"),
	}
}

// Load returns the file name and bytes of source.
func (f *ImageFetcher) Load(ctx context.Context, source string) (string, []byte, error) {
	if isRemote(source) {
		return f.download(ctx, source)
	}

	data, err := os.ReadFile(source)
	if err != nil {
		return "", nil, fmt.Errorf("reading image file: %w", err)
	}
	return filepath.Base(source), data, nil
}

func (f *ImageFetcher) download(ctx context.Context, source string) (string, []byte, error) {
	resp, err := f.client.R().SetContext(ctx).Get(source)
	if err != nil {
		return "", nil, fmt.Errorf("downloading image: %w", err)
	}
	if resp.IsError() {
		return "", nil, fmt.Errorf("downloading image: status %d", resp.StatusCode())
	}

	name := defaultImageName
	if u, err := url.Parse(source); err == nil {
		if base := path.Base(u.Path); base != "." && base != "/" && base != "" {
			name = base
		}
	}
	return name, resp.Body(), nil
}

// imageContentType sniffs data, then falls back to the file extension and
// finally to JPEG.
func imageContentType(name string, data []byte) string {
	if ct := http.DetectContentType(data); strings.HasPrefix(ct, "image/") {
		return ct
	}
	if ct := mime.TypeByExtension(strings.ToLower(path.Ext(name))); strings.HasPrefix(ct, "image/") {
		return ct
	}
	return "image/jpeg"
}

func isRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}
