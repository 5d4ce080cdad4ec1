package content

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// MinImageSize is the smallest image we accept, in bytes. Files below this
// are broken placeholder images that the platforms reject at upload.
const MinImageSize = 4096

// ErrUnusableImage marks a downloaded file rejected by content sniffing or
// the size check. It is never fatal: the post proceeds without media.
var ErrUnusableImage = errors.New("unusable image")

// HTTPClient interface for making HTTP requests (allows injection for testing).
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// DownloaderOption configures the Downloader.
type DownloaderOption func(*Downloader)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient HTTPClient) DownloaderOption {
	return func(d *Downloader) {
		d.httpClient = httpClient
	}
}

// Downloader fetches entry images to temporary files.
type Downloader struct {
	httpClient HTTPClient
}

// NewDownloader creates a Downloader.
func NewDownloader(opts ...DownloaderOption) *Downloader {
	d := &Downloader{
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Download fetches rawURL into a temporary file and returns its path.
// The file is discarded, and an error returned, when the fetch fails, the
// content does not sniff as an image, or the file is under MinImageSize.
// The caller owns the returned file and must remove it.
func (d *Downloader) Download(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch image: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("image fetch returned HTTP %d", resp.StatusCode)
	}

	tmp, err := os.CreateTemp("", "papersbot-img-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}

	size, err := io.Copy(tmp, resp.Body)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write image: %w", err)
	}

	if size < MinImageSize {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("%w: %d bytes", ErrUnusableImage, size)
	}
	if kind, err := sniffFile(tmp.Name()); err != nil || !strings.HasPrefix(kind, "image/") {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("%w: not an image", ErrUnusableImage)
	}

	return tmp.Name(), nil
}

// sniffFile classifies a file by its first bytes.
func sniffFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	buf := make([]byte, 512)
	n, err := f.Read(buf)
	if err != nil && err != io.EOF {
		return "", err
	}
	return http.DetectContentType(buf[:n]), nil
}
