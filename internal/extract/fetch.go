package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// DefaultFetchTimeout bounds a whole URL download, body included.
const DefaultFetchTimeout = 60 * time.Second

// ErrTooLarge is returned when a source is bigger than the caller's limit.
var ErrTooLarge = errors.New("source exceeds size limit")

// IsURL reports whether src should be fetched over HTTP rather than read from disk.
func IsURL(src string) bool {
	s := strings.ToLower(src)
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// Fetch downloads url with a single GET. Any non-2xx status is an error. When
// limit > 0, a body longer than limit bytes fails with ErrTooLarge without
// being buffered past limit+1 bytes.
func Fetch(ctx context.Context, client *http.Client, url string, limit int64) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", url, resp.Status)
	}
	if limit > 0 && resp.ContentLength > limit {
		return nil, fmt.Errorf("fetch %s: %d bytes: %w", url, resp.ContentLength, ErrTooLarge)
	}

	var body io.Reader = resp.Body
	if limit > 0 {
		body = io.LimitReader(resp.Body, limit+1)
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: read body: %w", url, err)
	}
	if limit > 0 && int64(len(b)) > limit {
		return nil, fmt.Errorf("fetch %s: more than %d bytes: %w", url, limit, ErrTooLarge)
	}
	return b, nil
}

// ReadSource returns the bytes of a local path or URL together with the
// document name shown to the user. limit follows Fetch.
func ReadSource(ctx context.Context, client *http.Client, src string, limit int64) ([]byte, string, error) {
	if IsURL(src) {
		b, err := Fetch(ctx, client, src, limit)
		if err != nil {
			return nil, "", err
		}
		name := src
		if u, perr := url.Parse(src); perr == nil && u.Path != "" && u.Path != "/" {
			name = path.Base(u.Path)
		}
		return b, name, nil
	}

	if limit > 0 {
		fi, err := os.Stat(src)
		if err != nil {
			return nil, "", err
		}
		if fi.Size() > limit {
			return nil, "", fmt.Errorf("read %s: %d bytes: %w", src, fi.Size(), ErrTooLarge)
		}
	}
	b, err := os.ReadFile(src)
	if err != nil {
		return nil, "", err
	}
	return b, filepath.Base(src), nil
}
