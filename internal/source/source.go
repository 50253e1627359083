// Package source reads API descriptions from files or http/https URLs and
// picks the parser that understands them.
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mark3labs/apib2postman/internal/blueprint"
	"github.com/mark3labs/apib2postman/internal/ctxlog"
)

// Settings configures how input is fetched.
type Settings struct {
	// HTTPTimeout bounds the single HTTP request made for URL input.
	HTTPTimeout time.Duration
	// MaxBytes caps the size of a fetched document; 0 disables the cap.
	MaxBytes int64
}

// DefaultSettings returns the settings used by the CLI.
func DefaultSettings() Settings {
	return Settings{
		HTTPTimeout: 10 * time.Second,
		MaxBytes:    32 << 20,
	}
}

// Option mutates Settings.
type Option func(*Settings)

func WithHTTPTimeout(d time.Duration) Option { return func(s *Settings) { s.HTTPTimeout = d } }
func WithMaxBytes(n int64) Option           { return func(s *Settings) { s.MaxBytes = n } }

// Read returns the raw bytes of input, a filesystem path or an http/https
// URL. URLs are fetched once; failures are InputErrors.
func Read(ctx context.Context, input string, opts ...Option) ([]byte, error) {
	if strings.TrimSpace(input) == "" {
		return nil, &blueprint.Error{Code: blueprint.InputError, Message: "input: path is empty"}
	}
	settings := DefaultSettings()
	for _, opt := range opts {
		opt(&settings)
	}

	u, uerr := url.Parse(input)
	if uerr == nil && u.Scheme != "" && u.Host != "" {
		scheme := strings.ToLower(u.Scheme)
		if scheme != "http" && scheme != "https" {
			return nil, &blueprint.Error{Code: blueprint.InputError, Message: fmt.Sprintf("input: unsupported URL scheme %q (only http/https allowed)", scheme), Location: input}
		}
		data, err := fetch(ctx, input, settings)
		if err != nil {
			return nil, &blueprint.Error{Code: blueprint.InputError, Message: fmt.Sprintf("fetch %s: %v", input, err), Location: input, Cause: err}
		}
		ctxlog.FromContext(ctx).Debug("fetched input", "url", input, "bytes", len(data))
		return data, nil
	}

	abs, err := filepath.Abs(input)
	if err != nil {
		return nil, &blueprint.Error{Code: blueprint.InputError, Message: fmt.Sprintf("resolve path: %v", err), Location: input, Cause: err}
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, &blueprint.Error{Code: blueprint.InputError, Message: fmt.Sprintf("read file %s: %v", abs, err), Location: abs, Cause: err}
	}
	ctxlog.FromContext(ctx).Debug("read input", "path", abs, "bytes", len(data))
	return data, nil
}

func fetch(ctx context.Context, rawURL string, settings Settings) ([]byte, error) {
	client := &http.Client{Timeout: settings.HTTPTimeout}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	var r io.Reader = resp.Body
	if settings.MaxBytes > 0 {
		r = io.LimitReader(resp.Body, settings.MaxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if settings.MaxBytes > 0 && int64(len(data)) > settings.MaxBytes {
		return nil, fmt.Errorf("document exceeds %d bytes", settings.MaxBytes)
	}
	return data, nil
}
