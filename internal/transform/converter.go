// Package transform rewrites an assembled collection into another Postman
// collection schema version.
package transform

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/mark3labs/apib2postman/internal/collection"
)

// Versions names the source and target collection schema versions, e.g.
// {From: "2.0.0", To: "1.0.0"}.
type Versions struct {
	From string
	To   string
}

// Converter rewrites a collection from one schema version to another. The
// result is ready for JSON encoding.
type Converter interface {
	Convert(ctx context.Context, col *collection.Collection, v Versions) (any, error)
}

// ConversionError reports a rejected conversion.
type ConversionError struct {
	From    string
	To      string
	Message string
	Cause   error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("convert %s -> %s: %s", e.From, e.To, e.Message)
}

func (e *ConversionError) Unwrap() error { return e.Cause }

// Transformer converts v2.0.0 collections to 1.0.0 or 2.1.0. Converting to
// the same version returns the collection unchanged.
type Transformer struct{}

func New() *Transformer { return &Transformer{} }

func (t *Transformer) Convert(ctx context.Context, col *collection.Collection, v Versions) (any, error) {
	fail := func(format string, args ...any) error {
		return &ConversionError{From: v.From, To: v.To, Message: fmt.Sprintf(format, args...)}
	}
	if err := ctx.Err(); err != nil {
		return nil, &ConversionError{From: v.From, To: v.To, Message: err.Error(), Cause: err}
	}
	if col == nil {
		return nil, fail("nil collection")
	}

	from, ok := canonical(v.From)
	if !ok {
		return nil, fail("invalid source version %q", v.From)
	}
	to, ok := canonical(v.To)
	if !ok {
		return nil, fail("invalid target version %q", v.To)
	}
	if from != "v"+collection.Version {
		return nil, fail("unsupported source version (only %s collections are produced)", collection.Version)
	}

	switch to {
	case from:
		return col, nil
	case "v1.0.0":
		return toV1(col), nil
	case "v2.1.0":
		return toV21(col), nil
	default:
		return nil, fail("unsupported target version")
	}
}

// Supported reports whether to is a target version this package can produce
// from an assembled collection.
func Supported(to string) bool {
	c, ok := canonical(to)
	if !ok {
		return false
	}
	switch c {
	case "v1.0.0", "v2.0.0", "v2.1.0":
		return true
	}
	return false
}

func canonical(version string) (string, bool) {
	v := strings.TrimSpace(version)
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return "", false
	}
	return semver.Canonical(v), true
}
