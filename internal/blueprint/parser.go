package blueprint

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseOptions mirrors the options the parser collaborator accepts.
type ParseOptions struct {
	// RequireName rejects descriptions without a name.
	RequireName bool
}

// Parser turns raw description text into a Description AST. Implementations
// either return a complete AST or an *Error with Code ParseError.
type Parser interface {
	Parse(ctx context.Context, text []byte, opts ParseOptions) (*Description, error)
}

// ParserFunc adapts a function to the Parser interface.
type ParserFunc func(ctx context.Context, text []byte, opts ParseOptions) (*Description, error)

func (f ParserFunc) Parse(ctx context.Context, text []byte, opts ParseOptions) (*Description, error) {
	return f(ctx, text, opts)
}

// DocumentParser decodes an already rendered AST. JSON and YAML renderings
// are both accepted, either bare or wrapped as {"ast": ...}.
type DocumentParser struct{}

type wrappedDocument struct {
	AST *Description `json:"ast" yaml:"ast"`
}

// IsJSONObject reports whether text looks like a JSON object. yaml.v3 does
// not accept every JSON document (UTF-16 surrogate escapes), so JSON input is
// decoded with encoding/json.
func IsJSONObject(text []byte) bool {
	return bytes.HasPrefix(bytes.TrimSpace(text), []byte("{"))
}

func decodeDocument(text []byte, v any) error {
	if IsJSONObject(text) {
		dec := json.NewDecoder(bytes.NewReader(text))
		dec.UseNumber()
		return dec.Decode(v)
	}
	return yaml.Unmarshal(text, v)
}

func (DocumentParser) Parse(ctx context.Context, text []byte, opts ParseOptions) (*Description, error) {
	_ = ctx
	if strings.TrimSpace(string(text)) == "" {
		return nil, &Error{Code: ParseError, Message: "parse ast: document is empty"}
	}

	var wrapped wrappedDocument
	if err := decodeDocument(text, &wrapped); err != nil {
		return nil, &Error{Code: ParseError, Message: fmt.Sprintf("parse ast: %v", err), Cause: err}
	}
	desc := wrapped.AST
	if desc == nil {
		desc = &Description{}
		if err := decodeDocument(text, desc); err != nil {
			return nil, &Error{Code: ParseError, Message: fmt.Sprintf("parse ast: %v", err), Cause: err}
		}
	}
	if err := checkDescription(desc, opts); err != nil {
		return nil, err
	}
	return desc, nil
}

func checkDescription(desc *Description, opts ParseOptions) error {
	if opts.RequireName && strings.TrimSpace(desc.Name) == "" {
		return &Error{Code: ParseError, Message: "parse: expected API name, e.g. '# <API Name>'"}
	}
	return nil
}
