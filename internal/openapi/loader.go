// Package openapi maps OpenAPI 3 and Swagger 2 documents onto the
// description AST so they can be converted like API Blueprint input.
package openapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	openapi2 "github.com/getkin/kin-openapi/openapi2"
	"github.com/getkin/kin-openapi/openapi2conv"
	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"

	"github.com/mark3labs/apib2postman/internal/blueprint"
)

// Parser implements blueprint.Parser for OpenAPI/Swagger documents.
type Parser struct{}

func (Parser) Parse(ctx context.Context, text []byte, opts blueprint.ParseOptions) (*blueprint.Description, error) {
	doc, err := Load(ctx, text)
	if err != nil {
		return nil, err
	}
	desc := Describe(doc)
	if opts.RequireName && strings.TrimSpace(desc.Name) == "" {
		return nil, &blueprint.Error{Code: blueprint.ParseError, Message: "parse openapi: info.title is required"}
	}
	return desc, nil
}

// Load parses and validates an OpenAPI v3 document. Swagger v2.0 input is
// converted to v3 first.
func Load(ctx context.Context, data []byte) (*openapi3.T, error) {
	version, err := DetectVersion(data)
	if err != nil {
		return nil, &blueprint.Error{Code: blueprint.ParseError, Message: err.Error(), Cause: err}
	}

	var doc *openapi3.T
	switch version {
	case 3:
		loader := openapi3.NewLoader()
		doc, err = loader.LoadFromData(data)
		if err != nil {
			return nil, parseError(err)
		}
	case 2:
		doc, err = convertV2ToV3(data)
		if err != nil {
			return nil, &blueprint.Error{Code: blueprint.ParseError, Message: fmt.Sprintf("parse openapi: convert v2->v3: %v", err), Cause: err}
		}
	}

	if err := doc.Validate(ctx); err != nil && !canProceedDespiteValidation(err) {
		return nil, parseError(err)
	}
	return doc, nil
}

// DetectVersion returns 3 for OpenAPI v3, 2 for Swagger v2, else an error.
func DetectVersion(data []byte) (int, error) {
	var root map[string]any
	if err := decode(data, &root); err != nil {
		return 0, fmt.Errorf("parse openapi: %w", err)
	}
	if v, ok := root["openapi"]; ok {
		if s, _ := v.(string); strings.HasPrefix(strings.TrimSpace(s), "3.") {
			return 3, nil
		}
	}
	if v, ok := root["swagger"]; ok {
		// Unquoted `swagger: 2.0` decodes as a float.
		if s := strings.TrimSpace(fmt.Sprint(v)); s == "2" || strings.HasPrefix(s, "2.") {
			return 2, nil
		}
	}
	return 0, errors.New("parse openapi: missing or unknown version (expected 'openapi: 3.x' or 'swagger: 2.0')")
}

func convertV2ToV3(data []byte) (*openapi3.T, error) {
	// openapi2.T only carries JSON tags, so YAML input goes through JSON.
	var raw any
	if err := decode(data, &raw); err != nil {
		return nil, err
	}
	raw = jsonCompatible(raw)
	if root, ok := raw.(map[string]any); ok {
		if _, isString := root["swagger"].(string); !isString {
			root["swagger"] = "2.0"
		}
		fixV2Operations(root)
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	var v2 openapi2.T
	if err := json.Unmarshal(b, &v2); err != nil {
		return nil, err
	}
	return openapi2conv.ToV3(&v2)
}

func decode(data []byte, v any) error {
	if blueprint.IsJSONObject(data) {
		return json.Unmarshal(data, v)
	}
	return yaml.Unmarshal(data, v)
}

// jsonCompatible rewrites map[any]any nodes (YAML mappings with non-string
// keys such as status codes) into map[string]any.
func jsonCompatible(v any) any {
	switch val := v.(type) {
	case map[string]any:
		for k, e := range val {
			val[k] = jsonCompatible(e)
		}
		return val
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, e := range val {
			out[fmt.Sprint(k)] = jsonCompatible(e)
		}
		return out
	case []any:
		for i, e := range val {
			val[i] = jsonCompatible(e)
		}
		return val
	default:
		return v
	}
}

var jsonPtrRe = regexp.MustCompile(`#/[^\s'\"]+`)

func parseError(err error) error {
	msg := fmt.Sprintf("parse openapi: %v", err)
	if ptr := extractJSONPointer(err); ptr != "" && !strings.Contains(msg, ptr) {
		msg = fmt.Sprintf("%s (at %s)", msg, ptr)
	}
	return &blueprint.Error{Code: blueprint.ParseError, Message: msg, Cause: err}
}

func extractJSONPointer(err error) string {
	if err == nil {
		return ""
	}
	if me, ok := err.(openapi3.MultiError); ok {
		if len(me) > 0 {
			return extractJSONPointer(me[0])
		}
	}
	var se *openapi3.SchemaError
	if errors.As(err, &se) {
		if parts := se.JSONPointer(); len(parts) > 0 {
			return "#/" + strings.Join(parts, "/")
		}
	}
	return jsonPtrRe.FindString(err.Error())
}

// canProceedDespiteValidation lets documents with unresolved refs through;
// only examples and parameters are read from them.
func canProceedDespiteValidation(err error) bool {
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "unresolved ref") || strings.Contains(s, "found unresolved ref")
}
