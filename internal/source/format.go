package source

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mark3labs/apib2postman/internal/blueprint"
	"github.com/mark3labs/apib2postman/internal/openapi"
)

// Format names an input dialect.
type Format string

const (
	FormatAuto    Format = "auto"
	FormatAST     Format = "ast"
	FormatAPIB    Format = "apib"
	FormatOpenAPI Format = "openapi"
)

// ParseFormat validates a user supplied format name. Empty means auto.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatAuto, nil
	case FormatAuto, FormatAST, FormatAPIB, FormatOpenAPI:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q (want auto, ast, apib or openapi)", s)
	}
}

// Detect sniffs data: documents with an openapi or swagger key are OpenAPI,
// documents carrying an AST (resourceGroups, content or a wrapping ast key)
// are ASTs, anything else is API Blueprint text.
func Detect(data []byte) Format {
	var root map[string]any
	if blueprint.IsJSONObject(data) {
		if err := json.Unmarshal(data, &root); err != nil {
			// Malformed JSON still reports as a JSON parse error.
			return FormatAST
		}
	} else if err := yaml.Unmarshal(data, &root); err != nil || root == nil {
		return FormatAPIB
	}
	if _, ok := root["openapi"]; ok {
		return FormatOpenAPI
	}
	if _, ok := root["swagger"]; ok {
		return FormatOpenAPI
	}
	for _, key := range []string{"ast", "resourceGroups", "_version"} {
		if _, ok := root[key]; ok {
			return FormatAST
		}
	}
	return FormatAPIB
}

// ParserFor returns the parser for format. FormatAuto must be resolved with
// Detect first. drafter is the executable used for API Blueprint text.
func ParserFor(format Format, drafter string) (blueprint.Parser, error) {
	switch format {
	case FormatAST:
		return blueprint.DocumentParser{}, nil
	case FormatAPIB:
		return blueprint.DrafterParser{Path: drafter}, nil
	case FormatOpenAPI:
		return openapi.Parser{}, nil
	default:
		return nil, fmt.Errorf("no parser for format %q", format)
	}
}
