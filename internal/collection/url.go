package collection

import (
	"regexp"
	"strings"

	"github.com/mark3labs/apib2postman/internal/blueprint"
)

// HostVariable is the placeholder every request URL is rooted at.
const HostVariable = "{{HOST}}"

var placeholderRe = regexp.MustCompile(`\{([^}]+)\}`)

// ResolveURL decomposes a URI template into a Postman URL. "{name}"
// placeholders become ":name" path variables and are resolved against params
// by exact name, first match wins.
func ResolveURL(template string, params []blueprint.Parameter) (URL, error) {
	raw := strings.TrimPrefix(template, "/")
	raw = strings.TrimSuffix(raw, "/")
	raw = placeholderRe.ReplaceAllString(raw, ":$1")

	pathPart, queryPart, _ := strings.Cut(raw, "?")
	path := strings.Split(pathPart, "/")

	query := []QueryParam{}
	if queryPart != "" {
		for _, pair := range strings.Split(queryPart, "&") {
			key, value, _ := strings.Cut(pair, "=")
			if key == "" {
				continue
			}
			query = append(query, QueryParam{Key: key, Value: value})
		}
	}

	variables := []URLVariable{}
	for _, seg := range path {
		if !strings.HasPrefix(seg, ":") {
			continue
		}
		key := seg[1:]
		// An empty description passes: a Go string cannot tell absent from empty.
		param, ok := lookupParameter(params, key)
		if !ok {
			return URL{}, &UnresolvedVariableError{Variable: key, Template: template}
		}
		variables = append(variables, URLVariable{
			Key:         key,
			Value:       param.Example,
			Description: strings.TrimSpace(param.Description),
			Type:        param.Type,
		})
	}

	return URL{
		Raw:      HostVariable + "/" + raw,
		Host:     []string{HostVariable},
		Path:     path,
		Query:    query,
		Variable: variables,
	}, nil
}

func lookupParameter(params []blueprint.Parameter, name string) (blueprint.Parameter, bool) {
	for _, p := range params {
		if p.Name == name {
			return p, true
		}
	}
	return blueprint.Parameter{}, false
}
