package collection

import (
	"fmt"
	"strings"

	"github.com/mark3labs/apib2postman/internal/blueprint"
	"github.com/mark3labs/apib2postman/internal/metadata"
)

// MapAction builds the collection item for one action. Only the first
// request and first response of the first example are used.
func MapAction(group blueprint.ResourceGroup, resource blueprint.Resource, action blueprint.Action, auth *metadata.Node) (Item, error) {
	template := group.URITemplate + resource.URITemplate + action.Attributes.URITemplate
	params := make([]blueprint.Parameter, 0, len(group.Parameters)+len(resource.Parameters)+len(action.Parameters))
	params = append(params, group.Parameters...)
	params = append(params, resource.Parameters...)
	params = append(params, action.Parameters...)

	url, err := ResolveURL(template, params)
	if err != nil {
		return Item{}, fmt.Errorf("action %q (%s): %w", action.Name, action.Method, err)
	}

	req, res, err := firstExchange(action)
	if err != nil {
		return Item{}, err
	}

	headers := make([]Header, 0, len(req.Headers)+1)
	for _, h := range req.Headers {
		headers = append(headers, Header{Key: h.Name, Value: h.Value})
	}
	if _, ok := req.Header("Accept"); !ok {
		if ct, ok := res.Header("Content-Type"); ok {
			headers = append(headers, Header{Key: "Accept", Value: ct})
		}
	}

	var body *Body
	if req.Body != "" {
		body = &Body{Mode: "raw", Raw: strings.TrimSpace(req.Body)}
	}

	if auth == nil {
		auth = metadata.Empty()
	}

	return Item{
		Name:        action.Name,
		Description: action.Description,
		Request: Request{
			URL:         url,
			Auth:        auth,
			Method:      action.Method,
			Header:      headers,
			Body:        body,
			Description: action.Description,
		},
	}, nil
}

func firstExchange(action blueprint.Action) (blueprint.Payload, blueprint.Payload, error) {
	missing := func(what string) error {
		return &MissingExampleError{Action: action.Name, Method: action.Method, Missing: what}
	}
	if len(action.Examples) == 0 {
		return blueprint.Payload{}, blueprint.Payload{}, missing("example")
	}
	ex := action.Examples[0]
	if len(ex.Requests) == 0 {
		return blueprint.Payload{}, blueprint.Payload{}, missing("request")
	}
	if len(ex.Responses) == 0 {
		return blueprint.Payload{}, blueprint.Payload{}, missing("response")
	}
	return ex.Requests[0], ex.Responses[0], nil
}
