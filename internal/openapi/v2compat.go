package openapi

import "strings"

var v2Methods = map[string]bool{
	"get": true, "post": true, "put": true, "delete": true,
	"patch": true, "options": true, "head": true,
}

// fixV2Operations rewrites Swagger 2 operations that openapi2conv rejects,
// in place on a decoded document:
//   - several body parameters are merged into one object body;
//   - body parameters mixed with formData become formData fields, and the
//     operation consumes multipart/form-data.
//
// It reports whether anything changed.
func fixV2Operations(root map[string]any) bool {
	paths, ok := root["paths"].(map[string]any)
	if !ok {
		return false
	}
	changed := false
	for _, item := range paths {
		ops, ok := item.(map[string]any)
		if !ok {
			continue
		}
		for method, raw := range ops {
			if !v2Methods[strings.ToLower(method)] {
				continue
			}
			op, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			if fixV2Operation(op) {
				changed = true
			}
		}
	}
	return changed
}

func fixV2Operation(op map[string]any) bool {
	params, _ := op["parameters"].([]any)
	bodies, formData := 0, false
	for _, p := range params {
		switch paramIn(p) {
		case "body":
			bodies++
		case "formdata":
			formData = true
		}
	}

	switch {
	case bodies == 0:
		return false
	case formData:
		out := make([]any, 0, len(params))
		for _, p := range params {
			if pm, ok := p.(map[string]any); ok && paramIn(pm) == "body" {
				out = append(out, bodyToFormData(pm))
				continue
			}
			out = append(out, p)
		}
		op["parameters"] = out
		consumes, _ := op["consumes"].([]any)
		for _, c := range consumes {
			if c == "multipart/form-data" {
				return true
			}
		}
		op["consumes"] = append(consumes, "multipart/form-data")
		return true
	case bodies > 1:
		props := map[string]any{}
		var required []any
		rest := make([]any, 0, len(params))
		for _, p := range params {
			pm, ok := p.(map[string]any)
			if !ok || paramIn(pm) != "body" {
				rest = append(rest, p)
				continue
			}
			name := stringField(pm, "name")
			if name == "" {
				name = "field"
			}
			props[name] = paramSchema(pm)
			if req, _ := pm["required"].(bool); req {
				required = append(required, name)
			}
		}
		schema := map[string]any{"type": "object", "properties": props}
		if len(required) > 0 {
			schema["required"] = required
		}
		merged := map[string]any{"in": "body", "name": "body", "schema": schema}
		op["parameters"] = append([]any{merged}, rest...)
		return true
	default:
		return false
	}
}

func paramIn(p any) string {
	pm, _ := p.(map[string]any)
	return strings.ToLower(stringField(pm, "in"))
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

// paramSchema returns the body schema, synthesizing one from type, items and
// format when the parameter has none.
func paramSchema(pm map[string]any) map[string]any {
	if s, ok := pm["schema"].(map[string]any); ok {
		return s
	}
	typ := stringField(pm, "type")
	if typ == "" {
		typ = "string"
	}
	s := map[string]any{"type": typ}
	if items, ok := pm["items"].(map[string]any); ok {
		s["items"] = items
	}
	if f := stringField(pm, "format"); f != "" {
		s["format"] = f
	}
	return s
}

func bodyToFormData(pm map[string]any) map[string]any {
	name := stringField(pm, "name")
	if name == "" {
		name = "field"
	}
	out := map[string]any{"in": "formData", "name": name}
	if d := stringField(pm, "description"); d != "" {
		out["description"] = d
	}
	if req, ok := pm["required"].(bool); ok {
		out["required"] = req
	}
	schema := paramSchema(pm)
	typ := stringField(schema, "type")
	if typ == "" {
		// Referenced objects have no formData representation.
		typ = "string"
	}
	out["type"] = typ
	if items, ok := schema["items"]; ok {
		out["items"] = items
	}
	if f := stringField(schema, "format"); f != "" {
		out["format"] = f
	}
	return out
}
