package openapi

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/mark3labs/apib2postman/internal/blueprint"
)

// DefaultGroup collects operations without tags.
const DefaultGroup = "Default"

type methodOp struct {
	method string
	op     *openapi3.Operation
}

// Describe maps an OpenAPI document onto the description AST:
//   - info.title and info.description name the description;
//   - the first server becomes the HOST metadata, and with several servers
//     each one also becomes an ENV.<name>.HOST entry;
//   - the first http or apiKey security requirement becomes AUTH metadata;
//   - each operation's first tag picks its resource group, each path its
//     resource, and each operation an action with one synthesized example.
func Describe(doc *openapi3.T) *blueprint.Description {
	desc := &blueprint.Description{}
	if doc.Info != nil {
		desc.Name = strings.TrimSpace(doc.Info.Title)
		desc.Description = strings.TrimSpace(doc.Info.Description)
	}
	desc.Metadata = append(serverMetadata(doc.Servers), authMetadata(doc)...)

	groups := map[string]*blueprint.ResourceGroup{}
	var order []string
	for _, tag := range doc.Tags {
		if tag == nil || strings.TrimSpace(tag.Name) == "" {
			continue
		}
		name := strings.TrimSpace(tag.Name)
		if _, ok := groups[name]; ok {
			continue
		}
		groups[name] = &blueprint.ResourceGroup{Name: name, Description: strings.TrimSpace(tag.Description)}
		order = append(order, name)
	}
	group := func(name string) *blueprint.ResourceGroup {
		if g, ok := groups[name]; ok {
			return g
		}
		g := &blueprint.ResourceGroup{Name: name}
		groups[name] = g
		order = append(order, name)
		return g
	}

	pathKeys := make([]string, 0, len(doc.Paths))
	for p := range doc.Paths {
		pathKeys = append(pathKeys, p)
	}
	sort.Strings(pathKeys)

	for _, p := range pathKeys {
		item := doc.Paths[p]
		if item == nil {
			continue
		}
		ops := []methodOp{
			{"GET", item.Get},
			{"POST", item.Post},
			{"PUT", item.Put},
			{"DELETE", item.Delete},
			{"PATCH", item.Patch},
			{"HEAD", item.Head},
			{"OPTIONS", item.Options},
			{"TRACE", item.Trace},
		}
		// One resource per (group, path) pair, created on first use.
		resources := map[string]*blueprint.Resource{}
		var resourceOrder []string
		for _, pair := range ops {
			if pair.op == nil {
				continue
			}
			groupName := DefaultGroup
			for _, t := range pair.op.Tags {
				if t = strings.TrimSpace(t); t != "" {
					groupName = t
					break
				}
			}
			res, ok := resources[groupName]
			if !ok {
				res = &blueprint.Resource{Name: p, URITemplate: p}
				resources[groupName] = res
				resourceOrder = append(resourceOrder, groupName)
			}
			res.Actions = append(res.Actions, describeOperation(p, pair, item.Parameters))
		}
		for _, g := range resourceOrder {
			grp := group(g)
			grp.Resources = append(grp.Resources, *resources[g])
		}
	}

	for _, name := range order {
		g := groups[name]
		if len(g.Resources) == 0 {
			continue
		}
		desc.ResourceGroups = append(desc.ResourceGroups, *g)
	}
	return desc
}

func serverMetadata(servers openapi3.Servers) []blueprint.Metadata {
	var urls []*openapi3.Server
	for _, s := range servers {
		if s != nil && strings.TrimSpace(s.URL) != "" {
			urls = append(urls, s)
		}
	}
	if len(urls) == 0 {
		return nil
	}
	meta := []blueprint.Metadata{{Name: "HOST", Value: serverURL(urls[0])}}
	if len(urls) == 1 {
		return meta
	}
	for i, s := range urls {
		name := strings.TrimSpace(s.Description)
		if name == "" {
			name = fmt.Sprintf("server %d", i+1)
		}
		// Dots would nest the environment name.
		name = strings.ReplaceAll(name, ".", " ")
		meta = append(meta, blueprint.Metadata{Name: "ENV." + name + ".HOST", Value: serverURL(s)})
	}
	return meta
}

// serverURL substitutes server variable defaults and drops a trailing slash.
func serverURL(s *openapi3.Server) string {
	u := strings.TrimSpace(s.URL)
	for name, v := range s.Variables {
		if v != nil {
			u = strings.ReplaceAll(u, "{"+name+"}", fmt.Sprint(v.Default))
		}
	}
	return strings.TrimSuffix(u, "/")
}

func authMetadata(doc *openapi3.T) []blueprint.Metadata {
	if doc.Components == nil || len(doc.Security) == 0 {
		return nil
	}
	for _, req := range doc.Security {
		names := make([]string, 0, len(req))
		for name := range req {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			ref := doc.Components.SecuritySchemes[name]
			if ref == nil || ref.Value == nil {
				continue
			}
			scheme := ref.Value
			switch {
			case scheme.Type == "http" && strings.EqualFold(scheme.Scheme, "basic"):
				return []blueprint.Metadata{
					{Name: "AUTH.type", Value: "basic"},
					{Name: "AUTH.basic.username", Value: "{{username}}"},
					{Name: "AUTH.basic.password", Value: "{{password}}"},
				}
			case scheme.Type == "http" && strings.EqualFold(scheme.Scheme, "bearer"):
				return []blueprint.Metadata{
					{Name: "AUTH.type", Value: "bearer"},
					{Name: "AUTH.bearer.token", Value: "{{token}}"},
				}
			case scheme.Type == "apiKey":
				return []blueprint.Metadata{
					{Name: "AUTH.type", Value: "apikey"},
					{Name: "AUTH.apikey.key", Value: scheme.Name},
					{Name: "AUTH.apikey.value", Value: "{{apiKey}}"},
					{Name: "AUTH.apikey.in", Value: scheme.In},
				}
			}
		}
	}
	return nil
}

func describeOperation(path string, pair methodOp, pathParams openapi3.Parameters) blueprint.Action {
	op := pair.op
	action := blueprint.Action{
		Name:        strings.TrimSpace(op.Summary),
		Description: strings.TrimSpace(op.Description),
		Method:      pair.method,
	}
	if action.Name == "" {
		action.Name = strings.TrimSpace(op.OperationID)
	}
	if action.Name == "" {
		action.Name = pair.method + " " + path
	}
	if action.Description == "" {
		action.Description = strings.TrimSpace(op.Summary)
	}

	// Operation-level parameters override path-level ones with the same
	// location and name.
	merged := map[string]*openapi3.Parameter{}
	var keys []string
	for _, refs := range []openapi3.Parameters{pathParams, op.Parameters} {
		for _, ref := range refs {
			if ref == nil || ref.Value == nil {
				continue
			}
			k := ref.Value.In + ":" + ref.Value.Name
			if _, ok := merged[k]; !ok {
				keys = append(keys, k)
			}
			merged[k] = ref.Value
		}
	}

	var query []string
	var headers []blueprint.Header
	for _, k := range keys {
		p := merged[k]
		example := parameterExample(p)
		switch p.In {
		case openapi3.ParameterInPath:
			action.Parameters = append(action.Parameters, blueprint.Parameter{
				Name:        p.Name,
				Description: strings.TrimSpace(p.Description),
				Type:        schemaType(p.Schema),
				Required:    true,
				Example:     example,
			})
		case openapi3.ParameterInQuery:
			query = append(query, p.Name+"="+example)
		case openapi3.ParameterInHeader:
			headers = append(headers, blueprint.Header{Name: p.Name, Value: example})
		}
	}
	if len(query) > 0 {
		action.Attributes.URITemplate = "?" + strings.Join(query, "&")
	}

	request := blueprint.Payload{Headers: headers}
	if op.RequestBody != nil && op.RequestBody.Value != nil {
		if mime, mt := pickMedia(op.RequestBody.Value.Content); mt != nil {
			request.Headers = append(request.Headers, blueprint.Header{Name: "Content-Type", Value: mime})
			request.Body = renderExample(mediaExample(mt))
		}
	}

	action.Examples = []blueprint.Example{{
		Requests:  []blueprint.Payload{request},
		Responses: []blueprint.Payload{describeResponse(op.Responses)},
	}}
	return action
}

// describeResponse picks the lowest 2xx response, falling back to "default"
// and then to the lowest status code.
func describeResponse(responses openapi3.Responses) blueprint.Payload {
	codes := make([]string, 0, len(responses))
	for code := range responses {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	chosen := ""
	for _, c := range codes {
		if strings.HasPrefix(c, "2") {
			chosen = c
			break
		}
	}
	if chosen == "" {
		if _, ok := responses["default"]; ok {
			chosen = "default"
		} else if len(codes) > 0 {
			chosen = codes[0]
		}
	}

	payload := blueprint.Payload{Name: chosen}
	ref := responses[chosen]
	if ref == nil || ref.Value == nil {
		return payload
	}
	if mime, mt := pickMedia(ref.Value.Content); mt != nil {
		payload.Headers = append(payload.Headers, blueprint.Header{Name: "Content-Type", Value: mime})
		payload.Body = renderExample(mediaExample(mt))
	}
	return payload
}

// pickMedia prefers application/json, then the first media type by name.
func pickMedia(content openapi3.Content) (string, *openapi3.MediaType) {
	if len(content) == 0 {
		return "", nil
	}
	if mt := content["application/json"]; mt != nil {
		return "application/json", mt
	}
	keys := make([]string, 0, len(content))
	for k := range content {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if mt := content[k]; mt != nil {
			return k, mt
		}
	}
	return "", nil
}

func mediaExample(mt *openapi3.MediaType) any {
	if mt.Example != nil {
		return mt.Example
	}
	if len(mt.Examples) > 0 {
		names := make([]string, 0, len(mt.Examples))
		for name := range mt.Examples {
			names = append(names, name)
		}
		sort.Strings(names)
		if ref := mt.Examples[names[0]]; ref != nil && ref.Value != nil {
			return ref.Value.Value
		}
	}
	if mt.Schema != nil && mt.Schema.Value != nil {
		return mt.Schema.Value.Example
	}
	return nil
}

func renderExample(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	default:
		b, err := json.MarshalIndent(val, "", "  ")
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(b)
	}
}

func parameterExample(p *openapi3.Parameter) string {
	var v any
	switch {
	case p.Example != nil:
		v = p.Example
	case len(p.Examples) > 0:
		names := make([]string, 0, len(p.Examples))
		for name := range p.Examples {
			names = append(names, name)
		}
		sort.Strings(names)
		if ref := p.Examples[names[0]]; ref != nil && ref.Value != nil {
			v = ref.Value.Value
		}
	case p.Schema != nil && p.Schema.Value != nil:
		s := p.Schema.Value
		switch {
		case s.Example != nil:
			v = s.Example
		case s.Default != nil:
			v = s.Default
		case len(s.Enum) > 0:
			v = s.Enum[0]
		}
	}
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(b)
	}
}

func schemaType(ref *openapi3.SchemaRef) string {
	if ref == nil || ref.Value == nil {
		return ""
	}
	return strings.TrimSpace(ref.Value.Type)
}
