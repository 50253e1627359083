package transform

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mark3labs/apib2postman/internal/collection"
	"github.com/mark3labs/apib2postman/internal/metadata"
)

// Postman collection v1.0.0 structures.

type V1Collection struct {
	ID           string                `json:"id"`
	Name         string                `json:"name"`
	Description  string                `json:"description"`
	Variables    []collection.Variable `json:"variables"`
	Order        []string              `json:"order"`
	FoldersOrder []string              `json:"folders_order"`
	Folders      []V1Folder            `json:"folders"`
	Requests     []V1Request           `json:"requests"`
}

type V1Folder struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Order        []string `json:"order"`
	FoldersOrder []string `json:"folders_order"`
}

type V1Request struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	Description      string            `json:"description"`
	URL              string            `json:"url"`
	Method           string            `json:"method"`
	Headers          string            `json:"headers"`
	HeaderData       []V1KeyValue      `json:"headerData"`
	QueryParams      []V1QueryParam    `json:"queryParams"`
	PathVariables    map[string]string `json:"pathVariables"`
	PathVariableData []V1PathVariable  `json:"pathVariableData"`
	DataMode         string            `json:"dataMode"`
	Data             []V1KeyValue      `json:"data"`
	RawModeData      string            `json:"rawModeData,omitempty"`
	CurrentHelper    *string           `json:"currentHelper"`
	HelperAttributes map[string]any    `json:"helperAttributes,omitempty"`
	CollectionID     string            `json:"collectionId"`
	Folder           string            `json:"folder"`
}

type V1KeyValue struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type V1QueryParam struct {
	Key    string `json:"key"`
	Value  string `json:"value"`
	Equals bool   `json:"equals"`
}

type V1PathVariable struct {
	Key         string `json:"key"`
	Value       string `json:"value"`
	Description string `json:"description"`
	Type        string `json:"type"`
}

// v1Helpers maps v2 auth types to v1 helper names.
var v1Helpers = map[string]string{
	"basic":  "basicAuth",
	"bearer": "bearerAuth",
	"digest": "digestAuth",
	"oauth1": "oAuth1",
	"oauth2": "oAuth2",
	"hawk":   "hawkAuth",
	"awsv4":  "awsSigV4",
	"ntlm":   "ntlmAuth",
}

// stableID derives a name-based (v5) UUID so folder and request ids do not
// change between runs over the same description.
func stableID(parts ...string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(strings.Join(parts, "/"))).String()
}

func toV1(col *collection.Collection) *V1Collection {
	out := &V1Collection{
		ID:           col.Info.PostmanID,
		Name:         col.Info.Name,
		Description:  col.Info.Description,
		Variables:    append([]collection.Variable{}, col.Variable...),
		Order:        []string{},
		FoldersOrder: []string{},
		Folders:      []V1Folder{},
		Requests:     []V1Request{},
	}

	for fi, f := range col.Item {
		folder := V1Folder{
			ID:           stableID(col.Info.Name, fmt.Sprint(fi), f.Name),
			Name:         f.Name,
			Description:  f.Description,
			Order:        []string{},
			FoldersOrder: []string{},
		}
		for ii, item := range f.Item {
			req := v1Request(item, stableID(col.Info.Name, fmt.Sprint(fi), fmt.Sprint(ii), item.Name))
			req.CollectionID = out.ID
			req.Folder = folder.ID
			folder.Order = append(folder.Order, req.ID)
			out.Requests = append(out.Requests, req)
		}
		out.FoldersOrder = append(out.FoldersOrder, folder.ID)
		out.Folders = append(out.Folders, folder)
	}
	return out
}

func v1Request(item collection.Item, id string) V1Request {
	r := item.Request
	req := V1Request{
		ID:               id,
		Name:             item.Name,
		Description:      item.Description,
		URL:              r.URL.Raw,
		Method:           r.Method,
		HeaderData:       []V1KeyValue{},
		QueryParams:      []V1QueryParam{},
		PathVariables:    map[string]string{},
		PathVariableData: []V1PathVariable{},
		DataMode:         "params",
		Data:             []V1KeyValue{},
	}

	var headers strings.Builder
	for _, h := range r.Header {
		fmt.Fprintf(&headers, "%s: %s\n", h.Key, h.Value)
		req.HeaderData = append(req.HeaderData, V1KeyValue{Key: h.Key, Value: h.Value})
	}
	req.Headers = headers.String()

	for _, q := range r.URL.Query {
		req.QueryParams = append(req.QueryParams, V1QueryParam{Key: q.Key, Value: q.Value, Equals: true})
	}
	for _, v := range r.URL.Variable {
		req.PathVariables[v.Key] = v.Value
		req.PathVariableData = append(req.PathVariableData, V1PathVariable{
			Key:         v.Key,
			Value:       v.Value,
			Description: v.Description,
			Type:        v.Type,
		})
	}

	if r.Body != nil && r.Body.Mode == "raw" {
		req.DataMode = "raw"
		req.RawModeData = r.Body.Raw
	}

	req.CurrentHelper, req.HelperAttributes = v1Auth(r.Auth)
	return req
}

// v1Auth converts a v2.0.0 auth object ({type, <type>: {...}}) into a v1
// helper name and its attributes. No type, or "noauth", yields no helper.
func v1Auth(auth *metadata.Node) (*string, map[string]any) {
	typeNode, ok := auth.Get("type")
	if !ok {
		return nil, nil
	}
	authType, ok := typeNode.Text()
	if !ok || authType == "" || authType == "noauth" {
		return nil, nil
	}
	helper, ok := v1Helpers[authType]
	if !ok {
		helper = authType
	}
	attrs := map[string]any{}
	if params, ok := auth.Get(authType); ok {
		if m, ok := params.Plain().(map[string]any); ok {
			for k, v := range m {
				attrs[k] = v
			}
		}
	}
	attrs["id"] = authType
	return &helper, attrs
}
