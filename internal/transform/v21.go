package transform

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/apib2postman/internal/collection"
	"github.com/mark3labs/apib2postman/internal/metadata"
)

// SchemaV21 identifies the v2.1.0 collection format.
const SchemaV21 = "https://schema.getpostman.com/json/collection/v2.1.0/collection.json"

// Postman collection v2.1.0 structures. They only differ from v2.0.0 in the
// auth representation, which lists attributes as key/value pairs.

type V21Collection struct {
	Info     collection.Info       `json:"info"`
	Variable []collection.Variable `json:"variable"`
	Auth     *V21Auth              `json:"auth,omitempty"`
	Item     []V21Folder           `json:"item"`
}

type V21Folder struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Item        []V21Item `json:"item"`
}

type V21Item struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Request     V21Request `json:"request"`
}

type V21Request struct {
	URL         collection.URL      `json:"url"`
	Auth        *V21Auth            `json:"auth,omitempty"`
	Method      string              `json:"method"`
	Header      []collection.Header `json:"header"`
	Body        *collection.Body    `json:"body,omitempty"`
	Description string              `json:"description"`
}

// V21Auth renders as {"type": T, T: [{key, value, type}, ...]}.
type V21Auth struct {
	Type       string
	Attributes []V21AuthAttribute
}

type V21AuthAttribute struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
	Type  string `json:"type"`
}

func (a V21Auth) MarshalJSON() ([]byte, error) {
	typ, err := json.Marshal(a.Type)
	if err != nil {
		return nil, err
	}
	attrs := a.Attributes
	if attrs == nil {
		attrs = []V21AuthAttribute{}
	}
	list, err := json.Marshal(attrs)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `{"type":%s`, typ)
	if a.Type != "noauth" {
		fmt.Fprintf(&buf, `,%s:%s`, typ, list)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func toV21(col *collection.Collection) *V21Collection {
	out := &V21Collection{
		Info:     col.Info,
		Variable: append([]collection.Variable{}, col.Variable...),
		Auth:     v21Auth(col.Auth),
		Item:     make([]V21Folder, 0, len(col.Item)),
	}
	out.Info.Schema = SchemaV21

	for _, f := range col.Item {
		folder := V21Folder{Name: f.Name, Description: f.Description, Item: make([]V21Item, 0, len(f.Item))}
		for _, item := range f.Item {
			r := item.Request
			folder.Item = append(folder.Item, V21Item{
				Name:        item.Name,
				Description: item.Description,
				Request: V21Request{
					URL:         r.URL,
					Auth:        v21Auth(r.Auth),
					Method:      r.Method,
					Header:      r.Header,
					Body:        r.Body,
					Description: r.Description,
				},
			})
		}
		out.Item = append(out.Item, folder)
	}
	return out
}

func v21Auth(auth *metadata.Node) *V21Auth {
	typeNode, ok := auth.Get("type")
	if !ok {
		return nil
	}
	authType, ok := typeNode.Text()
	if !ok || authType == "" {
		return nil
	}
	out := &V21Auth{Type: authType}
	params, ok := auth.Get(authType)
	if !ok || params.Kind() != metadata.Mapping {
		return out
	}
	for _, key := range params.Keys() {
		v, _ := params.Get(key)
		out.Attributes = append(out.Attributes, V21AuthAttribute{Key: key, Value: v.Plain(), Type: "string"})
	}
	return out
}
