// Package collection turns a description AST and its metadata tree into a
// Postman v2.0.0 collection and its environments.
package collection

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mark3labs/apib2postman/internal/blueprint"
	"github.com/mark3labs/apib2postman/internal/metadata"
)

// Reserved top-level metadata keys. They never become collection variables.
const (
	FormatKey = "FORMAT"
	AuthKey   = "AUTH"
	EnvKey    = "ENV"
)

// Option configures Assemble and Environments.
type Option func(*settings)

type settings struct {
	newID func() string
	now   func() time.Time
}

func newSettings(opts []Option) *settings {
	s := &settings{
		newID: func() string { return uuid.New().String() },
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithIDGenerator overrides how the collection's _postman_id is generated.
func WithIDGenerator(fn func() string) Option {
	return func(s *settings) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// WithClock overrides the time source for environment timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.now = now
		}
	}
}

// Assemble builds the intermediate collection: one folder per resource group,
// holding one item per action of its resources, in description order.
func Assemble(desc *blueprint.Description, tree *metadata.Tree, opts ...Option) (*Collection, error) {
	if desc == nil {
		return nil, fmt.Errorf("collection: nil description")
	}
	if tree == nil {
		tree = metadata.Build(nil)
	}
	s := newSettings(opts)

	auth, ok := tree.Get(AuthKey)
	if !ok {
		auth = metadata.Empty()
	}

	folders := make([]Folder, 0, len(desc.ResourceGroups))
	for _, group := range desc.ResourceGroups {
		items := []Item{}
		for _, resource := range group.Resources {
			for _, action := range resource.Actions {
				item, err := MapAction(group, resource, action, auth)
				if err != nil {
					return nil, fmt.Errorf("group %q: %w", group.Name, err)
				}
				items = append(items, item)
			}
		}
		folders = append(folders, Folder{
			Name:        group.Name,
			Description: group.Description,
			Item:        items,
		})
	}

	return &Collection{
		Info: Info{
			Name:        desc.Name,
			Description: desc.Description,
			PostmanID:   s.newID(),
			Schema:      SchemaV2,
		},
		Variable: Variables(tree),
		Auth:     auth,
		Item:     folders,
	}, nil
}

// Variables returns the top-level scalar metadata (strings, numbers and
// booleans) other than the reserved keys, in tree order.
func Variables(tree *metadata.Tree) []Variable {
	vars := []Variable{}
	for _, key := range tree.Keys() {
		switch key {
		case FormatKey, AuthKey, EnvKey:
			continue
		}
		n, _ := tree.Get(key)
		if !n.IsPrimitive() {
			continue
		}
		vars = append(vars, Variable{Key: key, Value: n.Value()})
	}
	return vars
}
