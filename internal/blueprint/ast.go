package blueprint

// Description AST definitions. Field names follow the drafter AST serialization
// so a rendered AST decodes without a mapping layer.

type Description struct {
	Name           string          `json:"name" yaml:"name"`
	Description    string          `json:"description" yaml:"description"`
	Metadata       []Metadata      `json:"metadata" yaml:"metadata"`
	ResourceGroups []ResourceGroup `json:"resourceGroups" yaml:"resourceGroups"`
}

// Metadata is one dotted-key entry from the description header, e.g.
// "AUTH.basic.username: alice". Value is usually a string but may hold any
// decoded scalar or structure.
type Metadata struct {
	Name  string `json:"name" yaml:"name"`
	Value any    `json:"value" yaml:"value"`
}

type ResourceGroup struct {
	Name        string      `json:"name" yaml:"name"`
	Description string      `json:"description" yaml:"description"`
	URITemplate string      `json:"uriTemplate" yaml:"uriTemplate"`
	Parameters  []Parameter `json:"parameters" yaml:"parameters"`
	Resources   []Resource  `json:"resources" yaml:"resources"`
}

type Resource struct {
	Name        string      `json:"name" yaml:"name"`
	Description string      `json:"description" yaml:"description"`
	URITemplate string      `json:"uriTemplate" yaml:"uriTemplate"`
	Parameters  []Parameter `json:"parameters" yaml:"parameters"`
	Actions     []Action    `json:"actions" yaml:"actions"`
}

type Action struct {
	Name        string           `json:"name" yaml:"name"`
	Description string           `json:"description" yaml:"description"`
	Method      string           `json:"method" yaml:"method"`
	Parameters  []Parameter      `json:"parameters" yaml:"parameters"`
	Attributes  ActionAttributes `json:"attributes" yaml:"attributes"`
	Examples    []Example        `json:"examples" yaml:"examples"`
}

// ActionAttributes carries the action's URI template, relative to its resource.
type ActionAttributes struct {
	URITemplate string `json:"uriTemplate" yaml:"uriTemplate"`
}

type Parameter struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Type        string `json:"type" yaml:"type"`
	Required    bool   `json:"required" yaml:"required"`
	Example     string `json:"example" yaml:"example"`
}

type Example struct {
	Name      string    `json:"name" yaml:"name"`
	Requests  []Payload `json:"requests" yaml:"requests"`
	Responses []Payload `json:"responses" yaml:"responses"`
}

// Payload is a request or response of an example. Name holds the status code
// for responses.
type Payload struct {
	Name    string   `json:"name" yaml:"name"`
	Headers []Header `json:"headers" yaml:"headers"`
	Body    string   `json:"body" yaml:"body"`
}

type Header struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// Header returns the value of the first header named exactly name.
func (p Payload) Header(name string) (string, bool) {
	for _, h := range p.Headers {
		if h.Name == name {
			return h.Value, true
		}
	}
	return "", false
}
