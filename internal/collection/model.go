package collection

import "github.com/mark3labs/apib2postman/internal/metadata"

// Postman collection v2.0.0 structures produced by Assemble. This is the
// intermediate form handed to the version converter.

// SchemaV2 identifies the collection format built by Assemble.
const SchemaV2 = "https://schema.getpostman.com/json/collection/v2.0.0/collection.json"

// Version of the collection format built by Assemble.
const Version = "2.0.0"

type Collection struct {
	Info     Info           `json:"info"`
	Variable []Variable     `json:"variable"`
	Auth     *metadata.Node `json:"auth"`
	Item     []Folder       `json:"item"`
}

type Info struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	PostmanID   string `json:"_postman_id"`
	Schema      string `json:"schema"`
}

// Folder holds the items of one resource group.
type Folder struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Item        []Item `json:"item"`
}

type Item struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Request     Request `json:"request"`
}

type Request struct {
	URL         URL            `json:"url"`
	Auth        *metadata.Node `json:"auth"`
	Method      string         `json:"method"`
	Header      []Header       `json:"header"`
	Body        *Body          `json:"body,omitempty"`
	Description string         `json:"description"`
}

type Header struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Body is only set for requests with a non-empty example body.
type Body struct {
	Mode string `json:"mode"`
	Raw  string `json:"raw"`
}

type URL struct {
	Raw      string        `json:"raw"`
	Host     []string      `json:"host"`
	Path     []string      `json:"path"`
	Query    []QueryParam  `json:"query"`
	Variable []URLVariable `json:"variable"`
}

type QueryParam struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// URLVariable describes one ":name" path segment.
type URLVariable struct {
	Key         string `json:"key"`
	Value       string `json:"value"`
	Description string `json:"description"`
	Type        string `json:"type"`
}

// Variable is a collection-level variable taken from scalar metadata.
type Variable struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// Environment is a named set of variables usable with the collection.
type Environment struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Timestamp int64              `json:"timestamp"`
	Synced    bool               `json:"synced"`
	Values    []EnvironmentValue `json:"values"`
}

type EnvironmentValue struct {
	Name  string `json:"name"`
	Key   string `json:"key"`
	Value any    `json:"value"`
	Type  string `json:"type"`
}
