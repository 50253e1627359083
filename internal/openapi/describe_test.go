package openapi

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mark3labs/apib2postman/internal/blueprint"
)

const petstore = `openapi: 3.0.3
info:
  title: Petstore
  description: Pets and owners.
  version: "1.0.0"
servers:
  - url: https://api.pets.test/
    description: production
  - url: https://staging.pets.test
    description: staging.eu
tags:
  - name: pets
    description: Pet operations
security:
  - bearerAuth: []
components:
  securitySchemes:
    bearerAuth:
      type: http
      scheme: bearer
paths:
  /pets/{petId}:
    parameters:
      - name: petId
        in: path
        required: true
        description: Pet id
        schema:
          type: integer
          example: 42
    get:
      tags: [pets]
      summary: Get pet
      parameters:
        - name: verbose
          in: query
          schema:
            type: boolean
            default: false
        - name: X-Trace
          in: header
          example: abc
          schema:
            type: string
      responses:
        "404":
          description: missing
        "200":
          description: ok
          content:
            application/json:
              example:
                id: 42
  /health:
    get:
      operationId: health
      responses:
        default:
          description: ok
          content:
            text/plain:
              example: up
`

func loadDescription(t *testing.T, doc string) *blueprint.Description {
	t.Helper()
	desc, err := Parser{}.Parse(context.Background(), []byte(doc), blueprint.ParseOptions{RequireName: true})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return desc
}

func TestDescribe_Metadata(t *testing.T) {
	t.Parallel()
	desc := loadDescription(t, petstore)
	if desc.Name != "Petstore" || desc.Description != "Pets and owners." {
		t.Fatalf("unexpected name/description: %q %q", desc.Name, desc.Description)
	}
	want := []blueprint.Metadata{
		{Name: "HOST", Value: "https://api.pets.test"},
		{Name: "ENV.production.HOST", Value: "https://api.pets.test"},
		{Name: "ENV.staging eu.HOST", Value: "https://staging.pets.test"},
		{Name: "AUTH.type", Value: "bearer"},
		{Name: "AUTH.bearer.token", Value: "{{token}}"},
	}
	if diff := cmp.Diff(want, desc.Metadata); diff != "" {
		t.Fatalf("metadata mismatch (-want +got):\n%s", diff)
	}
}

func TestDescribe_GroupsAndActions(t *testing.T) {
	t.Parallel()
	desc := loadDescription(t, petstore)
	if len(desc.ResourceGroups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(desc.ResourceGroups))
	}
	pets := desc.ResourceGroups[0]
	if pets.Name != "pets" || pets.Description != "Pet operations" {
		t.Fatalf("unexpected first group: %+v", pets)
	}
	if got := desc.ResourceGroups[1].Name; got != DefaultGroup {
		t.Fatalf("untagged operations should land in %q, got %q", DefaultGroup, got)
	}

	res := pets.Resources[0]
	if res.URITemplate != "/pets/{petId}" {
		t.Fatalf("unexpected resource template %q", res.URITemplate)
	}
	want := blueprint.Action{
		Name:        "Get pet",
		Description: "Get pet",
		Method:      "GET",
		Parameters: []blueprint.Parameter{{
			Name: "petId", Description: "Pet id", Type: "integer", Required: true, Example: "42",
		}},
		Attributes: blueprint.ActionAttributes{URITemplate: "?verbose=false"},
		Examples: []blueprint.Example{{
			Requests: []blueprint.Payload{{
				Headers: []blueprint.Header{{Name: "X-Trace", Value: "abc"}},
			}},
			Responses: []blueprint.Payload{{
				Name:    "200",
				Headers: []blueprint.Header{{Name: "Content-Type", Value: "application/json"}},
				Body:    "{\n  \"id\": 42\n}",
			}},
		}},
	}
	if diff := cmp.Diff(want, res.Actions[0]); diff != "" {
		t.Fatalf("action mismatch (-want +got):\n%s", diff)
	}
}

func TestDescribe_DefaultResponseAndName(t *testing.T) {
	t.Parallel()
	desc := loadDescription(t, petstore)
	action := desc.ResourceGroups[1].Resources[0].Actions[0]
	if action.Name != "health" {
		t.Fatalf("operationId should name the action, got %q", action.Name)
	}
	resp := action.Examples[0].Responses[0]
	if resp.Name != "default" || resp.Body != "up" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if ct, _ := resp.Header("Content-Type"); ct != "text/plain" {
		t.Fatalf("unexpected content type %q", ct)
	}
}

func TestDescribe_NoServers(t *testing.T) {
	t.Parallel()
	doc := strings.Replace(petstore, `servers:
  - url: https://api.pets.test/
    description: production
  - url: https://staging.pets.test
    description: staging.eu
`, "", 1)
	desc := loadDescription(t, doc)
	for _, m := range desc.Metadata {
		if m.Name == "HOST" || strings.HasPrefix(m.Name, "ENV.") {
			t.Fatalf("unexpected server metadata %+v", m)
		}
	}
}
