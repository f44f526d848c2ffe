// Package docs derives the Swagger 2.0 description of the API from the entity
// descriptors and publishes it for the swagger UI.
package docs

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/go-openapi/spec"
	"github.com/pkg/errors"
	"github.com/swaggo/swag"

	"github.com/harentsoaR/school-api/internal/resource"
)

const (
	Title   = "Special Education School API"
	Version = "1.0.0"

	errorDef  = "Error"
	bearerDef = "BearerAuth"
)

// Options controls the document-wide settings.
type Options struct {
	BasePath    string
	AuthEnabled bool
}

// Build returns the description of the six operations of every kind, plus
// the login route when authentication is enabled.
func Build(opts Options, kinds []resource.Descriptor) *spec.Swagger {
	sw := &spec.Swagger{SwaggerProps: spec.SwaggerProps{
		Swagger: "2.0",
		Info: &spec.Info{InfoProps: spec.InfoProps{
			Title:       Title,
			Version:     Version,
			Description: "CRUD and search endpoints for users, teachers, students, health professionals, events and appointments.",
		}},
		BasePath:    opts.BasePath,
		Consumes:    []string{"application/json"},
		Produces:    []string{"application/json"},
		Paths:       &spec.Paths{Paths: map[string]spec.PathItem{}},
		Definitions: spec.Definitions{errorDef: errorSchema()},
	}}
	if opts.AuthEnabled {
		sw.SecurityDefinitions = spec.SecurityDefinitions{
			bearerDef: spec.APIKeyAuth("Authorization", "header"),
		}
	}

	if opts.AuthEnabled {
		addLogin(sw)
	}
	for _, d := range kinds {
		addKind(sw, d, opts.AuthEnabled)
	}
	return sw
}

func errorSchema() spec.Schema {
	s := new(spec.Schema).Typed("object", "")
	s.SetProperty("error", *spec.StringProperty())
	s.WithRequired("error")
	s.WithExample(map[string]any{"error": "student 65f1c0ffee0000000000000a not found"})
	return *s
}

// DefinitionName turns "health professional" into "HealthProfessional".
func DefinitionName(d resource.Descriptor) string {
	var b strings.Builder
	for _, word := range strings.Fields(d.Name) {
		b.WriteString(strings.ToUpper(word[:1]) + word[1:])
	}
	return b.String()
}

func fieldSchema(f resource.Field) *spec.Schema {
	p := spec.StringProperty()
	if f.Type == resource.Date {
		p = spec.DateTimeProperty()
	}
	if f.Default != nil {
		p.WithDefault(f.Default)
	}
	return p
}

// recordSchema is a stored record as returned by the API.
func recordSchema(d resource.Descriptor) spec.Schema {
	s := new(spec.Schema).Typed("object", "")
	s.SetProperty("id", *spec.StringProperty().WithDescription("Store-assigned identifier"))
	example := map[string]any{"id": "65f1c0ffee0000000000000a"}
	for _, f := range d.Fields {
		if f.WriteOnly {
			continue
		}
		s.SetProperty(f.Name, *fieldSchema(f))
		example[f.Name] = f.Example
	}
	s.WithExample(example)
	return *s
}

// inputSchema is the create/update payload.
func inputSchema(d resource.Descriptor) spec.Schema {
	s := new(spec.Schema).Typed("object", "")
	example := map[string]any{}
	for _, f := range d.Fields {
		s.SetProperty(f.Name, *fieldSchema(f))
		example[f.Name] = f.Example
	}
	s.WithRequired(d.Required()...)
	s.WithExample(example)
	return *s
}

func ref(name string) *spec.Schema {
	return spec.RefSchema("#/definitions/" + name)
}

func errorResponse(desc string) *spec.Response {
	return spec.NewResponse().WithDescription(desc).WithSchema(ref(errorDef))
}

func addKind(sw *spec.Swagger, d resource.Descriptor, secured bool) {
	name := DefinitionName(d)
	sw.Definitions[name] = recordSchema(d)
	sw.Definitions[name+"Input"] = inputSchema(d)

	record := ref(name)
	records := spec.ArrayProperty(ref(name))
	input := ref(name + "Input")
	idParam := spec.PathParam("id").Typed("string", "").WithDescription(d.Name + " identifier")

	newOp := func(id, summary string) *spec.Operation {
		op := spec.NewOperation(id).WithSummary(summary).WithTags(d.Kind)
		if secured {
			op.SecuredWith(bearerDef)
			op.RespondsWith(http.StatusUnauthorized, errorResponse("Missing or invalid token"))
		}
		return op.RespondsWith(http.StatusInternalServerError, errorResponse("Store failure"))
	}
	writeOp := func(id, summary string) *spec.Operation {
		op := newOp(id, summary)
		if secured && d.WriteRole != "" {
			op.RespondsWith(http.StatusForbidden, errorResponse("Requires the "+d.WriteRole+" access level"))
		}
		return op
	}

	list := newOp("list-"+d.Kind, "List every "+d.Name).
		RespondsWith(http.StatusOK, spec.NewResponse().WithDescription("OK").WithSchema(records))

	searchParam := spec.QueryParam(d.SearchParam).Typed("string", "").AsRequired()
	searchSummary := "Search " + d.Kind + " by " + d.SearchParam + " (case-insensitive substring)"
	if d.Match == resource.DayRange {
		searchParam.Typed("string", "date")
		searchSummary = "Search " + d.Kind + " on a UTC day (YYYY-MM-DD)"
	}
	search := newOp("search-"+d.Kind, searchSummary).
		AddParam(searchParam).
		RespondsWith(http.StatusOK, spec.NewResponse().WithDescription("Matches").WithSchema(records)).
		RespondsWith(http.StatusBadRequest, errorResponse("Missing or malformed query parameter")).
		RespondsWith(http.StatusNotFound, errorResponse("No matches"))

	get := newOp("get-"+d.Kind, "Get a "+d.Name).
		AddParam(idParam).
		RespondsWith(http.StatusOK, spec.NewResponse().WithDescription("OK").WithSchema(record)).
		RespondsWith(http.StatusBadRequest, errorResponse("Malformed identifier")).
		RespondsWith(http.StatusNotFound, errorResponse("Not found"))

	create := writeOp("create-"+d.Kind, "Create a "+d.Name).
		AddParam(spec.BodyParam("body", input).AsRequired()).
		RespondsWith(http.StatusCreated, spec.NewResponse().WithDescription("Created").WithSchema(record)).
		RespondsWith(http.StatusBadRequest, errorResponse("Validation failed or duplicate unique field"))

	update := writeOp("update-"+d.Kind, "Update some fields of a "+d.Name).
		AddParam(idParam).
		AddParam(spec.BodyParam("body", input)).
		RespondsWith(http.StatusOK, spec.NewResponse().WithDescription("Updated").WithSchema(record)).
		RespondsWith(http.StatusBadRequest, errorResponse("Validation failed or malformed identifier")).
		RespondsWith(http.StatusNotFound, errorResponse("Not found"))

	del := writeOp("delete-"+d.Kind, "Delete a "+d.Name).
		AddParam(idParam).
		RespondsWith(http.StatusNoContent, spec.NewResponse().WithDescription("Deleted")).
		RespondsWith(http.StatusBadRequest, errorResponse("Malformed identifier")).
		RespondsWith(http.StatusNotFound, errorResponse("Not found"))

	base := "/" + d.Kind
	sw.Paths.Paths[base] = spec.PathItem{PathItemProps: spec.PathItemProps{Get: list, Post: create}}
	sw.Paths.Paths[base+"/search"] = spec.PathItem{PathItemProps: spec.PathItemProps{Get: search}}
	sw.Paths.Paths[base+"/{id}"] = spec.PathItem{PathItemProps: spec.PathItemProps{Get: get, Put: update, Delete: del}}
}

func addLogin(sw *spec.Swagger) {
	body := new(spec.Schema).Typed("object", "")
	body.SetProperty("login", *spec.StringProperty().WithDescription("Username or email"))
	body.SetProperty("password", *spec.StringProperty())
	body.WithRequired("login", "password")

	resp := new(spec.Schema).Typed("object", "")
	resp.SetProperty("token", *spec.StringProperty())
	resp.SetProperty("user", *ref("User"))

	login := spec.NewOperation("login").WithSummary("Exchange credentials for a JWT").WithTags("auth").
		AddParam(spec.BodyParam("body", body).AsRequired()).
		RespondsWith(http.StatusOK, spec.NewResponse().WithDescription("Logged in").WithSchema(resp)).
		RespondsWith(http.StatusBadRequest, errorResponse("Missing fields")).
		RespondsWith(http.StatusUnauthorized, errorResponse("Invalid credentials")).
		RespondsWith(http.StatusTooManyRequests, errorResponse("Rate limited"))
	sw.Paths.Paths["/auth/login"] = spec.PathItem{PathItemProps: spec.PathItemProps{Post: login}}
}

// document is registered with swag once; Publish swaps its content.
type document struct {
	mu  sync.RWMutex
	doc string
}

func (d *document) ReadDoc() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.doc
}

var (
	published    = &document{}
	registerOnce sync.Once
)

// Publish makes sw the document served by the swagger UI.
func Publish(sw *spec.Swagger) error {
	b, err := json.Marshal(sw)
	if err != nil {
		return errors.Wrap(err, "encoding swagger document")
	}
	published.mu.Lock()
	published.doc = string(b)
	published.mu.Unlock()

	registerOnce.Do(func() { swag.Register(swag.Name, published) })
	return nil
}
