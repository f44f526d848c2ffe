package resource

import (
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

// FieldType is the stored type of a field.
type FieldType int

const (
	String FieldType = iota
	Date
)

// MatchMode is how the search parameter is matched against the search field.
type MatchMode int

const (
	// Substring is a case-insensitive substring match.
	Substring MatchMode = iota
	// DayRange matches every record whose date falls on the given UTC day.
	DayRange
)

// DateLayout is the format of day values in search queries.
const DateLayout = "2006-01-02"

type Field struct {
	Name     string
	Type     FieldType
	Required bool
	// Default is stored on create when the field is absent. Nil means none.
	Default any
	// WriteOnly fields are accepted on input but never returned.
	WriteOnly bool
	// Example is shown in generated documentation.
	Example string
}

// Descriptor declares one entity kind: how it is stored, which fields it
// accepts and how it is searched.
type Descriptor struct {
	// Kind is the URL segment, e.g. "students".
	Kind string
	// Name is the singular entity name used in messages and documentation.
	Name        string
	Collection  string
	Fields      []Field
	SearchParam string
	SearchField string
	Match       MatchMode
	// Unique fields may not hold the same value in two records.
	Unique []string
	// WriteRole, when set, is the role required to create, update or delete
	// records of this kind while authentication is enabled.
	WriteRole string
	// Prepare runs on every validated create or update document before it is
	// written.
	Prepare func(doc bson.M) error
}

func (d Descriptor) Field(name string) (Field, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Required lists the names of the required fields.
func (d Descriptor) Required() []string {
	var names []string
	for _, f := range d.Fields {
		if f.Required {
			names = append(names, f.Name)
		}
	}
	return names
}

// document validates an incoming JSON object and converts it into a store
// document. Unknown fields and nulls are ignored. With partial set, required
// fields and defaults are not enforced.
func (d Descriptor) document(fields map[string]any, partial bool) (bson.M, error) {
	doc := bson.M{}
	for _, f := range d.Fields {
		raw, ok := fields[f.Name]
		if !ok || raw == nil {
			if !partial && f.Required {
				return nil, InvalidInput("%s is required", f.Name)
			}
			if !partial && f.Default != nil {
				doc[f.Name] = f.Default
			}
			continue
		}

		v, err := convert(f, raw)
		if err != nil {
			return nil, err
		}
		if s, isString := v.(string); isString && s == "" && f.Required {
			return nil, InvalidInput("%s must not be empty", f.Name)
		}
		doc[f.Name] = v
	}

	if d.Prepare != nil {
		if err := d.Prepare(doc); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func convert(f Field, raw any) (any, error) {
	switch f.Type {
	case Date:
		s, ok := raw.(string)
		if !ok {
			return nil, InvalidInput("%s must be a date string", f.Name)
		}
		t, err := ParseDate(s)
		if err != nil {
			return nil, InvalidInput("%s must be an RFC 3339 timestamp or a YYYY-MM-DD date", f.Name)
		}
		return t, nil
	default:
		switch v := raw.(type) {
		case string:
			return v, nil
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64), nil
		case bool:
			return strconv.FormatBool(v), nil
		default:
			return nil, InvalidInput("%s must be a string", f.Name)
		}
	}
}

// ParseDate accepts an RFC 3339 timestamp or a bare day, which is taken as
// midnight UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	return time.Parse(DateLayout, s)
}
