package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/school-api/internal/resource"
)

type Teacher struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name    string             `bson:"name" json:"name"`
	Subject string             `bson:"subject" json:"subject"`
	Phone   string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Email   string             `bson:"email,omitempty" json:"email,omitempty"`
	Status  string             `bson:"status,omitempty" json:"status,omitempty"`
}

var TeacherKind = resource.Descriptor{
	Kind:       "teachers",
	Name:       "teacher",
	Collection: "teachers",
	Fields: []resource.Field{
		{Name: "name", Required: true, Example: "Calypso"},
		{Name: "subject", Required: true, Example: "Music"},
		{Name: "phone", Example: "+55 11 99999-0000"},
		{Name: "email", Example: "calypso@school.org"},
		{Name: "status", Example: "active"},
	},
	SearchParam: "name",
	SearchField: "name",
	Match:       resource.Substring,
}
