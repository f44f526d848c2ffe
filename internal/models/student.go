package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/school-api/internal/resource"
)

type Student struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Age          string             `bson:"age,omitempty" json:"age,omitempty"`
	Parents      string             `bson:"parents,omitempty" json:"parents,omitempty"`
	Phone        string             `bson:"phone,omitempty" json:"phone,omitempty"`
	SpecialNeeds string             `bson:"specialNeeds,omitempty" json:"specialNeeds,omitempty"`
	Status       string             `bson:"status" json:"status"`
}

var StudentKind = resource.Descriptor{
	Kind:       "students",
	Name:       "student",
	Collection: "students",
	Fields: []resource.Field{
		{Name: "name", Required: true, Example: "Bingo Heeler"},
		{Name: "age", Example: "7"},
		{Name: "parents", Example: "Bandit Heeler, Chilli Heeler"},
		{Name: "phone", Example: "+55 11 98888-0000"},
		{Name: "specialNeeds", Example: "ASD"},
		{Name: "status", Default: "on", Example: "on"},
	},
	SearchParam: "name",
	SearchField: "name",
	Match:       resource.Substring,
}
