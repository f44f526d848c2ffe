package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/school-api/internal/resource"
)

type HealthProfessional struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Specialty string             `bson:"specialty" json:"specialty"`
	Contact   string             `bson:"contact,omitempty" json:"contact,omitempty"`
	Phone     string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Status    string             `bson:"status,omitempty" json:"status,omitempty"`
}

var HealthProfessionalKind = resource.Descriptor{
	Kind:       "prof-saude",
	Name:       "health professional",
	Collection: "healthprofessionals",
	Fields: []resource.Field{
		{Name: "name", Required: true, Example: "Dr. Lucky"},
		{Name: "specialty", Required: true, Example: "Speech therapy"},
		{Name: "contact", Example: "lucky@clinic.org"},
		{Name: "phone", Example: "+55 11 97777-0000"},
		{Name: "status", Example: "active"},
	},
	SearchParam: "name",
	SearchField: "name",
	Match:       resource.Substring,
}
