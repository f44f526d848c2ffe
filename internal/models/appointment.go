package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/school-api/internal/resource"
)

// Appointment refers to its student and professional by free-text name; the
// references are not checked against the other collections.
type Appointment struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Specialty    string             `bson:"specialty" json:"specialty"`
	Comments     string             `bson:"comments,omitempty" json:"comments,omitempty"`
	Date         time.Time          `bson:"date" json:"date"`
	Student      string             `bson:"student" json:"student"`
	Professional string             `bson:"professional" json:"professional"`
}

var AppointmentKind = resource.Descriptor{
	Kind:       "appointments",
	Name:       "appointment",
	Collection: "appointments",
	Fields: []resource.Field{
		{Name: "specialty", Required: true, Example: "Occupational therapy"},
		{Name: "comments", Example: "First session"},
		{Name: "date", Type: resource.Date, Required: true, Example: "2023-11-06T09:30:00Z"},
		{Name: "student", Required: true, Example: "Bingo Heeler"},
		{Name: "professional", Required: true, Example: "Dr. Lucky"},
	},
	SearchParam: "date",
	SearchField: "date",
	Match:       resource.DayRange,
}
