package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/school-api/internal/resource"
)

type Event struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Description string             `bson:"description" json:"description"`
	Comment     string             `bson:"comment,omitempty" json:"comment,omitempty"`
	Date        time.Time          `bson:"date" json:"date"`
}

var EventKind = resource.Descriptor{
	Kind:       "events",
	Name:       "event",
	Collection: "events",
	Fields: []resource.Field{
		{Name: "description", Required: true, Example: "Family day"},
		{Name: "comment", Example: "Bring snacks"},
		{Name: "date", Type: resource.Date, Required: true, Example: "2023-11-05T14:00:00Z"},
	},
	SearchParam: "date",
	SearchField: "date",
	Match:       resource.DayRange,
}
