package models

import (
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/school-api/internal/resource"
	"github.com/harentsoaR/school-api/internal/utils"
)

// AdminAccessLevel is the access level allowed to manage user accounts.
const AdminAccessLevel = "admin"

type User struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Email       string             `bson:"email" json:"email"`
	Username    string             `bson:"username" json:"username"`
	Password    string             `bson:"password" json:"-"` // bcrypt hash, never serialized
	AccessLevel string             `bson:"accessLevel,omitempty" json:"accessLevel,omitempty"`
	Status      string             `bson:"status,omitempty" json:"status,omitempty"`
}

var UserKind = resource.Descriptor{
	Kind:       "users",
	Name:       "user",
	Collection: "users",
	Fields: []resource.Field{
		{Name: "name", Required: true, Example: "Chilli Heeler"},
		{Name: "email", Required: true, Example: "chilli@school.org"},
		{Name: "username", Required: true, Example: "chilli"},
		{Name: "password", Required: true, WriteOnly: true, Example: "s3cret-passw0rd"},
		{Name: "accessLevel", Example: "admin"},
		{Name: "status", Example: "active"},
	},
	SearchParam: "name",
	SearchField: "name",
	Match:       resource.Substring,
	Unique:      []string{"username", "email"},
	WriteRole:   AdminAccessLevel,
	Prepare:     hashPassword,
}

// hashPassword replaces a plaintext password in doc with its bcrypt hash.
func hashPassword(doc bson.M) error {
	pw, ok := doc["password"].(string)
	if !ok {
		return nil
	}
	hash, err := utils.HashPassword(pw)
	if errors.Is(err, utils.ErrPasswordTooLong) {
		return resource.InvalidInput("password must be at most %d bytes", utils.MaxPasswordBytes)
	}
	if err != nil {
		return resource.Unavailable(err, "hashing password")
	}
	doc["password"] = hash
	return nil
}
