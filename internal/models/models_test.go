package models

import (
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/harentsoaR/school-api/internal/resource"
	"github.com/harentsoaR/school-api/internal/utils"
)

func bsonFields(v any) map[string]bool {
	out := map[string]bool{}
	rt := reflect.TypeOf(v)
	for i := 0; i < rt.NumField(); i++ {
		name, _, _ := strings.Cut(rt.Field(i).Tag.Get("bson"), ",")
		out[name] = true
	}
	return out
}

func TestDescriptorsMatchRecords(t *testing.T) {
	records := map[string]any{
		UserKind.Kind:               User{},
		TeacherKind.Kind:            Teacher{},
		StudentKind.Kind:            Student{},
		HealthProfessionalKind.Kind: HealthProfessional{},
		EventKind.Kind:              Event{},
		AppointmentKind.Kind:        Appointment{},
	}

	kinds := Kinds()
	require.Len(t, kinds, len(records))
	for _, d := range kinds {
		fields := bsonFields(records[d.Kind])
		assert.True(t, fields["_id"], d.Kind)
		for _, f := range d.Fields {
			assert.True(t, fields[f.Name], "%s.%s has no bson field", d.Kind, f.Name)
		}
		sf, ok := d.Field(d.SearchField)
		require.True(t, ok, d.Kind)
		if d.Match == resource.DayRange {
			assert.Equal(t, resource.Date, sf.Type, d.Kind)
		} else {
			assert.Equal(t, resource.String, sf.Type, d.Kind)
		}
	}
}

func TestSearchParameters(t *testing.T) {
	want := map[string]string{
		"users": "name", "teachers": "name", "students": "name",
		"prof-saude": "name", "events": "date", "appointments": "date",
	}
	for _, d := range Kinds() {
		assert.Equal(t, want[d.Kind], d.SearchParam, d.Kind)
	}
}

func TestHashPassword(t *testing.T) {
	doc := bson.M{"password": "s3cret-passw0rd"}
	require.NoError(t, hashPassword(doc))
	assert.True(t, utils.CheckPasswordHash("s3cret-passw0rd", doc["password"].(string)))

	doc = bson.M{"status": "active"}
	require.NoError(t, hashPassword(doc))
	assert.NotContains(t, doc, "password")

	err := hashPassword(bson.M{"password": strings.Repeat("x", utils.MaxPasswordBytes+1)})
	assert.Equal(t, resource.KindInvalidInput, resource.KindOf(err))
}
