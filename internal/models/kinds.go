package models

import "github.com/harentsoaR/school-api/internal/resource"

// Kinds lists every entity kind in route order.
func Kinds() []resource.Descriptor {
	return []resource.Descriptor{
		UserKind,
		TeacherKind,
		StudentKind,
		HealthProfessionalKind,
		EventKind,
		AppointmentKind,
	}
}
