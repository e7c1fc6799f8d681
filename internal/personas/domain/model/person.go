package model

// Person represents a managed individual.
// JSON field names match the collection persisted under the persons key.
type Person struct {
	// ID is assigned at creation time and never changes
	ID string `json:"id"`

	// Nombre and Apellido are required for the record to be persisted
	Nombre   string `json:"nombre"`
	Apellido string `json:"apellido"`

	// Correo is an optional e-mail address
	Correo string `json:"correo,omitempty"`

	// Foto is an opaque URI to the person's photo. nil means no photo and
	// encodes as JSON null.
	Foto *string `json:"foto"`
}

// PersonDraft holds the user-editable fields of a Person
type PersonDraft struct {
	Nombre   string  `json:"nombre"`
	Apellido string  `json:"apellido"`
	Correo   string  `json:"correo,omitempty"`
	Foto     *string `json:"foto"`
}

// Draft returns the editable fields of p
func (p Person) Draft() PersonDraft {
	return PersonDraft{
		Nombre:   p.Nombre,
		Apellido: p.Apellido,
		Correo:   p.Correo,
		Foto:     cloneString(p.Foto),
	}
}

// Clone returns a copy of d that shares no pointers with it
func (d PersonDraft) Clone() PersonDraft {
	d.Foto = cloneString(d.Foto)
	return d
}

// Clone returns a copy of p that shares no pointers with it
func (p Person) Clone() Person {
	p.Foto = cloneString(p.Foto)
	return p
}

// HasPhoto reports whether a photo reference is set
func (p Person) HasPhoto() bool {
	return p.Foto != nil && *p.Foto != ""
}

// ClonePersons copies a person collection, preserving order.
// A nil input yields an empty (non-nil) collection.
func ClonePersons(persons []Person) []Person {
	out := make([]Person, len(persons))
	for i, p := range persons {
		out[i] = p.Clone()
	}
	return out
}

// FindPerson returns the index of the person with id, or -1
func FindPerson(persons []Person, id string) int {
	for i, p := range persons {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// StringPtr returns a pointer to s
func StringPtr(s string) *string {
	return &s
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
