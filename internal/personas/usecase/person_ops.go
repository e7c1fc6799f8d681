package usecase

import (
	"gestion-personas/internal/personas/domain/model"
	apperrors "gestion-personas/internal/shared/errors"
)

// validatePersonDraft enforces the required fields of a person
func validatePersonDraft(draft model.PersonDraft) error {
	if draft.Nombre == "" {
		return apperrors.NewMissingFieldError("nombre")
	}
	if draft.Apellido == "" {
		return apperrors.NewMissingFieldError("apellido")
	}
	return nil
}

// AddPerson appends a new person built from draft with a fresh id.
// On a validation error current is returned unchanged.
func (o *Operations) AddPerson(current []model.Person, draft model.PersonDraft) ([]model.Person, model.Person, error) {
	if err := validatePersonDraft(draft); err != nil {
		return current, model.Person{}, err
	}

	id := o.freshID(func(candidate string) bool {
		return model.FindPerson(current, candidate) >= 0
	})

	created := personFromDraft(id, draft)

	next := make([]model.Person, 0, len(current)+1)
	next = append(next, model.ClonePersons(current)...)
	next = append(next, created)
	return next, created.Clone(), nil
}

// EditPerson replaces the fields of the person with id by the draft's fields,
// keeping the id and the position. Unknown ids yield a not-found error and
// current unchanged.
func (o *Operations) EditPerson(current []model.Person, id string, draft model.PersonDraft) ([]model.Person, model.Person, error) {
	if err := validatePersonDraft(draft); err != nil {
		return current, model.Person{}, err
	}

	idx := model.FindPerson(current, id)
	if idx < 0 {
		return current, model.Person{}, apperrors.NewPersonNotFoundError(id)
	}

	updated := personFromDraft(id, draft)
	next := model.ClonePersons(current)
	next[idx] = updated
	return next, updated.Clone(), nil
}

// DeletePerson removes the person with id and, in the same step, the file
// collection keyed by id. Unknown ids yield a not-found error and both inputs
// unchanged.
func (o *Operations) DeletePerson(current []model.Person, files model.FileStore, id string) ([]model.Person, model.FileStore, error) {
	idx := model.FindPerson(current, id)
	if idx < 0 {
		return current, files, apperrors.NewPersonNotFoundError(id)
	}

	nextPersons := make([]model.Person, 0, len(current)-1)
	for i, p := range current {
		if i != idx {
			nextPersons = append(nextPersons, p.Clone())
		}
	}

	nextFiles := files.Clone()
	delete(nextFiles, id)

	return nextPersons, nextFiles, nil
}

func personFromDraft(id string, draft model.PersonDraft) model.Person {
	return model.Person{
		ID:       id,
		Nombre:   draft.Nombre,
		Apellido: draft.Apellido,
		Correo:   draft.Correo,
		Foto:     draft.Clone().Foto,
	}
}
