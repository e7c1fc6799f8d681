package usecase_test

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"gestion-personas/internal/personas/domain/model"
	"gestion-personas/internal/personas/usecase"
	apperrors "gestion-personas/internal/shared/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, time.October, 14, 9, 30, 0, 0, time.UTC)

func sequentialIDs(prefix string) usecase.IDGenerator {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s%d", prefix, n)
	}
}

func newTestOperations(prefix string) *usecase.Operations {
	return usecase.NewOperations(
		usecase.WithIDGenerator(sequentialIDs(prefix)),
		usecase.WithClock(func() time.Time { return fixedNow }),
	)
}

func TestOperations_PersonScenario(t *testing.T) {
	ops := newTestOperations("I")

	persons, created, err := ops.AddPerson([]model.Person{}, model.PersonDraft{Nombre: "Ana", Apellido: "Lopez"})
	require.NoError(t, err)
	require.Len(t, persons, 1)
	assert.Equal(t, "I1", created.ID)
	assert.Equal(t, model.Person{ID: "I1", Nombre: "Ana", Apellido: "Lopez"}, persons[0])

	unchanged, _, err := ops.AddPerson(persons, model.PersonDraft{Nombre: "", Apellido: "X"})
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, persons, unchanged)

	files := model.FileStore{"I1": {{ID: "F1", Name: "pic1", URI: "u1"}}}
	persons, files, err = ops.DeletePerson(persons, files, "I1")
	require.NoError(t, err)
	assert.Empty(t, persons)
	assert.NotContains(t, files, "I1")
}

func TestOperations_AddPerson_Validation(t *testing.T) {
	ops := newTestOperations("P")
	current := []model.Person{{ID: "a", Nombre: "A", Apellido: "B"}}

	cases := []struct {
		name  string
		draft model.PersonDraft
		field string
	}{
		{"missing nombre", model.PersonDraft{Apellido: "Lopez"}, "nombre"},
		{"missing apellido", model.PersonDraft{Nombre: "Ana"}, "apellido"},
		{"both missing", model.PersonDraft{}, "nombre"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			next, _, err := ops.AddPerson(current, tc.draft)
			require.Error(t, err)
			appErr, ok := apperrors.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, tc.field, appErr.Details["field"])
			assert.Equal(t, current, next)
		})
	}
}

func TestOperations_AddPerson_PreservesOrderAndInput(t *testing.T) {
	ops := newTestOperations("P")
	current := []model.Person{{ID: "x", Nombre: "X", Apellido: "Y"}}

	next, created, err := ops.AddPerson(current, model.PersonDraft{Nombre: "Ana", Apellido: "Lopez", Correo: "ana@example.com", Foto: model.StringPtr("file:///a.jpg")})
	require.NoError(t, err)
	require.Len(t, next, 2)
	assert.Equal(t, "x", next[0].ID)
	assert.Equal(t, created, next[1])
	assert.Equal(t, "ana@example.com", next[1].Correo)
	assert.Len(t, current, 1)

	next[0].Nombre = "mutated"
	assert.Equal(t, "X", current[0].Nombre)
}

func TestOperations_AddPerson_CollidingGenerator(t *testing.T) {
	ops := usecase.NewOperations(usecase.WithIDGenerator(func() string { return "same" }))
	var persons []model.Person
	var err error
	for i := 0; i < 4; i++ {
		persons, _, err = ops.AddPerson(persons, model.PersonDraft{Nombre: "N", Apellido: "A"})
		require.NoError(t, err)
	}
	assertUniquePersonIDs(t, persons)
	assert.Equal(t, "same", persons[0].ID)
}

func TestOperations_DefaultIDsAreUnique(t *testing.T) {
	ops := usecase.NewOperations()
	var persons []model.Person
	var err error
	for i := 0; i < 200; i++ {
		persons, _, err = ops.AddPerson(persons, model.PersonDraft{Nombre: "N", Apellido: "A"})
		require.NoError(t, err)
	}
	assertUniquePersonIDs(t, persons)
}

func TestOperations_EditPerson(t *testing.T) {
	ops := newTestOperations("P")
	current := []model.Person{
		{ID: "a", Nombre: "A", Apellido: "A", Foto: model.StringPtr("file:///a.jpg")},
		{ID: "b", Nombre: "B", Apellido: "B"},
		{ID: "c", Nombre: "C", Apellido: "C"},
	}

	next, updated, err := ops.EditPerson(current, "b", model.PersonDraft{Nombre: "Beto", Apellido: "Ruiz", Correo: "b@example.com"})
	require.NoError(t, err)
	assert.Equal(t, model.Person{ID: "b", Nombre: "Beto", Apellido: "Ruiz", Correo: "b@example.com"}, updated)
	assert.Equal(t, []string{"a", "b", "c"}, personIDs(next))
	assert.Equal(t, updated, next[1])
	assert.Equal(t, current[0], next[0])
	assert.Equal(t, "B", current[1].Nombre)
}

func TestOperations_EditPerson_Rejections(t *testing.T) {
	ops := newTestOperations("P")
	current := []model.Person{{ID: "a", Nombre: "A", Apellido: "A"}}

	next, _, err := ops.EditPerson(current, "missing", model.PersonDraft{Nombre: "N", Apellido: "A"})
	assert.True(t, apperrors.IsNotFound(err))
	assert.Equal(t, current, next)

	next, _, err = ops.EditPerson(current, "a", model.PersonDraft{Nombre: "N"})
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, current, next)
}

func TestOperations_DeletePerson_CascadesRegardlessOfUploads(t *testing.T) {
	ops := newTestOperations("F")
	persons := []model.Person{{ID: "a", Nombre: "A", Apellido: "A"}, {ID: "b", Nombre: "B", Apellido: "B"}}

	for uploads := 0; uploads < 5; uploads++ {
		files := model.FileStore{"b": {{ID: "keep", Name: "k", URI: "u"}}}
		var err error
		for i := 0; i < uploads; i++ {
			files, _, err = ops.UploadFile(files, "a", model.FileDraft{Name: fmt.Sprintf("pic%d", i), URI: "u"})
			require.NoError(t, err)
		}

		nextPersons, nextFiles, err := ops.DeletePerson(persons, files, "a")
		require.NoError(t, err)
		assert.Equal(t, []string{"b"}, personIDs(nextPersons))
		assert.NotContains(t, nextFiles, "a")
		assert.Len(t, nextFiles["b"], 1)
		assert.Equal(t, uploads, files.Count("a"), "input must stay untouched")
	}
}

func TestOperations_DeletePerson_NotFound(t *testing.T) {
	ops := newTestOperations("P")
	persons := []model.Person{{ID: "a"}}
	files := model.FileStore{"a": {}}

	nextPersons, nextFiles, err := ops.DeletePerson(persons, files, "zzz")
	assert.True(t, apperrors.IsNotFound(err))
	assert.Equal(t, persons, nextPersons)
	assert.Equal(t, files, nextFiles)
}

func TestOperations_FileScenario(t *testing.T) {
	ops := newTestOperations("F")

	files, first, err := ops.UploadFile(model.FileStore{}, "I1", model.FileDraft{Name: "pic1", URI: "u1"})
	require.NoError(t, err)
	assert.Equal(t, model.FileStore{"I1": {{ID: "F1", Name: "pic1", Date: "14/10/2026", URI: "u1"}}}, files)

	files, _, err = ops.UploadFile(files, "I1", model.FileDraft{Name: "pic2", URI: "u2"})
	require.NoError(t, err)
	require.Len(t, files["I1"], 2)
	assert.Equal(t, "pic1", files["I1"][0].Name)
	assert.Equal(t, "pic2", files["I1"][1].Name)

	files, err = ops.DeleteFile(files, "I1", first.ID)
	require.NoError(t, err)
	require.Len(t, files["I1"], 1)
	assert.Equal(t, "pic2", files["I1"][0].Name)
}

func TestOperations_UploadFile_Rejections(t *testing.T) {
	ops := newTestOperations("F")
	files := model.FileStore{"I1": {{ID: "x", Name: "a", URI: "u"}}}

	cases := []struct {
		name  string
		owner string
		draft model.FileDraft
	}{
		{"empty name", "I1", model.FileDraft{URI: "u"}},
		{"empty owner", "", model.FileDraft{Name: "n", URI: "u"}},
		{"no image", "I1", model.FileDraft{Name: "n"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			next, _, err := ops.UploadFile(files, tc.owner, tc.draft)
			assert.True(t, apperrors.IsValidation(err))
			assert.Equal(t, files, next)
		})
	}
}

func TestOperations_UploadThenDeleteRestoresSequence(t *testing.T) {
	ops := newTestOperations("F")
	prior := []model.FileRecord{{ID: "a", Name: "one", Date: "1/1/2026", URI: "u1"}, {ID: "b", Name: "two", Date: "2/1/2026", URI: "u2"}}
	files := model.FileStore{"I1": prior, "I2": {{ID: "c", Name: "other", URI: "u3"}}}

	uploaded, record, err := ops.UploadFile(files, "I1", model.FileDraft{Name: "new", URI: "u4"})
	require.NoError(t, err)
	restored, err := ops.DeleteFile(uploaded, "I1", record.ID)
	require.NoError(t, err)

	assert.Equal(t, prior, restored["I1"])
	assert.Equal(t, files["I2"], restored["I2"])
}

func TestOperations_DeleteFile_KeepsEmptyOwner(t *testing.T) {
	ops := newTestOperations("F")
	files := model.FileStore{"I1": {{ID: "f", Name: "n", URI: "u"}}}

	next, err := ops.DeleteFile(files, "I1", "f")
	require.NoError(t, err)
	assert.Contains(t, next, "I1")
	assert.Empty(t, next["I1"])
	assert.Len(t, files["I1"], 1)
}

func TestOperations_DeleteFile_NotFound(t *testing.T) {
	ops := newTestOperations("F")
	files := model.FileStore{"I1": {{ID: "f"}}}

	next, err := ops.DeleteFile(files, "nobody", "f")
	assert.True(t, apperrors.IsNotFound(err))
	assert.Equal(t, files, next)

	next, err = ops.DeleteFile(files, "I1", "missing")
	assert.True(t, apperrors.IsNotFound(err))
	assert.Equal(t, files, next)
}

func TestOperations_DateLayout(t *testing.T) {
	ops := usecase.NewOperations(
		usecase.WithClock(func() time.Time { return fixedNow }),
		usecase.WithDateLayout("2006-01-02"),
	)
	_, record, err := ops.UploadFile(nil, "I1", model.FileDraft{Name: "n", URI: "u"})
	require.NoError(t, err)
	assert.Equal(t, "2026-10-14", record.Date)
}

// Random add/edit/delete sequences never produce duplicate ids, and deletes
// never leave files for a missing person.
func TestOperations_RandomSequencesKeepInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	ops := usecase.NewOperations(usecase.WithIDGenerator(func() string {
		// a tiny id space forces collisions
		return fmt.Sprintf("id%d", rng.Intn(4))
	}))

	var persons []model.Person
	files := model.FileStore{}
	for step := 0; step < 500; step++ {
		switch rng.Intn(4) {
		case 0, 1:
			persons, _, _ = ops.AddPerson(persons, model.PersonDraft{Nombre: "N", Apellido: "A"})
		case 2:
			if len(persons) > 0 {
				p := persons[rng.Intn(len(persons))]
				persons, _, _ = ops.EditPerson(persons, p.ID, model.PersonDraft{Nombre: "E", Apellido: "A"})
				files, _, _ = ops.UploadFile(files, p.ID, model.FileDraft{Name: "f", URI: "u"})
			}
		case 3:
			if len(persons) > 0 {
				id := persons[rng.Intn(len(persons))].ID
				var err error
				persons, files, err = ops.DeletePerson(persons, files, id)
				require.NoError(t, err)
				assert.NotContains(t, files, id)
			}
		}
		assertUniquePersonIDs(t, persons)
		for owner := range files {
			assert.GreaterOrEqual(t, model.FindPerson(persons, owner), 0, "orphaned files for %s", owner)
		}
	}
}

func assertUniquePersonIDs(t *testing.T, persons []model.Person) {
	t.Helper()
	seen := make(map[string]bool, len(persons))
	for _, p := range persons {
		assert.False(t, seen[p.ID], "duplicate id %s", p.ID)
		seen[p.ID] = true
	}
}

func personIDs(persons []model.Person) []string {
	ids := make([]string, len(persons))
	for i, p := range persons {
		ids[i] = p.ID
	}
	return ids
}
