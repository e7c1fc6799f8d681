package http

import (
	"context"

	"gestion-personas/internal/personas/domain/model"
	"gestion-personas/internal/personas/usecase"
	"gestion-personas/internal/shared/eventbus"
)

// MockPersonasUC implements usecase.PersonasUsecase for the HTTP tests.
// Unset function fields return zero values.
type MockPersonasUC struct {
	ListPersonsFn  func(ctx context.Context) []model.Person
	GetPersonFn    func(ctx context.Context, id string) (model.Person, error)
	ListFilesFn    func(ctx context.Context, ownerID string) ([]model.FileRecord, error)
	SnapshotFn     func(ctx context.Context) model.Snapshot
	ActivityFn     func(ctx context.Context) []model.ActivityRow
	AddPersonFn    func(ctx context.Context, draft model.PersonDraft) (model.Person, error)
	EditPersonFn   func(ctx context.Context, id string, draft model.PersonDraft) (model.Person, error)
	RemovePhotoFn  func(ctx context.Context, id string) (model.Person, error)
	DeletePersonFn func(ctx context.Context, id string) error
	UploadFileFn   func(ctx context.Context, ownerID string, draft model.FileDraft) (model.FileRecord, error)
	DeleteFileFn   func(ctx context.Context, ownerID, fileID string) error
	SelectImageFn  func(ctx context.Context, purpose model.PickPurpose) (model.PickResult, error)
}

var _ usecase.PersonasUsecase = (*MockPersonasUC)(nil)

func (m *MockPersonasUC) ListPersons(ctx context.Context) []model.Person {
	if m.ListPersonsFn != nil {
		return m.ListPersonsFn(ctx)
	}
	return []model.Person{}
}

func (m *MockPersonasUC) GetPerson(ctx context.Context, id string) (model.Person, error) {
	if m.GetPersonFn != nil {
		return m.GetPersonFn(ctx, id)
	}
	return model.Person{ID: id}, nil
}

func (m *MockPersonasUC) ListFiles(ctx context.Context, ownerID string) ([]model.FileRecord, error) {
	if m.ListFilesFn != nil {
		return m.ListFilesFn(ctx, ownerID)
	}
	return []model.FileRecord{}, nil
}

func (m *MockPersonasUC) Snapshot(ctx context.Context) model.Snapshot {
	if m.SnapshotFn != nil {
		return m.SnapshotFn(ctx)
	}
	return model.Snapshot{Persons: []model.Person{}, Files: model.FileStore{}}
}

func (m *MockPersonasUC) Activity(ctx context.Context) []model.ActivityRow {
	if m.ActivityFn != nil {
		return m.ActivityFn(ctx)
	}
	return []model.ActivityRow{}
}

func (m *MockPersonasUC) AddPerson(ctx context.Context, draft model.PersonDraft) (model.Person, error) {
	if m.AddPersonFn != nil {
		return m.AddPersonFn(ctx, draft)
	}
	return model.Person{}, nil
}

func (m *MockPersonasUC) EditPerson(ctx context.Context, id string, draft model.PersonDraft) (model.Person, error) {
	if m.EditPersonFn != nil {
		return m.EditPersonFn(ctx, id, draft)
	}
	return model.Person{}, nil
}

func (m *MockPersonasUC) RemovePhoto(ctx context.Context, id string) (model.Person, error) {
	if m.RemovePhotoFn != nil {
		return m.RemovePhotoFn(ctx, id)
	}
	return model.Person{}, nil
}

func (m *MockPersonasUC) DeletePerson(ctx context.Context, id string) error {
	if m.DeletePersonFn != nil {
		return m.DeletePersonFn(ctx, id)
	}
	return nil
}

func (m *MockPersonasUC) UploadFile(ctx context.Context, ownerID string, draft model.FileDraft) (model.FileRecord, error) {
	if m.UploadFileFn != nil {
		return m.UploadFileFn(ctx, ownerID, draft)
	}
	return model.FileRecord{}, nil
}

func (m *MockPersonasUC) DeleteFile(ctx context.Context, ownerID, fileID string) error {
	if m.DeleteFileFn != nil {
		return m.DeleteFileFn(ctx, ownerID, fileID)
	}
	return nil
}

func (m *MockPersonasUC) SelectImage(ctx context.Context, purpose model.PickPurpose) (model.PickResult, error) {
	if m.SelectImageFn != nil {
		return m.SelectImageFn(ctx, purpose)
	}
	return model.PickResult{Cancelled: true}, nil
}

func (m *MockPersonasUC) Subscribe(handler usecase.ChangeHandler) eventbus.SubscriptionID {
	return eventbus.SubscriptionID("")
}

func (m *MockPersonasUC) Unsubscribe(id eventbus.SubscriptionID) bool {
	return false
}
