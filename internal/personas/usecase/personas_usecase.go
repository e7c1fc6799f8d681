package usecase

import (
	"context"
	"sync"

	"gestion-personas/internal/personas/domain/model"
	"gestion-personas/internal/personas/domain/repository"
	apperrors "gestion-personas/internal/shared/errors"
	"gestion-personas/internal/shared/eventbus"
	"gestion-personas/internal/shared/logger"
	"gestion-personas/internal/shared/utils"
)

// PersonasUsecase is the command interface a view uses. Commands are
// validated, applied to the store's current state and handed back to the store.
type PersonasUsecase interface {
	ListPersons(ctx context.Context) []model.Person
	GetPerson(ctx context.Context, id string) (model.Person, error)
	ListFiles(ctx context.Context, ownerID string) ([]model.FileRecord, error)
	Snapshot(ctx context.Context) model.Snapshot
	Activity(ctx context.Context) []model.ActivityRow

	AddPerson(ctx context.Context, draft model.PersonDraft) (model.Person, error)
	EditPerson(ctx context.Context, id string, draft model.PersonDraft) (model.Person, error)
	RemovePhoto(ctx context.Context, id string) (model.Person, error)
	DeletePerson(ctx context.Context, id string) error
	UploadFile(ctx context.Context, ownerID string, draft model.FileDraft) (model.FileRecord, error)
	DeleteFile(ctx context.Context, ownerID, fileID string) error

	SelectImage(ctx context.Context, purpose model.PickPurpose) (model.PickResult, error)

	Subscribe(handler ChangeHandler) eventbus.SubscriptionID
	Unsubscribe(id eventbus.SubscriptionID) bool
}

type personasUsecaseImpl struct {
	// mu serializes commands so each one reads the state left by the previous
	mu     sync.Mutex
	store  *Store
	ops    *Operations
	picker repository.ImagePicker
	log    logger.Logger
}

// NewPersonasUsecase creates the command interface over store
func NewPersonasUsecase(store *Store, ops *Operations, picker repository.ImagePicker, log logger.Logger) PersonasUsecase {
	if log == nil {
		log = logger.NewNopLogger()
	}
	if ops == nil {
		ops = NewOperations()
	}
	return &personasUsecaseImpl{
		store:  store,
		ops:    ops,
		picker: picker,
		log:    log.WithComponent("personas_usecase"),
	}
}

func (uc *personasUsecaseImpl) ListPersons(ctx context.Context) []model.Person {
	return uc.store.Persons()
}

func (uc *personasUsecaseImpl) GetPerson(ctx context.Context, id string) (model.Person, error) {
	persons := uc.store.Persons()
	idx := model.FindPerson(persons, id)
	if idx < 0 {
		return model.Person{}, apperrors.NewPersonNotFoundError(id)
	}
	return persons[idx], nil
}

// ListFiles returns the owner's files in upload order. A known person without
// uploads has an empty list.
func (uc *personasUsecaseImpl) ListFiles(ctx context.Context, ownerID string) ([]model.FileRecord, error) {
	snap := uc.store.Snapshot()
	if model.FindPerson(snap.Persons, ownerID) < 0 {
		return nil, apperrors.NewPersonNotFoundError(ownerID)
	}
	return model.CloneFiles(snap.Files[ownerID]), nil
}

func (uc *personasUsecaseImpl) Snapshot(ctx context.Context) model.Snapshot {
	return uc.store.Snapshot()
}

// Activity lists every person, in list order, with its number of files
func (uc *personasUsecaseImpl) Activity(ctx context.Context) []model.ActivityRow {
	snap := uc.store.Snapshot()
	rows := make([]model.ActivityRow, 0, len(snap.Persons))
	for _, p := range snap.Persons {
		rows = append(rows, model.ActivityRow{Person: p, FileCount: snap.Files.Count(p.ID)})
	}
	return rows
}

func (uc *personasUsecaseImpl) AddPerson(ctx context.Context, draft model.PersonDraft) (model.Person, error) {
	ctx = utils.WithOperation(ctx, "add_person")
	uc.mu.Lock()
	defer uc.mu.Unlock()

	next, created, err := uc.ops.AddPerson(uc.store.Persons(), draft)
	if err != nil {
		uc.rejected(ctx, err)
		return model.Person{}, err
	}
	uc.store.ReplacePersons(ctx, next)
	uc.log.WithContext(ctx).Infof("Person %s added", created.ID)
	return created, nil
}

func (uc *personasUsecaseImpl) EditPerson(ctx context.Context, id string, draft model.PersonDraft) (model.Person, error) {
	ctx = utils.WithPersonID(utils.WithOperation(ctx, "edit_person"), id)
	uc.mu.Lock()
	defer uc.mu.Unlock()

	return uc.editLocked(ctx, id, draft)
}

// RemovePhoto clears the photo of the person with id, keeping every other field
func (uc *personasUsecaseImpl) RemovePhoto(ctx context.Context, id string) (model.Person, error) {
	ctx = utils.WithPersonID(utils.WithOperation(ctx, "remove_photo"), id)
	uc.mu.Lock()
	defer uc.mu.Unlock()

	persons := uc.store.Persons()
	idx := model.FindPerson(persons, id)
	if idx < 0 {
		err := apperrors.NewPersonNotFoundError(id)
		uc.rejected(ctx, err)
		return model.Person{}, err
	}
	draft := persons[idx].Draft()
	draft.Foto = nil
	return uc.editLocked(ctx, id, draft)
}

func (uc *personasUsecaseImpl) editLocked(ctx context.Context, id string, draft model.PersonDraft) (model.Person, error) {
	next, updated, err := uc.ops.EditPerson(uc.store.Persons(), id, draft)
	if err != nil {
		uc.rejected(ctx, err)
		return model.Person{}, err
	}
	uc.store.ReplacePersons(ctx, next)
	uc.log.WithContext(ctx).Infof("Person %s updated", id)
	return updated, nil
}

// DeletePerson removes the person and its files as one replacement
func (uc *personasUsecaseImpl) DeletePerson(ctx context.Context, id string) error {
	ctx = utils.WithPersonID(utils.WithOperation(ctx, "delete_person"), id)
	uc.mu.Lock()
	defer uc.mu.Unlock()

	snap := uc.store.Snapshot()
	persons, files, err := uc.ops.DeletePerson(snap.Persons, snap.Files, id)
	if err != nil {
		uc.rejected(ctx, err)
		return err
	}
	uc.store.ReplaceAll(ctx, persons, files)
	uc.log.WithContext(ctx).Infof("Person %s deleted with %d files", id, snap.Files.Count(id))
	return nil
}

// UploadFile attaches a file to an existing person
func (uc *personasUsecaseImpl) UploadFile(ctx context.Context, ownerID string, draft model.FileDraft) (model.FileRecord, error) {
	ctx = utils.WithPersonID(utils.WithOperation(ctx, "upload_file"), ownerID)
	uc.mu.Lock()
	defer uc.mu.Unlock()

	snap := uc.store.Snapshot()
	next, record, err := uc.ops.UploadFile(snap.Files, ownerID, draft)
	if err != nil {
		uc.rejected(ctx, err)
		return model.FileRecord{}, err
	}
	if model.FindPerson(snap.Persons, ownerID) < 0 {
		err := apperrors.NewPersonNotFoundError(ownerID)
		uc.rejected(ctx, err)
		return model.FileRecord{}, err
	}
	uc.store.ReplaceFiles(ctx, next)
	uc.log.WithContext(ctx).Infof("File %s uploaded for person %s", record.ID, ownerID)
	return record, nil
}

func (uc *personasUsecaseImpl) DeleteFile(ctx context.Context, ownerID, fileID string) error {
	ctx = utils.WithPersonID(utils.WithOperation(ctx, "delete_file"), ownerID)
	uc.mu.Lock()
	defer uc.mu.Unlock()

	next, err := uc.ops.DeleteFile(uc.store.Files(), ownerID, fileID)
	if err != nil {
		uc.rejected(ctx, err)
		return err
	}
	uc.store.ReplaceFiles(ctx, next)
	uc.log.WithContext(ctx).Infof("File %s of person %s deleted", fileID, ownerID)
	return nil
}

// SelectImage asks the image-selection capability for one image. Nothing is
// mutated; the caller puts the returned URI into its next command.
func (uc *personasUsecaseImpl) SelectImage(ctx context.Context, purpose model.PickPurpose) (model.PickResult, error) {
	ctx = utils.WithOperation(ctx, "select_image")
	switch purpose {
	case model.PickPurposePhoto, model.PickPurposeFile:
	default:
		return model.PickResult{}, apperrors.NewValidationError("unknown image purpose").
			WithCode("invalid_purpose").WithDetail("purpose", string(purpose))
	}
	if uc.picker == nil {
		return model.PickResult{}, apperrors.NewPermissionDeniedError("image selection is not available")
	}

	result, err := uc.picker.Pick(ctx, model.OptionsFor(purpose))
	if err != nil {
		if apperrors.IsPermissionDenied(err) {
			uc.log.WithContext(ctx).Warn("Image library access denied")
			return model.PickResult{}, apperrors.NewPermissionDeniedError("access to the image library is required").WithCause(err)
		}
		return model.PickResult{}, apperrors.WrapError(err, "image selection failed")
	}
	if result.Cancelled || result.URI == "" {
		return model.PickResult{Cancelled: true}, nil
	}
	return result, nil
}

func (uc *personasUsecaseImpl) Subscribe(handler ChangeHandler) eventbus.SubscriptionID {
	return uc.store.Subscribe(handler)
}

func (uc *personasUsecaseImpl) Unsubscribe(id eventbus.SubscriptionID) bool {
	return uc.store.Unsubscribe(id)
}

func (uc *personasUsecaseImpl) rejected(ctx context.Context, err error) {
	uc.log.WithContext(ctx).Debugf("Command rejected: %v", err)
}
