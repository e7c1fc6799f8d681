package usecase

import (
	"gestion-personas/internal/personas/domain/model"
	apperrors "gestion-personas/internal/shared/errors"
)

// UploadFile appends a new record for ownerID, creating the owner's sequence
// when it does not exist yet. The record gets a fresh id and today's date.
// On a validation error files is returned unchanged.
func (o *Operations) UploadFile(files model.FileStore, ownerID string, draft model.FileDraft) (model.FileStore, model.FileRecord, error) {
	switch {
	case draft.Name == "":
		return files, model.FileRecord{}, apperrors.NewMissingFieldError("name")
	case ownerID == "":
		return files, model.FileRecord{}, apperrors.NewMissingFieldError("owner")
	case draft.URI == "":
		return files, model.FileRecord{}, apperrors.NewMissingFieldError("uri")
	}

	// ids are unique across every owner, which also makes them unique per owner
	id := o.freshID(func(candidate string) bool {
		for _, seq := range files {
			if model.FindFile(seq, candidate) >= 0 {
				return true
			}
		}
		return false
	})

	record := model.FileRecord{
		ID:   id,
		Name: draft.Name,
		Date: o.now().Format(o.dateLayout),
		URI:  draft.URI,
	}

	next := files.Clone()
	next[ownerID] = append(next[ownerID], record)
	return next, record, nil
}

// DeleteFile removes fileID from ownerID's sequence. The owner key stays even
// when its sequence becomes empty. Unknown owners or files yield a not-found
// error and files unchanged.
func (o *Operations) DeleteFile(files model.FileStore, ownerID, fileID string) (model.FileStore, error) {
	seq, ok := files[ownerID]
	if !ok {
		return files, apperrors.NewFileNotFoundError(ownerID, fileID)
	}
	idx := model.FindFile(seq, fileID)
	if idx < 0 {
		return files, apperrors.NewFileNotFoundError(ownerID, fileID)
	}

	rest := make([]model.FileRecord, 0, len(seq)-1)
	rest = append(rest, seq[:idx]...)
	rest = append(rest, seq[idx+1:]...)

	next := files.Clone()
	next[ownerID] = rest
	return next, nil
}
