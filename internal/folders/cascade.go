package folders

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"

	"media-service/internal/storage"
	apperrors "media-service/pkg/errors"
	"media-service/pkg/validator"
)

// DeleteError is one failed object removal inside a cascade.
type DeleteError struct {
	Key     string `json:"key"`
	Message string `json:"error"`
}

// DeleteReport aggregates a cascade delete. The operation succeeded fully
// when Errors is empty; a non-empty Errors with non-zero counts is a partial
// result the caller must surface distinctly from full success.
type DeleteReport struct {
	DeletedFileCount      int           `json:"deletedFileCount"`
	DeletedSubfolderCount int           `json:"deletedSubfolderCount"`
	Errors                []DeleteError `json:"errors"`
}

// Partial reports whether some objects could not be removed.
func (r *DeleteReport) Partial() bool {
	return len(r.Errors) > 0
}

// DeleteFolder removes every object nested under fullPath across all
// backends: files first, then folder markers deepest-first, the target's own
// marker last. Individual failures are recorded and the loop continues, so a
// single stuck object never blocks removal of the rest. Every deleted image
// is permanently unrecoverable; there is no trash stage.
func (r *Registry) DeleteFolder(ctx context.Context, fullPath string) (*DeleteReport, error) {
	if fullPath == RootSentinel {
		return nil, apperrors.InvalidInput("cannot delete the uploads root")
	}
	if err := validator.FolderPath(fullPath); err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}

	type target struct {
		backend storage.Backend
		key     string
	}

	var files, markers []target

	for _, backend := range r.backends {
		objects, err := backend.List(ctx, fullPath)
		if err != nil {
			return nil, apperrors.Backend(fmt.Sprintf("failed to enumerate folder %q", fullPath), err)
		}

		for _, obj := range objects {
			t := target{backend: backend, key: obj.Key}
			if isMarker(obj.Key) {
				markers = append(markers, t)
			} else {
				files = append(files, t)
			}
		}
	}

	// Markers go deepest-first so the target's own marker is the last object
	// removed: if anything below fails, the folder is still enumerable.
	sort.SliceStable(markers, func(i, j int) bool {
		return strings.Count(markers[i].key, "/") > strings.Count(markers[j].key, "/")
	})

	report := &DeleteReport{Errors: []DeleteError{}}

	for _, t := range files {
		if err := t.backend.DeleteOne(ctx, t.key); err != nil {
			report.Errors = append(report.Errors, DeleteError{Key: t.key, Message: err.Error()})
			continue
		}
		report.DeletedFileCount++
	}

	for _, t := range markers {
		if err := t.backend.DeleteOne(ctx, t.key); err != nil {
			report.Errors = append(report.Errors, DeleteError{Key: t.key, Message: err.Error()})
			continue
		}
		report.DeletedSubfolderCount++
	}

	return report, nil
}

// EmptyFolder removes the contents of fullPath on every backend but keeps
// the folder itself: its marker is rewritten afterwards so the emptied
// folder stays enumerable.
func (r *Registry) EmptyFolder(ctx context.Context, fullPath string) (*DeleteReport, error) {
	if fullPath == RootSentinel {
		return nil, apperrors.InvalidInput("cannot empty the uploads root")
	}
	if err := validator.FolderPath(fullPath); err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}

	report := &DeleteReport{Errors: []DeleteError{}}

	for _, backend := range r.backends {
		result, err := backend.DeleteByPrefix(ctx, fullPath)
		if err != nil {
			return nil, apperrors.Backend(fmt.Sprintf("failed to enumerate folder %q", fullPath), err)
		}

		report.DeletedFileCount += result.Deleted
		for _, keyErr := range result.Errors {
			report.Errors = append(report.Errors, DeleteError{Key: keyErr.Key, Message: keyErr.Err.Error()})
		}
	}

	if _, err := r.Primary().Put(ctx, MarkerKey(fullPath), bytes.NewReader(nil), "application/octet-stream"); err != nil {
		return nil, apperrors.Backend(fmt.Sprintf("failed to restore marker for %q", fullPath), err)
	}

	return report, nil
}
