// Package apperr defines the error kinds shared by the wiki client and the
// page workflows.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrPageNotFound      = errors.New("page not found")
	ErrMalformedDocument = errors.New("malformed document")
	ErrMissingMetadata   = errors.New("missing required metadata")
)

// RemoteRequestError is returned when the API answers with a non-200 status.
type RemoteRequestError struct {
	Status int
	Body   string
}

func (e *RemoteRequestError) Error() string {
	return fmt.Sprintf("remote request failed: status %d: %s", e.Status, strings.TrimSpace(e.Body))
}

// GraphQLError carries the messages of a GraphQL "errors" array.
type GraphQLError struct {
	Messages []string
}

func (e *GraphQLError) Error() string {
	return "graphql: " + strings.Join(e.Messages, "; ")
}

// OperationError is returned when the wiki reports succeeded=false for a
// mutation.
type OperationError struct {
	Op      string
	Code    int
	Slug    string
	Message string
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%s rejected: %s (code %d, %s)", e.Op, e.Message, e.Code, e.Slug)
}

// PartialUpdateError reports an update whose delete step succeeded but whose
// create step failed. The page no longer exists remotely; BackupFile holds
// its previous content.
type PartialUpdateError struct {
	Path       string
	PageID     int
	BackupFile string
	Err        error
}

func (e *PartialUpdateError) Error() string {
	return fmt.Sprintf("partial update of %s: page %d deleted but not recreated (backup at %s): %v",
		e.Path, e.PageID, e.BackupFile, e.Err)
}

func (e *PartialUpdateError) Unwrap() error {
	return e.Err
}
