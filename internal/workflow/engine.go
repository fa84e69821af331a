// Package workflow implements the page actions: create, get, delete and the
// backup-delete-recreate update.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/starford/wikictl/internal/apperr"
	"github.com/starford/wikictl/internal/checksum"
	"github.com/starford/wikictl/internal/models"
	"github.com/starford/wikictl/internal/storage"
	"github.com/starford/wikictl/internal/wiki"
)

// Action names, as recorded in the journal.
const (
	ActionCreate = "create"
	ActionGet    = "get"
	ActionDelete = "delete"
	ActionUpdate = "update"
)

// PageClient is the remote side of the workflows. *wiki.Client satisfies it.
type PageClient interface {
	FetchPage(ctx context.Context, path string) (*models.Page, error)
	CreatePage(ctx context.Context, in wiki.CreateInput) (*models.ResponseResult, error)
	DeletePage(ctx context.Context, id int) (*models.ResponseResult, error)
}

// Recorder stores journal entries. *journal.DB satisfies it.
type Recorder interface {
	Record(e models.JournalEntry) (int64, error)
}

// Engine runs page workflows against a wiki.
type Engine struct {
	client  PageClient
	backups storage.Provider
	journal Recorder
	now     func() time.Time
	logger  *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithJournal records every action in r.
func WithJournal(r Recorder) Option {
	return func(e *Engine) {
		e.journal = r
	}
}

// WithClock overrides the clock used for backup timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithLogger sets the engine logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// New creates an engine that talks to client and keeps update backups in
// backups.
func New(client PageClient, backups storage.Provider, opts ...Option) *Engine {
	e := &Engine{
		client:  client,
		backups: backups,
		now:     time.Now,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Create reads the document in file and creates the page it describes.
func (e *Engine) Create(ctx context.Context, file string) (*models.ResponseResult, error) {
	doc, err := ReadDocument(file)
	if err != nil {
		return nil, err
	}
	return e.CreateDocument(ctx, doc)
}

// CreateDocument creates the page described by doc. A result with
// Succeeded=false is returned as is, without an error.
func (e *Engine) CreateDocument(ctx context.Context, doc *models.Document) (*models.ResponseResult, error) {
	if err := doc.Metadata.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrMissingMetadata, err)
	}
	res, err := e.client.CreatePage(ctx, createInput(doc))
	e.record(models.JournalEntry{Action: ActionCreate, Path: doc.Metadata.Path}, res, err)
	if err != nil {
		return nil, err
	}
	e.logger.Info("page create",
		slog.String("path", doc.Metadata.Path),
		slog.Bool("succeeded", res.Succeeded))
	return res, nil
}

// Get fetches the page at path and writes it to output, defaulting to
// "<last path segment>.md". It returns the file written.
func (e *Engine) Get(ctx context.Context, path, output string) (string, error) {
	page, data, err := e.Fetch(ctx, path)
	if err != nil {
		e.record(models.JournalEntry{Action: ActionGet, Path: path}, nil, err)
		return "", err
	}
	if output == "" {
		output = DefaultOutput(path)
	}
	err = storage.WriteFile(output, data)
	e.record(models.JournalEntry{Action: ActionGet, Path: path, PageID: page.ID, Message: output}, nil, err)
	if err != nil {
		return "", fmt.Errorf("workflow: write %s: %w", output, err)
	}
	e.logger.Info("page get", slog.String("path", path), slog.String("output", output))
	return output, nil
}

// Fetch returns the page at path and its rendering as a local document.
func (e *Engine) Fetch(ctx context.Context, path string) (*models.Page, []byte, error) {
	page, err := e.client.FetchPage(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	data, err := RenderPage(page)
	if err != nil {
		return nil, nil, err
	}
	return page, data, nil
}

// Delete resolves the page at path and deletes it by id.
func (e *Engine) Delete(ctx context.Context, path string) (*models.ResponseResult, error) {
	page, err := e.client.FetchPage(ctx, path)
	if err != nil {
		e.record(models.JournalEntry{Action: ActionDelete, Path: path}, nil, err)
		return nil, err
	}
	res, err := e.client.DeletePage(ctx, page.ID)
	e.record(models.JournalEntry{Action: ActionDelete, Path: path, PageID: page.ID}, res, err)
	if err != nil {
		return nil, err
	}
	e.logger.Info("page delete",
		slog.String("path", path),
		slog.Int("id", page.ID),
		slog.Bool("succeeded", res.Succeeded))
	return res, nil
}

// Update replaces the remote page at the document's path with the content
// of file. See UpdateDocument.
func (e *Engine) Update(ctx context.Context, file string) (*models.UpdateReport, error) {
	doc, err := ReadDocument(file)
	if err != nil {
		return nil, err
	}
	return e.UpdateDocument(ctx, doc)
}

// UpdateDocument backs up the current remote page, deletes it and creates it
// again from doc.
//
// The sequence is not atomic. If the delete succeeds and the create fails,
// the page is gone remotely and a *apperr.PartialUpdateError naming the
// backup file is returned; the backup is left in place.
func (e *Engine) UpdateDocument(ctx context.Context, doc *models.Document) (*models.UpdateReport, error) {
	if err := doc.Metadata.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrMissingMetadata, err)
	}
	path := doc.Metadata.Path
	entry := models.JournalEntry{Action: ActionUpdate, Path: path}

	current, data, err := e.Fetch(ctx, path)
	if err != nil {
		e.record(entry, nil, err)
		return nil, err
	}
	entry.PageID = current.ID
	entry.Checksum = checksum.Sum(data)

	backup, err := e.writeBackup(path, data)
	if err != nil {
		e.record(entry, nil, err)
		return nil, err
	}
	entry.BackupFile = backup
	e.logger.Info("page backup written",
		slog.String("path", path),
		slog.Int("id", current.ID),
		slog.String("backup", backup))

	delRes, err := e.client.DeletePage(ctx, current.ID)
	if err == nil && !delRes.Succeeded {
		err = rejected("delete", delRes)
	}
	if err != nil {
		e.record(entry, nil, err)
		return nil, fmt.Errorf("workflow: update %s: %w", path, err)
	}

	res, err := e.client.CreatePage(ctx, createInput(doc))
	if err == nil && !res.Succeeded {
		err = rejected("create", res)
	}
	if err != nil {
		partial := &apperr.PartialUpdateError{Path: path, PageID: current.ID, BackupFile: backup, Err: err}
		e.record(entry, nil, partial)
		e.logger.Error("page deleted but not recreated",
			slog.String("path", path),
			slog.Int("id", current.ID),
			slog.String("backup", backup),
			slog.String("error", err.Error()))
		return nil, partial
	}

	e.record(entry, res, nil)
	e.logger.Info("page updated", slog.String("path", path))
	return &models.UpdateReport{
		Path:       path,
		PreviousID: current.ID,
		BackupFile: backup,
		Result:     res,
	}, nil
}

// writeBackup stores data under the backup root and returns its location.
func (e *Engine) writeBackup(path string, data []byte) (string, error) {
	name := storage.BackupName(path, e.now())
	if err := e.backups.Write(name, data); err != nil {
		return "", fmt.Errorf("workflow: write backup: %w", err)
	}
	// The remote page is deleted next; the backup must be intact on disk.
	stored, err := e.backups.Read(name)
	if err != nil {
		return "", fmt.Errorf("workflow: read back backup: %w", err)
	}
	if err := checksum.Verify(stored, checksum.Sum(data)); err != nil {
		return "", fmt.Errorf("workflow: verify backup %s: %w", name, err)
	}
	return e.backups.Abs(name)
}

// record writes a journal entry for an action outcome. Journal failures
// never fail the action.
func (e *Engine) record(entry models.JournalEntry, res *models.ResponseResult, err error) {
	if e.journal == nil {
		return
	}
	switch {
	case err != nil:
		entry.Succeeded = false
		entry.Message = err.Error()
	case res != nil:
		entry.Succeeded = res.Succeeded
		if entry.Message == "" {
			entry.Message = res.Message
		}
	default:
		entry.Succeeded = true
	}
	entry.CreatedAt = e.now()
	if _, jerr := e.journal.Record(entry); jerr != nil {
		e.logger.Warn("journal record failed",
			slog.String("action", entry.Action),
			slog.String("path", entry.Path),
			slog.String("error", jerr.Error()))
	}
}

// DefaultOutput is the file name Get writes to when none is given.
func DefaultOutput(path string) string {
	seg := storage.LastSegment(path)
	if seg == "" {
		seg = "index"
	}
	return seg + ".md"
}

// IsPartialUpdate reports whether err left a page deleted without
// replacement.
func IsPartialUpdate(err error) bool {
	var p *apperr.PartialUpdateError
	return errors.As(err, &p)
}

func createInput(doc *models.Document) wiki.CreateInput {
	return wiki.CreateInput{
		Title:       doc.Metadata.Title,
		Path:        doc.Metadata.Path,
		Content:     doc.Content,
		Description: doc.Metadata.Description,
	}
}

func rejected(op string, res *models.ResponseResult) error {
	return &apperr.OperationError{Op: op, Code: res.ErrorCode, Slug: res.Slug, Message: res.Message}
}
