// Package wiki implements the page operations of the wiki GraphQL API.
package wiki

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/starford/wikictl/internal/apperr"
	"github.com/starford/wikictl/internal/graphql"
	"github.com/starford/wikictl/internal/models"
)

// Fixed attributes of pages created by this client.
const (
	EditorMarkdown = "markdown"
	DefaultLocale  = "fr"
)

// DefaultTags are attached to every created page unless overridden.
var DefaultTags = []string{"infra"}

// Doer executes a GraphQL request. *graphql.Client satisfies it.
type Doer interface {
	Do(ctx context.Context, req graphql.Request, out any) error
}

// CreateInput holds the user-supplied fields of a new page.
type CreateInput struct {
	Title       string
	Path        string
	Content     string
	Description string
}

// Client resolves, creates and deletes pages in a single locale.
type Client struct {
	gql    Doer
	locale string
	tags   []string
	logger *slog.Logger
}

// NewClient creates a page client. Empty locale or nil tags fall back to
// DefaultLocale and DefaultTags.
func NewClient(gql Doer, locale string, tags []string, logger *slog.Logger) *Client {
	if locale == "" {
		locale = DefaultLocale
	}
	if tags == nil {
		tags = DefaultTags
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{gql: gql, locale: locale, tags: tags, logger: logger}
}

// Locale returns the locale all operations are scoped to.
func (c *Client) Locale() string {
	return c.locale
}

type pageRecord struct {
	ID          int    `json:"id"`
	Path        string `json:"path"`
	Locale      string `json:"locale"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
	Tags        []struct {
		Tag string `json:"tag"`
	} `json:"tags"`
}

// FetchPage returns the page at path. A missing page yields
// apperr.ErrPageNotFound.
func (c *Client) FetchPage(ctx context.Context, path string) (*models.Page, error) {
	var data struct {
		Pages struct {
			SingleByPath *pageRecord `json:"singleByPath"`
		} `json:"pages"`
	}
	err := c.gql.Do(ctx, graphql.Request{
		Query:     singleByPathQuery,
		Variables: map[string]any{"path": path, "locale": c.locale},
	}, &data)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %s", apperr.ErrPageNotFound, path)
		}
		return nil, fmt.Errorf("wiki: fetch %s: %w", path, err)
	}

	rec := data.Pages.SingleByPath
	if rec == nil {
		return nil, fmt.Errorf("%w: %s", apperr.ErrPageNotFound, path)
	}

	tags := make([]string, 0, len(rec.Tags))
	for _, t := range rec.Tags {
		if t.Tag == "" {
			continue
		}
		tags = append(tags, t.Tag)
	}
	locale := rec.Locale
	if locale == "" {
		locale = c.locale
	}

	c.logger.Debug("wiki: page fetched", slog.String("path", path), slog.Int("id", rec.ID))
	return &models.Page{
		ID:          rec.ID,
		Path:        rec.Path,
		Title:       rec.Title,
		Description: rec.Description,
		Content:     rec.Content,
		Tags:        tags,
		Locale:      locale,
	}, nil
}

// CreatePage creates a published, public Markdown page.
func (c *Client) CreatePage(ctx context.Context, in CreateInput) (*models.ResponseResult, error) {
	var data struct {
		Pages struct {
			Create *struct {
				ResponseResult models.ResponseResult `json:"responseResult"`
			} `json:"create"`
		} `json:"pages"`
	}
	err := c.gql.Do(ctx, graphql.Request{
		Query: createPageMutation,
		Variables: map[string]any{
			"content":     in.Content,
			"description": in.Description,
			"editor":      EditorMarkdown,
			"isPublished": true,
			"isPrivate":   false,
			"locale":      c.locale,
			"path":        in.Path,
			"tags":        c.tags,
			"title":       in.Title,
		},
	}, &data)
	if err != nil {
		return nil, fmt.Errorf("wiki: create %s: %w", in.Path, err)
	}
	if data.Pages.Create == nil {
		return nil, fmt.Errorf("wiki: create %s: empty response", in.Path)
	}

	res := data.Pages.Create.ResponseResult
	c.logger.Debug("wiki: page create", slog.String("path", in.Path), slog.Bool("succeeded", res.Succeeded))
	return &res, nil
}

// DeletePage deletes the page with the given id.
func (c *Client) DeletePage(ctx context.Context, id int) (*models.ResponseResult, error) {
	var data struct {
		Pages struct {
			Delete *struct {
				ResponseResult models.ResponseResult `json:"responseResult"`
			} `json:"delete"`
		} `json:"pages"`
	}
	err := c.gql.Do(ctx, graphql.Request{
		Query:     deletePageMutation,
		Variables: map[string]any{"id": id},
	}, &data)
	if err != nil {
		return nil, fmt.Errorf("wiki: delete %d: %w", id, err)
	}
	if data.Pages.Delete == nil {
		return nil, fmt.Errorf("wiki: delete %d: empty response", id)
	}

	res := data.Pages.Delete.ResponseResult
	c.logger.Debug("wiki: page delete", slog.Int("id", id), slog.Bool("succeeded", res.Succeeded))
	return &res, nil
}

// isNotFound recognises the "page does not exist" error Wiki.js raises
// from singleByPath instead of returning null.
func isNotFound(err error) bool {
	var gqlErr *apperr.GraphQLError
	if !errors.As(err, &gqlErr) {
		return false
	}
	for _, msg := range gqlErr.Messages {
		lower := strings.ToLower(msg)
		if strings.Contains(lower, "does not exist") || strings.Contains(lower, "not found") {
			return true
		}
	}
	return false
}
