// Package models defines the domain types for wikictl.
package models

import (
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// Page is a wiki page as returned by the GraphQL API.
type Page struct {
	ID          int      `json:"id"`
	Path        string   `json:"path"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Content     string   `json:"content"`
	Tags        []string `json:"tags"`
	Locale      string   `json:"locale,omitempty"`
}

// Metadata is the front-matter header of a local page document.
// It never carries the page id: the remote page is resolved by Path.
//
// Fields are declared in key order so that a typed header serializes exactly
// like the equivalent parsed mapping.
type Metadata struct {
	Description string   `yaml:"description" json:"description"`
	Path        string   `yaml:"path" json:"path"`
	Tags        TagList  `yaml:"tags" json:"tags"`
	Title       string   `yaml:"title" json:"title"`
}

// Validate reports the required fields missing from m.
func (m Metadata) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Title, validation.Required),
		validation.Field(&m.Path, validation.Required),
	)
}

// TagList is the tags field of a page document. Besides plain strings it
// accepts the {tag: name} records the API returns.
type TagList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (t *TagList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		*t = nil
		return nil
	}
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: tags must be a list", node.Line)
	}
	out := make(TagList, 0, len(node.Content))
	for _, item := range node.Content {
		switch item.Kind {
		case yaml.ScalarNode:
			out = append(out, item.Value)
		case yaml.MappingNode:
			var rec struct {
				Tag string `yaml:"tag"`
			}
			if err := item.Decode(&rec); err != nil {
				return err
			}
			if rec.Tag != "" {
				out = append(out, rec.Tag)
			}
		default:
			return fmt.Errorf("line %d: unsupported tag entry", item.Line)
		}
	}
	*t = out
	return nil
}

// Header is the full front-matter block as written to disk.
type Header struct {
	Metadata Metadata `yaml:"metadata"`
}

// Document is a parsed local Markdown file.
type Document struct {
	Metadata Metadata
	Content  string
}

// MetadataOf returns the front-matter metadata describing p.
func MetadataOf(p *Page) Metadata {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return Metadata{
		Title:       p.Title,
		Description: p.Description,
		Path:        p.Path,
		Tags:        TagList(tags),
	}
}

// ResponseResult mirrors the responseResult record of wiki mutations.
type ResponseResult struct {
	Succeeded bool   `json:"succeeded" yaml:"succeeded"`
	ErrorCode int    `json:"errorCode" yaml:"errorCode"`
	Slug      string `json:"slug" yaml:"slug"`
	Message   string `json:"message" yaml:"message"`
}

// UpdateReport describes a completed update.
type UpdateReport struct {
	Path       string          `json:"path" yaml:"path"`
	PreviousID int             `json:"previous_id" yaml:"previous_id"`
	BackupFile string          `json:"backup_file" yaml:"backup_file"`
	Result     *ResponseResult `json:"result" yaml:"result"`
}

// JournalEntry is one recorded workflow action.
type JournalEntry struct {
	ID         int64     `json:"id" yaml:"id"`
	Action     string    `json:"action" yaml:"action"`
	Path       string    `json:"path" yaml:"path"`
	PageID     int       `json:"page_id,omitempty" yaml:"page_id,omitempty"`
	BackupFile string    `json:"backup_file,omitempty" yaml:"backup_file,omitempty"`
	Checksum   string    `json:"checksum,omitempty" yaml:"checksum,omitempty"`
	Succeeded  bool      `json:"succeeded" yaml:"succeeded"`
	Message    string    `json:"message,omitempty" yaml:"message,omitempty"`
	CreatedAt  time.Time `json:"created_at" yaml:"created_at"`
}
