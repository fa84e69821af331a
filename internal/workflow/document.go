package workflow

import (
	"fmt"
	"os"

	"github.com/starford/wikictl/internal/apperr"
	"github.com/starford/wikictl/internal/frontmatter"
	"github.com/starford/wikictl/internal/models"
)

// ReadDocument loads a local page document from file.
func ReadDocument(file string) (*models.Document, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("workflow: read %s: %w", file, err)
	}
	doc, err := ParseDocument(data)
	if err != nil {
		return nil, fmt.Errorf("workflow: %s: %w", file, err)
	}
	return doc, nil
}

// ParseDocument decodes a page document and checks its required metadata.
// The metadata is read from the "metadata" key; documents written by older
// versions of the tool keep it at the top level, which is accepted too.
func ParseDocument(data []byte) (*models.Document, error) {
	var nested struct {
		Metadata *models.Metadata `yaml:"metadata"`
	}
	body, err := frontmatter.Decode(data, &nested)
	if err != nil {
		return nil, err
	}

	var meta models.Metadata
	if nested.Metadata != nil {
		meta = *nested.Metadata
	} else if _, err := frontmatter.Decode(data, &meta); err != nil {
		return nil, err
	}

	if err := meta.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrMissingMetadata, err)
	}
	return &models.Document{Metadata: meta, Content: body}, nil
}

// RenderPage serializes p as a local page document.
func RenderPage(p *models.Page) ([]byte, error) {
	return frontmatter.Serialize(models.Header{Metadata: models.MetadataOf(p)}, p.Content)
}
