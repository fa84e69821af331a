// Package frontmatter converts between Markdown documents with a YAML
// front-matter header and their (metadata, body) parts.
package frontmatter

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/starford/wikictl/internal/apperr"
)

const delim = "---"

// Parse splits data into its front-matter mapping and the Markdown body.
// A document without a closed, mapping-valued header is malformed.
func Parse(data []byte) (map[string]any, string, error) {
	header, body, err := split(data)
	if err != nil {
		return nil, "", err
	}
	meta, err := decodeMapping(header)
	if err != nil {
		return nil, "", err
	}
	return meta, body, nil
}

// Decode is like Parse but decodes the header into out.
func Decode(data []byte, out any) (string, error) {
	header, body, err := split(data)
	if err != nil {
		return "", err
	}
	if _, err := decodeMapping(header); err != nil {
		return "", err
	}
	if err := yaml.Unmarshal(header, out); err != nil {
		return "", fmt.Errorf("%w: %v", apperr.ErrMalformedDocument, err)
	}
	return body, nil
}

// Serialize renders meta as a YAML header followed by body.
// It is the inverse of Parse for well-formed input.
func Serialize(meta any, body string) ([]byte, error) {
	if meta == nil {
		meta = map[string]any{}
	}
	header, err := yaml.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("frontmatter: encode header: %w", err)
	}

	var buf bytes.Buffer
	buf.Grow(len(header) + len(body) + 2*len(delim) + 3)
	buf.WriteString(delim + "\n")
	buf.Write(header)
	buf.WriteString(delim + "\n\n")
	buf.WriteString(body)
	return buf.Bytes(), nil
}

// split separates the header lines (between the opening and closing ---)
// from the body. One blank separator line after the closing delimiter is
// dropped; the rest of the body is kept byte for byte.
func split(data []byte) ([]byte, string, error) {
	trimmed := bytes.TrimLeft(data, "\r\n")

	first, rest, ok := cutLine(trimmed)
	if !ok && len(first) == 0 {
		return nil, "", fmt.Errorf("%w: empty document", apperr.ErrMalformedDocument)
	}
	if string(bytes.TrimRight(first, "\r")) != delim {
		return nil, "", fmt.Errorf("%w: missing front matter header", apperr.ErrMalformedDocument)
	}

	pos := 0
	for pos <= len(rest) {
		line, _, more := cutLine(rest[pos:])
		next := pos + len(line)
		if more {
			next++
		}
		if string(bytes.TrimRight(line, "\r")) == delim {
			body := rest[next:]
			switch {
			case bytes.HasPrefix(body, []byte("\r\n")):
				body = body[2:]
			case bytes.HasPrefix(body, []byte("\n")):
				body = body[1:]
			}
			return rest[:pos], string(body), nil
		}
		if !more {
			break
		}
		pos = next
	}
	return nil, "", fmt.Errorf("%w: unterminated front matter header", apperr.ErrMalformedDocument)
}

// cutLine returns the first line of b (without its newline), the remainder,
// and whether a newline was found.
func cutLine(b []byte) ([]byte, []byte, bool) {
	i := bytes.IndexByte(b, '\n')
	if i < 0 {
		return b, nil, false
	}
	return b[:i], b[i+1:], true
}

func decodeMapping(header []byte) (map[string]any, error) {
	var meta map[string]any
	if err := yaml.Unmarshal(header, &meta); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrMalformedDocument, err)
	}
	if meta == nil {
		meta = map[string]any{}
	}
	return meta, nil
}
