package frontmatter

import (
	"errors"
	"testing"

	"github.com/starford/wikictl/internal/apperr"
	"github.com/starford/wikictl/internal/models"
)

func TestParse_HeaderAndBody(t *testing.T) {
	input := []byte("---\ntitle: Hello\ntags:\n  - go\n  - wiki\n---\n\n# Hello\nBody text.\n")
	meta, body, err := Parse(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meta["title"] != "Hello" {
		t.Errorf("title = %v, want Hello", meta["title"])
	}
	tags, ok := meta["tags"].([]any)
	if !ok || len(tags) != 2 || tags[0] != "go" || tags[1] != "wiki" {
		t.Errorf("tags = %v, want [go wiki]", meta["tags"])
	}
	if body != "# Hello\nBody text.\n" {
		t.Errorf("body = %q", body)
	}
}

func TestParse_NoSeparatorLine(t *testing.T) {
	_, body, err := Parse([]byte("---\ntitle: x\n---\nBody\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body != "Body\n" {
		t.Errorf("body = %q", body)
	}
}

func TestParse_CRLF(t *testing.T) {
	meta, body, err := Parse([]byte("---\r\ntitle: x\r\n---\r\n\r\nBody\r\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meta["title"] != "x" {
		t.Errorf("title = %v", meta["title"])
	}
	if body != "Body\r\n" {
		t.Errorf("body = %q", body)
	}
}

func TestParse_EmptyHeader(t *testing.T) {
	meta, body, err := Parse([]byte("---\n---\nbody"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(meta) != 0 {
		t.Errorf("meta = %v, want empty", meta)
	}
	if body != "body" {
		t.Errorf("body = %q", body)
	}
}

func TestParse_Malformed(t *testing.T) {
	cases := map[string]string{
		"empty":        "",
		"no header":    "# Just a heading\nSome text.\n",
		"unterminated": "---\ntitle: x\nbody\n",
		"invalid yaml": "---\n: invalid: yaml: {{{\n---\nBody\n",
		"scalar":       "---\njust a string\n---\nBody\n",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := Parse([]byte(input))
			if !errors.Is(err, apperr.ErrMalformedDocument) {
				t.Errorf("err = %v, want ErrMalformedDocument", err)
			}
		})
	}
}

func TestSerialize_Layout(t *testing.T) {
	out, err := Serialize(map[string]any{"title": "VPN Setup", "path": "infra/vpn"}, "Body\n")
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	want := "---\npath: infra/vpn\ntitle: VPN Setup\n---\n\nBody\n"
	if string(out) != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		meta any
		body string
	}{
		{"map", map[string]any{"title": "A", "tags": []string{"x", "y"}, "n": 3}, "# A\ntext\n"},
		{"typed header", models.Header{Metadata: models.Metadata{
			Title: "VPN Setup", Description: `say "hi": now`, Path: "infra/vpn", Tags: []string{"infra"},
		}}, "Connect with `vpn up`.\n"},
		{"leading blank lines in body", map[string]any{"title": "B"}, "\n\nindented\n"},
		{"body with delimiter", map[string]any{"title": "C"}, "---\nnot a header\n---\n"},
		{"empty body", map[string]any{"title": "D"}, ""},
		{"nil meta", nil, "only body"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			first, err := Serialize(tc.meta, tc.body)
			if err != nil {
				t.Fatalf("Serialize: %v", err)
			}
			meta, body, err := Parse(first)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if body != tc.body {
				t.Errorf("body = %q, want %q", body, tc.body)
			}
			second, err := Serialize(meta, body)
			if err != nil {
				t.Fatalf("Serialize: %v", err)
			}
			if string(first) != string(second) {
				t.Errorf("round trip mismatch:\nfirst:  %q\nsecond: %q", first, second)
			}
		})
	}
}

func TestDecode_Typed(t *testing.T) {
	input := []byte("---\nmetadata:\n  title: VPN Setup\n  path: infra/vpn\n  description: d\n  tags: [infra, net]\n---\n\nbody\n")
	var h models.Header
	body, err := Decode(input, &h)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if h.Metadata.Title != "VPN Setup" || h.Metadata.Path != "infra/vpn" {
		t.Errorf("metadata = %+v", h.Metadata)
	}
	if len(h.Metadata.Tags) != 2 || h.Metadata.Tags[1] != "net" {
		t.Errorf("tags = %v", h.Metadata.Tags)
	}
	if body != "body\n" {
		t.Errorf("body = %q", body)
	}
}

func TestDecode_Malformed(t *testing.T) {
	var h models.Header
	if _, err := Decode([]byte("no header"), &h); !errors.Is(err, apperr.ErrMalformedDocument) {
		t.Errorf("err = %v, want ErrMalformedDocument", err)
	}
}
