package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/stackdraw/pkg/diagram"
	"github.com/matzehuels/stackdraw/pkg/errors"
)

const sampleDoc = `
[[element]]
id = "box"
kind = "square"

[[element]]
id = "ring"
kind = "circle"
next_to = { target = "box", direction = "right" }
`

func writeDoc(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "flow.toml", "flow"},
		{"", "dir/flow.json", "dir/flow"},
		{"out.svg", "flow.toml", "out"},
		{"out.png", "flow.toml", "out"},
		{"out", "flow.toml", "out"},
		{"out.v2", "flow.toml", "out.v2"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestOutputPaths(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		input   string
		formats []string
		want    map[string]string
	}{
		{"single default", "", "flow.toml", []string{"svg"}, map[string]string{"svg": "flow.svg"}},
		{"single explicit", "art/out.image", "flow.toml", []string{"png"}, map[string]string{"png": "art/out.image"}},
		{"several", "out.svg", "flow.toml", []string{"svg", "pdf"}, map[string]string{"svg": "out.svg", "pdf": "out.pdf"}},
		{"stdin", "", "-", []string{"svg", "json"}, map[string]string{"svg": "diagram.svg", "json": "diagram.json"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := outputPaths(tt.output, tt.input, tt.formats)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("outputPaths mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDocumentFormat(t *testing.T) {
	tests := []struct {
		flag, input string
		want        diagram.Format
		wantErr     bool
	}{
		{"", "flow.toml", diagram.FormatTOML, false},
		{"", "flow.JSON", diagram.FormatJSON, false},
		{"", "-", diagram.FormatTOML, false},
		{"json", "flow.toml", diagram.FormatJSON, false},
		{"TOML", "flow.json", diagram.FormatTOML, false},
		{"yaml", "flow.yaml", "", true},
	}
	for _, tt := range tests {
		got, err := documentFormat(tt.flag, tt.input)
		if tt.wantErr {
			if !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Errorf("documentFormat(%q, %q) error = %v, want INVALID_FORMAT", tt.flag, tt.input, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("documentFormat(%q, %q) = %q, %v; want %q", tt.flag, tt.input, got, err, tt.want)
		}
	}
}

func TestNeedsConverter(t *testing.T) {
	if needsConverter([]string{"svg", "json"}) {
		t.Error("svg and json need no converter")
	}
	if !needsConverter([]string{"svg", "pdf"}) {
		t.Error("pdf needs the converter")
	}
}

func TestReadSource(t *testing.T) {
	got, err := readSource(strings.NewReader("from stdin"), stdio)
	if err != nil || string(got) != "from stdin" {
		t.Errorf("readSource(stdin) = %q, %v", got, err)
	}
	if _, err := readSource(nil, filepath.Join(t.TempDir(), "missing.toml")); !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("missing file error = %v, want INVALID_PATH", err)
	}
}

func TestRunRenderWritesFiles(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	input := writeDoc(t, "flow.toml", sampleDoc)
	base := filepath.Join(t.TempDir(), "out", "flow")

	c := New(io.Discard, LogInfo)
	opts := &renderOpts{output: base, formats: []string{"svg", "json"}, scale: 1}
	ctx := withLogger(context.Background(), c.Logger)
	if err := c.runRender(ctx, nil, io.Discard, input, opts); err != nil {
		t.Fatalf("runRender error: %v", err)
	}

	svg, err := os.ReadFile(base + ".svg")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(svg, []byte("<svg")) {
		t.Errorf("svg output starts with %.20q", svg)
	}

	data, err := os.ReadFile(base + ".json")
	if err != nil {
		t.Fatal(err)
	}
	entities, err := decodeEntities(data)
	if err != nil {
		t.Fatal(err)
	}
	var ids []string
	for _, e := range entities {
		ids = append(ids, e.ID)
	}
	for _, want := range []string{"box", "ring"} {
		if !contains(ids, want) {
			t.Errorf("json output lacks %q: %v", want, ids)
		}
	}

	// second run is served from the cache and writes identical bytes
	if err := c.runRender(ctx, nil, io.Discard, input, opts); err != nil {
		t.Fatal(err)
	}
	again, _ := os.ReadFile(base + ".svg")
	if !bytes.Equal(svg, again) {
		t.Error("cached render differs")
	}
}

func TestRunRenderStdio(t *testing.T) {
	c := New(io.Discard, LogInfo)
	var out bytes.Buffer
	opts := &renderOpts{output: stdio, formats: []string{"svg"}, scale: 1, noCache: true}
	err := c.runRender(context.Background(), strings.NewReader(sampleDoc), &out, stdio, opts)
	if err != nil {
		t.Fatalf("runRender error: %v", err)
	}
	if !bytes.HasPrefix(out.Bytes(), []byte("<svg")) {
		t.Errorf("stdout starts with %.20q", out.Bytes())
	}
}

func TestRenderCommandErrors(t *testing.T) {
	input := writeDoc(t, "flow.toml", sampleDoc)
	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"bad format", []string{"render", input, "-f", "gif"}, errors.ErrCodeInvalidFormat},
		{"stdout needs one format", []string{"render", input, "-o", "-", "-f", "svg,json"}, errors.ErrCodeInvalidArgument},
		{"bad document", []string{"render", writeDoc(t, "bad.toml", "[[element]]\nkind = \"blob\""), "--no-cache"}, errors.ErrCodeInvalidDiagram},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestRoot(t, tt.args...)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestRenderJSONDocument(t *testing.T) {
	input := writeDoc(t, "flow.json", `{"elements": [{"id": "a", "kind": "dot"}]}`)
	out, err := newTestRoot(t, "render", input, "-o", "-", "-f", "json")
	if err != nil {
		t.Fatal(err)
	}
	var doc struct {
		Entities []json.RawMessage `json:"entities"`
	}
	if err := json.Unmarshal(out.Bytes(), &doc); err != nil {
		t.Fatalf("stdout is not JSON: %v", err)
	}
	if len(doc.Entities) != 1 {
		t.Errorf("got %d entities, want 1", len(doc.Entities))
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
