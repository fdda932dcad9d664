package commands

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/livefir/statichtml"
)

func TestOptions(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		switches   []string
		positional []string
		flags      map[string]string
	}{
		{
			name:       "value flags",
			args:       []string{"doc.yaml", "--format", "text", "--out=page.html"},
			positional: []string{"doc.yaml"},
			flags:      map[string]string{"format": "text", "out": "page.html"},
		},
		{
			name:       "switch",
			args:       []string{"--attr", "a", "b"},
			switches:   []string{"attr"},
			positional: []string{"a", "b"},
			flags:      map[string]string{"attr": "true"},
		},
		{
			name:       "trailing flag without value",
			args:       []string{"list", "--store"},
			positional: []string{"list"},
			flags:      map[string]string{"store": "true"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			positional, flags := options(tt.args, tt.switches...)
			if strings.Join(positional, ",") != strings.Join(tt.positional, ",") {
				t.Errorf("Expected positional %v, got %v", tt.positional, positional)
			}
			for k, v := range tt.flags {
				if flags[k] != v {
					t.Errorf("Expected flag %s=%q, got %q", k, v, flags[k])
				}
			}
			if len(flags) != len(tt.flags) {
				t.Errorf("Expected %d flags, got %v", len(tt.flags), flags)
			}
		})
	}
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	docPath := filepath.Join(dir, "page.yaml")
	outPath := filepath.Join(dir, "page.html")
	configPath := filepath.Join(dir, "statichtml.yaml")

	doc := "element:\n  tag: p\n  children:\n    - text: a < b\n"
	if err := os.WriteFile(docPath, []byte(doc), 0644); err != nil {
		t.Fatalf("Failed to write document: %v", err)
	}
	if err := os.WriteFile(configPath, []byte("source_dirs: ["+dir+"]\n"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	err := Render([]string{docPath, "--config", configPath, "--format", "text", "--out", outPath})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}
	if got := strings.TrimSpace(string(data)); got != "<p>a &lt; b</p>" {
		t.Errorf("Expected <p>a &lt; b</p>, got %q", got)
	}
}

func TestRenderCommandMissingConfig(t *testing.T) {
	err := Render([]string{"page.yaml", "--config", filepath.Join(t.TempDir(), "missing.yaml")})
	if err == nil || !strings.Contains(err.Error(), "config file") {
		t.Errorf("Expected a missing config error, got %v", err)
	}
}

func TestFormat(t *testing.T) {
	c := statichtml.New()
	decl := &statichtml.ElementDecl{Tag: "i", Children: []statichtml.ChildDecl{{Expr: statichtml.Static("hey")}}}

	a, err := c.Render(t.Context(), decl, statichtml.Text(), statichtml.FixedChunks(4, false), nil)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	tests := []struct {
		format   string
		expected string
		wantErr  bool
	}{
		{format: "", expected: `[]string{"<i>h", "ey</", "i>"}`},
		{format: "chunks", expected: "<i>h\ney</\ni>"},
		{format: "text", expected: "<i>hey</i>"},
		{format: "json", wantErr: true},
	}

	for _, tt := range tests {
		got, err := format(a, tt.format)
		if tt.wantErr {
			if err == nil {
				t.Errorf("format %q: expected an error", tt.format)
			}
			continue
		}
		if err != nil {
			t.Errorf("format %q failed: %v", tt.format, err)
			continue
		}
		if got != tt.expected {
			t.Errorf("format %q: expected %q, got %q", tt.format, tt.expected, got)
		}
	}
}

func TestSourcesCommand(t *testing.T) {
	dir := t.TempDir()
	dsn := filepath.Join(dir, "sources.db")
	file := filepath.Join(dir, "enums.yaml")
	if err := os.WriteFile(file, []byte("declarations: []\n"), 0644); err != nil {
		t.Fatalf("Failed to write source: %v", err)
	}

	steps := [][]string{
		{"add", "enums.yaml", file, "--store", dsn},
		{"list", "--store", dsn},
		{"show", "enums.yaml", "--store", dsn},
		{"delete", "enums.yaml", "--store", dsn},
	}
	for _, args := range steps {
		if err := Sources(args); err != nil {
			t.Fatalf("sources %s failed: %v", args[0], err)
		}
	}

	if err := Sources([]string{"show", "enums.yaml", "--store", dsn}); err == nil {
		t.Error("Expected show after delete to fail")
	}
	if err := Sources([]string{"rename", "--store", dsn}); err == nil {
		t.Error("Expected an unknown command error")
	}
}

func TestHandler(t *testing.T) {
	chunks := []string{"<p>", "hel", "lo<", "/p>"}
	server := httptest.NewServer(Handler(chunks, statichtml.PushSequence(3, false, 0, false)))
	defer server.Close()

	resp, err := http.Get(server.URL)
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != "<p>hello</p>" {
		t.Errorf("Expected <p>hello</p>, got %q", body)
	}

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer conn.Close()

	var got []string
	for {
		mt, data, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				t.Fatalf("Unexpected read error: %v", err)
			}
			break
		}
		if mt != websocket.TextMessage {
			t.Errorf("Expected text frames, got type %d", mt)
		}
		got = append(got, string(data))
	}

	if strings.Join(got, "|") != strings.Join(chunks, "|") {
		t.Errorf("Expected chunks %v, got %v", chunks, got)
	}
}
