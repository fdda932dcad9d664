package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/livefir/statichtml"
	"github.com/livefir/statichtml/cmd/statichtml/internal/ui"
	"github.com/livefir/statichtml/internal/diag"
)

// Render compiles a document and prints the artifact
func Render(args []string) error {
	positional, flags := options(args)
	if len(positional) != 1 {
		return fmt.Errorf("document required: statichtml render <document.yaml>")
	}

	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}

	ctx := context.Background()
	compiler, cleanup, err := newCompiler(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	doc, err := statichtml.LoadDocument(positional[0])
	if err != nil {
		return err
	}

	diags := diag.NewCollector()
	artifact, err := compiler.RenderDocument(ctx, doc, cfg.Encoding, cfg.Representation,
		diag.Tee(diags, ui.Sink(os.Stderr)))
	if err != nil {
		return err
	}

	output, err := format(artifact, flags["format"])
	if err != nil {
		return err
	}

	if out := flags["out"]; out != "" {
		if err := os.WriteFile(out, []byte(output+"\n"), 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		fmt.Fprintln(os.Stderr, ui.Success("wrote %s", out))
	} else {
		fmt.Println(output)
	}

	if n := diags.Count(diag.Error); n > 0 {
		return fmt.Errorf("%d error(s) reported; affected declarations were dropped", n)
	}
	return nil
}

func format(a *statichtml.Artifact, name string) (string, error) {
	switch name {
	case "", "source":
		if len(a.Imports) == 0 {
			return a.Source, nil
		}
		return fmt.Sprintf("// imports: %s\n%s", strings.Join(a.Imports, ", "), a.Source), nil
	case "text":
		text, ok := a.Text()
		if !ok {
			return "", fmt.Errorf("output holds run-time values; use --format source")
		}
		return text, nil
	case "chunks":
		chunks, ok := a.ChunkTexts()
		if !ok {
			return "", fmt.Errorf("chunks hold run-time values; use --format source")
		}
		return strings.Join(chunks, "\n"), nil
	}
	return "", fmt.Errorf("unknown format: %s (expected: source, text, chunks)", name)
}
