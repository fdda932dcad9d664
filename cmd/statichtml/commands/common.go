package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/livefir/statichtml"
	"github.com/livefir/statichtml/internal/catalog"
	"github.com/livefir/statichtml/internal/config"
	"github.com/livefir/statichtml/internal/source"
)

// options splits args into positional arguments and --name value flags.
// Names listed in switches take no value.
func options(args []string, switches ...string) ([]string, map[string]string) {
	var positional []string
	flags := make(map[string]string)
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "--") {
			positional = append(positional, arg)
			continue
		}
		name := strings.TrimPrefix(arg, "--")
		if name, value, ok := strings.Cut(name, "="); ok {
			flags[name] = value
			continue
		}
		isSwitch := false
		for _, s := range switches {
			if s == name {
				isSwitch = true
			}
		}
		if !isSwitch && i+1 < len(args) {
			flags[name] = args[i+1]
			i++
			continue
		}
		flags[name] = "true"
	}
	return positional, flags
}

func loadConfig(flags map[string]string) (*config.Config, error) {
	path := config.ConfigFileName
	if p, ok := flags["config"]; ok {
		path = p
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
	}
	return config.LoadConfig(path)
}

// newCompiler builds a compiler from cfg. The returned function releases
// the lookup-source store, if any.
func newCompiler(ctx context.Context, cfg *config.Config) (*statichtml.Compiler, func(), error) {
	var chain source.Chain
	for _, dir := range cfg.SourceDirs {
		chain = append(chain, source.Dir(dir))
	}

	cleanup := func() {}
	if cfg.Store != "" {
		store, err := source.OpenStore(ctx, cfg.Store)
		if err != nil {
			return nil, nil, err
		}
		chain = append(chain, store)
		cleanup = func() { store.Close() }
	}

	opts := []statichtml.Option{
		statichtml.WithConfig(cfg),
		statichtml.WithProvider(chain),
	}
	if cfg.ValuesFile != "" {
		data, err := os.ReadFile(cfg.ValuesFile)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("failed to read values file: %w", err)
		}
		values, err := catalog.LoadValues(data)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		opts = append(opts, statichtml.WithValues(values))
	}
	return statichtml.New(opts...), cleanup, nil
}
