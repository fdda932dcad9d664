package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/livefir/statichtml/cmd/statichtml/internal/ui"
	"github.com/livefir/statichtml/internal/source"
)

// DefaultStore is used when neither --store nor the config names one
const DefaultStore = "statichtml.db"

// Sources manages the SQLite lookup-source store
func Sources(args []string) error {
	positional, flags := options(args)
	if len(positional) < 1 {
		return fmt.Errorf("command required: add, list, show, or delete")
	}

	dsn := flags["store"]
	if dsn == "" {
		cfg, err := loadConfig(flags)
		if err != nil {
			return err
		}
		dsn = cfg.Store
	}
	if dsn == "" {
		dsn = DefaultStore
	}

	ctx := context.Background()
	store, err := source.OpenStore(ctx, dsn)
	if err != nil {
		return err
	}
	defer store.Close()

	command, rest := positional[0], positional[1:]
	switch command {
	case "add":
		if len(rest) != 2 {
			return fmt.Errorf("id and file required: statichtml sources add <id> <file>")
		}
		body, err := os.ReadFile(rest[1])
		if err != nil {
			return fmt.Errorf("failed to read source: %w", err)
		}
		if err := store.Put(ctx, rest[0], body); err != nil {
			return err
		}
		fmt.Println(ui.Success("stored %s (%d bytes)", rest[0], len(body)))

	case "list":
		entries, err := store.List(ctx)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("(none)")
			return nil
		}
		fmt.Println(ui.Header("Lookup sources"))
		for _, e := range entries {
			fmt.Printf("  %-40s %8d bytes  %s\n", e.ID, e.Size, e.UpdatedAt.Format("2006-01-02 15:04:05"))
		}

	case "show":
		if len(rest) != 1 {
			return fmt.Errorf("id required: statichtml sources show <id>")
		}
		body, err := store.Source(ctx, rest[0])
		if err != nil {
			return err
		}
		os.Stdout.Write(body)

	case "delete":
		if len(rest) != 1 {
			return fmt.Errorf("id required: statichtml sources delete <id>")
		}
		if err := store.Delete(ctx, rest[0]); err != nil {
			return err
		}
		fmt.Println(ui.Success("deleted %s", rest[0]))

	default:
		return fmt.Errorf("unknown command: %s (expected: add, list, show, delete)", command)
	}

	return nil
}
