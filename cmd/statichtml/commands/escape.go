package commands

import (
	"fmt"
	"strings"

	"github.com/livefir/statichtml"
)

// Escape prints its arguments escaped for body text or, with --attr, for
// attribute values
func Escape(args []string) error {
	positional, flags := options(args, "attr")
	if len(positional) == 0 {
		return fmt.Errorf("text required: statichtml escape [--attr] <text>")
	}

	fmt.Println(statichtml.EscapeStandalone(strings.Join(positional, " "), flags["attr"] == "true"))
	return nil
}
