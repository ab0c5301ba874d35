package main

import (
	"os"
	"strings"

	"lilynotes-widgets/internal/cli"
	"lilynotes-widgets/internal/model"

	"github.com/spf13/pflag"
)

// rewriteKindShortcutArgs makes `lilywidgets <kind>` work like
// `lilywidgets render <kind>`.
//
// Cobra treats the first non-flag token as a subcommand, so argv is rewritten
// before parsing. Persistent flags may come first (`lilywidgets --store x
// checklist`), so the persistent flag set decides which flags consume the
// next token.
func rewriteKindShortcutArgs(argv []string, flags *pflag.FlagSet) []string {
	if len(argv) < 2 {
		return argv
	}

	takesValue := func(arg string) bool {
		name := strings.TrimLeft(arg, "-")
		var f *pflag.Flag
		if strings.HasPrefix(arg, "--") {
			f = flags.Lookup(name)
		} else if len(name) == 1 {
			f = flags.ShorthandLookup(name)
		}
		// Unknown flags don't get to swallow the kind.
		return f != nil && f.NoOptDefVal == ""
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			return argv
		}
		if strings.HasPrefix(a, "-") {
			if !strings.Contains(a, "=") && takesValue(a) {
				i++
			}
			continue
		}

		// First positional token.
		if _, err := model.ParseKind(a); err == nil {
			out := make([]string, 0, len(argv)+1)
			out = append(out, argv[:i]...)
			out = append(out, "render")
			out = append(out, argv[i:]...)
			return out
		}
		return argv
	}

	return argv
}

func main() {
	cmd := cli.NewRootCmd()
	cmd.SetArgs(rewriteKindShortcutArgs(os.Args, cmd.PersistentFlags())[1:])
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
