package main

import (
	"os"
	"strings"

	"folio-cli/internal/cli"
)

// singularKinds maps shorthand tokens onto collection commands.
var singularKinds = map[string]string{
	"blog":          "blogs",
	"project":       "projects",
	"certification": "certifications",
	"cert":          "certifications",
}

func rewriteDirectLookupArgs(argv []string) []string {
	// Convenience: `folio blog <id>` works like `folio blogs get <id>`.
	//
	// Cobra treats the first non-flag token as a subcommand, so we rewrite argv before parsing.
	// Persistent flags may come first (`folio --dir ... blog <id>`), so we look for the first
	// positional token, not just argv[1].
	if len(argv) < 3 {
		return argv
	}

	valueFlags := map[string]bool{
		"--dir":     true,
		"--api":     true,
		"--format":  true,
		"--profile": true,
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
			if !strings.Contains(a, "=") && valueFlags[a] {
				i++
			}
			continue
		}

		kinds, ok := singularKinds[strings.ToLower(a)]
		if !ok || i+1 >= len(argv) || strings.HasPrefix(argv[i+1], "-") {
			return argv
		}
		out := make([]string, 0, len(argv)+1)
		out = append(out, argv[:i]...)
		out = append(out, kinds, "get")
		out = append(out, argv[i+1:]...)
		return out
	}

	return argv
}

func main() {
	os.Args = rewriteDirectLookupArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
