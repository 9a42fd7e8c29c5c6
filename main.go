// Command surftrim evaluates a scene script and writes the tessellated
// surfaces and traced trimming curves as JSON.
//
// Usage:
//
//	surftrim [-o out.json] [-divs n] [-v] scene.trim
//
// A scene path of "-" reads the script from stdin. Tunables not covered by
// flags are read from SURFTRIM_* environment variables.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/chazu/surftrim/pkg/config"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("surftrim", flag.ContinueOnError)
	fs.SetOutput(stderr)
	out := fs.String("o", "", "write JSON to this file instead of stdout")
	divs := fs.Int("divs", 0, "tessellation divisions per patch (0 uses SURFTRIM_TESSELLATION_DIVISIONS)")
	verbose := fs.Bool("v", false, "log at debug level")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "usage: surftrim [-o out.json] [-divs n] [-v] scene.trim")
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "surftrim: %v\n", err)
		return 1
	}
	if *divs > 0 {
		cfg.TessellationDivs = *divs
	}
	level, _ := cfg.Level()
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	source, err := readSource(fs.Arg(0), stdin)
	if err != nil {
		logger.Error("read scene", "error", err)
		return 1
	}

	result := NewApp(cfg, logger).Evaluate(string(source))

	w := stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			logger.Error("create output", "error", err)
			return 1
		}
		defer f.Close()
		w = f
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		logger.Error("write result", "error", err)
		return 1
	}

	for _, e := range result.Warnings {
		logger.Warn("scene", "message", e.Message)
	}
	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			logger.Error("scene", "line", e.Line, "message", e.Message)
		}
		return 1
	}
	logger.Info("done", "meshes", len(result.Meshes), "curves", len(result.Curves))
	return 0
}

func readSource(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}
