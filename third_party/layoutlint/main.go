// Package main runs the layoutlint CLI.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/frudas24/touchslice/internal/layout"
)

type finding struct {
	file string
	msg  string
}

// main is the entrypoint for the layout linter CLI.
func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] [layout.json ...]\n", os.Args[0])
		fmt.Fprintf(flag.CommandLine.Output(), "Checks keyboard layouts against the key geometry. Defaults to data/layouts/*.json\n")
		flag.PrintDefaults()
	}
	geometryPath := flag.String("geometry", "", "Geometry YAML file (built-in geometry when empty)")
	limit := flag.Int("max", 50, "Stop after this many issues (0 for no limit)")
	flag.Parse()

	files := flag.Args()
	if len(files) == 0 {
		matches, err := filepath.Glob(filepath.Join("data", "layouts", "*.json"))
		if err != nil {
			fmt.Fprintf(os.Stderr, "layoutlint: %v\n", err)
			os.Exit(1)
		}
		files = matches
	}

	geometry, err := loadGeometry(*geometryPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "layoutlint: %v\n", err)
		os.Exit(1)
	}

	var findings []finding
	truncated := false
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "layoutlint: %v\n", err)
			os.Exit(1)
		}
		bindings, err := layout.ParseBindings(data)
		if err != nil {
			findings = append(findings, finding{file: file, msg: err.Error()})
			continue
		}
		for _, p := range layout.Check(geometry, bindings) {
			findings = append(findings, finding{file: file, msg: p.String()})
			if *limit > 0 && len(findings) >= *limit {
				truncated = true
				break
			}
		}
		if truncated {
			break
		}
	}

	if len(findings) > 0 {
		for _, f := range findings {
			fmt.Fprintf(os.Stderr, "%s: %s\n", relativePath(f.file), f.msg)
		}
		if truncated {
			fmt.Fprintf(os.Stderr, "layoutlint: output truncated after %d issues\n", *limit)
		}
		os.Exit(1)
	}
}

// loadGeometry reads the geometry file, or the built-in one when path is empty.
func loadGeometry(path string) (layout.Geometry, error) {
	if path == "" {
		reg, err := layout.NewRegistry("", "")
		if err != nil {
			return layout.Geometry{}, err
		}
		return reg.Geometry(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return layout.Geometry{}, fmt.Errorf("geometry %s not found", path)
		}
		return layout.Geometry{}, fmt.Errorf("read %s: %w", path, err)
	}
	return layout.ParseGeometry(data)
}

// relativePath converts an absolute path to one relative to the working directory when possible.
func relativePath(path string) string {
	if rel, err := filepath.Rel(".", path); err == nil {
		return rel
	}
	return path
}
