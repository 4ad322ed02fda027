package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
)

// run compiles every file in names with at most opts.jobs pipelines at a
// time. Each file gets its own pipeline; results are written in argument
// order, diagnostics to stderr and artifacts to opts.output or stdout. A
// file that cannot be read stops the whole batch.
func run(names []string, opts *options, stdout, stderr io.Writer) int {
	units := make([]*unit, len(names))

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(opts.jobs)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			src, err := os.ReadFile(name)
			if err != nil {
				return err
			}
			units[i] = compile(ctx, name, src, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	code := 0
	for _, u := range units {
		for _, d := range u.diags {
			fmt.Fprintln(stderr, d)
		}
		if !u.ok() {
			code = 1
		}
	}

	if err := writeOutputs(units, opts, stdout); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return code
}

// writeOutputs writes the artifact of every unit that produced one. With
// several inputs, opts.output names a directory that receives one file per
// input.
func writeOutputs(units []*unit, opts *options, stdout io.Writer) error {
	switch {
	case opts.output == "":
		for _, u := range units {
			if _, err := u.out.WriteTo(stdout); err != nil {
				return err
			}
		}
		return nil

	case len(units) == 1:
		if units[0].out.Len() == 0 && !units[0].ok() {
			return nil
		}
		return writeFile(opts.output, units[0])
	}

	if err := os.MkdirAll(opts.output, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	for _, u := range units {
		if u.out.Len() == 0 && !u.ok() {
			continue
		}
		if err := writeFile(filepath.Join(opts.output, outputName(u.name, opts)), u); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(path string, u *unit) error {
	if err := os.WriteFile(path, u.out.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// outputName returns the artifact file name for the source file name, e.g.
// "dir/fib.sy" -> "fib.ll".
func outputName(name string, opts *options) string {
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base)) + opts.mode.ext(opts.astFormat)
}
