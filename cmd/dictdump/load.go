package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/thepudds/dictionary"
)

// loadAll loads each path into its own table, concurrently. "-" is standard
// input. On error every table already created is destroyed.
func loadAll(ctx context.Context, paths []string, capacity int, newOpts func() []dictionary.Option) ([]*dictionary.Table, error) {
	tables := make([]*dictionary.Table, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			d, err := dictionary.New(capacity, newOpts()...)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			tables[i] = d
			return loadPath(ctx, path, d)
		})
	}
	if err := g.Wait(); err != nil {
		for _, d := range tables {
			if d != nil {
				d.Destroy()
			}
		}
		return nil, err
	}
	return tables, nil
}

func loadPath(ctx context.Context, path string, d *dictionary.Table) error {
	if path == "-" {
		return load(ctx, os.Stdin, "<stdin>", d)
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return load(ctx, f, path, d)
}

// load applies every line of r to d.
func load(ctx context.Context, r io.Reader, name string, d *dictionary.Table) error {
	sc := bufio.NewScanner(r)
	for lineno := 1; sc.Scan(); lineno++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := apply(d, sc.Text()); err != nil {
			return fmt.Errorf("%s:%d: %w", name, lineno, err)
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func apply(d *dictionary.Table, line string) error {
	line = strings.TrimSpace(line)
	if line == "" || line[0] == '#' || line[0] == ';' {
		return nil
	}
	if key, ok := strings.CutPrefix(line, "-"); ok {
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("%w: unset without a key", dictionary.ErrInvalidInput)
		}
		d.Unset(key)
		return nil
	}
	key, value, ok := strings.Cut(line, "=")
	key = strings.TrimSpace(key)
	if !ok {
		return d.Set(key, dictionary.Undefined)
	}
	return d.Set(key, dictionary.Text(strings.TrimSpace(value)))
}

type section struct {
	name string
	keys int
}

// sections groups the keys of d by the text before their first colon.
// A key without a colon names a section and counts no keys.
func sections(d *dictionary.Table) []section {
	counts := make(map[string]int)
	d.Range(func(key string, _ dictionary.Value) bool {
		name, _, ok := strings.Cut(key, ":")
		if ok {
			counts[name]++
		} else if _, seen := counts[name]; !seen {
			counts[name] = 0
		}
		return true
	})

	res := make([]section, 0, len(counts))
	for name, n := range counts {
		res = append(res, section{name: name, keys: n})
	}
	sort.Slice(res, func(i, j int) bool { return res[i].name < res[j].name })
	return res
}

func writeSections(w io.Writer, d *dictionary.Table) error {
	for _, s := range sections(d) {
		if _, err := fmt.Fprintf(w, "%s\t%d\n", s.name, s.keys); err != nil {
			return err
		}
	}
	return nil
}
