// Command dictdump loads key=value files into dictionary tables and prints
// them with Table.Dump, or summarizes their "section:" prefixes.
//
// Input is one entry per line:
//
//	section:key=value   set a value
//	section:key         set an undefined value
//	-section:key        unset a key
//
// Blank lines and lines starting with # or ; are ignored. With no file
// arguments, standard input is read.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/thepudds/dictionary"
)

type config struct {
	capacity int
	hash     string
	maxMem   int
	sections bool
}

func main() {
	var cfg config
	flag.IntVar(&cfg.capacity, "capacity", dictionary.MinCapacity, "initial number of buckets per table")
	flag.StringVar(&cfg.hash, "hash", "oaat", "hash function: oaat, xxhash")
	flag.IntVar(&cfg.maxMem, "maxmem", 0, "byte budget per table (0 = no limit)")
	flag.BoolVar(&cfg.sections, "sections", false, "print each section with its key count instead of dumping")
	logFile := flag.String("logfile", "", "write reports to this file, rotated by size, instead of stderr")
	jsonLogs := flag.Bool("json", false, "log reports as JSON")
	flag.Parse()

	logger := newLogger(*logFile, *jsonLogs)
	dictionary.SetReporter(dictionary.SlogReporter(logger))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, flag.Args(), os.Stdout); err != nil {
		logger.Error("dictdump failed", "error", err)
		os.Exit(1)
	}
}

func newLogger(logFile string, jsonLogs bool) *slog.Logger {
	var w io.Writer = os.Stderr
	if logFile != "" {
		w = &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		}
	}
	if jsonLogs {
		return slog.New(slog.NewJSONHandler(w, nil))
	}
	return slog.New(slog.NewTextHandler(w, nil))
}

func run(ctx context.Context, cfg config, paths []string, out io.Writer) error {
	newOpts, err := tableOptions(cfg)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		paths = []string{"-"}
	}

	tables, err := loadAll(ctx, paths, cfg.capacity, newOpts)
	if err != nil {
		return err
	}
	defer func() {
		for _, d := range tables {
			d.Destroy()
		}
	}()

	for i, d := range tables {
		if len(tables) > 1 {
			if _, err := fmt.Fprintf(out, "# %s\n", paths[i]); err != nil {
				return err
			}
		}
		if cfg.sections {
			err = writeSections(out, d)
		} else {
			err = d.Dump(out)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", paths[i], err)
		}
	}
	return nil
}

// tableOptions returns a func building the options for one table. Each
// table gets its own Budget, since a Budget is not safe for concurrent use.
func tableOptions(cfg config) (func() []dictionary.Option, error) {
	var hashFunc dictionary.HashFunc
	switch cfg.hash {
	case "oaat", "":
		hashFunc = dictionary.OneAtATime
	case "xxhash":
		hashFunc = dictionary.XXHash
	default:
		return nil, fmt.Errorf("unknown hash %q", cfg.hash)
	}
	if cfg.maxMem < 0 {
		return nil, fmt.Errorf("invalid -maxmem %d", cfg.maxMem)
	}
	return func() []dictionary.Option {
		opts := []dictionary.Option{dictionary.WithHashFunc(hashFunc)}
		if cfg.maxMem > 0 {
			opts = append(opts, dictionary.WithAllocator(dictionary.NewBudget(cfg.maxMem)))
		}
		return opts
	}, nil
}
