// Package logic wires configuration, key providers and the batch
// orchestrator together for the command layer.
package logic

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"batchcrypt/internal/batch"
	"batchcrypt/internal/config"
	"batchcrypt/internal/filter"
	"batchcrypt/internal/keys"
)

// Run executes a batch encrypt or decrypt according to cfg.
func Run(ctx context.Context, cfg *config.Config) error {
	start := time.Now()

	files, err := filter.Resolve(cfg.Files, cfg.Decrypt, cfg.EncryptSuffix)
	if err != nil {
		return fmt.Errorf("resolving files: %w", err)
	}

	if len(files) == 0 {
		if !cfg.Quiet {
			fmt.Println("Nothing to process") //nolint:forbidigo
		}

		return nil
	}

	provider, err := keyProvider(cfg)
	if err != nil {
		return err
	}

	orch := batch.New(provider, newLogger(cfg.Quiet))
	dispatcher := batch.NewPoolDispatcher(cfg.Parallel)

	direction := batch.Encrypt
	if cfg.Decrypt {
		direction = batch.Decrypt
	}

	var (
		succeeded []string
		failed    map[string]batch.Error
	)

	onDone := func(ok []string, bad map[string]batch.Error) {
		succeeded, failed = ok, bad
	}

	if err := orch.Run(ctx, files, direction, dispatcher, printer(cfg), onDone); err != nil {
		return fmt.Errorf("running batch: %w", err)
	}

	if cfg.Stats {
		printStats(len(files), len(succeeded), len(failed), totalSize(succeeded), time.Since(start))
	}

	if len(failed) > 0 {
		return fmt.Errorf("%d of %d files failed", len(failed), len(files))
	}

	return nil
}

// printer renders per-file events to the terminal as they arrive.
// Events fire on dispatcher workers, so output is serialized here.
func printer(cfg *config.Config) batch.EventFunc {
	var mu sync.Mutex

	return func(file string, ev batch.Event) {
		mu.Lock()
		defer mu.Unlock()

		switch ev := ev.(type) {
		case batch.Progress:
			if cfg.Progress && !cfg.Quiet {
				fmt.Printf("%3d%% %q\n", ev.Percent, file) //nolint:forbidigo
			}
		case batch.Completed:
			if !cfg.Quiet {
				fmt.Printf("Processed %q\n", file) //nolint:forbidigo
			}
		case batch.Error:
			fmt.Fprintf(os.Stderr, "Error processing %q: %v\n", file, ev.Err)
		}
	}
}

// keyProvider selects the key source from the configuration.
func keyProvider(cfg *config.Config) (keys.Provider, error) {
	if cfg.Passphrase {
		saltPath := cfg.SaltFile
		if saltPath == "" {
			saltPath = ".batchcrypt.salt"
		}

		return &keys.PassphraseProvider{Passphrase: cfg.PassphraseValue, SaltPath: saltPath}, nil
	}

	return &keys.FileProvider{Path: cfg.KeyFile}, nil
}

// newLogger builds the orchestrator logger; quiet mode keeps errors only.
func newLogger(quiet bool) batch.Logger {
	level := slog.LevelInfo
	if quiet {
		level = slog.LevelError
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func totalSize(files []string) int64 {
	var total int64

	for _, file := range files {
		if info, err := os.Stat(file); err == nil {
			total += info.Size()
		}
	}

	return total
}

func printStats(resolved, succeeded, failed int, totalSize int64, duration time.Duration) {
	fmt.Fprintf(os.Stderr, "\nStats\n")
	fmt.Fprintf(os.Stderr, "  Resolved:  %d\n", resolved)
	fmt.Fprintf(os.Stderr, "  Succeeded: %d\n", succeeded)
	fmt.Fprintf(os.Stderr, "  Failed:    %d\n", failed)
	//nolint:gosec // totalSize is always non-negative (sum of file sizes)
	fmt.Fprintf(os.Stderr, "  Size:      %s\n", humanize.IBytes(uint64(max(0, totalSize))))
	fmt.Fprintf(os.Stderr, "  Duration:  %s\n", duration.Round(time.Millisecond))
}
