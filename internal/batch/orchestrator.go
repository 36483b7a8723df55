// Package batch runs many streaming cipher operations with bounded
// concurrency, atomic file replacement and per-file failure isolation.
package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"batchcrypt/internal/encryption"
	"batchcrypt/internal/fileutil"
	"batchcrypt/internal/keys"
)

// Direction selects the transform applied to each file.
type Direction int

const (
	// Encrypt replaces each file with `IV || ciphertext`.
	Encrypt Direction = iota
	// Decrypt replaces each file with the recovered plaintext.
	Decrypt
)

// String returns the direction's name.
func (d Direction) String() string {
	switch d {
	case Encrypt:
		return "encrypt"
	case Decrypt:
		return "decrypt"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// EventFunc receives per-file events as they happen, called on dispatcher
// workers. Events for one file are ordered; no ordering holds across
// files of the same group.
type EventFunc func(file string, ev Event)

// DoneFunc receives the aggregated outcome of a run: files that completed,
// in completion order, and the terminal Error of every file that did not.
// Invoked exactly once, in the goroutine that called Run, after the last
// group's barrier.
type DoneFunc func(succeeded []string, failed map[string]Error)

// groupSize bounds concurrently open file handles and buffered chunks:
// files are processed in groups of this many, groups strictly in sequence.
const groupSize = 5

// Orchestrator schedules batch encrypt/decrypt runs. At most one run per
// direction may be in flight per Orchestrator; the two directions may
// overlap each other.
type Orchestrator struct {
	provider keys.Provider
	logger   Logger

	mu       sync.Mutex
	inFlight [2]bool
}

// New creates an Orchestrator drawing keys from provider. A nil logger
// disables logging.
func New(provider keys.Provider, logger Logger) *Orchestrator {
	if logger == nil {
		logger = NewNopLogger()
	}

	return &Orchestrator{
		provider: provider,
		logger:   logger,
	}
}

// Run transforms files in direction dir, scheduling work on dispatcher and
// reporting through onEvent and onDone. It blocks until every file has
// reached a terminal event, then calls onDone once and returns.
//
// Misuse — a latency-sensitive dispatcher, an empty file list, a run of
// the same direction already in flight — is rejected synchronously with a
// *ConfigError before any file is touched. Key retrieval happens up front
// and its failure is likewise returned synchronously.
//
// Cancelling ctx stops new group work; in-flight files record a failure
// carrying their last known progress, unstarted files record one without,
// so the aggregate still covers every input.
func (o *Orchestrator) Run(
	ctx context.Context,
	files []string,
	dir Direction,
	dispatcher Dispatcher,
	onEvent EventFunc,
	onDone DoneFunc,
) error {
	if dispatcher == nil {
		return &ConfigError{Reason: "nil dispatcher"}
	}

	if dispatcher.LatencySensitive() {
		return &ConfigError{Reason: "dispatcher is latency-sensitive; batch transforms require a worker pool"}
	}

	if len(files) == 0 {
		return &ConfigError{Reason: "no files to process"}
	}

	if onEvent == nil {
		onEvent = func(string, Event) {}
	}

	if err := o.acquire(dir); err != nil {
		return err
	}
	defer o.release(dir)

	key, err := o.provider.Key()
	if err != nil {
		return fmt.Errorf("retrieving key: %w", err)
	}

	engine, err := encryption.NewEngine(key)
	if err != nil {
		return fmt.Errorf("initializing cipher: %w", err)
	}

	acc := &accumulator{failed: make(map[string]Error, len(files))}

	o.logger.Info("batch started", "direction", dir.String(), "files", len(files))

	for start := 0; start < len(files); start += groupSize {
		if err := ctx.Err(); err != nil {
			// Cancelled between groups: the remaining files still get a
			// terminal Error so the aggregate covers every input.
			o.logger.Warn("batch cancelled", "direction", dir.String(), "remaining", len(files)-start)
			o.failRemaining(files[start:], err, onEvent, acc)

			break
		}

		group := files[start:min(start+groupSize, len(files))]

		var barrier sync.WaitGroup

		for _, file := range group {
			barrier.Add(1)

			dispatcher.Go(func() {
				defer barrier.Done()

				o.runFile(ctx, engine, dir, file, onEvent, acc)
			})
		}

		barrier.Wait()
	}

	succeeded, failed := acc.results()
	o.logger.Info("batch finished",
		"direction", dir.String(), "succeeded", len(succeeded), "failed", len(failed))

	if onDone != nil {
		onDone(succeeded, failed)
	}

	return nil
}

// acquire marks a direction as in flight, rejecting duplicates.
func (o *Orchestrator) acquire(dir Direction) error {
	if dir != Encrypt && dir != Decrypt {
		return &ConfigError{Reason: "unknown direction"}
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.inFlight[dir] {
		return &ConfigError{Reason: dir.String() + " batch already in flight"}
	}

	o.inFlight[dir] = true

	return nil
}

func (o *Orchestrator) release(dir Direction) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.inFlight[dir] = false
}

// runFile transforms one file and records exactly one terminal outcome.
// Failures never propagate to group siblings.
func (o *Orchestrator) runFile(
	ctx context.Context,
	engine *encryption.Engine,
	dir Direction,
	file string,
	onEvent EventFunc,
	acc *accumulator,
) {
	var (
		lastPercent int
		reported    bool
	)

	onProgress := func(p int) {
		lastPercent, reported = p, true

		onEvent(file, Progress{Percent: p})
	}

	err := o.transformFile(ctx, engine, dir, file, onProgress)
	if err != nil {
		ev := Error{Kind: classify(err), Err: err, Percent: lastPercent, HasPercent: reported}

		o.logger.Error("file failed",
			"file", file, "direction", dir.String(), "kind", ev.Kind.String(), "err", err)
		acc.fail(file, ev)
		onEvent(file, ev)

		return
	}

	o.logger.Debug("file completed", "file", file, "direction", dir.String())
	acc.succeed(file)
	onEvent(file, Completed{})
}

// transformFile streams one file through the engine into a staged temp
// file and commits the replacement on success.
func (o *Orchestrator) transformFile(
	ctx context.Context,
	engine *encryption.Engine,
	dir Direction,
	file string,
	onProgress encryption.ProgressFunc,
) (err error) {
	rep, err := fileutil.NewReplacement(file)
	if err != nil {
		return fmt.Errorf("preparing atomic write: %w", err)
	}

	defer rep.CleanupOnError(&err)

	in, err := os.Open(filepath.Clean(file))
	if err != nil {
		return fmt.Errorf("opening input file: %w", err)
	}

	// The engine owns both streams from here and closes them on every
	// exit path.
	switch dir {
	case Encrypt:
		err = engine.Encrypt(ctx, in, rep.File, rep.SrcInfo.Size(), onProgress)
	case Decrypt:
		err = engine.Decrypt(ctx, in, rep.File, rep.SrcInfo.Size(), onProgress)
	}

	if err != nil {
		return fmt.Errorf("%sing file: %w", dir.String(), err)
	}

	if err := rep.Commit(); err != nil {
		return fmt.Errorf("committing output: %w", err)
	}

	return nil
}

// failRemaining records a terminal Error for files that never started.
func (o *Orchestrator) failRemaining(files []string, cause error, onEvent EventFunc, acc *accumulator) {
	for _, file := range files {
		ev := Error{
			Kind: classify(cause),
			Err:  fmt.Errorf("batch cancelled before start: %w", cause),
		}

		acc.fail(file, ev)
		onEvent(file, ev)
	}
}

// accumulator collects results from concurrent group members.
type accumulator struct {
	mu        sync.Mutex
	succeeded []string
	failed    map[string]Error
}

func (a *accumulator) succeed(file string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.succeeded = append(a.succeeded, file)
}

func (a *accumulator) fail(file string, ev Error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.failed[file] = ev
}

func (a *accumulator) results() ([]string, map[string]Error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.succeeded, a.failed
}
