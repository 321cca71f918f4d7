// Package process runs an extractor over every line of files and
// directories.
package process

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/gnolang/tparse/rules"
)

const maxLineSize = 1 << 20

// Extractor turns one line into a record. *rules.Set implements it.
type Extractor interface {
	Extract(line string) (rules.Record, error)
}

// Result is the outcome for one line. A failure to read a file is
// reported with Line 0.
type Result struct {
	File   string
	Line   int
	Text   string
	Record rules.Record
	Err    error
}

func (r Result) Matched() bool { return r.Err == nil }

// Runner feeds files to an Extractor, one line at a time.
type Runner struct {
	extractor  Extractor
	logger     *zap.Logger
	extensions map[string]bool
	workers    int
	progress   io.Writer
}

type Option func(*Runner)

func WithLogger(logger *zap.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithExtensions restricts directory walks to files with the given
// extensions, such as ".log". Without it every regular file is read.
func WithExtensions(exts ...string) Option {
	return func(r *Runner) {
		for _, ext := range exts {
			if ext == "" {
				continue
			}
			if !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			r.extensions[ext] = true
		}
	}
}

// WithWorkers sets how many files are read at once. It defaults to the
// number of CPUs.
func WithWorkers(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithProgress draws a progress bar on w while walking directories.
func WithProgress(w io.Writer) Option {
	return func(r *Runner) {
		r.progress = w
	}
}

func New(extractor Extractor, opts ...Option) *Runner {
	r := &Runner{
		extractor:  extractor,
		logger:     zap.NewNop(),
		extensions: make(map[string]bool),
		workers:    runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Runner) accepts(path string) bool {
	if len(r.extensions) == 0 {
		return true
	}
	return r.extensions[filepath.Ext(path)]
}

// Reader extracts every line of rd. name is recorded as the File of each
// result.
func (r *Runner) Reader(ctx context.Context, name string, rd io.Reader) ([]Result, error) {
	sc := bufio.NewScanner(rd)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var results []Result
	n := 0
	for sc.Scan() {
		n++
		if n%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return results, err
			}
		}

		line := strings.TrimSuffix(sc.Text(), "\r")
		rec, err := r.extractor.Extract(line)
		results = append(results, Result{
			File:   name,
			Line:   n,
			Text:   line,
			Record: rec,
			Err:    err,
		})
	}
	if err := sc.Err(); err != nil {
		return results, fmt.Errorf("reading %s: %w", name, err)
	}
	return results, nil
}

// File extracts every line of the file at path.
func (r *Runner) File(ctx context.Context, path string) ([]Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return r.Reader(ctx, path, f)
}

// Files lists the files under dir that the runner accepts, sorted.
func (r *Runner) Files(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() && r.accepts(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}

// Path extracts a single file, or every accepted file below a directory.
// Files that cannot be read are logged and reported as a failed result.
// On cancellation the results gathered so far are returned with the
// context error.
func (r *Runner) Path(ctx context.Context, path string) ([]Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing %s: %w", path, err)
	}
	if !info.IsDir() {
		return r.File(ctx, path)
	}

	files, err := r.Files(path)
	if err != nil {
		return nil, err
	}
	return r.run(ctx, path, files)
}

// Paths is Path over several paths, in order.
func (r *Runner) Paths(ctx context.Context, paths []string) ([]Result, error) {
	var all []Result
	for _, path := range paths {
		results, err := r.Path(ctx, path)
		all = append(all, results...)
		if err != nil {
			r.logger.Error("Error processing path", zap.String("path", path), zap.Error(err))
			return all, err
		}
	}
	return all, nil
}

func (r *Runner) run(ctx context.Context, root string, files []string) ([]Result, error) {
	var bar *progressbar.ProgressBar
	if r.progress != nil {
		bar = progressbar.NewOptions(len(files),
			progressbar.OptionSetWriter(r.progress),
			progressbar.OptionSetDescription(root),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "[green]=[reset]",
				SaucerHead:    "[green]>[reset]",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}))
	}

	// one slot per file keeps the output in walk order
	slots := make([][]Result, len(files))
	sem := make(chan struct{}, r.workers)
	var wg sync.WaitGroup

	var cancelled error
dispatch:
	for i, path := range files {
		if err := ctx.Err(); err != nil {
			cancelled = err
			break
		}
		select {
		case <-ctx.Done():
			cancelled = ctx.Err()
			break dispatch
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			defer func() { <-sem }()

			results, err := r.File(ctx, path)
			if err != nil {
				r.logger.Error("Error processing file", zap.String("file", path), zap.Error(err))
				results = append(results, Result{File: path, Err: err})
			}
			slots[i] = results
			if bar != nil {
				_ = bar.Add(1)
			}
		}(i, path)
	}
	wg.Wait()

	if bar != nil {
		_ = bar.Finish()
		fmt.Fprintln(r.progress)
	}

	var all []Result
	for _, results := range slots {
		all = append(all, results...)
	}
	return all, cancelled
}

// Stats summarizes a run.
type Stats struct {
	Files   int
	Lines   int
	Matched int
	Failed  int
}

func Summarize(results []Result) Stats {
	var s Stats
	files := make(map[string]bool)
	for _, res := range results {
		files[res.File] = true
		if res.Line == 0 {
			continue
		}
		s.Lines++
		if res.Matched() {
			s.Matched++
		} else {
			s.Failed++
		}
	}
	s.Files = len(files)
	return s
}
