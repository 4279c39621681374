// Package scanner discovers source files and fans them out to workers.
package scanner

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"

	"legacy-modernizer/internal/model"
)

// FileWalker traverses a source tree and feeds matching files to a channel
type FileWalker struct {
	Extensions map[string]struct{}
	Excludes   []string
}

func NewFileWalker(exts []string, excludes []string) *FileWalker {
	e := make(map[string]struct{})
	for _, ext := range exts {
		e[strings.ToLower(strings.TrimPrefix(ext, "."))] = struct{}{}
	}
	return &FileWalker{
		Extensions: e,
		Excludes:   excludes,
	}
}

// Walk starts the traversal and returns a channel of program paths.
// It runs in a separate goroutine and closes both channels when done.
func (fw *FileWalker) Walk(ctx context.Context, root string) (<-chan string, <-chan error) {
	paths := make(chan string, 100)
	errs := make(chan error, 1)

	go func() {
		defer close(paths)
		defer close(errs)
		if err := filepath.WalkDir(root, fw.visitor(ctx, root, paths)); err != nil {
			errs <- err
		}
	}()

	return paths, errs
}

func (fw *FileWalker) visitor(ctx context.Context, root string, paths chan<- string) fs.WalkDirFunc {
	return func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		rel, _ := filepath.Rel(root, path)
		if d.IsDir() {
			if path != root && (strings.HasPrefix(d.Name(), ".") || fw.excluded(rel, d.Name())) {
				return filepath.SkipDir // .git, vendor, excluded trees
			}
			return nil
		}
		if !fw.accepts(path) || fw.excluded(rel, d.Name()) {
			return nil
		}

		select {
		case paths <- path:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (fw *FileWalker) accepts(path string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	_, ok := fw.Extensions[ext]
	return ok
}

// excluded matches a pattern either as a glob against the base name or as
// a plain substring of the path relative to the walk root.
func (fw *FileWalker) excluded(rel, name string) bool {
	for _, exclude := range fw.Excludes {
		if exclude == "" {
			continue
		}
		matched, _ := filepath.Match(exclude, name)
		if matched || strings.Contains(filepath.ToSlash(rel), exclude) {
			return true
		}
	}
	return false
}

type ScanResult struct {
	File     string
	Analysis *model.Analysis
	Error    error
}

// Processor analyses a single file
type Processor func(ctx context.Context, path string) (*model.Analysis, error)

// WorkerPool manages concurrent processing
type WorkerPool struct {
	Concurrency int
	Processor   Processor
}

func NewWorkerPool(concurrency int, proc Processor) *WorkerPool {
	if concurrency < 1 {
		concurrency = 1
	}
	return &WorkerPool{
		Concurrency: concurrency,
		Processor:   proc,
	}
}

// Start runs Concurrency workers over paths. The result channel closes
// once every worker has drained its input or ctx is cancelled.
func (wp *WorkerPool) Start(ctx context.Context, paths <-chan string) <-chan ScanResult {
	results := make(chan ScanResult)
	var wg sync.WaitGroup

	wg.Add(wp.Concurrency)
	for i := 0; i < wp.Concurrency; i++ {
		go func() {
			defer wg.Done()
			wp.work(ctx, paths, results)
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

func (wp *WorkerPool) work(ctx context.Context, paths <-chan string, results chan<- ScanResult) {
	for path := range paths {
		if ctx.Err() != nil {
			return
		}
		analysis, err := wp.Processor(ctx, path)
		// failed files are still reported so the run can list them
		select {
		case results <- ScanResult{File: path, Analysis: analysis, Error: err}:
		case <-ctx.Done():
			return
		}
	}
}
