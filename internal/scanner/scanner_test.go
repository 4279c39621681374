package scanner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"testing"

	"legacy-modernizer/internal/model"
)

func TestFileWalker_Walk(t *testing.T) {
	rootDir, err := os.MkdirTemp("", "scanner-test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(rootDir)

	files := []string{
		"PAYROLL.cbl",
		"billing.COB",
		"copybooks/CUSTREC.cpy",
		"notes.txt",
		"batch/INVOICE.cbl",
		"batch/archive/OLD.cbl",
		".git/HOOK.cbl",
		"vendor/LIB.cbl",
	}

	for _, f := range files {
		path := filepath.Join(rootDir, f)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("       IDENTIFICATION DIVISION."), 0644); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name     string
		exts     []string
		excludes []string
		want     []string
	}{
		{
			name:     "program files",
			exts:     []string{"cbl", "cob"},
			excludes: []string{"vendor", "archive"},
			want:     []string{"PAYROLL.cbl", "batch/INVOICE.cbl", "billing.COB"},
		},
		{
			name:     "copybooks included",
			exts:     []string{".cbl", "cpy"},
			excludes: []string{"vendor", "archive"},
			want:     []string{"PAYROLL.cbl", "batch/INVOICE.cbl", "copybooks/CUSTREC.cpy"},
		},
		{
			name:     "glob exclude on file name",
			exts:     []string{"cbl"},
			excludes: []string{"PAY*", "vendor"},
			want:     []string{"batch/INVOICE.cbl", "batch/archive/OLD.cbl"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			walker := NewFileWalker(tt.exts, tt.excludes)
			paths, errs := walker.Walk(context.Background(), rootDir)

			var got []string
			for p := range paths {
				rel, err := filepath.Rel(rootDir, p)
				if err != nil {
					t.Fatalf("Rel error: %v", err)
				}
				got = append(got, filepath.ToSlash(rel))
			}
			if err := <-errs; err != nil {
				t.Fatalf("Walk() error = %v", err)
			}

			sort.Strings(got)
			want := append([]string(nil), tt.want...)
			sort.Strings(want)
			if !reflect.DeepEqual(got, want) {
				t.Errorf("Walk() got %v, want %v", got, want)
			}
		})
	}
}

func TestFileWalker_MissingRoot(t *testing.T) {
	walker := NewFileWalker([]string{"cbl"}, nil)
	paths, errs := walker.Walk(context.Background(), filepath.Join(t.TempDir(), "nope"))
	for range paths {
	}
	if err := <-errs; err == nil {
		t.Error("expected error for missing root")
	}
}

func TestWorkerPool_Start(t *testing.T) {
	proc := func(_ context.Context, path string) (*model.Analysis, error) {
		if path == "bad.cbl" {
			return nil, errors.New("unreadable")
		}
		return &model.Analysis{Path: path}, nil
	}

	pool := NewWorkerPool(2, proc)
	paths := make(chan string, 6)
	for i := 0; i < 5; i++ {
		paths <- "good.cbl"
	}
	paths <- "bad.cbl"
	close(paths)

	ok, failed := 0, 0
	for res := range pool.Start(context.Background(), paths) {
		if res.Error != nil {
			failed++
			continue
		}
		if res.Analysis == nil || res.Analysis.Path != res.File {
			t.Errorf("unexpected result %+v", res)
		}
		ok++
	}

	if ok != 5 || failed != 1 {
		t.Errorf("ok = %d, failed = %d, want 5 and 1", ok, failed)
	}
}

func TestWorkerPool_MinimumConcurrency(t *testing.T) {
	if got := NewWorkerPool(0, nil).Concurrency; got != 1 {
		t.Errorf("Concurrency = %d, want 1", got)
	}
}
