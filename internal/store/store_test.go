package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"

	"legacy-modernizer/internal/config"
	"legacy-modernizer/internal/model"
)

func openTestHistory(t *testing.T) *History {
	t.Helper()
	h, err := OpenHistory(filepath.Join(t.TempDir(), "db", "history.db"))
	if err != nil {
		t.Fatalf("OpenHistory() error = %v", err)
	}
	t.Cleanup(func() { h.Close() })
	return h
}

func TestHistory_SaveGet(t *testing.T) {
	h := openTestHistory(t)

	p := &model.Portfolio{
		RunID:  ulid.Make().String(),
		Source: "legacy/",
		Units:  []model.Analysis{{Path: "PAYROLL.cbl", Risk: model.RiskHigh, Fact: model.SourceFact{Name: "PAYROLL"}}},
	}
	p.Summary = model.Summarize(p.Units)
	if err := h.Save(p); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := h.Get(p.RunID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Source != "legacy/" || len(got.Units) != 1 || got.Units[0].Fact.Name != "PAYROLL" {
		t.Errorf("Get() = %+v", got)
	}
	if got.Summary.RiskDistribution[model.RiskHigh] != 1 {
		t.Errorf("risk distribution lost: %+v", got.Summary)
	}

	if _, err := h.Get("01ARZ3NDEKTSV4RRFFQ69G5FAV"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) err = %v, want ErrNotFound", err)
	}
	if err := h.Save(&model.Portfolio{}); err == nil {
		t.Error("Save() without run id should fail")
	}
}

func TestHistory_ListNewestFirst(t *testing.T) {
	h := openTestHistory(t)

	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	var ids []string
	for i := 0; i < 4; i++ {
		id := ulid.MustNew(ulid.Timestamp(base.Add(time.Duration(i)*time.Minute)), ulid.DefaultEntropy()).String()
		ids = append(ids, id)
		if err := h.Save(&model.Portfolio{RunID: id}); err != nil {
			t.Fatal(err)
		}
	}

	runs, err := h.List(2)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(runs) != 2 || runs[0].RunID != ids[3] || runs[1].RunID != ids[2] {
		t.Errorf("List(2) = %v", runIDs(runs))
	}

	all, err := h.List(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 4 || all[3].RunID != ids[0] {
		t.Errorf("List(0) = %v", runIDs(all))
	}
}

func runIDs(runs []*model.Portfolio) []string {
	var out []string
	for _, r := range runs {
		out = append(out, r.RunID)
	}
	return out
}

func TestFileSink(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "expected_output")
	sink := FileSink{Dir: dir}

	loc, err := sink.Store(context.Background(), "PAYROLL", "public class Payroll {}")
	if err != nil {
		t.Fatalf("Store() error = %v", err)
	}
	if loc != filepath.Join(dir, "PAYROLL.java") {
		t.Errorf("location = %q", loc)
	}
	data, err := os.ReadFile(loc)
	if err != nil || string(data) != "public class Payroll {}" {
		t.Errorf("file content = %q, %v", data, err)
	}

	for _, bad := range []string{"", "../ETC", `A\B`} {
		if _, err := sink.Store(context.Background(), bad, "x"); err == nil {
			t.Errorf("Store(%q) should fail", bad)
		}
	}
}

func TestNewSink(t *testing.T) {
	sink, err := NewSink(config.StorageConfig{OutputDir: "out"}, "run")
	if err != nil {
		t.Fatal(err)
	}
	if fs, ok := sink.(FileSink); !ok || fs.Dir != "out" {
		t.Errorf("NewSink() = %#v, want FileSink", sink)
	}

	_, err = NewSink(config.StorageConfig{S3: config.S3Config{Enabled: true, Endpoint: "localhost:9000", Bucket: "b"}}, "run")
	if err == nil {
		t.Error("S3 sink without credentials should fail")
	}

	s3, err := NewSink(config.StorageConfig{S3: config.S3Config{
		Enabled: true, Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "s", Bucket: "b",
	}}, "/run-1/")
	if err != nil {
		t.Fatalf("NewSink(s3) error = %v", err)
	}
	if key := s3.(*S3Sink).objectKey("PAYROLL.java"); key != "run-1/PAYROLL.java" {
		t.Errorf("objectKey = %q", key)
	}
}
