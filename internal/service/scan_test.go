package service

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/calebmor/drivecat/internal/catalog"
	"github.com/calebmor/drivecat/internal/config"
	"github.com/calebmor/drivecat/internal/domain"
	"github.com/calebmor/drivecat/internal/remote"
)

// stubStore serves a fixed single-folder tree
type stubStore struct {
	entries []domain.Entry
	listErr error
}

func (s *stubStore) ListEntries(ctx context.Context, folderID, pageToken string) (remote.Page, error) {
	if s.listErr != nil {
		return remote.Page{}, s.listErr
	}
	if folderID != "" {
		return remote.Page{}, nil
	}
	return remote.Page{Entries: s.entries}, nil
}

func (s *stubStore) GetEntry(ctx context.Context, id string) (domain.Entry, error) {
	return domain.Entry{}, domain.ErrNotFound
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0644)
}

func file(id, name string) domain.Entry {
	return domain.Entry{ID: id, Name: name, Type: domain.EntryTypeFile, MimeType: "application/pdf", Size: 10}
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		Catalog: config.CatalogConfig{Path: dir + "/catalog.csv"},
		Scan: config.ScanConfig{
			PageSize: config.DefaultPageSize,
			MaxDepth: config.DefaultMaxDepth,
		},
		DataDir: dir,
	}
}

func newTestService(t *testing.T, store remote.Store) *ScanService {
	t.Helper()
	svc, err := New(testConfig(t), store)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(func() { svc.Close() })
	return svc
}

func TestNew_NilArguments(t *testing.T) {
	if _, err := New(nil, &stubStore{}); err == nil {
		t.Error("expected error for nil config")
	}
	if _, err := New(testConfig(t), nil); err == nil {
		t.Error("expected error for nil store")
	}
}

func TestRun_FreshScan(t *testing.T) {
	store := &stubStore{entries: []domain.Entry{file("f1", "a.pdf"), file("f2", "b.pdf")}}
	svc := newTestService(t, store)

	summary, err := svc.Run(context.Background(), false)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if summary.TotalRecords != 2 {
		t.Errorf("total records = %d", summary.TotalRecords)
	}
	if summary.Merged {
		t.Error("fresh scan must not report a merge")
	}
	if summary.Stats.FilesEmitted != 2 {
		t.Errorf("files emitted = %d", summary.Stats.FilesEmitted)
	}

	saved, err := catalog.Load(svc.cfg.Catalog.Path)
	if err != nil {
		t.Fatalf("catalog not saved: %v", err)
	}
	if len(saved) != 2 {
		t.Errorf("saved catalog has %d records", len(saved))
	}
}

func TestRun_UpdatePreservesExisting(t *testing.T) {
	store := &stubStore{entries: []domain.Entry{file("f1", "a.pdf")}}
	svc := newTestService(t, store)

	existing := catalog.Catalog{
		"gone": {ID: "gone", Name: "deleted-remotely.pdf", Path: "/deleted-remotely.pdf"},
	}
	if err := catalog.Save(svc.cfg.Catalog.Path, existing); err != nil {
		t.Fatalf("failed to seed catalog: %v", err)
	}

	summary, err := svc.Run(context.Background(), true)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if !summary.Merged {
		t.Error("update run must report a merge")
	}
	if summary.TotalRecords != 2 {
		t.Errorf("total records = %d, want 2", summary.TotalRecords)
	}

	saved, err := catalog.Load(svc.cfg.Catalog.Path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, ok := saved["gone"]; !ok {
		t.Error("update pruned a record absent from the fresh scan")
	}
	if _, ok := saved["f1"]; !ok {
		t.Error("fresh record missing from merged catalog")
	}
}

func TestRun_UpdateWithoutCatalog(t *testing.T) {
	store := &stubStore{entries: []domain.Entry{file("f1", "a.pdf")}}
	svc := newTestService(t, store)

	// --update with no existing catalog behaves like a fresh scan
	summary, err := svc.Run(context.Background(), true)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.Merged {
		t.Error("missing catalog must not count as a merge")
	}
	if summary.TotalRecords != 1 {
		t.Errorf("total records = %d", summary.TotalRecords)
	}
}

func TestRun_UpdateMalformedCatalog(t *testing.T) {
	store := &stubStore{entries: []domain.Entry{file("f1", "a.pdf")}}
	svc := newTestService(t, store)

	// A catalog without an id column must stop the run, not be overwritten
	if err := writeFile(svc.cfg.Catalog.Path, "name,path\nfoo,/foo\n"); err != nil {
		t.Fatalf("failed to seed catalog: %v", err)
	}

	_, err := svc.Run(context.Background(), true)
	if !errors.Is(err, domain.ErrCatalogSchema) {
		t.Errorf("expected ErrCatalogSchema, got %v", err)
	}
}

func TestRun_ScanFailureRecorded(t *testing.T) {
	listErr := errors.New("rate limited")
	store := &stubStore{listErr: listErr}
	svc := newTestService(t, store)

	if _, err := svc.Run(context.Background(), false); !errors.Is(err, listErr) {
		t.Fatalf("expected listing error, got %v", err)
	}

	records, err := svc.History(10)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 history record, got %d", len(records))
	}
	if records[0].Status != "failed" {
		t.Errorf("status = %q", records[0].Status)
	}
	if records[0].Error == "" {
		t.Error("expected error message in history")
	}
}

func TestRun_HistoryRecorded(t *testing.T) {
	store := &stubStore{entries: []domain.Entry{file("f1", "a.pdf")}}
	svc := newTestService(t, store)

	if _, err := svc.Run(context.Background(), false); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	records, err := svc.History(10)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 history record, got %d", len(records))
	}
	if records[0].Status != "success" || records[0].FilesFound != 1 {
		t.Errorf("unexpected history record: %+v", records[0])
	}
}

func TestRun_LockReleased(t *testing.T) {
	store := &stubStore{entries: []domain.Entry{file("f1", "a.pdf")}}
	svc := newTestService(t, store)

	if _, err := svc.Run(context.Background(), false); err != nil {
		t.Fatalf("first Run failed: %v", err)
	}
	// A second run must not see the first run's lock
	if _, err := svc.Run(context.Background(), false); err != nil {
		t.Fatalf("second Run failed: %v", err)
	}
}
