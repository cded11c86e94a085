package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/calebmor/drivecat/internal/catalog"
	"github.com/calebmor/drivecat/internal/config"
	"github.com/calebmor/drivecat/internal/domain"
	"github.com/calebmor/drivecat/internal/lock"
	"github.com/calebmor/drivecat/internal/logger"
	"github.com/calebmor/drivecat/internal/progress"
	"github.com/calebmor/drivecat/internal/remote"
	"github.com/calebmor/drivecat/internal/scan"
	"github.com/calebmor/drivecat/internal/state"
)

// ScanService orchestrates one catalog scan: lock, optional load of the
// existing catalog, enumeration, merge, save, history record
type ScanService struct {
	cfg      *config.Config
	store    remote.Store
	lock     *lock.FileLock
	state    *state.Manager
	reporter progress.Reporter
	log      logger.Logger
}

// Summary reports the outcome of one scan run
type Summary struct {
	Stats        scan.Stats
	TotalRecords int
	Merged       bool
	Duration     time.Duration
}

// New creates a new scan service
func New(cfg *config.Config, store remote.Store) (*ScanService, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if store == nil {
		return nil, fmt.Errorf("store cannot be nil")
	}

	dataDir := cfg.GetDataDir()

	fileLock, err := lock.NewFileLock(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create file lock: %w", err)
	}

	stateManager, err := state.NewManager(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create state manager: %w", err)
	}

	return &ScanService{
		cfg:   cfg,
		store: store,
		lock:  fileLock,
		state: stateManager,
		log:   logger.Get(),
	}, nil
}

// SetReporter sets the progress reporter for scan runs
func (s *ScanService) SetReporter(reporter progress.Reporter) {
	s.reporter = reporter
}

// getReporter returns the current reporter or a null reporter
func (s *ScanService) getReporter() progress.Reporter {
	if s.reporter != nil {
		return s.reporter
	}
	return progress.NullReporter{}
}

// Run performs one scan. When update is true, the existing catalog is
// loaded first and the fresh scan is merged into it; records absent
// from the fresh scan are preserved untouched.
func (s *ScanService) Run(ctx context.Context, update bool) (Summary, error) {
	catalogPath := s.cfg.Catalog.Path

	if err := s.lock.Acquire(catalogPath); err != nil {
		if lock.IsLockError(err) {
			return Summary{}, fmt.Errorf("%w: %v", domain.ErrScanInProgress, err)
		}
		return Summary{}, err
	}
	defer func() {
		if err := s.lock.Release(); err != nil {
			s.log.Warn("failed to release scan lock", "error", err)
		}
	}()

	existing := catalog.Catalog{}
	merged := false
	if update {
		loaded, err := catalog.Load(catalogPath)
		switch {
		case err == nil:
			existing = loaded
			merged = true
			s.log.Info("loaded existing catalog", "path", catalogPath, "entries", len(existing))
		case errors.Is(err, os.ErrNotExist):
			// No catalog yet: behave like a fresh scan
			s.log.Info("no existing catalog, starting fresh", "path", catalogPath)
		default:
			// A malformed catalog is an operator problem; silently
			// overwriting it would lose data
			return Summary{}, fmt.Errorf("loading existing catalog: %w", err)
		}
	}

	enumerator := scan.NewEnumerator(s.store, scan.Options{
		MaxDepth: s.cfg.Scan.MaxDepth,
		Reporter: s.getReporter(),
	})

	startTime := time.Now()
	records, stats, scanErr := enumerator.Enumerate(ctx, s.cfg.Scan.FolderID)
	endTime := time.Now()

	s.recordScan(startTime, endTime, stats, scanErr)

	if scanErr != nil {
		return Summary{Stats: stats}, scanErr
	}

	result := catalog.Merge(existing, records)
	if err := catalog.Save(catalogPath, result); err != nil {
		return Summary{Stats: stats}, fmt.Errorf("saving catalog: %w", err)
	}

	s.log.Info("catalog saved",
		"path", catalogPath,
		"records", len(result),
		"fresh", len(records))

	return Summary{
		Stats:        stats,
		TotalRecords: len(result),
		Merged:       merged,
		Duration:     endTime.Sub(startTime),
	}, nil
}

// recordScan persists the scan outcome to history; failures here are
// logged, not surfaced, since the scan itself already succeeded or failed
func (s *ScanService) recordScan(startTime, endTime time.Time, stats scan.Stats, scanErr error) {
	record := state.ScanRecord{
		CatalogPath:    s.cfg.Catalog.Path,
		StartTime:      startTime,
		EndTime:        endTime,
		Status:         "success",
		FilesFound:     stats.FilesEmitted,
		FoldersVisited: stats.FoldersVisited,
		DocsSkipped:    stats.DocsSkipped,
		PathsTruncated: stats.PathsTruncated,
		BytesSeen:      stats.BytesSeen,
	}
	if scanErr != nil {
		record.Status = "failed"
		record.Error = scanErr.Error()
	}

	if err := s.state.SaveScan(record); err != nil {
		s.log.Warn("failed to record scan history", "error", err)
	}
}

// History returns the most recent scan records
func (s *ScanService) History(limit int) ([]state.ScanRecord, error) {
	return s.state.History(limit)
}

// Close releases the service's resources
func (s *ScanService) Close() error {
	return s.state.Close()
}
