package lock

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/calebmor/drivecat/internal/testutil"
)

func TestNewFileLock(t *testing.T) {
	dir, cleanup := testutil.TempDir(t)
	defer cleanup()

	lock, err := NewFileLock(dir)
	if err != nil {
		t.Fatalf("NewFileLock failed: %v", err)
	}

	expectedPath := filepath.Join(dir, LockFileName)
	if lock.lockPath != expectedPath {
		t.Errorf("expected lock path %s, got %s", expectedPath, lock.lockPath)
	}

	if lock.staleTimeout != DefaultStaleTimeout {
		t.Errorf("expected timeout %v, got %v", DefaultStaleTimeout, lock.staleTimeout)
	}
}

func TestAcquireRelease(t *testing.T) {
	dir, cleanup := testutil.TempDir(t)
	defer cleanup()

	lock, err := NewFileLock(dir)
	if err != nil {
		t.Fatalf("NewFileLock failed: %v", err)
	}

	if err := lock.Acquire("catalog.csv"); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}

	if _, err := os.Stat(lock.lockPath); os.IsNotExist(err) {
		t.Error("lock file does not exist after acquire")
	}

	if !lock.IsLocked() {
		t.Error("lock should be held")
	}

	if err := lock.Release(); err != nil {
		t.Fatalf("Release failed: %v", err)
	}

	if _, err := os.Stat(lock.lockPath); !os.IsNotExist(err) {
		t.Error("lock file still exists after release")
	}

	if lock.IsLocked() {
		t.Error("lock should not be held after release")
	}
}

func TestAcquireTwice_SameProcess(t *testing.T) {
	dir, cleanup := testutil.TempDir(t)
	defer cleanup()

	lock, err := NewFileLock(dir)
	if err != nil {
		t.Fatalf("NewFileLock failed: %v", err)
	}

	if err := lock.Acquire("first.csv"); err != nil {
		t.Fatalf("First Acquire failed: %v", err)
	}
	defer lock.Release()

	// Re-acquire by the same process should succeed and update the
	// catalog path
	if err := lock.Acquire("second.csv"); err != nil {
		t.Fatalf("Second Acquire by same process should succeed: %v", err)
	}

	holder, err := lock.GetHolder()
	if err != nil {
		t.Fatalf("GetHolder failed: %v", err)
	}
	if holder.CatalogPath != "second.csv" {
		t.Errorf("expected catalog path 'second.csv', got '%s'", holder.CatalogPath)
	}
}

// Regression: re-acquiring with a different catalog path must keep
// l.info in sync with the file, otherwise Release reports the lock
// as stolen
func TestAcquireTwice_ThenRelease(t *testing.T) {
	dir, cleanup := testutil.TempDir(t)
	defer cleanup()

	lock, err := NewFileLock(dir)
	if err != nil {
		t.Fatalf("NewFileLock failed: %v", err)
	}

	if err := lock.Acquire("a.csv"); err != nil {
		t.Fatalf("First acquire failed: %v", err)
	}
	if err := lock.Acquire("b.csv"); err != nil {
		t.Fatalf("Second acquire failed: %v", err)
	}

	if err := lock.Release(); err != nil {
		t.Fatalf("Release after re-acquire failed: %v", err)
	}

	lockPath := filepath.Join(dir, LockFileName)
	if _, err := os.Stat(lockPath); !os.IsNotExist(err) {
		t.Error("lock file still exists after release")
	}
}

func TestConcurrentAcquire(t *testing.T) {
	dir, cleanup := testutil.TempDir(t)
	defer cleanup()

	const goroutines = 10
	var wg sync.WaitGroup
	acquired := make([]bool, goroutines)
	errs := make([]error, goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			lock, err := NewFileLock(dir)
			if err != nil {
				errs[idx] = err
				return
			}

			err = lock.Acquire("catalog.csv")
			if err == nil {
				acquired[idx] = true
				time.Sleep(10 * time.Millisecond)
				lock.Release()
			} else {
				errs[idx] = err
			}
		}(i)
	}

	wg.Wait()

	acquireCount := 0
	lockErrorCount := 0
	for i := 0; i < goroutines; i++ {
		if acquired[i] {
			acquireCount++
		}
		if errs[i] != nil && IsLockError(errs[i]) {
			lockErrorCount++
		}
	}

	if acquireCount != 1 {
		t.Errorf("expected exactly 1 acquire, got %d", acquireCount)
	}

	if lockErrorCount != goroutines-1 {
		t.Errorf("expected %d lock errors, got %d", goroutines-1, lockErrorCount)
	}
}

func TestGetHolder(t *testing.T) {
	dir, cleanup := testutil.TempDir(t)
	defer cleanup()

	lock, err := NewFileLock(dir)
	if err != nil {
		t.Fatalf("NewFileLock failed: %v", err)
	}

	_, err = lock.GetHolder()
	if err == nil {
		t.Error("expected error when no lock is held")
	}

	const catalogPath = "media/catalog.csv"
	if err := lock.Acquire(catalogPath); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	defer lock.Release()

	holder, err := lock.GetHolder()
	if err != nil {
		t.Fatalf("GetHolder failed: %v", err)
	}

	if holder.PID != os.Getpid() {
		t.Errorf("expected PID %d, got %d", os.Getpid(), holder.PID)
	}

	hostname, _ := os.Hostname()
	if holder.Hostname != hostname {
		t.Errorf("expected hostname %s, got %s", hostname, holder.Hostname)
	}

	if holder.CatalogPath != catalogPath {
		t.Errorf("expected catalog path %s, got %s", catalogPath, holder.CatalogPath)
	}

	if time.Since(holder.StartTime) > 1*time.Second {
		t.Error("start time should be recent")
	}
}

func TestForceRelease(t *testing.T) {
	dir, cleanup := testutil.TempDir(t)
	defer cleanup()

	lock, err := NewFileLock(dir)
	if err != nil {
		t.Fatalf("NewFileLock failed: %v", err)
	}

	lock.Acquire("catalog.csv")

	if err := lock.ForceRelease(); err != nil {
		t.Fatalf("ForceRelease failed: %v", err)
	}

	if _, err := os.Stat(lock.lockPath); !os.IsNotExist(err) {
		t.Error("lock file should be removed after force release")
	}

	if lock.IsLocked() {
		t.Error("lock should not be held after force release")
	}
}

func TestStaleDetection_ProcessDead(t *testing.T) {
	dir, cleanup := testutil.TempDir(t)
	defer cleanup()

	lock, err := NewFileLock(dir)
	if err != nil {
		t.Fatalf("NewFileLock failed: %v", err)
	}

	hostname, _ := os.Hostname()
	staleInfo := &LockInfo{
		PID:         999999, // Unlikely to exist
		Hostname:    hostname,
		StartTime:   time.Now().Add(-1 * time.Hour),
		CatalogPath: "stale.csv",
	}

	if err := lock.writeLockInfo(staleInfo); err != nil {
		t.Fatalf("failed to write stale lock info: %v", err)
	}

	// Acquire should succeed by removing the stale lock
	if err := lock.Acquire("fresh.csv"); err != nil {
		t.Fatalf("should acquire stale lock: %v", err)
	}
	defer lock.Release()

	holder, err := lock.GetHolder()
	if err != nil {
		t.Fatalf("GetHolder failed: %v", err)
	}
	if holder.PID != os.Getpid() {
		t.Error("expected current process to be holder")
	}
}

func TestStaleDetection_LongRunning(t *testing.T) {
	dir, cleanup := testutil.TempDir(t)
	defer cleanup()

	lock, err := NewFileLock(dir)
	if err != nil {
		t.Fatalf("NewFileLock failed: %v", err)
	}

	lock.SetStaleTimeout(100 * time.Millisecond)

	if err := lock.Acquire("catalog.csv"); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	defer lock.Release()

	time.Sleep(200 * time.Millisecond)

	// A same-host lock belonging to a living process never goes stale,
	// no matter how long it has been held
	if !lock.IsLocked() {
		t.Error("long-running lock should not be considered stale")
	}

	lock2, err := NewFileLock(dir)
	if err != nil {
		t.Fatalf("NewFileLock failed: %v", err)
	}

	err = lock2.Acquire("competing.csv")
	if err == nil {
		t.Error("should not acquire lock held by living process")
		lock2.Release()
	}
	if !IsLockError(err) {
		t.Errorf("expected LockError, got: %v", err)
	}
}

func TestStaleDetection_DifferentHost(t *testing.T) {
	dir, cleanup := testutil.TempDir(t)
	defer cleanup()

	lock, err := NewFileLock(dir)
	if err != nil {
		t.Fatalf("NewFileLock failed: %v", err)
	}

	lock.SetStaleTimeout(100 * time.Millisecond)

	// Cross-host locks fall back to the timeout: the process can't be
	// probed from here
	foreignInfo := &LockInfo{
		PID:         12345,
		Hostname:    "foreign-host-" + testutil.RandomString(8),
		StartTime:   time.Now().Add(-1 * time.Hour),
		CatalogPath: "foreign.csv",
	}

	if err := lock.writeLockInfo(foreignInfo); err != nil {
		t.Fatalf("failed to write foreign lock info: %v", err)
	}

	if err := lock.Acquire("local.csv"); err != nil {
		t.Fatalf("should acquire stale foreign lock: %v", err)
	}
	defer lock.Release()
}

func TestLockError(t *testing.T) {
	dir, cleanup := testutil.TempDir(t)
	defer cleanup()

	lock1, _ := NewFileLock(dir)
	lock2, _ := NewFileLock(dir)

	lock1.Acquire("first.csv")
	defer lock1.Release()

	err := lock2.Acquire("second.csv")
	if err == nil {
		t.Fatal("expected error when lock is held")
	}

	if !IsLockError(err) {
		t.Errorf("expected LockError, got: %T", err)
	}

	if err.Error() == "" {
		t.Error("error message should not be empty")
	}
}
