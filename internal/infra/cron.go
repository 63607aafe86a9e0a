package infra

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// CronToggle pauses and resumes the container's auto-restart watchdog.
// The watchdog cron job checks for the flag file before acting, so
// pausing is simply creating the file and resuming is removing it.
type CronToggle struct {
	FlagPath string
}

func NewCronToggle(flagPath string) *CronToggle { return &CronToggle{FlagPath: flagPath} }

// Pause creates the flag file.  Pausing an already-paused watchdog is a
// no-op success.
func (t *CronToggle) Pause() (Result, error) {
	if err := os.MkdirAll(filepath.Dir(t.FlagPath), 0o755); err != nil {
		return Result{}, err
	}
	if err := os.WriteFile(t.FlagPath, []byte("paused\n"), 0o644); err != nil {
		return Result{}, err
	}
	return Result{Message: "Auto-restart paused", Status: "paused"}, nil
}

// Resume removes the flag file.  A missing file means the watchdog is
// already running.
func (t *CronToggle) Resume() (Result, error) {
	err := os.Remove(t.FlagPath)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Result{}, err
	}
	return Result{Message: "Auto-restart resumed", Status: "running"}, nil
}

// Status reports whether the watchdog is paused.
func (t *CronToggle) Status() (Result, error) {
	_, err := os.Stat(t.FlagPath)
	switch {
	case err == nil:
		return Result{Message: "Auto-restart is paused", Status: "paused"}, nil
	case errors.Is(err, fs.ErrNotExist):
		return Result{Message: "Auto-restart is running", Status: "running"}, nil
	default:
		return Result{}, err
	}
}
