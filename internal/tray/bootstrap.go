package tray

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jqntn/timetracker/internal/settings"
)

// Bootstrap performs the one-time first-run setup: enable login startup and
// auto update. FirstTimeUse is marked done before the side effects run, so a
// failure part-way is not retried on the next launch. Every step is best
// effort; the returned error only reports what went wrong.
func (c *Coordinator) Bootstrap() error {
	v, ok, err := c.store.Get(settings.KeyFirstTimeUse)
	if err != nil {
		return fmt.Errorf("read %s: %w", settings.KeyFirstTimeUse, err)
	}
	if !ok {
		if err := c.store.Set(settings.KeyFirstTimeUse, 1); err != nil {
			return fmt.Errorf("write %s: %w", settings.KeyFirstTimeUse, err)
		}
		v = 1
	}
	if !settings.Bool(v) {
		return nil
	}

	if err := c.store.Set(settings.KeyFirstTimeUse, 0); err != nil {
		return fmt.Errorf("write %s: %w", settings.KeyFirstTimeUse, err)
	}
	log.Printf("[tray] First run: enabling run at startup and auto update")

	var errs []error
	if err := c.enableStartup(); err != nil {
		errs = append(errs, err)
	}
	if err := c.store.Set(settings.KeyAutoUpdate, 1); err != nil {
		errs = append(errs, fmt.Errorf("write %s: %w", settings.KeyAutoUpdate, err))
	}
	return errors.Join(errs...)
}

// AutoUpdate runs the update check when AutoUpdate is enabled. It blocks for
// as long as the check takes; no deadline is added here.
func (c *Coordinator) AutoUpdate(ctx context.Context) error {
	if !settings.Enabled(c.store, settings.KeyAutoUpdate) {
		return nil
	}

	log.Printf("[update] Checking for updates (current v%s)", c.version)
	status, err := c.updater.CheckAndApply(ctx, c.repo, c.version)
	if err != nil {
		return fmt.Errorf("update check: %w", err)
	}

	if status.Updated {
		log.Printf("[update] Installed v%s, active on next launch", status.Version)
	} else {
		log.Printf("[update] Up to date (v%s)", status.Version)
	}
	return nil
}
