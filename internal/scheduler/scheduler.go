// Package scheduler triggers the daily scan. It invokes the service's
// own /scan endpoint the same way an external cron would, so scheduled
// and manual runs share one code path and the cron auth check is
// exercised on every run.
package scheduler

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/robfig/cron/v3"

	"frameworks/api_lookout/pkg/logging"
)

// Scheduler owns the cron runner for periodic scans.
type Scheduler struct {
	cron    *cron.Cron
	client  *http.Client
	scanURL string
	secret  string
	logger  logging.Logger
}

func New(scanURL, secret string, logger logging.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		client:  &http.Client{Timeout: 3 * time.Minute},
		scanURL: scanURL,
		secret:  secret,
		logger:  logger,
	}
}

// Schedule registers the scan job under a standard 5-field cron spec.
func (s *Scheduler) Schedule(spec string) error {
	_, err := s.cron.AddFunc(spec, s.runScan)
	if err != nil {
		return fmt.Errorf("schedule scan %q: %w", spec, err)
	}
	s.logger.WithField("schedule", spec).Info("Scan scheduled")
	return nil
}

// Start launches the cron runner in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runScan() {
	req, err := http.NewRequest(http.MethodPost, s.scanURL, nil)
	if err != nil {
		s.logger.WithError(err).Error("Failed to build scheduled scan request")
		return
	}
	req.Header.Set("X-Cron-Trigger", "1")
	if s.secret != "" {
		req.Header.Set("Authorization", "Bearer "+s.secret)
	}

	started := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.WithError(err).Error("Scheduled scan request failed")
		return
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))

	entry := s.logger.WithFields(logging.Fields{
		"status":   resp.StatusCode,
		"duration": time.Since(started).String(),
	})
	if resp.StatusCode != http.StatusOK {
		entry.WithField("body", string(body)).Error("Scheduled scan returned non-OK status")
		return
	}
	entry.Info("Scheduled scan completed")
}
