package jobs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"text/template"
	"time"

	"github.com/google/uuid"

	"github.com/contre95/rawsolid/src/features/config"
)

type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCancelled JobStatus = "cancelled"
)

// Finished reports whether the status is terminal.
func (s JobStatus) Finished() bool {
	return s == JobStatusCompleted || s == JobStatusFailed || s == JobStatusCancelled
}

type Job struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Name       string         `json:"name"`
	Status     JobStatus      `json:"status"`
	Progress   int            `json:"progress"`
	Message    string         `json:"message"`
	Error      string         `json:"error,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
	Metadata   map[string]any `json:"metadata"`
	Logger     *slog.Logger   `json:"-"`
	LogPath    string         `json:"logPath,omitempty"`
	cancelFunc context.CancelFunc
	logFile    io.Closer
	cancelled  bool
}

type JobProgress struct {
	JobID    string
	Progress int
	Message  string
}

type TaskHandler interface {
	Execute(ctx context.Context, job *Job, progressChan chan<- JobProgress) error
	Cancel(jobID string) error
}

// Task defines the specific logic for a job type.
type Task interface {
	MetadataKeys() []string
	Execute(ctx context.Context, job *Job, progressUpdater func(int, string)) (map[string]any, error)
	Cleanup(job *Job) error
}

// PartialError marks a job that did its work but had per-item failures.
// Such jobs complete instead of failing.
type PartialError struct {
	Failed int
	Total  int
}

func (e *PartialError) Error() string {
	return fmt.Sprintf("%d of %d files failed", e.Failed, e.Total)
}

// BaseTaskHandler provides a base implementation for TaskHandler.
type BaseTaskHandler struct {
	Task Task
}

// NewBaseTaskHandler creates a new BaseTaskHandler.
func NewBaseTaskHandler(task Task) *BaseTaskHandler {
	return &BaseTaskHandler{Task: task}
}

// Execute runs the job using the provided task.
func (h *BaseTaskHandler) Execute(ctx context.Context, job *Job, progressChan chan<- JobProgress) error {
	job.Logger.Info("Starting job", "name", job.Name)

	for _, key := range h.Task.MetadataKeys() {
		if _, ok := job.Metadata[key]; !ok {
			err := fmt.Errorf("missing %s in job metadata", key)
			job.Logger.Error("Error: " + err.Error())
			return err
		}
	}

	progressUpdater := func(percentage int, status string) {
		progressChan <- JobProgress{
			JobID:    job.ID,
			Progress: percentage,
			Message:  status,
		}
		job.Logger.Info("Progress", "percentage", percentage, "status", status)
	}

	defer func() {
		if err := h.Task.Cleanup(job); err != nil {
			job.Logger.Error("Error during job cleanup", "error", err)
		}
	}()

	stats, err := h.Task.Execute(ctx, job, progressUpdater)
	// Stats are kept even on error.
	if stats != nil {
		if job.Metadata == nil {
			job.Metadata = make(map[string]any)
		}
		maps.Copy(job.Metadata, stats)
	}
	if err != nil {
		job.Logger.Error("Error during job execution", "error", err)
		return err
	}

	job.Logger.Info("Job finished successfully", "name", job.Name)
	return nil
}

// Cancel stops a running job. Cancellation itself goes through the job context.
func (h *BaseTaskHandler) Cancel(jobID string) error {
	return nil
}

// JobService defines the interface for job management that other services will use
type JobService interface {
	StartJob(jobType string, name string, metadata map[string]any) (string, error)
	UpdateJobProgress(jobID string, progress int, message string)
	GetJob(jobID string) (*Job, bool)
	CancelJob(jobID string) error
	GetJobs() []*Job
}

type Service struct {
	jobs     map[string]*Job
	handlers map[string]TaskHandler
	mu       sync.RWMutex
	config   *config.Jobs
}

func NewService(cfg *config.Jobs) *Service {
	return &Service{
		jobs:     make(map[string]*Job),
		handlers: make(map[string]TaskHandler),
		config:   cfg,
	}
}

func (s *Service) RegisterHandler(jobType string, handler TaskHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[jobType] = handler
}

// StartJob queues a job. At most one job per type runs at a time; later ones
// wait as pending and start in creation order.
func (s *Service) StartJob(jobType string, name string, metadata map[string]any) (string, error) {
	s.mu.RLock()
	_, known := s.handlers[jobType]
	s.mu.RUnlock()
	if !known {
		return "", fmt.Errorf("no handler registered for job type %q", jobType)
	}

	job := &Job{
		ID:        uuid.New().String(),
		Type:      jobType,
		Name:      name,
		Status:    JobStatusPending,
		Progress:  0,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
		Metadata:  metadata,
	}
	if job.Metadata == nil {
		job.Metadata = make(map[string]any)
	}

	if s.config.Log {
		logDir := s.config.LogPath
		if err := os.MkdirAll(logDir, 0755); err != nil {
			return "", fmt.Errorf("failed to create log directory: %w", err)
		}
		logName := fmt.Sprintf("%s-%s.log", time.Now().Format("2006-01-02"), job.ID)
		logPath := filepath.Join(logDir, logName)
		logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return "", fmt.Errorf("failed to open log file: %w", err)
		}
		job.Logger = slog.New(slog.NewTextHandler(logFile, nil))
		job.LogPath = logPath
		job.logFile = logFile
	} else {
		job.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	s.mu.Lock()
	s.jobs[job.ID] = job
	if !s.isJobTypeRunning(jobType) {
		job.Status = JobStatusRunning
		s.mu.Unlock()
		go s.executeJob(job)
	} else {
		s.mu.Unlock()
		slog.Info("Job queued behind a running job of the same type", "type", jobType, "id", job.ID)
	}

	return job.ID, nil
}

func (s *Service) executeJob(job *Job) {
	s.mu.RLock()
	handler, exists := s.handlers[job.Type]
	s.mu.RUnlock()
	if !exists {
		s.updateJobStatus(job.ID, JobStatusFailed, "No handler registered")
		return
	}

	progressChan := make(chan JobProgress, 10)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.mu.Lock()
	job.cancelFunc = cancel
	s.mu.Unlock()
	s.updateJobStatus(job.ID, JobStatusRunning, "Starting...")

	progressDone := make(chan struct{})
	go func() {
		defer close(progressDone)
		for progress := range progressChan {
			s.UpdateJobProgress(progress.JobID, progress.Progress, progress.Message)
		}
	}()
	// The handler works on a private copy so readers never race its metadata writes.
	s.mu.RLock()
	work := job.snapshot()
	s.mu.RUnlock()
	work.Logger = job.Logger
	err := handler.Execute(ctx, work, progressChan)
	close(progressChan)
	<-progressDone

	s.mu.Lock()
	maps.Copy(job.Metadata, work.Metadata)
	cancelled := job.cancelled
	s.mu.Unlock()

	var partial *PartialError
	switch {
	case cancelled || errors.Is(err, context.Canceled):
		s.updateJobStatus(job.ID, JobStatusCancelled, "Job cancelled")
	case errors.As(err, &partial):
		s.finishJob(job.ID, JobStatusCompleted, "Job completed with errors - "+err.Error(), err.Error())
	case err != nil:
		s.finishJob(job.ID, JobStatusFailed, err.Error(), err.Error())
	default:
		s.updateJobStatus(job.ID, JobStatusCompleted, "Job completed successfully")
	}
	s.executeWebhook(job)

	if job.logFile != nil {
		job.logFile.Close()
	}
	s.startNextPendingJob(job.Type)
}

func (s *Service) updateJobStatus(jobID string, status JobStatus, message string) {
	s.finishJob(jobID, status, message, "")
}

func (s *Service) finishJob(jobID string, status JobStatus, message, errMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job, exists := s.jobs[jobID]; exists {
		job.Status = status
		job.Message = message
		job.Error = errMsg
		job.UpdatedAt = time.Now()
		if status == JobStatusCompleted {
			job.Progress = 100
		}
	}
}

func (s *Service) UpdateJobProgress(jobID string, progress int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job, exists := s.jobs[jobID]; exists {
		if job.Status.Finished() {
			return
		}
		job.Progress = progress
		job.Message = message
		job.UpdatedAt = time.Now()
	}
}

func (s *Service) CancelJob(jobID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, exists := s.jobs[jobID]
	if !exists {
		return errors.New("job not found")
	}
	if job.Status.Finished() {
		return fmt.Errorf("job already %s", job.Status)
	}

	job.cancelled = true
	job.Status = JobStatusCancelled
	job.Message = "Job cancelled"
	job.UpdatedAt = time.Now()

	if job.cancelFunc != nil {
		job.cancelFunc()
	}
	if handler, exists := s.handlers[job.Type]; exists {
		return handler.Cancel(jobID)
	}
	return nil
}

// GetJob returns a snapshot of the job.
func (s *Service) GetJob(jobID string) (*Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, exists := s.jobs[jobID]
	if !exists {
		return nil, false
	}
	return job.snapshot(), true
}

// GetJobs returns snapshots of every job, newest first.
func (s *Service) GetJobs() []*Job {
	s.mu.RLock()
	defer s.mu.RUnlock()
	jobs := make([]*Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		jobs = append(jobs, job.snapshot())
	}
	slices.SortFunc(jobs, func(a, b *Job) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return jobs
}

func (j *Job) snapshot() *Job {
	return &Job{
		ID:        j.ID,
		Type:      j.Type,
		Name:      j.Name,
		Status:    j.Status,
		Progress:  j.Progress,
		Message:   j.Message,
		Error:     j.Error,
		CreatedAt: j.CreatedAt,
		UpdatedAt: j.UpdatedAt,
		Metadata:  maps.Clone(j.Metadata),
		LogPath:   j.LogPath,
	}
}

func (s *Service) isJobTypeRunning(jobType string) bool {
	for _, job := range s.jobs {
		if job.Type == jobType && job.Status == JobStatusRunning {
			return true
		}
	}
	return false
}

func (s *Service) startNextPendingJob(jobType string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var nextJob *Job
	for _, job := range s.jobs {
		if job.Type == jobType && job.Status == JobStatusPending {
			if nextJob == nil || job.CreatedAt.Before(nextJob.CreatedAt) {
				nextJob = job
			}
		}
	}
	if nextJob != nil {
		nextJob.Status = JobStatusRunning
		go s.executeJob(nextJob)
	}
}

// CleanupOldJobs forgets finished jobs older than maxAge and removes their logs.
func (s *Service) CleanupOldJobs(maxAge time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.UpdatedAt) > maxAge && job.Status.Finished() {
			if job.LogPath != "" {
				os.Remove(job.LogPath)
			}
			delete(s.jobs, id)
			removed++
		}
	}
	return removed
}

// ClearFinishedJobs forgets every finished job but keeps its log file.
func (s *Service) ClearFinishedJobs() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, job := range s.jobs {
		if job.Status.Finished() {
			delete(s.jobs, id)
			removed++
		}
	}
	return removed
}

// RunCleanup calls CleanupOldJobs every interval until ctx is done.
func (s *Service) RunCleanup(ctx context.Context, interval, maxAge time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.CleanupOldJobs(maxAge); n > 0 {
				slog.Info("Cleaned up old jobs", "removed", n)
			}
		}
	}
}

// executeWebhook executes the configured webhook command for job completion
func (s *Service) executeWebhook(job *Job) {
	if !s.config.Webhooks.Enabled {
		return
	}
	if !slices.Contains(s.config.Webhooks.JobTypes, job.Type) && !slices.Contains(s.config.Webhooks.JobTypes, "*") {
		return
	}

	s.mu.RLock()
	message := job.Message
	if msg, ok := job.Metadata["msg"].(string); ok && msg != "" {
		message = msg
	}
	data := struct {
		Name     string
		Type     string
		Status   string
		Message  string
		Duration string
	}{
		Name:     job.Name,
		Type:     job.Type,
		Status:   string(job.Status),
		Message:  message,
		Duration: time.Since(job.CreatedAt).Round(time.Second).String(),
	}
	s.mu.RUnlock()

	tmpl, err := template.New("webhook").Parse(s.config.Webhooks.Command)
	if err != nil {
		job.Logger.Error("Failed to parse webhook template", "error", err)
		return
	}

	var command strings.Builder
	if err := tmpl.Execute(&command, data); err != nil {
		job.Logger.Error("Failed to execute webhook template", "error", err)
		return
	}

	// Runs synchronously so the job log is still open while it is written.
	s.executeWebhookCommand(command.String(), job)
}

// executeWebhookCommand executes the webhook command safely
func (s *Service) executeWebhookCommand(command string, job *Job) {
	cmd := exec.Command("/bin/sh", "-c", command)
	cmd.Env = os.Environ()

	timer := time.AfterFunc(30*time.Second, func() {
		if cmd.Process != nil {
			cmd.Process.Kill()
		}
	})
	defer timer.Stop()

	if err := cmd.Run(); err != nil {
		job.Logger.Error("Webhook execution failed", "command", command, "error", err)
	} else {
		job.Logger.Info("Webhook executed successfully", "command", command)
	}
}
