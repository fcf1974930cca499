package download

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mylora/mylora-desktop/internal/model"
)

// ProgressInterval is the minimum time between two progress notifications
// for the same task
const ProgressInterval = 250 * time.Millisecond

// Service tracks download tasks and runs them through a FileFetcher
type Service struct {
	fetcher    FileFetcher
	tasks      map[string]*model.DownloadTask
	tasksMutex sync.RWMutex
	onUpdate   func(model.DownloadTask) // callback for UI updates
	log        zerolog.Logger
}

// NewService creates a new download service
func NewService(fetcher FileFetcher, log zerolog.Logger) *Service {
	return &Service{
		fetcher: fetcher,
		tasks:   make(map[string]*model.DownloadTask),
		log:     log.With().Str("component", "download").Logger(),
	}
}

// SetUpdateCallback sets the callback function for task updates. The
// callback receives copies and runs on the goroutine that changed the task.
func (s *Service) SetUpdateCallback(callback func(model.DownloadTask)) {
	s.tasksMutex.Lock()
	s.onUpdate = callback
	s.tasksMutex.Unlock()
}

// Add registers a pending task. A second task for a destination that
// another active task is writing is rejected.
func (s *Service) Add(filename, destination string) (model.DownloadTask, error) {
	if filename == "" {
		return model.DownloadTask{}, fmt.Errorf("empty filename")
	}
	if destination == "" {
		return model.DownloadTask{}, fmt.Errorf("empty destination")
	}

	s.tasksMutex.Lock()
	for _, task := range s.tasks {
		if task.Destination == destination && task.Status.IsActive() {
			s.tasksMutex.Unlock()
			return model.DownloadTask{}, fmt.Errorf("task already exists for destination: %s", destination)
		}
	}

	task := &model.DownloadTask{
		ID:          generateTaskID(),
		Filename:    filename,
		Destination: destination,
		Status:      model.TaskStatusPending,
		TotalBytes:  -1,
		StartedAt:   time.Now(),
	}
	s.tasks[task.ID] = task
	snapshot := *task
	s.tasksMutex.Unlock()

	s.notifyUpdate(snapshot)
	return snapshot, nil
}

// Run downloads a pending task and blocks until it is Done or Failed. It
// returns the written path.
func (s *Service) Run(ctx context.Context, id string) (string, error) {
	s.tasksMutex.Lock()
	task, exists := s.tasks[id]
	if !exists {
		s.tasksMutex.Unlock()
		return "", fmt.Errorf("task not found: %s", id)
	}
	if task.Status != model.TaskStatusPending {
		status := task.Status
		s.tasksMutex.Unlock()
		return "", fmt.Errorf("task is not pending: %s", status)
	}
	task.Status = model.TaskStatusInProgress
	filename, destination := task.Filename, task.Destination
	snapshot := *task
	s.tasksMutex.Unlock()

	s.notifyUpdate(snapshot)
	s.log.Debug().Str("task", id).Str("file", filename).Msg("download started")

	var lastNotify time.Time
	path, err := s.fetcher.DownloadFile(ctx, filename, destination, func(written, total int64) {
		snap, ok := s.updateProgress(id, written, total)
		if !ok || time.Since(lastNotify) < ProgressInterval {
			return
		}
		lastNotify = time.Now()
		s.notifyUpdate(snap)
	})

	s.tasksMutex.Lock()
	if err != nil {
		task.Status = model.TaskStatusFailed
		task.LastError = err.Error()
	} else {
		task.Status = model.TaskStatusDone
	}
	task.FinishedAt = time.Now()
	snapshot = *task
	s.tasksMutex.Unlock()

	if err != nil {
		s.log.Warn().Err(err).Str("task", id).Str("file", filename).Msg("download failed")
	}
	s.notifyUpdate(snapshot)
	return path, err
}

// Get returns a copy of a task by ID
func (s *Service) Get(id string) (model.DownloadTask, bool) {
	s.tasksMutex.RLock()
	defer s.tasksMutex.RUnlock()
	task, exists := s.tasks[id]
	if !exists {
		return model.DownloadTask{}, false
	}
	return *task, true
}

// All returns copies of all tasks, oldest first
func (s *Service) All() []model.DownloadTask {
	s.tasksMutex.RLock()
	tasks := make([]model.DownloadTask, 0, len(s.tasks))
	for _, task := range s.tasks {
		tasks = append(tasks, *task)
	}
	s.tasksMutex.RUnlock()

	sort.Slice(tasks, func(i, j int) bool {
		if tasks[i].StartedAt.Equal(tasks[j].StartedAt) {
			return tasks[i].ID < tasks[j].ID
		}
		return tasks[i].StartedAt.Before(tasks[j].StartedAt)
	})
	return tasks
}

// Remove forgets a finished task
func (s *Service) Remove(id string) error {
	s.tasksMutex.Lock()
	defer s.tasksMutex.Unlock()

	task, exists := s.tasks[id]
	if !exists {
		return fmt.Errorf("task not found: %s", id)
	}
	if !task.Status.IsFinished() {
		return fmt.Errorf("task is still active: %s", task.Status)
	}
	delete(s.tasks, id)
	return nil
}

func (s *Service) updateProgress(id string, written, total int64) (model.DownloadTask, bool) {
	s.tasksMutex.Lock()
	defer s.tasksMutex.Unlock()
	task, exists := s.tasks[id]
	if !exists {
		return model.DownloadTask{}, false
	}
	task.BytesWritten = written
	task.TotalBytes = total
	return *task, true
}

// notifyUpdate calls the update callback if set
func (s *Service) notifyUpdate(task model.DownloadTask) {
	s.tasksMutex.RLock()
	cb := s.onUpdate
	s.tasksMutex.RUnlock()
	if cb != nil {
		cb(task)
	}
}

// generateTaskID generates a unique task ID
func generateTaskID() string {
	return "task-" + uuid.NewString()
}
