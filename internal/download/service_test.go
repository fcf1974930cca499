package download

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/mylora/mylora-desktop/internal/model"
)

type fakeFetcher struct {
	chunks  []int64
	total   int64
	err     error
	release chan struct{}
}

func (f *fakeFetcher) DownloadFile(ctx context.Context, filename, destination string, progress ProgressFunc) (string, error) {
	if f.release != nil {
		<-f.release
	}
	var written int64
	for _, n := range f.chunks {
		written += n
		if progress != nil {
			progress(written, f.total)
		}
	}
	if f.err != nil {
		return "", f.err
	}
	return destination, nil
}

type updateRecorder struct {
	mu      sync.Mutex
	updates []model.DownloadTask
}

func (r *updateRecorder) record(task model.DownloadTask) {
	r.mu.Lock()
	r.updates = append(r.updates, task)
	r.mu.Unlock()
}

func (r *updateRecorder) statuses() []model.TaskStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.TaskStatus, 0, len(r.updates))
	for _, u := range r.updates {
		if len(out) == 0 || out[len(out)-1] != u.Status {
			out = append(out, u.Status)
		}
	}
	return out
}

func TestNewService(t *testing.T) {
	service := NewService(&fakeFetcher{}, zerolog.Nop())

	if len(service.tasks) != 0 {
		t.Errorf("Expected empty tasks map, got %d items", len(service.tasks))
	}
	if len(service.All()) != 0 {
		t.Errorf("Expected no tasks, got %d", len(service.All()))
	}
}

func TestAdd(t *testing.T) {
	service := NewService(&fakeFetcher{}, zerolog.Nop())

	task1, err := service.Add("a.safetensors", "/tmp/a.safetensors")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if task1.Status != model.TaskStatusPending {
		t.Errorf("Expected status Pending, got %s", task1.Status)
	}
	if !strings.HasPrefix(task1.ID, "task-") {
		t.Errorf("Expected ID to start with 'task-', got '%s'", task1.ID)
	}
	if task1.TotalBytes != -1 {
		t.Errorf("Expected unknown total, got %d", task1.TotalBytes)
	}

	// Same destination while the first task is active
	if _, err := service.Add("b.safetensors", "/tmp/a.safetensors"); err == nil {
		t.Error("Expected error for duplicate destination, got nil")
	}

	task2, err := service.Add("a.safetensors", "/tmp/copy.safetensors")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if task1.ID == task2.ID {
		t.Error("Expected distinct task IDs")
	}

	if _, err := service.Add("", "/tmp/x"); err == nil {
		t.Error("Expected error for empty filename")
	}
	if _, err := service.Add("x", ""); err == nil {
		t.Error("Expected error for empty destination")
	}
}

func TestRun_Success(t *testing.T) {
	service := NewService(&fakeFetcher{chunks: []int64{10, 10, 5}, total: 25}, zerolog.Nop())
	rec := &updateRecorder{}
	service.SetUpdateCallback(rec.record)

	task, _ := service.Add("a.safetensors", "/tmp/a.safetensors")
	path, err := service.Run(context.Background(), task.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if path != "/tmp/a.safetensors" {
		t.Errorf("Expected path '/tmp/a.safetensors', got '%s'", path)
	}

	got, ok := service.Get(task.ID)
	if !ok {
		t.Fatal("Expected task to exist")
	}
	if got.Status != model.TaskStatusDone {
		t.Errorf("Expected status Done, got %s", got.Status)
	}
	if got.BytesWritten != 25 || got.TotalBytes != 25 {
		t.Errorf("Expected 25/25 bytes, got %d/%d", got.BytesWritten, got.TotalBytes)
	}
	if got.FinishedAt.IsZero() {
		t.Error("Expected FinishedAt to be set")
	}

	want := []model.TaskStatus{model.TaskStatusPending, model.TaskStatusInProgress, model.TaskStatusDone}
	statuses := rec.statuses()
	if len(statuses) != len(want) {
		t.Fatalf("Expected statuses %v, got %v", want, statuses)
	}
	for i := range want {
		if statuses[i] != want[i] {
			t.Errorf("Expected statuses %v, got %v", want, statuses)
			break
		}
	}

	// A finished task cannot run twice
	if _, err := service.Run(context.Background(), task.ID); err == nil {
		t.Error("Expected error when running a finished task")
	}
}

func TestRun_Failure(t *testing.T) {
	service := NewService(&fakeFetcher{err: errors.New("connection reset")}, zerolog.Nop())

	task, _ := service.Add("a.safetensors", "/tmp/a.safetensors")
	if _, err := service.Run(context.Background(), task.ID); err == nil {
		t.Fatal("Expected error, got nil")
	}

	got, _ := service.Get(task.ID)
	if got.Status != model.TaskStatusFailed {
		t.Errorf("Expected status Failed, got %s", got.Status)
	}
	if got.LastError != "connection reset" {
		t.Errorf("Expected LastError 'connection reset', got '%s'", got.LastError)
	}

	// The destination is free again once the task failed
	if _, err := service.Add("a.safetensors", "/tmp/a.safetensors"); err != nil {
		t.Errorf("Expected retry to be accepted, got %v", err)
	}
}

func TestRun_UnknownTask(t *testing.T) {
	service := NewService(&fakeFetcher{}, zerolog.Nop())
	if _, err := service.Run(context.Background(), "task-missing"); err == nil {
		t.Error("Expected error for unknown task")
	}
}

func TestRemove(t *testing.T) {
	fetcher := &fakeFetcher{release: make(chan struct{})}
	service := NewService(fetcher, zerolog.Nop())

	task, _ := service.Add("a.safetensors", "/tmp/a.safetensors")
	if err := service.Remove(task.ID); err == nil {
		t.Error("Expected error when removing an active task")
	}

	done := make(chan struct{})
	go func() {
		service.Run(context.Background(), task.ID)
		close(done)
	}()
	close(fetcher.release)
	<-done

	if err := service.Remove(task.ID); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if _, ok := service.Get(task.ID); ok {
		t.Error("Expected task to be gone")
	}
	if err := service.Remove(task.ID); err == nil {
		t.Error("Expected error for unknown task")
	}
}

func TestAll_OldestFirst(t *testing.T) {
	service := NewService(&fakeFetcher{}, zerolog.Nop())
	for _, name := range []string{"a", "b", "c"} {
		if _, err := service.Add(name, "/tmp/"+name); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
	}

	tasks := service.All()
	if len(tasks) != 3 {
		t.Fatalf("Expected 3 tasks, got %d", len(tasks))
	}
	for i := 1; i < len(tasks); i++ {
		if tasks[i].StartedAt.Before(tasks[i-1].StartedAt) {
			t.Errorf("Expected tasks ordered by creation, got %v before %v", tasks[i-1].StartedAt, tasks[i].StartedAt)
		}
	}
}
