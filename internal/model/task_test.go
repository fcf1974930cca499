package model

import (
	"testing"
	"time"
)

func TestDownloadTask_Percent(t *testing.T) {
	tests := []struct {
		written  int64
		total    int64
		status   TaskStatus
		expected int
	}{
		{0, -1, TaskStatusInProgress, -1},
		{10, 0, TaskStatusInProgress, -1},
		{0, 100, TaskStatusInProgress, 0},
		{50, 200, TaskStatusInProgress, 25},
		{300, 200, TaskStatusInProgress, 100},
		{0, -1, TaskStatusDone, 100},
	}

	for _, test := range tests {
		task := &DownloadTask{BytesWritten: test.written, TotalBytes: test.total, Status: test.status}
		result := task.Percent()
		if result != test.expected {
			t.Errorf("Percent() with written=%d total=%d status=%s = %d, expected %d",
				test.written, test.total, test.status, result, test.expected)
		}
	}
}

func TestDownloadTask_GetDisplayTitle(t *testing.T) {
	tests := []struct {
		filename    string
		destination string
		source      string
		expected    string
	}{
		{"dragon.safetensors", "/tmp/x.safetensors", "http://h/uploads/dragon.safetensors", "dragon.safetensors"},
		{"", "/tmp/out/x.safetensors", "http://h/uploads/x", "x.safetensors"},
		{"", `C:\models\y.safetensors`, "", "y.safetensors"},
		{"", "", "http://h/uploads/z", "http://h/uploads/z"},
	}

	for _, test := range tests {
		task := &DownloadTask{
			Filename:    test.filename,
			Destination: test.destination,
			Source:      test.source,
		}
		result := task.GetDisplayTitle()
		if result != test.expected {
			t.Errorf("GetDisplayTitle() with filename='%s', destination='%s' = '%s', expected '%s'",
				test.filename, test.destination, result, test.expected)
		}
	}
}

func TestDownloadTask_Elapsed(t *testing.T) {
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	task := &DownloadTask{StartedAt: start, FinishedAt: start.Add(90 * time.Second)}

	if got := task.Elapsed(); got != 90*time.Second {
		t.Errorf("Elapsed() = %v, expected 1m30s", got)
	}

	if got := (&DownloadTask{}).Elapsed(); got != 0 {
		t.Errorf("Elapsed() on zero task = %v, expected 0", got)
	}
}
