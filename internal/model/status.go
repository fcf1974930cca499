package model

// TaskStatus represents the status of a download task
type TaskStatus string

const (
	// TaskStatusPending means the task was created but its worker has not started
	TaskStatusPending TaskStatus = "Pending"

	// TaskStatusInProgress means bytes are being streamed to the destination
	TaskStatusInProgress TaskStatus = "InProgress"

	// TaskStatusDone means the destination file is complete
	TaskStatusDone TaskStatus = "Done"

	// TaskStatusFailed means the task stopped with an error, see LastError
	TaskStatusFailed TaskStatus = "Failed"
)

// String returns the string representation of TaskStatus
func (ts TaskStatus) String() string {
	return string(ts)
}

// IsActive returns true if the task has not reached a terminal state yet
func (ts TaskStatus) IsActive() bool {
	return ts == TaskStatusPending || ts == TaskStatusInProgress
}

// IsFinished returns true if the task is in a terminal state (done or failed)
func (ts TaskStatus) IsFinished() bool {
	return ts == TaskStatusDone || ts == TaskStatusFailed
}
