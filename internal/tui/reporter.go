package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"fslcmd/internal/batch"
)

// BatchReporter turns batch progress into row updates for a table built by
// NewBatchModel.
type BatchReporter struct {
	send func(tea.Msg)
}

// NewBatchReporter sends updates through send.
func NewBatchReporter(send func(tea.Msg)) *BatchReporter {
	return &BatchReporter{send: send}
}

// Start implements batch.ProgressReporter.
func (r *BatchReporter) Start(job batch.Job, reason string) {
	r.send(RowUpdateMsg{
		Key:    job.Entry.Name,
		Fields: map[string]string{"STATUS": StatusRunning, "DETAIL": reason},
	})
}

// Complete implements batch.ProgressReporter.
func (r *BatchReporter) Complete(res batch.JobResult) {
	fields := map[string]string{}
	switch {
	case res.Err != nil:
		fields["STATUS"] = StatusFailed
		fields["DETAIL"] = res.Err.Error()
	case res.Action == batch.ActionSkip:
		fields["STATUS"] = StatusSkipped
		fields["DETAIL"] = res.Reason
	default:
		fields["STATUS"] = StatusDone
		var took time.Duration
		if res.Result != nil {
			took = res.Result.Duration
		}
		fields["DETAIL"] = formatElapsed(took)
	}
	r.send(RowUpdateMsg{Key: res.Name, Fields: fields})
}
