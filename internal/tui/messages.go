package tui

// RowUpdateMsg replaces fields of one row, keyed by column header.
type RowUpdateMsg struct {
	Key    string
	Fields map[string]string
}

// WorkDoneMsg ends the program once the batch has finished.
type WorkDoneMsg struct{}

// ErrorMsg aborts the display with a fatal error.
type ErrorMsg struct {
	Err error
}
