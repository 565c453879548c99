package batch

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"fslcmd/internal/fsl"
)

const (
	ActionRun  = "run"
	ActionSkip = "skip"

	ReasonForced         = "forced"
	ReasonNew            = "new invocation"
	ReasonCmdlineChanged = "command line changed"
	ReasonInputChanged   = "input changed"
	ReasonOutputMissing  = "output missing"
	ReasonUpToDate       = "up to date"
)

// JobState records the last successful run of one job.
type JobState struct {
	CmdlineHash string    `json:"cmdline_hash"`
	InputHash   string    `json:"input_hash,omitempty"`
	RanAt       time.Time `json:"ran_at"`
	Outputs     []string  `json:"outputs,omitempty"`
	DurationS   float64   `json:"duration_s"`
}

// State tracks completed jobs so unchanged ones can be skipped.
type State struct {
	mu   sync.Mutex
	Jobs map[string]JobState `json:"jobs"`
}

// LoadState reads the state file at path. A missing or corrupt file
// yields an empty state without error.
func LoadState(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return emptyState(), nil
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return emptyState(), nil
	}
	if st.Jobs == nil {
		st.Jobs = map[string]JobState{}
	}
	return &st, nil
}

// Save writes the state atomically to path.
func (st *State) Save(path string) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Record stores a successful run.
func (st *State) Record(key string, js JobState) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.Jobs[key] = js
}

func (st *State) lookup(key string) (JobState, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	js, ok := st.Jobs[key]
	return js, ok
}

// Prune drops recorded jobs that belong to one of the batch files of current
// but are no longer declared in it.
func (st *State) Prune(current []Job) {
	st.mu.Lock()
	defer st.mu.Unlock()

	keep := make(map[string]bool, len(current))
	files := map[string]bool{}
	for _, job := range current {
		keep[job.Key] = true
		files[keyFile(job.Key)] = true
	}
	for key := range st.Jobs {
		if files[keyFile(key)] && !keep[key] {
			delete(st.Jobs, key)
		}
	}
}

func keyFile(key string) string {
	if idx := strings.LastIndexByte(key, '#'); idx >= 0 {
		return key[:idx]
	}
	return key
}

// Decide returns whether a job with the given command line, input fingerprint
// and outputs needs to run again.
func (st *State) Decide(key, cmdline, inputHash string, outputs []string, force bool) (action, reason string) {
	if force {
		return ActionRun, ReasonForced
	}
	prior, ok := st.lookup(key)
	if !ok {
		return ActionRun, ReasonNew
	}
	if prior.CmdlineHash != CmdlineHash(cmdline) {
		return ActionRun, ReasonCmdlineChanged
	}
	if prior.InputHash != inputHash {
		return ActionRun, ReasonInputChanged
	}
	for _, path := range outputs {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return ActionRun, ReasonOutputMissing
		}
	}
	return ActionSkip, ReasonUpToDate
}

// CmdlineHash returns a stable digest of a command line.
func CmdlineHash(cmdline string) string {
	sum := sha256.Sum256([]byte(cmdline))
	return fmt.Sprintf("sha256:%x", sum)
}

// fileStamp is the canonical structure hashed per input file.
type fileStamp struct {
	Path    string    `json:"path"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
}

// InputHash fingerprints the size and modification time of every existing
// input file the invocation reads.
func InputHash(inv *fsl.Invocation) string {
	var stamps []fileStamp
	for _, spec := range inv.Tool().Options.Specs() {
		if !spec.MustExist {
			continue
		}
		value, ok := inv.Get(spec.Name)
		if !ok {
			continue
		}
		for _, path := range filePaths(value) {
			info, err := os.Stat(path)
			if err != nil {
				continue
			}
			stamps = append(stamps, fileStamp{Path: path, Size: info.Size(), ModTime: info.ModTime().UTC()})
		}
	}
	sort.Slice(stamps, func(i, j int) bool {
		return stamps[i].Path < stamps[j].Path
	})
	return hashJSON(stamps)
}

func filePaths(value any) []string {
	switch v := value.(type) {
	case string:
		return []string{v}
	case []string:
		return v
	case []any:
		var out []string
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func hashJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("sha256:error-%v", err)
	}
	sum := sha256.Sum256(data)
	return fmt.Sprintf("sha256:%x", sum)
}

func emptyState() *State {
	return &State{Jobs: map[string]JobState{}}
}
