package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// Event is one line of the JSONL activity log.
type Event struct {
	Time    time.Time `json:"time"`
	Command string    `json:"command"`
	Args    []string  `json:"args,omitempty"`
	ID      int       `json:"id,omitempty"`
	Status  string    `json:"status"`
	Error   string    `json:"error,omitempty"`
	Pending *int      `json:"pending,omitempty"`
	Done    *int      `json:"completed,omitempty"`
}

// Event statuses.
const (
	StatusOK    = "ok"
	StatusNoop  = "noop"
	StatusError = "error"
)

// RunLogger appends activity events to a per-day JSONL file.
type RunLogger struct {
	Dir     string
	RunID   string
	LogPath string

	mu   sync.Mutex
	file *os.File
	now  func() time.Time
}

// NewRunLogger opens (or creates) today's activity log for slot under baseDir.
// Files live in <baseDir>/<slot>/<yyyymmdd>.jsonl.
func NewRunLogger(baseDir, slot string) (*RunLogger, error) {
	logDir, err := FindLogDir(baseDir, slot)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	runID := runID(time.Now())
	logPath := filepath.Join(logDir, runID+".jsonl")
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("create log file: %w", err)
	}

	return &RunLogger{
		Dir:     logDir,
		RunID:   runID,
		LogPath: logPath,
		file:    file,
		now:     time.Now,
	}, nil
}

// Record writes one event as a JSON line. A zero Time is filled in.
func (r *RunLogger) Record(event Event) error {
	if r == nil || r.file == nil {
		return nil
	}
	if event.Time.IsZero() {
		event.Time = r.now().UTC()
	}
	if event.Status == "" {
		event.Status = StatusOK
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	data = append(data, '\n')

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := r.file.Write(data); err != nil {
		return fmt.Errorf("write event: %w", err)
	}
	return nil
}

// Close closes the log file.
func (r *RunLogger) Close() error {
	if r == nil || r.file == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	err := r.file.Close()
	r.file = nil
	return err
}

// FindLogDir returns the activity log directory for slot under baseDir.
func FindLogDir(baseDir, slot string) (string, error) {
	if strings.TrimSpace(baseDir) == "" {
		return "", fmt.Errorf("log base dir is empty")
	}
	if !filepath.IsAbs(baseDir) {
		abs, err := filepath.Abs(baseDir)
		if err != nil {
			return "", fmt.Errorf("resolve log dir: %w", err)
		}
		baseDir = abs
	}
	return filepath.Join(filepath.Clean(baseDir), slugify(slot)), nil
}

func slugify(input string) string {
	if strings.TrimSpace(input) == "" {
		return "default"
	}

	var b strings.Builder
	lastUnderscore := false
	for i := 0; i < len(input); i++ {
		c := input[i]
		valid := (c >= 'A' && c <= 'Z') ||
			(c >= 'a' && c <= 'z') ||
			(c >= '0' && c <= '9') ||
			c == '.' || c == '_' || c == '-'
		if !valid {
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
			continue
		}
		b.WriteByte(c)
		lastUnderscore = false
	}

	slug := strings.Trim(b.String(), "_.")
	if slug == "" {
		return "default"
	}
	return slug
}

func runID(t time.Time) string {
	return t.Format("20060102")
}

// FindLatestLog finds the most recently modified JSONL log in logDir.
// It returns an empty path when the directory does not exist.
func FindLatestLog(logDir string) (string, error) {
	runs, err := FindLogRuns(logDir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	if len(runs) == 0 {
		return "", nil
	}
	return runs[0].Path, nil
}

// LogRun describes one activity log file.
type LogRun struct {
	RunID   string
	Path    string
	ModTime time.Time
	Size    int64
}

// FindLogRuns lists the JSONL logs in logDir, newest first.
func FindLogRuns(logDir string) ([]LogRun, error) {
	entries, err := os.ReadDir(logDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, err
		}
		return nil, fmt.Errorf("read log dir: %w", err)
	}

	runs := make([]LogRun, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".jsonl") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		runs = append(runs, LogRun{
			RunID:   strings.TrimSuffix(name, ".jsonl"),
			Path:    filepath.Join(logDir, name),
			ModTime: info.ModTime(),
			Size:    info.Size(),
		})
	}

	sort.Slice(runs, func(i, j int) bool {
		if runs[i].ModTime.Equal(runs[j].ModTime) {
			return runs[i].RunID > runs[j].RunID
		}
		return runs[i].ModTime.After(runs[j].ModTime)
	})
	return runs, nil
}
