package log

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/On-Jun9/MediaStamp/pkg/types"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
)

type Logger struct {
	mu      sync.Mutex
	console io.Writer
	file    *os.File
	runID   string
	logJSON bool
	verbose bool
	tty     bool
}

// New creates a logger writing to stdout and, when logFilePath is set, to a
// log file in text or JSON lines form.
func New(logFilePath string, logJSON, verbose bool) (*Logger, error) {
	l := NewConsole(os.Stdout, verbose)
	l.logJSON = logJSON
	l.tty = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

	if logFilePath == "" {
		return l, nil
	}

	if err := os.MkdirAll(filepath.Dir(logFilePath), 0755); err != nil {
		return nil, err
	}

	file, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	l.file = file

	return l, nil
}

// NewConsole creates a logger that only writes to w.
func NewConsole(w io.Writer, verbose bool) *Logger {
	return &Logger{
		console: w,
		runID:   uuid.NewString(),
		verbose: verbose,
	}
}

func (l *Logger) RunID() string {
	return l.runID
}

func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

type LogEntry struct {
	Timestamp time.Time          `json:"timestamp"`
	RunID     string             `json:"run_id"`
	Level     string             `json:"level"`
	Message   string             `json:"message"`
	Source    string             `json:"source,omitempty"`
	Dest      string             `json:"dest,omitempty"`
	Action    types.RenameAction `json:"action,omitempty"`
	Fields    map[string]string  `json:"fields,omitempty"`
	Error     string             `json:"error,omitempty"`
}

// LogRename reports the outcome of one rename task.
func (l *Logger) LogRename(task types.RenameTask) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry := LogEntry{
		Timestamp: time.Now(),
		RunID:     l.runID,
		Level:     "INFO",
		Source:    task.Source.Path,
		Dest:      task.DestPath,
		Action:    task.Action,
	}

	switch task.Action {
	case types.RenameActionRenamed:
		entry.Message = fmt.Sprintf("renamed: %s -> %s", task.Source.Name, filepath.Base(task.DestPath))
	case types.RenameActionDryRun:
		entry.Message = fmt.Sprintf("would rename: %s -> %s", task.Source.Name, filepath.Base(task.DestPath))
	case types.RenameActionNoTimestamp:
		entry.Level = "WARN"
		entry.Message = fmt.Sprintf("no timestamp found: %s", task.Source.Path)
	case types.RenameActionCollision:
		entry.Level = "WARN"
		entry.Message = fmt.Sprintf("skip renaming %s as %s already exists", task.Source.Path, task.DestPath)
	default:
		entry.Level = "ERROR"
		entry.Message = fmt.Sprintf("error processing %s", task.Source.Path)
	}
	if task.Timestamp.Found {
		entry.Fields = map[string]string{"timestamp": task.Timestamp.Raw, "timestamp_source": task.Timestamp.Source}
	}

	if task.Error != "" {
		entry.Level = "ERROR"
		entry.Error = task.Error
	}

	l.writeEntry(entry)
}

// LogTag reports the fields written to one audio file.
func (l *Logger) LogTag(task types.TagTask) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fields := make(map[string]string, len(task.Fields))
	parts := make([]string, 0, len(task.Fields))
	for k, v := range task.Fields {
		fields[string(k)] = v
		parts = append(parts, fmt.Sprintf("%s=%q", k, v))
	}
	sort.Strings(parts)

	msg := fmt.Sprintf("tagged: %s %s", task.File.Name, strings.Join(parts, " "))
	if task.CreatedContainer {
		msg += " (new tag)"
	}

	entry := LogEntry{
		Timestamp: time.Now(),
		RunID:     l.runID,
		Level:     "INFO",
		Message:   msg,
		Source:    task.File.Path,
		Fields:    fields,
	}

	if task.Error != "" {
		entry.Level = "ERROR"
		entry.Message = fmt.Sprintf("error tagging %s", task.File.Path)
		entry.Error = task.Error
	}

	l.writeEntry(entry)
}

func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.writeEntry(LogEntry{
		Timestamp: time.Now(),
		RunID:     l.runID,
		Level:     "INFO",
		Message:   msg,
	})
}

// Debug is only written in verbose mode.
func (l *Logger) Debug(msg string) {
	if !l.verbose {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.writeEntry(LogEntry{
		Timestamp: time.Now(),
		RunID:     l.runID,
		Level:     "DEBUG",
		Message:   msg,
	})
}

func (l *Logger) Error(msg string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.writeEntry(LogEntry{
		Timestamp: time.Now(),
		RunID:     l.runID,
		Level:     "ERROR",
		Message:   msg,
		Error:     err.Error(),
	})
}

func (l *Logger) writeEntry(entry LogEntry) {
	line := fmt.Sprintf("%s %s", entry.Level, entry.Message)
	if entry.Error != "" {
		line = fmt.Sprintf("%s %s - Error: %s", entry.Level, entry.Message, entry.Error)
	}

	if l.console != nil {
		if l.tty {
			// clear a pending progress line
			fmt.Fprint(l.console, "\r\033[K")
		}
		fmt.Fprintln(l.console, line)
	}

	if l.file == nil {
		return
	}

	if l.logJSON {
		data, _ := json.Marshal(entry)
		l.file.Write(data)
		l.file.Write([]byte("\n"))
		return
	}

	l.file.WriteString(fmt.Sprintf("[%s] %s\n", entry.Timestamp.Format("2006-01-02 15:04:05"), line))
}

func (l *Logger) Summary(summary types.RunSummary) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintln(l.console, "\n=== MediaStamp Summary ===")
	fmt.Fprintf(l.console, "Scanned files:  %d\n", summary.ScannedFiles)
	fmt.Fprintf(l.console, "Total files:    %d\n", summary.TotalFiles)
	if summary.Tagged > 0 {
		fmt.Fprintf(l.console, "Tagged:         %d\n", summary.Tagged)
	} else {
		fmt.Fprintf(l.console, "Renamed:        %d\n", summary.Renamed)
		fmt.Fprintf(l.console, "No timestamp:   %d\n", summary.NoTimestamp)
		fmt.Fprintf(l.console, "Collisions:     %d\n", summary.Collisions)
	}
	if summary.DryRun > 0 {
		fmt.Fprintf(l.console, "Dry run:        %d\n", summary.DryRun)
	}
	fmt.Fprintf(l.console, "Failed:         %d\n", summary.Failed)
	fmt.Fprintf(l.console, "Duration:       %s\n", summary.Duration.Round(time.Millisecond))
	fmt.Fprintln(l.console, "==========================")
}

// Progress prints the running count. On a terminal the line is rewritten in
// place; otherwise each update gets its own line.
func (l *Logger) Progress(current, total int, filename string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.tty {
		fmt.Fprintf(l.console, "\r\033[K[%d/%d] %s", current, total, filename)
		return
	}
	fmt.Fprintf(l.console, "[%d/%d] %s\n", current, total, filename)
}
