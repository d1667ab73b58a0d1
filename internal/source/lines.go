package source

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/justyntemme/quiver/internal/launch"
)

const maxLineSize = 1 << 20

// ReadLines reads r line by line, dropping a trailing "\r".
func ReadLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLineSize)
	for sc.Scan() {
		lines = append(lines, strings.TrimSuffix(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read lines: %w", err)
	}
	return lines, nil
}

// DialogMode lists lines piped on stdin. Activation prints the chosen line,
// or the raw input when nothing matched, for the calling script.
type DialogMode struct {
	lines []string
}

// NewDialog reads all of r.
func NewDialog(r io.Reader) (*DialogMode, error) {
	lines, err := ReadLines(r)
	if err != nil {
		return nil, err
	}
	return &DialogMode{lines: lines}, nil
}

// NewDialogLines wraps lines already in memory.
func NewDialogLines(lines []string) *DialogMode { return &DialogMode{lines: lines} }

func (m *DialogMode) Name() string { return "dialog" }

func (m *DialogMode) Len() int { return len(m.lines) }

func (m *DialogMode) String(i int) string { return m.lines[i] }

func (m *DialogMode) SubentryCount(int) int { return 0 }

func (m *DialogMode) Entry(i, _ int) Entry { return Entry{Name: m.lines[i]} }

func (m *DialogMode) Execute(_ context.Context, sel Selection, ec ExecContext) error {
	value := ec.Input.Source
	if sel.Valid {
		value = m.lines[sel.Index]
	}
	w := ec.Stdout
	if w == nil {
		w = os.Stdout
	}
	_, err := fmt.Fprintln(w, value)
	return err
}

// TextLinesMode lists command lines read from a file; activation runs the
// chosen line.
type TextLinesMode struct {
	lines    []string
	launcher Starter
}

// NewTextLines reads the commands in path. Blank lines and lines starting
// with '#' are skipped.
func NewTextLines(path string, launcher Starter) (*TextLinesMode, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open lines file: %w", err)
	}
	defer f.Close()

	all, err := ReadLines(f)
	if err != nil {
		return nil, err
	}
	var lines []string
	for _, l := range all {
		if t := strings.TrimSpace(l); t != "" && !strings.HasPrefix(t, "#") {
			lines = append(lines, t)
		}
	}
	return &TextLinesMode{lines: lines, launcher: launcher}, nil
}

func (m *TextLinesMode) Name() string { return "lines" }

func (m *TextLinesMode) Len() int { return len(m.lines) }

func (m *TextLinesMode) String(i int) string { return m.lines[i] }

func (m *TextLinesMode) SubentryCount(int) int { return 0 }

func (m *TextLinesMode) Entry(i, _ int) Entry { return Entry{Name: m.lines[i]} }

func (m *TextLinesMode) Execute(ctx context.Context, sel Selection, ec ExecContext) error {
	line := ec.Input.SearchString
	if sel.Valid {
		line = m.lines[sel.Index]
	}
	argv, err := launch.SplitCommand(line)
	if err != nil {
		return err
	}
	return m.launcher.Start(ctx, launch.Request{Argv: argv, Input: ec.Input})
}
