package eventlog

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// ConsoleSink drains an EventBus subscription and renders each Event to
// an io.Writer, colorizing by kind when the writer is a terminal.
type ConsoleSink struct {
	out      io.Writer
	useColor bool
}

// NewConsoleSink returns a sink writing to w, auto-detecting color
// support via go-isatty when w is *os.File.
func NewConsoleSink(w io.Writer) *ConsoleSink {
	useColor := false
	if f, ok := w.(*os.File); ok {
		useColor = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &ConsoleSink{out: w, useColor: useColor}
}

// Run drains events until the channel closes, writing one rendered
// line per Event. Intended to be run in its own goroutine.
func (c *ConsoleSink) Run(events <-chan Event) {
	for ev := range events {
		fmt.Fprintln(c.out, c.render(ev))
	}
}

func (c *ConsoleSink) render(ev Event) string {
	label := c.colorLabel(ev.Kind)
	if ev.TaskID != "" {
		return fmt.Sprintf("%s [%s] %s", label, ev.TaskID, ev.Message)
	}
	return fmt.Sprintf("%s %s", label, ev.Message)
}

func (c *ConsoleSink) colorLabel(kind EventKind) string {
	text := string(kind)
	if !c.useColor {
		return fmt.Sprintf("[%s]", text)
	}
	var col *color.Color
	switch kind {
	case KindInfo:
		col = color.New(color.FgCyan)
	case KindWarn:
		col = color.New(color.FgYellow)
	case KindError:
		col = color.New(color.FgRed)
	case KindProgress:
		col = color.New(color.FgBlue)
	default:
		col = color.New(color.FgWhite)
	}
	return "[" + col.Sprint(text) + "]"
}
