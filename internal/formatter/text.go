package formatter

import (
	"bytes"
	"io"

	"github.com/fatih/color"
	"github.com/mcncl/eventdiff/internal/errors"
	"github.com/mcncl/eventdiff/internal/models"
)

const separator = "==="

// textFormatter prints reports the way a person reads them in a terminal
type textFormatter struct {
	header     *color.Color
	label      *color.Color
	leftExtra  *color.Color
	rightExtra *color.Color
}

func newTextFormatter(opts Options) *textFormatter {
	f := &textFormatter{
		header:     color.New(color.FgRed, color.Bold),
		label:      color.New(color.FgBlue),
		leftExtra:  color.New(color.FgRed, color.Bold),
		rightExtra: color.New(color.FgGreen, color.Bold),
	}
	if !opts.Color {
		for _, c := range []*color.Color{f.header, f.label, f.leftExtra, f.rightExtra} {
			c.DisableColor()
		}
	}
	return f
}

func (f *textFormatter) Format(w io.Writer, report models.Report) error {
	switch report.Kind() {
	case models.EventMissing:
		return write(w, "%s\n%s : %s\n", separator, f.header.Sprint(Text(models.MsgMissingEvent)), report.Left)
	case models.EventNew:
		return write(w, "%s\n%s : %s\n", separator, f.header.Sprint(Text(models.MsgNewEvent)), report.Right)
	case models.EventModified:
		return f.modified(w, report)
	default:
		return nil
	}
}

func (f *textFormatter) modified(w io.Writer, report models.Report) error {
	p, err := flatten(report.Mismatch)
	if err != nil {
		return err
	}

	// Build the whole block first so a failure never leaves half a report.
	var buf bytes.Buffer
	buf.WriteString(separator + "\n")
	buf.WriteString(f.header.Sprint(Text(models.MsgEventModified)) + "\n")
	buf.WriteString(f.label.Sprint(Text(models.MsgBefore)) + " " + report.Left + "\n")
	buf.WriteString(f.label.Sprint(Text(models.MsgAfter)) + " " + report.Right + "\n")

	if p.rootMismatch {
		buf.WriteString(Text(models.MsgRootMismatch) + "\n")
	}
	if len(p.mismatch) > 0 {
		buf.WriteString("\n" + Text(models.MsgMismatch) + ":\n")
		for _, key := range p.mismatch {
			buf.WriteString(key + "\n")
		}
	}
	if len(p.leftExtra) > 0 {
		buf.WriteString("\n" + Text(models.MsgLeftExtra) + ":\n")
		for _, key := range p.leftExtra {
			buf.WriteString(f.leftExtra.Sprint(key) + "\n")
		}
	}
	if len(p.rightExtra) > 0 {
		buf.WriteString("\n" + Text(models.MsgRightExtra) + ":\n")
		for _, key := range p.rightExtra {
			buf.WriteString(f.rightExtra.Sprint(key) + "\n")
		}
	}

	if _, err := w.Write(buf.Bytes()); err != nil {
		return errors.NewOutputError("failed to write report", err)
	}
	return nil
}

func (f *textFormatter) Summary(w io.Writer, stats models.Stats) error {
	if stats.Identical == stats.Pairs {
		return write(w, "%s\n%s (%d pairs compared)\n", separator, Text(models.MsgNoMismatch), stats.Pairs)
	}
	return write(w, "%s\n%d pairs compared: %d identical, %d modified, %d missing, %d new\n",
		separator, stats.Pairs, stats.Identical, stats.Modified, stats.Missing, stats.New)
}
