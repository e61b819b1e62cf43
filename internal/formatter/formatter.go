package formatter

import (
	"fmt"
	"io"

	"github.com/mcncl/eventdiff/internal/config"
	"github.com/mcncl/eventdiff/internal/differ"
	"github.com/mcncl/eventdiff/internal/errors"
	"github.com/mcncl/eventdiff/internal/models"
)

// Formatter renders aligner reports to a writer
type Formatter interface {
	// Format renders one report. Reports without a signal produce no output.
	Format(w io.Writer, report models.Report) error
	// Summary renders the counters collected over a run.
	Summary(w io.Writer, stats models.Stats) error
}

// Options are shared by all formats
type Options struct {
	// Color enables terminal colors in the text format. When false colors
	// are always off; when true they follow terminal detection.
	Color bool
	// IgnorePaths are dotted key paths left out of JSON patches.
	IgnorePaths []string
}

// NewFormatter creates the Formatter for the named output format
func NewFormatter(format string, opts Options) (Formatter, error) {
	switch format {
	case config.FormatText, "":
		return newTextFormatter(opts), nil
	case config.FormatJSON:
		return &jsonFormatter{}, nil
	case config.FormatPatch:
		return &jsonFormatter{patch: true, ignores: pointers(opts.IgnorePaths)}, nil
	default:
		return nil, errors.NewConfigError(fmt.Sprintf("unknown output format '%s'", format), nil)
	}
}

// paths holds the flattened trees of a modified event.
type paths struct {
	mismatch     []string
	rootMismatch bool
	leftExtra    []string
	rightExtra   []string
}

// flatten turns the trees of m into key paths. A value at the root of an
// extra-key tree cannot come out of the differ and is reported as an
// internal error.
func flatten(m models.Mismatch) (paths, error) {
	var p paths

	switch m.KeysInBoth.Kind {
	case models.NodeBranch:
		p.mismatch = differ.KeyPaths(m.KeysInBoth, "")
	case models.NodeLeaf:
		p.rootMismatch = true
	}

	for _, side := range []struct {
		node models.DiffNode
		dst  *[]string
		name models.Side
	}{
		{m.LeftOnlyKeys, &p.leftExtra, models.SideLeft},
		{m.RightOnlyKeys, &p.rightExtra, models.SideRight},
	} {
		if side.node.Kind == models.NodeLeaf {
			return paths{}, errors.NewInternalError(
				fmt.Sprintf("%s extra-key tree holds a value at its root", side.name),
				errors.ErrUnexpectedLeaf,
			)
		}
		*side.dst = differ.KeyPaths(side.node, "")
	}

	return p, nil
}

func write(w io.Writer, format string, args ...interface{}) error {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		return errors.NewOutputError("failed to write report", err)
	}
	return nil
}
