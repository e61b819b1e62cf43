package formatter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/mcncl/eventdiff/internal/errors"
	"github.com/mcncl/eventdiff/internal/models"
	"github.com/wI2L/jsondiff"
)

// jsonReport is one line of json or patch output
type jsonReport struct {
	Kind       string          `json:"kind"`
	Pair       int             `json:"pair,omitempty"`
	Event      json.RawMessage `json:"event,omitempty"`
	Before     json.RawMessage `json:"before,omitempty"`
	After      json.RawMessage `json:"after,omitempty"`
	Mismatch   []string        `json:"mismatch,omitempty"`
	RootDiffer bool            `json:"root_differ,omitempty"`
	LeftExtra  []string        `json:"left_extra,omitempty"`
	RightExtra []string        `json:"right_extra,omitempty"`
	Patch      jsondiff.Patch  `json:"patch,omitempty"`
	Stats      *models.Stats   `json:"stats,omitempty"`
}

// jsonFormatter writes one JSON object per report. With patch set, modified
// events carry an RFC 6902 patch from the left record to the right one
// instead of key path lists.
type jsonFormatter struct {
	patch   bool
	ignores []string
}

func (f *jsonFormatter) Format(w io.Writer, report models.Report) error {
	kind := report.Kind()
	out := jsonReport{Kind: kindName(kind), Pair: report.Pair}

	switch kind {
	case models.EventMissing:
		out.Event = json.RawMessage(report.Left)
	case models.EventNew:
		out.Event = json.RawMessage(report.Right)
	case models.EventModified:
		out.Before = json.RawMessage(report.Left)
		out.After = json.RawMessage(report.Right)
		if f.patch {
			opts := []jsondiff.Option{jsondiff.UnmarshalFunc(unmarshalNumbers)}
			if len(f.ignores) > 0 {
				opts = append(opts, jsondiff.Ignores(f.ignores...))
			}
			patch, err := jsondiff.CompareJSON([]byte(report.Left), []byte(report.Right), opts...)
			if err != nil {
				return errors.NewOutputError("failed to compute JSON patch", err)
			}
			out.Patch = patch
			break
		}
		p, err := flatten(report.Mismatch)
		if err != nil {
			return err
		}
		out.Mismatch = p.mismatch
		out.RootDiffer = p.rootMismatch
		out.LeftExtra = p.leftExtra
		out.RightExtra = p.rightExtra
	default:
		return nil
	}

	return encode(w, out)
}

func (f *jsonFormatter) Summary(w io.Writer, stats models.Stats) error {
	return encode(w, jsonReport{Kind: "summary", Stats: &stats})
}

func encode(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return errors.NewOutputError("failed to encode report", err)
	}
	return nil
}

// unmarshalNumbers decodes like json.Unmarshal but keeps numbers as
// json.Number, so the patch sees the same values the differ compared.
func unmarshalNumbers(data []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}

// kindName returns the snake_case name of an event kind, e.g. missing_event.
func kindName(k models.EventKind) string {
	return strcase.ToSnake(k.String())
}

// pointers converts dotted key paths into JSON Pointers (RFC 6901).
func pointers(paths []string) []string {
	var ptrs []string
	for _, p := range paths {
		p = strings.Trim(strings.TrimSpace(p), ".")
		if p == "" {
			continue
		}
		var b strings.Builder
		for _, seg := range strings.Split(p, ".") {
			seg = strings.ReplaceAll(seg, "~", "~0")
			seg = strings.ReplaceAll(seg, "/", "~1")
			fmt.Fprintf(&b, "/%s", seg)
		}
		ptrs = append(ptrs, b.String())
	}
	return ptrs
}
