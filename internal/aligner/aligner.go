package aligner

import (
	"bufio"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/mcncl/eventdiff/internal/differ"
	"github.com/mcncl/eventdiff/internal/errors"
	"github.com/mcncl/eventdiff/internal/models"
	"github.com/mcncl/eventdiff/internal/parser"
	"github.com/tidwall/gjson"
)

// DefaultTimestampField is the record field holding the event time.
const DefaultTimestampField = "timestamp"

// Options controls how an Aligner reads and compares records.
type Options struct {
	// TimestampField is a dotted key path into each record.
	TimestampField string
	// StrictOrder turns a timestamp going backwards within one source into
	// a fatal error instead of a warning.
	StrictOrder bool
	Differ      *differ.Differ
	Logger      *slog.Logger
}

// cursor reads one source and holds at most one unconsumed line.
type cursor struct {
	side    models.Side
	reader  *bufio.Reader
	pending string
	has     bool
	line    int
	done    bool

	// record caches the parsed pending line while it waits for a match.
	record  *models.Record
	stamped bool

	last    time.Time
	hasLast bool
}

// fill reads the next non-blank line into the pending buffer unless one is
// already there. It returns false once the source is exhausted.
func (c *cursor) fill() (bool, error) {
	if c.has {
		return true, nil
	}
	for !c.done {
		raw, err := c.reader.ReadString('\n')
		if err != nil && !stderrors.Is(err, io.EOF) {
			return false, errors.NewInputError("failed to read line", err).At(c.side, c.line+1)
		}
		if err != nil {
			c.done = true
		}
		if raw == "" {
			continue
		}
		c.line++
		if strings.TrimSpace(raw) == "" {
			continue
		}
		c.pending = strings.TrimRight(raw, "\r\n")
		c.has = true
		return true, nil
	}
	return false, nil
}

func (c *cursor) consume() {
	c.pending = ""
	c.has = false
	c.record = nil
	c.stamped = false
}

// Aligner walks two timestamp-sorted record streams as a merge-join.
type Aligner struct {
	left, right *cursor
	field       string
	strict      bool
	differ      *differ.Differ
	logger      *slog.Logger
	pairs       int
	stats       models.Stats
}

// New creates an Aligner over two line sources.
func New(left, right io.Reader, opts Options) *Aligner {
	if opts.TimestampField == "" {
		opts.TimestampField = DefaultTimestampField
	}
	if opts.Differ == nil {
		opts.Differ = differ.New()
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Aligner{
		left:   &cursor{side: models.SideLeft, reader: bufio.NewReader(left)},
		right:  &cursor{side: models.SideRight, reader: bufio.NewReader(right)},
		field:  opts.TimestampField,
		strict: opts.StrictOrder,
		differ: opts.Differ,
		logger: opts.Logger,
	}
}

// Next performs one alignment step and returns its report. The report may
// carry no signal at all. io.EOF is returned once either source runs out;
// lines left over in the other source are not reported.
func (a *Aligner) Next() (models.Report, error) {
	okL, err := a.left.fill()
	if err != nil {
		return models.Report{}, err
	}
	okR, err := a.right.fill()
	if err != nil {
		return models.Report{}, err
	}
	if !okL || !okR {
		return models.Report{}, io.EOF
	}

	for _, step := range []func(*cursor) error{a.parse, a.stamp} {
		if err := step(a.left); err != nil {
			return models.Report{}, err
		}
		if err := step(a.right); err != nil {
			return models.Report{}, err
		}
	}
	left, right := a.left.record, a.right.record

	a.pairs++
	report := models.Report{Left: left.Raw, Right: right.Raw, Pair: a.pairs}

	switch {
	case left.Timestamp.Equal(right.Timestamp):
		report.Mismatch = a.differ.Mismatch(left.Value, right.Value)
		a.advance(a.left, left.Timestamp)
		a.advance(a.right, right.Timestamp)
	case left.Timestamp.Before(right.Timestamp):
		report.Mismatch = models.DateMismatch(true)
		a.advance(a.left, left.Timestamp)
	default:
		report.Mismatch = models.DateMismatch(false)
		a.advance(a.right, right.Timestamp)
	}

	a.stats.Add(report.Kind())
	a.logger.Debug("aligned pair",
		"pair", report.Pair,
		"kind", report.Kind().String(),
		"left_line", a.left.line,
		"right_line", a.right.line,
	)
	return report, nil
}

// Run calls fn for every report that carries a signal until either source
// is exhausted. The first error from reading, parsing or fn stops the run.
func (a *Aligner) Run(fn func(models.Report) error) error {
	for {
		report, err := a.Next()
		if stderrors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if report.Mismatch.IsEmpty() {
			continue
		}
		if err := fn(report); err != nil {
			return err
		}
	}
}

// Stats returns the counters accumulated so far.
func (a *Aligner) Stats() models.Stats {
	return a.stats
}

// parse decodes the pending line of c unless it was decoded by an earlier
// step that left it unconsumed.
func (a *Aligner) parse(c *cursor) error {
	if c.record != nil {
		return nil
	}
	value, err := parser.ParseRecord(c.pending)
	if err != nil {
		var appErr *errors.AppError
		if stderrors.As(err, &appErr) {
			return appErr.At(c.side, c.line)
		}
		return errors.NewParsingError("failed to parse record", err).At(c.side, c.line)
	}
	c.record = &models.Record{Raw: c.pending, Value: value}
	return nil
}

// stamp fills in the timestamp of the parsed record of c and checks it
// against the last record consumed from the same source.
func (a *Aligner) stamp(c *cursor) error {
	if c.stamped {
		return nil
	}
	ts, appErr := a.timestamp(c.pending)
	if appErr != nil {
		return appErr.At(c.side, c.line)
	}

	if c.hasLast && ts.Before(c.last) {
		msg := fmt.Sprintf("timestamp %s is earlier than previous %s",
			ts.Format(time.RFC3339Nano), c.last.Format(time.RFC3339Nano))
		if a.strict {
			return errors.NewOrderError(msg, errors.ErrUnsortedInput).At(c.side, c.line)
		}
		a.logger.Warn("input is not sorted by timestamp",
			"side", string(c.side),
			"line", c.line,
			"timestamp", ts.Format(time.RFC3339Nano),
			"previous", c.last.Format(time.RFC3339Nano),
		)
	}

	c.record.Timestamp = ts
	c.stamped = true
	return nil
}

// timestamp extracts the configured field from a raw line and parses it as
// RFC 3339. The line has already been validated as a JSON object.
func (a *Aligner) timestamp(line string) (time.Time, *errors.AppError) {
	res := lookup(line, a.field)
	if !res.Exists() {
		return time.Time{}, errors.NewTimestampError(
			fmt.Sprintf("field %q is missing", a.field), errors.ErrMissingTimestamp)
	}
	if res.Type != gjson.String {
		return time.Time{}, errors.NewTimestampError(
			fmt.Sprintf("field %q is %s, not a string", a.field, res.Type), errors.ErrInvalidTimestamp)
	}
	ts, err := time.Parse(time.RFC3339, res.Str)
	if err != nil {
		return time.Time{}, errors.NewTimestampError(
			fmt.Sprintf("field %q holds %q", a.field, res.Str),
			fmt.Errorf("%w: %v", errors.ErrInvalidTimestamp, err))
	}
	return ts, nil
}

func (a *Aligner) advance(c *cursor, ts time.Time) {
	c.last = ts
	c.hasLast = true
	c.consume()
}

// lookup resolves a dotted path in a raw JSON object. When a key appears
// more than once in an object the last one wins, as it does for the
// decoded record.
func lookup(line, path string) gjson.Result {
	res := gjson.Parse(line)
	for _, key := range strings.Split(path, ".") {
		if !res.IsObject() {
			return gjson.Result{}
		}
		var found gjson.Result
		res.ForEach(func(k, v gjson.Result) bool {
			if k.String() == key {
				found = v
			}
			return true
		})
		if !found.Exists() {
			return found
		}
		res = found
	}
	return res
}
