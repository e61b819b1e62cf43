package models

// EventKind classifies what happened to a compared record pair.
type EventKind int

const (
	EventIdentical EventKind = iota
	EventMissing
	EventNew
	EventModified
)

// String returns the PascalCase name of the kind.
func (k EventKind) String() string {
	switch k {
	case EventMissing:
		return "MissingEvent"
	case EventNew:
		return "NewEvent"
	case EventModified:
		return "ModifiedEvent"
	default:
		return "Identical"
	}
}

// Message enumerates the user-facing strings a renderer may print. The
// text for each kind lives with the renderer.
type Message int

const (
	MsgMissingEvent Message = iota
	MsgNewEvent
	MsgEventModified
	MsgBefore
	MsgAfter
	MsgMismatch
	MsgRootMismatch
	MsgLeftExtra
	MsgRightExtra
	MsgNoMismatch
)

// Report is what the aligner hands to a renderer for each processed pair.
// Left and Right hold the raw lines that were compared; for a missing event
// only Left is relevant and for a new event only Right.
type Report struct {
	Mismatch Mismatch
	Left     string
	Right    string
	// Pair is the 1-based index of the aligner iteration that produced it.
	Pair int
}

// Kind is shorthand for r.Mismatch.Kind().
func (r Report) Kind() EventKind {
	return r.Mismatch.Kind()
}

// Stats counts what happened over a whole run.
type Stats struct {
	Pairs     int `json:"pairs"`
	Identical int `json:"identical"`
	Modified  int `json:"modified"`
	Missing   int `json:"missing"`
	New       int `json:"new"`
}

// Add records one report in the counters.
func (s *Stats) Add(kind EventKind) {
	s.Pairs++
	switch kind {
	case EventIdentical:
		s.Identical++
	case EventModified:
		s.Modified++
	case EventMissing:
		s.Missing++
	case EventNew:
		s.New++
	}
}
