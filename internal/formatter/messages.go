package formatter

import "github.com/mcncl/eventdiff/internal/models"

// messages maps each message kind to the text printed by the text format.
var messages = map[models.Message]string{
	models.MsgMissingEvent:  "Missing event",
	models.MsgNewEvent:      "New event",
	models.MsgEventModified: "Event modified :",
	models.MsgBefore:        "Before :",
	models.MsgAfter:         "After :",
	models.MsgMismatch:      "Mismatched keys",
	models.MsgRootMismatch:  "Root values differ",
	models.MsgLeftExtra:     "Extra keys on left",
	models.MsgRightExtra:    "Extra keys on right",
	models.MsgNoMismatch:    "No mismatch found",
}

// Text returns the user-facing string for a message kind.
func Text(m models.Message) string {
	return messages[m]
}
