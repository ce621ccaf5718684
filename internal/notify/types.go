// Package notify implements the timer-driven notification poller: it
// periodically reconciles unread state with the server, surfaces unseen
// notifications exactly once per session and plays a rate-limited audible cue.
package notify

// Type is the closed vocabulary of notification kinds the backend emits.
// Anything else renders with the generic bell styling.
type Type string

const (
	TypePriceChanged         Type = "preco_alterado"
	TypeNewAppointment       Type = "new-appointment"
	TypeAppointmentConfirmed Type = "appointment-confirmed"
	TypeAppointmentCancelled Type = "appointment-cancelled"
	TypeInfo                 Type = "info"
	TypeSuccess              Type = "success"
	TypeWarning              Type = "warning"
	TypeError                Type = "error"
)

// Severity buckets types for presentation (color, ordering).
type Severity int

const (
	SeverityInfo Severity = iota
	SeveritySuccess
	SeverityWarning
	SeverityError
)

// Display is the presentation metadata for a notification type.
type Display struct {
	Glyph    string
	Severity Severity
}

var displayTable = map[Type]Display{
	TypePriceChanged:         {Glyph: "$", Severity: SeverityWarning},
	TypeNewAppointment:       {Glyph: "+", Severity: SeverityInfo},
	TypeAppointmentConfirmed: {Glyph: "✓", Severity: SeveritySuccess},
	TypeAppointmentCancelled: {Glyph: "✗", Severity: SeverityError},
	TypeInfo:                 {Glyph: "i", Severity: SeverityInfo},
	TypeSuccess:              {Glyph: "✓", Severity: SeveritySuccess},
	TypeWarning:              {Glyph: "!", Severity: SeverityWarning},
	TypeError:                {Glyph: "!", Severity: SeverityError},
}

var fallbackDisplay = Display{Glyph: "•", Severity: SeverityInfo}

// DisplayFor returns the presentation metadata for a wire type string,
// falling back to the bell styling for unknown values.
func DisplayFor(wire string) Display {
	if d, ok := displayTable[Type(wire)]; ok {
		return d
	}
	return fallbackDisplay
}

// Known reports whether the wire type is part of the fixed vocabulary.
func Known(wire string) bool {
	_, ok := displayTable[Type(wire)]
	return ok
}
