package flows

// Turn is one inbound message from the conversation channel. Exactly one of
// the payload kinds is normally set: free text, a tapped button id, or a
// shared location. A turn with none of them is ignored by the engine.
type Turn struct {
	Text      string
	ButtonID  string
	Latitude  *float64
	Longitude *float64
}

// IsEmpty reports whether the turn carries no usable payload.
func (t Turn) IsEmpty() bool {
	return t.Text == "" && t.ButtonID == "" && !t.HasLocation()
}

// HasLocation reports whether the turn carries a GPS share. A location may
// arrive without a longitude when the channel truncates the payload.
func (t Turn) HasLocation() bool {
	return t.Latitude != nil
}

// Value returns the button id when one was tapped, the text otherwise.
// Button taps take precedence because some channels echo the button title
// as text alongside the id.
func (t Turn) Value() string {
	if t.ButtonID != "" {
		return t.ButtonID
	}
	return t.Text
}
