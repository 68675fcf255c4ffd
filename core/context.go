package core

// FlightContext is the shared mutable record of domain facts for one
// conversation. Tools and hand-off setup fill fields lazily; the account
// number is assigned at conversation creation and never cleared afterwards.
//
// An empty string means "not set". The JSON shape (omitempty) matches what
// the chat UI expects in the turn response.
type FlightContext struct {
	PassengerName      string `json:"passenger_name,omitempty"`
	ConfirmationNumber string `json:"confirmation_number,omitempty"`
	SeatNumber         string `json:"seat_number,omitempty"`
	FlightNumber       string `json:"flight_number,omitempty"`
	AccountNumber      string `json:"account_number,omitempty"`
}

// Fields returns the context as an ordered-key map keyed by wire field name.
func (c FlightContext) Fields() map[string]string {
	return map[string]string{
		"passenger_name":      c.PassengerName,
		"confirmation_number": c.ConfirmationNumber,
		"seat_number":         c.SeatNumber,
		"flight_number":       c.FlightNumber,
		"account_number":      c.AccountNumber,
	}
}

// Diff compares the receiver against an earlier snapshot and returns the
// fields whose values changed, keyed by wire field name with the new value.
// An empty map means no change.
func (c FlightContext) Diff(prev FlightContext) map[string]any {
	changes := map[string]any{}
	old := prev.Fields()
	for field, value := range c.Fields() {
		if old[field] != value {
			changes[field] = value
		}
	}
	return changes
}
