package domain

// Settings are the sync-wide preferences that influence value
// transformation. They are passed explicitly into the transformer so
// it stays a pure function.
type Settings struct {
	// Use12HourClock renders time-of-day values as "h:mm AM/PM"
	// instead of zero-padded 24-hour "HH:mm".
	Use12HourClock bool
}
