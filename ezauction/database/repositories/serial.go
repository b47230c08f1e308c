package repositories

// SerialShift describes the single range update applied to the catalog when a
// player's serial number is inserted, moved or cleared. Serials >= MinSerial
// (and <= MaxSerial when Bounded) move by Delta.
type SerialShift struct {
	MinSerial int64
	MaxSerial int64
	Bounded   bool
	Delta     int64
}

// ComputeSerialShift returns the shift needed before assigning newSerial to a
// player currently holding oldSerial. occupied reports whether newSerial is
// already held by a different player. The second return is false when no
// shift is required.
//
// The resulting ordering stays dense: assigning into an occupied slot pushes
// everything at or after it up by one, clearing a serial pulls everything
// after it down by one, and moves renumber only the interval between the old
// and new positions.
func ComputeSerialShift(oldSerial, newSerial *int64, occupied bool) (SerialShift, bool) {
	switch {
	case oldSerial == nil && newSerial == nil:
		return SerialShift{}, false

	case oldSerial == nil:
		// Gaining a serial: shift only on collision.
		if !occupied {
			return SerialShift{}, false
		}
		return SerialShift{MinSerial: *newSerial, Delta: 1}, true

	case newSerial == nil:
		// Clearing a serial closes the gap it leaves behind.
		return SerialShift{MinSerial: *oldSerial + 1, Delta: -1}, true

	case *newSerial == *oldSerial:
		return SerialShift{}, false

	case *newSerial > *oldSerial:
		// Moving later: the interval (old, new] slides down one slot.
		return SerialShift{MinSerial: *oldSerial + 1, MaxSerial: *newSerial, Bounded: true, Delta: -1}, true

	default:
		// Moving earlier: the interval [new, old) slides up one slot.
		return SerialShift{MinSerial: *newSerial, MaxSerial: *oldSerial - 1, Bounded: true, Delta: 1}, true
	}
}
