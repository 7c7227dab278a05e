package gol

// Code is the state of a single cell.
//
// Dead and Alive are owned by whoever holds the grid and may be rewritten.
// ForeignDead and ForeignAlive are read-only copies of cells owned elsewhere
// (or the permanent ring) and are never rewritten
type Code uint8

const (
	Dead Code = iota
	Alive
	ForeignDead
	ForeignAlive

	// Uninitialised marks interior cells between allocation and filling.
	// It never appears in a payload
	Uninitialised
)

// IsAlive reports whether the cell counts as a live neighbour
func IsAlive(c Code) bool {
	return c == Alive || c == ForeignAlive
}

// IsWritable reports whether the holder owns the cell
func IsWritable(c Code) bool {
	return c == Dead || c == Alive
}

// ToForeign tags an owned cell as a read-only copy.
// Codes that are already foreign pass through unchanged
func ToForeign(c Code) Code {
	switch c {
	case Dead:
		return ForeignDead
	case Alive:
		return ForeignAlive
	default:
		return c
	}
}

// ToOwned returns the writable form of a code
func ToOwned(c Code) Code {
	switch c {
	case ForeignDead:
		return Dead
	case ForeignAlive:
		return Alive
	default:
		return c
	}
}

func (c Code) String() string {
	switch c {
	case Dead:
		return "0"
	case Alive:
		return "1"
	case ForeignDead:
		return "2"
	case ForeignAlive:
		return "3"
	default:
		return "?"
	}
}
