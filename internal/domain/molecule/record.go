package molecule

// RawAtom is one atom line of a structure record as read from disk.
type RawAtom struct {
	Symbol       string
	AtomicNumber int
	Position     [3]float32
}

// RawBond is one bond line.  Begin and End are 0-based atom indices; Order is
// the MDL bond type field.
type RawBond struct {
	Begin int
	End   int
	Order int
}

// RawRecord is a structure record before conversion.  A reader that cannot
// decode a record reports an unparsable error instead of a RawRecord.
type RawRecord struct {
	Name  string
	Atoms []RawAtom
	Bonds []RawBond
}

//Personal.AI order the ending
