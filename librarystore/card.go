package librarystore

// Card is a membership card entitled to borrow books.
//
// CardID is assigned by the store on registration. No two cards may share an
// identical (Name, Department, Type) tuple.
type Card struct {
	CardID     int64
	Name       string
	Department string
	Type       CardType
}

// CardType is the enumerated category of a membership card.
type CardType string

const (
	CardTypeStudent CardType = "S"
	CardTypeTeacher CardType = "T"
)

// IsValid reports whether t is a recognized card type.
func (t CardType) IsValid() bool {
	return t == CardTypeStudent || t == CardTypeTeacher
}

// ParseCardType converts the stored single-letter representation back into a
// CardType. It returns ErrUnknownCardType for anything else.
func ParseCardType(s string) (CardType, error) {
	t := CardType(s)
	if !t.IsValid() {
		return "", ErrUnknownCardType
	}

	return t, nil
}
