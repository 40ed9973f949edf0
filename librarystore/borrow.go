package librarystore

// NotReturned is the sentinel return time of a ledger record whose book has not
// been given back yet. Any other value is the Unix-milli timestamp of the return.
const NotReturned int64 = 0

// Borrow is one ledger record. Its natural key is (BookID, CardID, BorrowTime);
// at most one record per (BookID, CardID) pair may be outstanding at a time.
// Records are never deleted, the ledger is the permanent circulation history.
type Borrow struct {
	BookID     int64
	CardID     int64
	BorrowTime int64
	ReturnTime int64
}

// Outstanding reports whether the borrowed book has not been returned yet.
func (b Borrow) Outstanding() bool {
	return b.ReturnTime == NotReturned
}

// BorrowHistoryItem is a ledger record joined with the descriptive fields of the
// borrowed book, as returned by ShowBorrowHistory.
type BorrowHistoryItem struct {
	CardID int64
	Book   Book
	Borrow Borrow
}
