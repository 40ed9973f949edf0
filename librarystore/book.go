package librarystore

// Book is a catalog entry with its current stock counter.
//
// BookID is assigned by the store on insertion and is immutable afterward.
// No two books may share an identical (Category, Title, Press, PublishYear, Author)
// tuple.
type Book struct {
	BookID      int64
	Category    string
	Title       string
	Press       string
	PublishYear int
	Author      string
	Price       float64
	Stock       int
}

// BookColumn enumerates the book attributes a catalog query may sort by.
// Only values from this enumeration ever reach the generated SQL, so a sort
// column can never carry injected query text.
type BookColumn string

const (
	ColumnBookID      BookColumn = "book_id"
	ColumnCategory    BookColumn = "category"
	ColumnTitle       BookColumn = "title"
	ColumnPress       BookColumn = "press"
	ColumnPublishYear BookColumn = "publish_year"
	ColumnAuthor      BookColumn = "author"
	ColumnPrice       BookColumn = "price"
	ColumnStock       BookColumn = "stock"
)

// IsValid reports whether c is one of the recognized sortable book columns.
func (c BookColumn) IsValid() bool {
	switch c {
	case ColumnBookID, ColumnCategory, ColumnTitle, ColumnPress,
		ColumnPublishYear, ColumnAuthor, ColumnPrice, ColumnStock:
		return true
	default:
		return false
	}
}

// SortOrder is the direction of the primary ordering of a catalog query.
type SortOrder string

const (
	SortAsc  SortOrder = "ASC"
	SortDesc SortOrder = "DESC"
)
