package ports

import "context"

// Contact is a raw directory record before normalization. The resolver turns
// eligible contacts into domain.Candidate values; everything else is skipped.
type Contact struct {
	// ID is the directory-assigned contact identifier.
	ID int64

	// Attributes holds the contact's custom attributes (phone, opt-out
	// flag, experience level, ...). Values are directory-typed and must be
	// normalized by the caller.
	Attributes map[string]any

	// ListIDs are the directory lists the contact is subscribed to.
	ListIDs []int64

	// EmailBlacklisted and SMSBlacklisted are the directory-level consent
	// flags. Either one excludes the contact.
	EmailBlacklisted bool
	SMSBlacklisted   bool
}

// ContactPage is one page of directory results.
type ContactPage struct {
	Contacts []Contact

	// Total is the directory's total count for the query, when reported.
	Total int64
}

// Folder is a named group of contact lists in the directory.
type Folder struct {
	ID        int64
	Name      string
	ListCount int64
}

// ContactDirectory provides access to the third-party contact store.
// Pagination is offset-based; a page shorter than the requested limit
// signals end of data.
type ContactDirectory interface {
	// FetchPage returns one page of contacts starting at offset.
	// When listID > 0 the directory filters to that list server-side.
	FetchPage(ctx context.Context, offset, limit int, listID int64) (ContactPage, error)

	// Folders lists the directory's list folders.
	Folders(ctx context.Context) ([]Folder, error)

	// ListsInFolder maps list names to list ids within a folder.
	ListsInFolder(ctx context.Context, folderID int64) (map[string]int64, error)

	// Ping verifies connectivity and credentials.
	Ping(ctx context.Context) error
}
