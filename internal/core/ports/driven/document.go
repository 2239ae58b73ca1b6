package driven

import "context"

// DocumentInspector reads metadata from a local document.
type DocumentInspector interface {
	// PageCount returns the number of pages in the document at path.
	PageCount(ctx context.Context, path string) (int, error)
}
