package models

// Page is one page of the remote collection as reported by the source.
type Page struct {
	Items      []User
	TotalPages int
}

// PageWindow describes the browse-mode position. PageSize is discovered from
// the first page the remote source returns, never configured.
type PageWindow struct {
	CurrentPage int
	TotalPages  int
	PageSize    int
}

func (w PageWindow) HasPrev() bool { return w.CurrentPage > 1 }

func (w PageWindow) HasNext() bool { return w.CurrentPage < w.TotalPages }
