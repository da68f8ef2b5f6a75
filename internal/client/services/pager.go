package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/userdesk/internal/client/client"
	"github.com/dmitrijs2005/userdesk/internal/client/models"
	"github.com/dmitrijs2005/userdesk/internal/common"
	"github.com/dmitrijs2005/userdesk/internal/logging"
)

// PageResult is one browse-mode page after reconciliation.
type PageResult struct {
	Users  []models.User
	Window models.PageWindow
	// RemotePages is how many remote pages were fetched to fill the slice.
	RemotePages int
}

// Pager produces browse-mode pages. Local deletions thin remote pages, so a
// page may need items from later remote pages; Page keeps pulling until the
// slice is full or the remote source is exhausted.
//
// Every call starts again from remote page 1 so the reconciled prefix is
// stable. The cost grows with the requested page number.
type Pager struct {
	client  client.Client
	overlay OverlayStore
	log     logging.Logger

	mu       sync.Mutex
	pageSize int
}

func NewPager(c client.Client, overlay OverlayStore, log logging.Logger) *Pager {
	return &Pager{client: c, overlay: overlay, log: log}
}

// PageSize returns the discovered page size, or 0 before the first fetch.
func (p *Pager) PageSize() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pageSize
}

// discover records n as the page size on first use and returns the size in
// effect. An empty first page does not fix the size.
func (p *Pager) discover(n int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pageSize == 0 && n > 0 {
		p.pageSize = n
	}
	return p.pageSize
}

// Page returns the reconciled slice for currentPage. The page number is the
// one passed in; it is fixed for the whole fill loop. TotalPages is the raw
// remote count and is not reduced by local deletions.
func (p *Pager) Page(ctx context.Context, currentPage int) (*PageResult, error) {
	if currentPage < 1 {
		return nil, common.ErrInvalidPage
	}

	var (
		raw        []models.User
		slice      []models.User
		totalPages int
		pageSize   int
		page       = 1
	)

	for {
		res, err := p.client.FetchPage(ctx, page)
		if err != nil {
			return nil, fmt.Errorf("fetch page %d: %w", page, err)
		}
		raw = append(raw, res.Items...)
		totalPages = res.TotalPages
		if page == 1 {
			pageSize = p.discover(len(res.Items))
		}

		slice = window(p.overlay.Apply(raw), currentPage, pageSize)
		page++

		if len(slice) >= pageSize || page > totalPages {
			break
		}
	}

	p.log.Debug(ctx, "page reconciled", "page", currentPage, "remote_pages", page-1,
		"raw", len(raw), "visible", len(slice))

	return &PageResult{
		Users: slice,
		Window: models.PageWindow{
			CurrentPage: currentPage,
			TotalPages:  max(totalPages, 1),
			PageSize:    pageSize,
		},
		RemotePages: page - 1,
	}, nil
}

// window returns a copy of available[(n-1)*size : n*size], clipped to the
// available length.
func window(available []models.User, n, size int) []models.User {
	start := (n - 1) * size
	if size <= 0 || start >= len(available) {
		return []models.User{}
	}
	end := min(start+size, len(available))
	out := make([]models.User, end-start)
	copy(out, available[start:end])
	return out
}
