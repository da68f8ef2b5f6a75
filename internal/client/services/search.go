package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/userdesk/internal/client/client"
	"github.com/dmitrijs2005/userdesk/internal/client/models"
	"github.com/dmitrijs2005/userdesk/internal/logging"
	"golang.org/x/sync/errgroup"
)

// Searcher scans the whole remote collection, which the directory cannot
// filter itself. Page 1 reveals the page count; the remaining pages are
// fetched concurrently, at most concurrency at a time.
type Searcher struct {
	client      client.Client
	overlay     OverlayStore
	log         logging.Logger
	concurrency int
}

// NewSearcher builds a Searcher. concurrency <= 0 removes the limit.
func NewSearcher(c client.Client, overlay OverlayStore, concurrency int, log logging.Logger) *Searcher {
	return &Searcher{client: c, overlay: overlay, concurrency: concurrency, log: log}
}

// Search returns every reconciled user whose first name, last name or email
// contains term, case-insensitively, in remote order. Pagination does not
// apply. Any failed page fetch fails the whole search.
func (s *Searcher) Search(ctx context.Context, term string) ([]models.User, error) {
	first, err := s.client.FetchPage(ctx, 1)
	if err != nil {
		return nil, fmt.Errorf("fetch page 1: %w", err)
	}

	pages := make([][]models.User, max(first.TotalPages, 1))
	pages[0] = first.Items

	g, gctx := errgroup.WithContext(ctx)
	if s.concurrency > 0 {
		g.SetLimit(s.concurrency)
	}
	for n := 2; n <= first.TotalPages; n++ {
		n := n
		g.Go(func() error {
			res, err := s.client.FetchPage(gctx, n)
			if err != nil {
				return fmt.Errorf("fetch page %d: %w", n, err)
			}
			pages[n-1] = res.Items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []models.User
	for _, items := range pages {
		all = append(all, items...)
	}

	matches := make([]models.User, 0)
	for _, u := range s.overlay.Apply(all) {
		if u.Matches(term) {
			matches = append(matches, u)
		}
	}

	s.log.Debug(ctx, "search reconciled", "term", term, "remote_pages", len(pages),
		"raw", len(all), "matches", len(matches))
	return matches, nil
}
