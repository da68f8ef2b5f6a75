package services

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/dmitrijs2005/userdesk/internal/client/client"
	"github.com/dmitrijs2005/userdesk/internal/client/models"
	"github.com/dmitrijs2005/userdesk/internal/logging"
	"github.com/stretchr/testify/require"
)

// ---- helpers ----

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "userdesk.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func insertMeta(t *testing.T, db *sql.DB, k string, v []byte) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO metadata(key,value) VALUES(?,?)`, k, v)
	require.NoError(t, err)
}

func getMeta(t *testing.T, db *sql.DB, k string) ([]byte, bool) {
	t.Helper()
	var v []byte
	err := db.QueryRow(`SELECT value FROM metadata WHERE key=?`, k).Scan(&v)
	if err == sql.ErrNoRows {
		return nil, false
	}
	require.NoError(t, err)
	return v, true
}

func newStore(t *testing.T, db *sql.DB) OverlayStore {
	t.Helper()
	return NewOverlayStore(context.Background(), db, logging.Discard())
}

// makeUsers builds n users with ids 1..n.
func makeUsers(n int) []models.User {
	out := make([]models.User, n)
	for i := range out {
		id := i + 1
		out[i] = models.User{
			ID:        id,
			FirstName: fmt.Sprintf("First%d", id),
			LastName:  fmt.Sprintf("Last%d", id),
			Email:     fmt.Sprintf("user%d@reqres.in", id),
			Avatar:    fmt.Sprintf("https://reqres.in/img/faces/%d-image.jpg", id),
		}
	}
	return out
}

// split cuts users into remote pages of size.
func split(users []models.User, size int) [][]models.User {
	var pages [][]models.User
	for start := 0; start < len(users); start += size {
		pages = append(pages, users[start:min(start+size, len(users))])
	}
	return pages
}

func ids(users []models.User) []int {
	out := make([]int, len(users))
	for i, u := range users {
		out[i] = u.ID
	}
	return out
}

func strp(s string) *string { return &s }

// ---- fake client ----

// fakeClient is an in-memory remote directory. Like the real one it never
// remembers updates or deletions.
type fakeClient struct {
	mu sync.Mutex

	pages      [][]models.User
	totalPages int // 0 means len(pages)

	pageErr map[int]error
	// hold blocks a fetch of the page until the channel is closed or the
	// request context ends.
	hold map[int]chan struct{}
	// entered, when set, receives the page number of every fetch that starts.
	entered chan int

	updateErr error
	deleteErr error
	loginErr  error
	token     string

	fetches     []int
	inflight    int
	maxInflight int
	updated     map[int]models.UserFields
	deleted     []int
	logins      []string
}

var _ client.Client = (*fakeClient)(nil)

func newFakeClient(pages [][]models.User) *fakeClient {
	return &fakeClient{
		pages:   pages,
		pageErr: map[int]error{},
		hold:    map[int]chan struct{}{},
		updated: map[int]models.UserFields{},
		token:   "QpwL5tke4Pnpja7X4",
	}
}

func (f *fakeClient) FetchPage(ctx context.Context, page int) (*models.Page, error) {
	f.mu.Lock()
	f.fetches = append(f.fetches, page)
	f.inflight++
	f.maxInflight = max(f.maxInflight, f.inflight)
	hold := f.hold[page]
	entered := f.entered
	err := f.pageErr[page]
	total := f.totalPages
	if total == 0 {
		total = len(f.pages)
	}
	var items []models.User
	if page >= 1 && page <= len(f.pages) {
		items = append(items, f.pages[page-1]...)
	}
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.inflight--
		f.mu.Unlock()
	}()

	if entered != nil {
		entered <- page
	}
	if hold != nil {
		select {
		case <-hold:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.User{}
	}
	return &models.Page{Items: items, TotalPages: total}, nil
}

func (f *fakeClient) UpdateUser(_ context.Context, id int, fields models.UserFields) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updated[id] = fields
	return nil
}

func (f *fakeClient) DeleteUser(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeClient) Login(_ context.Context, email, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logins = append(f.logins, email)
	if f.loginErr != nil {
		return "", f.loginErr
	}
	return f.token, nil
}

func (f *fakeClient) setHold(page int) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{})
	f.hold[page] = ch
	return ch
}

func (f *fakeClient) setPageErr(page int, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pageErr[page] = err
}

func (f *fakeClient) resetFetches() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches = nil
	f.maxInflight = 0
}

func (f *fakeClient) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.fetches)
}

func (f *fakeClient) peakInflight() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.maxInflight
}
