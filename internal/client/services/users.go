package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/userdesk/internal/client/client"
	"github.com/dmitrijs2005/userdesk/internal/client/models"
	"github.com/dmitrijs2005/userdesk/internal/common"
	"github.com/dmitrijs2005/userdesk/internal/logging"
	"github.com/google/uuid"
)

// ViewMode selects how the user list is produced. The two modes are
// mutually exclusive: a non-empty search term means search mode.
type ViewMode string

const (
	ModeBrowse ViewMode = "browse"
	ModeSearch ViewMode = "search"
)

// View is what the UI renders. Window is set in browse mode, Term in search
// mode.
type View struct {
	Mode   ViewMode
	Users  []models.User
	Window models.PageWindow
	Term   string
}

// ViewState is the last successfully rendered position.
type ViewState struct {
	Mode        ViewMode
	CurrentPage int
	TotalPages  int
	Term        string
}

// UserService drives the user list and the two mutation handlers.
//
// Contract:
//   - Browse / Search / Refresh fetch a fresh view. Each fetch cancels the
//     one in flight before it; a fetch that completes after a newer one
//     started returns common.ErrSuperseded and leaves the state alone.
//   - Edit / Delete call the remote directory first and only on success
//     record the change in the overlay, then refresh the active mode. A
//     refresh failure after a successful mutation wraps common.ErrRefresh.
//   - Failed fetches and failed remote mutations leave state unchanged.
type UserService interface {
	Browse(ctx context.Context, page int) (*View, error)
	Search(ctx context.Context, term string) (*View, error)
	Refresh(ctx context.Context) (*View, error)
	Edit(ctx context.Context, id int, fields models.UserFields) (*View, error)
	Delete(ctx context.Context, id int) (*View, error)
	State() ViewState
	Reset()
}

type userService struct {
	client   client.Client
	overlay  OverlayStore
	pager    *Pager
	searcher *Searcher
	log      logging.Logger

	mu     sync.Mutex
	state  ViewState
	token  uint64
	cancel context.CancelFunc
}

func NewUserService(c client.Client, overlay OverlayStore, pager *Pager, searcher *Searcher, log logging.Logger) UserService {
	return &userService{
		client:   c,
		overlay:  overlay,
		pager:    pager,
		searcher: searcher,
		log:      log,
		state:    initialState(),
	}
}

func initialState() ViewState {
	return ViewState{Mode: ModeBrowse, CurrentPage: 1, TotalPages: 1}
}

func (s *userService) Browse(ctx context.Context, page int) (*View, error) {
	if page < 1 {
		return nil, common.ErrInvalidPage
	}
	return s.run(ctx, ModeBrowse, page, "")
}

// Search switches to search mode for any non-empty term, matched as given.
// An empty term returns to browse mode at the last browsed page.
func (s *userService) Search(ctx context.Context, term string) (*View, error) {
	if term == "" {
		return s.run(ctx, ModeBrowse, s.State().CurrentPage, "")
	}
	return s.run(ctx, ModeSearch, 0, term)
}

func (s *userService) Refresh(ctx context.Context) (*View, error) {
	st := s.State()
	if st.Mode == ModeSearch {
		return s.run(ctx, ModeSearch, 0, st.Term)
	}
	return s.run(ctx, ModeBrowse, st.CurrentPage, "")
}

func (s *userService) Edit(ctx context.Context, id int, fields models.UserFields) (*View, error) {
	if id < 1 {
		return nil, common.ErrInvalidID
	}
	if err := s.client.UpdateUser(ctx, id, fields); err != nil {
		return nil, err
	}
	if err := s.overlay.RecordEdit(ctx, id, fields.Patch()); err != nil {
		return nil, err
	}
	s.log.Info(ctx, "user updated", "id", id)
	return s.refreshAfterMutation(ctx)
}

// Delete removes id remotely and tombstones it locally. The remote call is
// issued even for ids already tombstoned; its failure never undoes an
// earlier local deletion.
func (s *userService) Delete(ctx context.Context, id int) (*View, error) {
	if id < 1 {
		return nil, common.ErrInvalidID
	}
	if err := s.client.DeleteUser(ctx, id); err != nil {
		return nil, err
	}
	if err := s.overlay.RecordDeletion(ctx, id); err != nil {
		return nil, err
	}
	s.log.Info(ctx, "user deleted", "id", id)
	return s.refreshAfterMutation(ctx)
}

func (s *userService) refreshAfterMutation(ctx context.Context) (*View, error) {
	view, err := s.Refresh(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrRefresh, err)
	}
	return view, nil
}

func (s *userService) State() ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Reset cancels any fetch in flight and returns to browse page 1.
func (s *userService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.token++
	s.state = initialState()
}

// run performs one view fetch under a fresh request token.
func (s *userService) run(ctx context.Context, mode ViewMode, page int, term string) (*View, error) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.token++
	token := s.token
	s.cancel = cancel
	s.mu.Unlock()

	log := s.log.With("request_id", uuid.NewString(), "mode", string(mode))

	view, err := s.fetch(runCtx, mode, page, term)

	s.mu.Lock()
	defer s.mu.Unlock()

	if token != s.token {
		log.Debug(ctx, "discarding superseded result", "token", token, "latest", s.token)
		return nil, common.ErrSuperseded
	}
	s.cancel = nil

	if err != nil {
		if !errors.Is(err, context.Canceled) {
			log.Warn(ctx, "view fetch failed", "error", err)
		}
		return nil, err
	}

	s.state = ViewState{Mode: mode, Term: term, CurrentPage: s.state.CurrentPage, TotalPages: s.state.TotalPages}
	if mode == ModeBrowse {
		s.state.CurrentPage = view.Window.CurrentPage
		s.state.TotalPages = view.Window.TotalPages
	}
	log.Debug(ctx, "view updated", "users", len(view.Users))
	return view, nil
}

func (s *userService) fetch(ctx context.Context, mode ViewMode, page int, term string) (*View, error) {
	if mode == ModeSearch {
		users, err := s.searcher.Search(ctx, term)
		if err != nil {
			return nil, err
		}
		return &View{Mode: ModeSearch, Users: users, Term: term}, nil
	}

	res, err := s.pager.Page(ctx, page)
	if err != nil {
		return nil, err
	}
	return &View{Mode: ModeBrowse, Users: res.Users, Window: res.Window}, nil
}
