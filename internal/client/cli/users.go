package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/userdesk/internal/client/models"
	"github.com/dmitrijs2005/userdesk/internal/client/services"
	"github.com/dmitrijs2005/userdesk/internal/common"
)

// List shows page in browse mode. page 0 means the current page.
func (a *App) List(ctx context.Context, page int) error {
	if page == 0 {
		page = a.userService.State().CurrentPage
	}
	view, err := a.userService.Browse(ctx, page)
	if err != nil {
		return err
	}
	a.show(view)
	return nil
}

func (a *App) Next(ctx context.Context) error {
	st := a.userService.State()
	if st.Mode == services.ModeSearch {
		printlnFn("Paging is off while searching, use 'clear' first")
		return nil
	}
	if st.CurrentPage >= st.TotalPages {
		printlnFn("Already on the last page")
		return nil
	}
	return a.List(ctx, st.CurrentPage+1)
}

func (a *App) Prev(ctx context.Context) error {
	st := a.userService.State()
	if st.Mode == services.ModeSearch {
		printlnFn("Paging is off while searching, use 'clear' first")
		return nil
	}
	if st.CurrentPage <= 1 {
		printlnFn("Already on the first page")
		return nil
	}
	return a.List(ctx, st.CurrentPage-1)
}

func (a *App) Search(ctx context.Context, term string) error {
	view, err := a.userService.Search(ctx, term)
	if err != nil {
		return err
	}
	a.show(view)
	return nil
}

// ClearSearch returns to browse mode at the page shown before the search.
func (a *App) ClearSearch(ctx context.Context) error {
	return a.Search(ctx, "")
}

func (a *App) Refresh(ctx context.Context) error {
	view, err := a.userService.Refresh(ctx)
	if err != nil {
		return err
	}
	a.show(view)
	return nil
}

// Edit prompts for new field values of a user in the current view. An
// empty answer keeps the shown value.
func (a *App) Edit(ctx context.Context, id int) error {
	u, ok := a.lookup(id)
	if !ok {
		return fmt.Errorf("user %d is not in the current view", id)
	}

	fmt.Fprintf(a.out, "Editing %s (%s)\n", u.FullName(), avatarURL(u))

	var fields models.UserFields
	var err error
	if fields.FirstName, err = GetTextWithDefault(a.reader, "First name", u.FirstName, a.out); err != nil {
		return err
	}
	if fields.LastName, err = GetTextWithDefault(a.reader, "Last name", u.LastName, a.out); err != nil {
		return err
	}
	if fields.Email, err = GetTextWithDefault(a.reader, "Email", u.Email, a.out); err != nil {
		return err
	}

	view, err := a.userService.Edit(ctx, id, fields)
	return a.afterMutation(view, err, "User updated successfully")
}

func (a *App) Delete(ctx context.Context, id int) error {
	view, err := a.userService.Delete(ctx, id)
	return a.afterMutation(view, err, "User deleted successfully")
}

func (a *App) afterMutation(view *services.View, err error, success string) error {
	if errors.Is(err, common.ErrRefresh) {
		printlnFn(success)
		return err
	}
	if err != nil {
		return err
	}
	printlnFn(success)
	a.show(view)
	return nil
}

func (a *App) lookup(id int) (models.User, bool) {
	if a.last == nil {
		return models.User{}, false
	}
	for _, u := range a.last.Users {
		if u.ID == id {
			return u, true
		}
	}
	return models.User{}, false
}

func (a *App) show(view *services.View) {
	a.last = view
	renderView(a.out, view)
}
