package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dmitrijs2005/userdesk/internal/client/models"
	"github.com/dmitrijs2005/userdesk/internal/client/services"
	"github.com/dmitrijs2005/userdesk/internal/common"
)

func avatarURL(u models.User) string {
	if u.Avatar == "" {
		return common.AvatarPlaceholderURL
	}
	return u.Avatar
}

// renderView prints the users of view as a table followed by a footer with
// the page position or the search summary.
func renderView(w io.Writer, view *services.View) {
	if len(view.Users) == 0 {
		fmt.Fprintln(w, "No users found")
	} else {
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tAVATAR")
		for _, u := range view.Users {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", u.ID, u.FullName(), u.Email, avatarURL(u))
		}
		_ = tw.Flush()
	}

	switch view.Mode {
	case services.ModeSearch:
		fmt.Fprintf(w, "%d match(es) for %q\n", len(view.Users), view.Term)
	default:
		fmt.Fprintf(w, "Page %d of %d\n", view.Window.CurrentPage, view.Window.TotalPages)
	}
}
