package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/roach88/smartfarm/internal/app"
	"github.com/roach88/smartfarm/internal/domain"
	"github.com/roach88/smartfarm/internal/navigation"
)

// screen rehydrates the session and checks that s is reachable from one of
// the navigators the user can land on.
func (rt *runtime) screen(ctx context.Context, s navigation.Screen) (*app.App, error) {
	a, err := rt.session(ctx)
	if err != nil {
		return nil, err
	}
	if !a.Session.Snapshot().IsAuthenticated() {
		return nil, notSignedIn()
	}
	if !reachable(rt.router.Target(), s) {
		return nil, NewExitError(ExitFailure, fmt.Sprintf("%s is not available to your role", s))
	}
	return a, nil
}

func reachable(t navigation.Target, s navigation.Screen) bool {
	if t.Kind == navigation.KindNavigator {
		return navigation.HasScreen(t.Navigator, s)
	}
	for _, o := range t.Options {
		if navigation.HasScreen(o.Navigator, s) {
			return true
		}
	}
	return false
}

type optionView struct {
	Role        string `json:"role"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Navigator   string `json:"navigator"`
}

// homeView is the JSON form of a landing target.
type homeView struct {
	Phase     string       `json:"phase"`
	User      *domain.User `json:"user,omitempty"`
	Navigator string       `json:"navigator,omitempty"`
	Screens   []string     `json:"screens,omitempty"`
	Options   []optionView `json:"options,omitempty"`
}

func newHomeView(phase navigation.Phase, user *domain.User, t navigation.Target) homeView {
	v := homeView{Phase: phase.String(), User: user}
	if t.Kind == navigation.KindNavigator {
		v.Navigator = t.Navigator.String()
		v.Screens = screenNames(t.Navigator)
		return v
	}
	v.Options = make([]optionView, 0, len(t.Options))
	for _, o := range t.Options {
		v.Options = append(v.Options, optionView{
			Role:        o.Role.String(),
			Title:       o.Title,
			Description: o.Description,
			Navigator:   o.Navigator.String(),
		})
	}
	return v
}

func screenNames(n navigation.Navigator) []string {
	screens := navigation.Screens(n)
	out := make([]string, len(screens))
	for i, s := range screens {
		out[i] = string(s)
	}
	return out
}

func writeHome(w io.Writer, v homeView) error {
	if v.User == nil {
		fmt.Fprintln(w, "Not signed in")
	} else {
		fmt.Fprintf(w, "Signed in as %s (%s)\n", v.User.Name, strings.Join(domain.ParseRoles(v.User.Roles), ","))
	}

	if v.Navigator != "" {
		return writeScreens(w, v.Navigator, v.Screens)
	}

	if len(v.Options) == 0 {
		fmt.Fprintln(w, "None of your roles is recognised. Contact an administrator.")
		return nil
	}
	fmt.Fprintln(w, "Select your role:")
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	for _, o := range v.Options {
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", o.Role, o.Title, o.Description)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "Run `smartfarm use <role>` to continue.")
	return err
}

func writeScreens(w io.Writer, navigator string, screens []string) error {
	fmt.Fprintf(w, "Navigator: %s\n", navigator)
	fmt.Fprintln(w, "Screens:")
	for _, s := range screens {
		fmt.Fprintf(w, "  %s\n", s)
	}
	return nil
}
