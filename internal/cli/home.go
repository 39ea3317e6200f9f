package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/smartfarm/internal/domain"
	"github.com/roach88/smartfarm/internal/errors"
	"github.com/roach88/smartfarm/internal/navigation"
)

func newHomeCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "home",
		Short: "Show where you land: your navigator, or the roles to choose from",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.session(cmd.Context())
			if err != nil {
				return err
			}
			return rt.printHome(a.Session.Snapshot().User)
		},
	}
}

type useView struct {
	Role      string   `json:"role"`
	Navigator string   `json:"navigator"`
	Screens   []string `json:"screens"`
}

func newUseCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "use <role>",
		Short: "Choose one of your roles and show its screens",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			role, ok := domain.ParseRole(strings.ToUpper(args[0]))
			if !ok {
				return NewExitError(ExitCommandError, fmt.Sprintf("unknown role %q", args[0]))
			}

			a, err := rt.session(cmd.Context())
			if err != nil {
				return err
			}
			if !a.Session.Snapshot().IsAuthenticated() {
				return notSignedIn()
			}

			nav, err := rt.router.Choose(role)
			switch {
			case errors.Is(err, navigation.ErrNotSelecting):
				return WrapExitError(ExitFailure, "You hold a single role. Run `smartfarm home` to see your screens.", err)
			case errors.Is(err, navigation.ErrRoleNotHeld):
				return WrapExitError(ExitFailure, fmt.Sprintf("You do not hold the %s role", role), err)
			case err != nil:
				return err
			}

			v := useView{Role: role.String(), Navigator: nav.String(), Screens: screenNames(nav)}
			return rt.out.Render(v, func(w io.Writer) error {
				return writeScreens(w, v.Navigator, v.Screens)
			})
		},
	}
}
