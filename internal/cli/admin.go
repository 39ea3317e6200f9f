package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/smartfarm/internal/domain"
	"github.com/roach88/smartfarm/internal/navigation"
)

// CropLister is the source of crops for moderation views. The API has no
// all-crops endpoint yet, so the wiring passes the signed-in account's own
// listings.
type CropLister interface {
	GetMyCrops(ctx context.Context) ([]domain.Crop, error)
}

// cropSource names where CropLister results come from in JSON output.
const cropSource = "crops/my"

const cropSourceNote = "note: crop counts cover only crops listed by your own account"

func newAdminCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage users, roles, and crop approvals",
	}
	cmd.AddCommand(newAdminUsersCommand(rt))
	cmd.AddCommand(newAdminDeleteUserCommand(rt))
	cmd.AddCommand(newAdminUpdateRoleCommand(rt))
	cmd.AddCommand(newAdminApproveCropCommand(rt))
	cmd.AddCommand(newAdminPendingCropsCommand(rt))
	cmd.AddCommand(newAdminDashboardCommand(rt))
	return cmd
}

func newAdminUsersCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List all users",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := rt.screen(ctx, navigation.ScreenUserManagement)
			if err != nil {
				return err
			}
			users, err := a.Users.GetAllUsers(ctx)
			if err != nil {
				return WrapExitError(ExitFailure, "Could not load users", err)
			}
			return rt.out.Render(users, func(w io.Writer) error {
				return writeUsers(w, users)
			})
		},
	}
}

func newAdminDeleteUserCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-user <id>",
		Short: "Delete a user account",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := parseID(args[0], "user")
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			a, err := rt.screen(ctx, navigation.ScreenUserManagement)
			if err != nil {
				return err
			}
			resp, err := a.Users.DeleteUser(ctx, userID)
			if err != nil {
				return WrapExitError(ExitFailure, "Could not delete the user", err)
			}
			return rt.printMessage(serverMessage(resp, fmt.Sprintf("User %d deleted", userID)))
		},
	}
}

// parseRoleList turns a comma-separated list typed by an admin into the
// wire form. Tokens are case-insensitive; unknown tokens are rejected.
func parseRoleList(s string) (string, error) {
	var roles []domain.Role
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		r, ok := domain.ParseRole(strings.ToUpper(tok))
		if !ok {
			return "", NewExitError(ExitCommandError, fmt.Sprintf("unknown role %q", tok))
		}
		roles = append(roles, r)
	}
	return domain.NewRoleSet(roles...).String(), nil
}

func newAdminUpdateRoleCommand(rt *runtime) *cobra.Command {
	var mobile, roles string

	cmd := &cobra.Command{
		Use:   "update-role",
		Short: "Replace the roles of the user with a mobile number",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			wire, err := parseRoleList(roles)
			if err != nil {
				return err
			}
			req := domain.RoleUpdateRequest{MobileNumber: mobile, Roles: wire}
			if err := domain.Validate(req); err != nil {
				return err
			}

			ctx := cmd.Context()
			a, err := rt.screen(ctx, navigation.ScreenUpdateRole)
			if err != nil {
				return err
			}
			resp, err := a.Admin.UpdateRole(ctx, req)
			if err != nil {
				return WrapExitError(ExitFailure, "Could not update roles", err)
			}
			return rt.printMessage(serverMessage(resp, fmt.Sprintf("Roles of %s set to %s", mobile, wire)))
		},
	}

	cmd.Flags().StringVarP(&mobile, "mobile", "m", "", "mobile number of the user")
	cmd.Flags().StringVar(&roles, "roles", "", "comma-separated roles: FARMER, BUYER, ADMIN, SUPERADMIN")

	return cmd
}

func newAdminApproveCropCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "approve-crop <id>",
		Short: "Approve a pending crop so it appears in the marketplace",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cropID, err := parseID(args[0], "crop")
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			a, err := rt.screen(ctx, navigation.ScreenPendingCrops)
			if err != nil {
				return err
			}
			resp, err := a.Admin.ApproveCrop(ctx, cropID)
			if err != nil {
				return WrapExitError(ExitFailure, "Could not approve the crop", err)
			}
			return rt.printMessage(serverMessage(resp, fmt.Sprintf("Crop %d approved", cropID)))
		},
	}
}

type pendingView struct {
	Source string        `json:"source"`
	Crops  []domain.Crop `json:"crops"`
}

func newAdminPendingCropsCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "pending-crops",
		Short: "List crops awaiting approval",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := rt.screen(ctx, navigation.ScreenPendingCrops)
			if err != nil {
				return err
			}
			crops, err := listCrops(ctx, a.Crops)
			if err != nil {
				return WrapExitError(ExitFailure, "Could not load crops", err)
			}

			v := pendingView{Source: cropSource, Crops: domain.FilterCrops(crops, domain.CropPending)}
			if v.Crops == nil {
				v.Crops = []domain.Crop{}
			}
			rt.out.Notice(cropSourceNote)
			return rt.out.Render(v, func(w io.Writer) error {
				return writeCrops(w, v.Crops, "No crops awaiting approval")
			})
		},
	}
}

type dashboardView struct {
	Users        int    `json:"users"`
	Crops        int    `json:"crops"`
	PendingCrops int    `json:"pendingCrops"`
	CropSource   string `json:"cropSource"`
}

func newAdminDashboardCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show user and crop counts",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := rt.screen(ctx, navigation.ScreenAdminDashboard)
			if err != nil {
				return err
			}
			users, err := a.Users.GetAllUsers(ctx)
			if err != nil {
				return WrapExitError(ExitFailure, "Could not load users", err)
			}
			crops, err := listCrops(ctx, a.Crops)
			if err != nil {
				return WrapExitError(ExitFailure, "Could not load crops", err)
			}

			v := dashboardView{
				Users:        len(users),
				Crops:        len(crops),
				PendingCrops: len(domain.FilterCrops(crops, domain.CropPending)),
				CropSource:   cropSource,
			}
			rt.out.Notice(cropSourceNote)
			return rt.out.Render(v, func(w io.Writer) error {
				fmt.Fprintf(w, "Users:         %d\n", v.Users)
				fmt.Fprintf(w, "Crops:         %d\n", v.Crops)
				_, err := fmt.Fprintf(w, "Pending crops: %d\n", v.PendingCrops)
				return err
			})
		},
	}
}

func listCrops(ctx context.Context, src CropLister) ([]domain.Crop, error) {
	return src.GetMyCrops(ctx)
}
