package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/smartfarm/internal/domain"
	"github.com/roach88/smartfarm/internal/navigation"
)

func writeUser(w io.Writer, u *domain.User) error {
	fmt.Fprintf(w, "Name:    %s\n", u.Name)
	fmt.Fprintf(w, "Mobile:  %s\n", u.MobileNumber)
	fmt.Fprintf(w, "Email:   %s\n", u.Email)
	_, err := fmt.Fprintf(w, "Roles:   %s\n", strings.Join(domain.ParseRoles(u.Roles), ", "))
	return err
}

func newProfileCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "View or edit your account",
	}
	cmd.AddCommand(newProfileShowCommand(rt))
	cmd.AddCommand(newProfileEditCommand(rt))
	return cmd
}

func newProfileShowCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show your account details",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.screen(cmd.Context(), navigation.ScreenProfile)
			if err != nil {
				return err
			}
			user := a.Session.Snapshot().User
			return rt.out.Render(user, func(w io.Writer) error {
				return writeUser(w, user)
			})
		},
	}
}

func newProfileEditCommand(rt *runtime) *cobra.Command {
	var name, mobile string

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Change your name or mobile number",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := rt.screen(ctx, navigation.ScreenEditProfile)
			if err != nil {
				return err
			}

			// Fields left unset keep their current values.
			current := a.Session.Snapshot().User
			req := domain.UserEditRequest{Name: current.Name, MobileNumber: current.MobileNumber}
			if cmd.Flags().Changed("name") {
				req.Name = name
			}
			if cmd.Flags().Changed("mobile") {
				req.MobileNumber = mobile
			}
			if err := domain.Validate(req); err != nil {
				return err
			}

			resp, err := a.Users.EditUser(ctx, req)
			if err != nil {
				return WrapExitError(ExitFailure, "Could not update your profile", err)
			}
			if err := a.Session.RefreshUser(ctx); err != nil {
				rt.out.Notice("warning: profile saved but could not be reloaded: %v", err)
			}

			user := a.Session.Snapshot().User
			msg := serverMessage(resp, "Profile updated")
			return rt.out.Render(user, func(w io.Writer) error {
				fmt.Fprintln(w, msg)
				return writeUser(w, user)
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVarP(&mobile, "mobile", "m", "", "new 10-digit mobile number")

	return cmd
}

func writeFarmerProfile(w io.Writer, p *domain.FarmerProfile) error {
	fmt.Fprintf(w, "Address:   %s\n", p.Address)
	fmt.Fprintf(w, "District:  %s\n", p.District)
	fmt.Fprintf(w, "State:     %s\n", p.State)
	fmt.Fprintf(w, "Land size: %g acres\n", p.LandSize)
	_, err := fmt.Fprintf(w, "Soil type: %s\n", p.SoilType)
	return err
}

func newFarmerProfileCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "farmer-profile",
		Short: "View or save your farm details",
	}

	get := &cobra.Command{
		Use:   "get",
		Short: "Show your farm details",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := rt.screen(ctx, navigation.ScreenFarmerProfileSetup)
			if err != nil {
				return err
			}
			p, err := a.Farmers.GetFarmerProfile(ctx)
			if err != nil {
				return WrapExitError(ExitFailure, "Could not load your farmer profile", err)
			}
			return rt.out.Render(p, func(w io.Writer) error {
				return writeFarmerProfile(w, p)
			})
		},
	}

	var req domain.FarmerProfileRequest
	save := &cobra.Command{
		Use:   "save",
		Short: "Create or update your farm details",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := domain.Validate(req); err != nil {
				return err
			}
			ctx := cmd.Context()
			a, err := rt.screen(ctx, navigation.ScreenFarmerProfileSetup)
			if err != nil {
				return err
			}
			p, err := a.Farmers.SaveFarmerProfile(ctx, req)
			if err != nil {
				return WrapExitError(ExitFailure, "Could not save your farmer profile", err)
			}
			return rt.out.Render(p, func(w io.Writer) error {
				fmt.Fprintln(w, "Farmer profile saved")
				return writeFarmerProfile(w, p)
			})
		},
	}
	save.Flags().StringVar(&req.Address, "address", "", "farm address")
	save.Flags().StringVar(&req.District, "district", "", "district")
	save.Flags().StringVar(&req.State, "state", "", "state, e.g. Maharashtra")
	save.Flags().Float64Var(&req.LandSize, "land-size", 0, "land size in acres")
	save.Flags().StringVar(&req.SoilType, "soil-type", "", "Sandy, Loamy, Clay, Silt, Peat or Chalky")

	cmd.AddCommand(get, save)
	return cmd
}

func newBuyerProfileCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "buyer-profile",
		Short: "View or save your delivery details",
	}

	get := &cobra.Command{
		Use:   "get",
		Short: "Show your delivery details",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := rt.screen(ctx, navigation.ScreenBuyerProfileSetup)
			if err != nil {
				return err
			}
			p, err := a.Buyers.GetBuyerProfile(ctx)
			if err != nil {
				return WrapExitError(ExitFailure, "Could not load your buyer profile", err)
			}
			return rt.out.Render(p, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Address: %s\n", p.Address)
				return err
			})
		},
	}

	var req domain.BuyerProfileRequest
	save := &cobra.Command{
		Use:   "save",
		Short: "Create or update your delivery details",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := domain.Validate(req); err != nil {
				return err
			}
			ctx := cmd.Context()
			a, err := rt.screen(ctx, navigation.ScreenBuyerProfileSetup)
			if err != nil {
				return err
			}
			p, err := a.Buyers.SaveBuyerProfile(ctx, req)
			if err != nil {
				return WrapExitError(ExitFailure, "Could not save your buyer profile", err)
			}
			return rt.out.Render(p, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Buyer profile saved\nAddress: %s\n", p.Address)
				return err
			})
		},
	}
	save.Flags().StringVar(&req.Address, "address", "", "delivery address")

	cmd.AddCommand(get, save)
	return cmd
}
