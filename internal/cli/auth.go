package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"

	"github.com/roach88/smartfarm/internal/domain"
	"github.com/roach88/smartfarm/internal/format"
)

// serverMessage returns the "message" field of a JSON response, or fallback.
func serverMessage(raw json.RawMessage, fallback string) string {
	var body struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &body) == nil && body.Message != "" {
		return body.Message
	}
	return fallback
}

type messageView struct {
	Message string `json:"message"`
}

func (rt *runtime) printMessage(msg string) error {
	return rt.out.Render(messageView{Message: msg}, func(w io.Writer) error {
		_, err := fmt.Fprintln(w, msg)
		return err
	})
}

func (rt *runtime) printHome(user *domain.User) error {
	v := newHomeView(rt.router.Phase(), user, rt.router.Target())
	return rt.out.Render(v, func(w io.Writer) error {
		return writeHome(w, v)
	})
}

func newLoginCommand(rt *runtime) *cobra.Command {
	var req domain.LoginRequest

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with mobile number and password",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := domain.Validate(req); err != nil {
				return err
			}
			ctx := cmd.Context()
			a, err := rt.session(ctx)
			if err != nil {
				return err
			}
			if err := a.Session.Login(ctx, req); err != nil {
				return WrapExitError(ExitFailure, "Login failed. Please try again.", err)
			}

			state := a.Session.Snapshot()
			rt.router.Sync(state)
			rt.out.VerboseLog("signed in as user %d", state.User.ID)
			return rt.printHome(state.User)
		},
	}

	cmd.Flags().StringVarP(&req.MobileNumber, "mobile", "m", "", "10-digit mobile number")
	cmd.Flags().StringVarP(&req.Password, "password", "p", "", "password")

	return cmd
}

func newSignupCommand(rt *runtime) *cobra.Command {
	var form domain.SignupForm

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and sign in",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := domain.Validate(form); err != nil {
				return err
			}
			ctx := cmd.Context()
			a, err := rt.session(ctx)
			if err != nil {
				return err
			}
			if err := a.Session.Signup(ctx, form); err != nil {
				return WrapExitError(ExitFailure, "Signup failed. Please try again.", err)
			}

			state := a.Session.Snapshot()
			rt.router.Sync(state)
			return rt.printHome(state.User)
		},
	}

	cmd.Flags().StringVar(&form.Name, "name", "", "full name")
	cmd.Flags().StringVarP(&form.MobileNumber, "mobile", "m", "", "10-digit mobile number")
	cmd.Flags().StringVar(&form.Email, "email", "", "email address")
	cmd.Flags().StringVarP(&form.Password, "password", "p", "", "password, at least 6 characters")
	cmd.Flags().StringVar(&form.ConfirmPassword, "confirm-password", "", "repeat the password")

	return cmd
}

func newLogoutCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and clear the stored session",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := rt.session(ctx)
			if err != nil {
				return err
			}
			if err := a.Session.Logout(ctx); err != nil {
				return WrapExitError(ExitFailure, "Could not clear the stored session", err)
			}
			return rt.printMessage("Signed out")
		},
	}
}

type whoamiView struct {
	User           *domain.User `json:"user"`
	Roles          []string     `json:"roles"`
	TokenExpiresAt *time.Time   `json:"tokenExpiresAt,omitempty"`
}

// tokenExpiry reads the exp claim without verifying the signature; the
// client never holds the signing key.
func tokenExpiry(token string) *time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil
	}
	t := exp.Time
	return &t
}

func newWhoamiCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.session(cmd.Context())
			if err != nil {
				return err
			}
			state := a.Session.Snapshot()
			if !state.IsAuthenticated() {
				return notSignedIn()
			}

			v := whoamiView{
				User:           state.User,
				Roles:          domain.ParseRoles(state.User.Roles),
				TokenExpiresAt: tokenExpiry(state.Token),
			}
			return rt.out.Render(v, func(w io.Writer) error {
				fmt.Fprintf(w, "Name:    %s\n", v.User.Name)
				fmt.Fprintf(w, "Mobile:  %s\n", v.User.MobileNumber)
				fmt.Fprintf(w, "Email:   %s\n", v.User.Email)
				fmt.Fprintf(w, "Roles:   %s\n", strings.Join(v.Roles, ", "))
				if v.TokenExpiresAt != nil {
					fmt.Fprintf(w, "Session: expires %s\n", format.DateTime(v.TokenExpiresAt.Format(time.RFC3339)))
				}
				return nil
			})
		},
	}
}

func newForgotPasswordCommand(rt *runtime) *cobra.Command {
	var req domain.PasswordResetRequest

	cmd := &cobra.Command{
		Use:   "forgot-password",
		Short: "Request a password reset token",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := domain.Validate(req); err != nil {
				return err
			}
			ctx := cmd.Context()
			a, err := rt.client(ctx)
			if err != nil {
				return err
			}
			resp, err := a.Auth.RequestPasswordReset(ctx, req.MobileNumber)
			if err != nil {
				return WrapExitError(ExitFailure, "Could not request a password reset", err)
			}
			return rt.printMessage(serverMessage(resp, "Password reset requested"))
		},
	}

	cmd.Flags().StringVarP(&req.MobileNumber, "mobile", "m", "", "10-digit mobile number")

	return cmd
}

func newResetPasswordCommand(rt *runtime) *cobra.Command {
	var req domain.ResetPasswordRequest

	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Set a new password with a reset token",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := domain.Validate(req); err != nil {
				return err
			}
			ctx := cmd.Context()
			a, err := rt.client(ctx)
			if err != nil {
				return err
			}
			resp, err := a.Auth.ResetPassword(ctx, req.Token, req.NewPassword)
			if err != nil {
				return WrapExitError(ExitFailure, "Could not reset the password", err)
			}
			return rt.printMessage(serverMessage(resp, "Password updated. Sign in with the new password."))
		},
	}

	cmd.Flags().StringVar(&req.Token, "token", "", "reset token")
	cmd.Flags().StringVarP(&req.NewPassword, "password", "p", "", "new password, at least 6 characters")

	return cmd
}
