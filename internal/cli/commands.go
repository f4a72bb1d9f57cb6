package cli

import (
	"context"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newLoginCmd(r *run) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Sign in with Google",
		Args:  cobra.NoArgs,
		RunE: r.wrap(func(ctx context.Context, _ []string) error {
			if user := r.bridge.CurrentUser(); user != nil {
				fmt.Fprintln(r.out, pterm.Info.Sprintf("Sudah login sebagai %s", user.Email))
				return nil
			}

			ctx, cancel := context.WithTimeout(ctx, signInTimeout)
			defer cancel()

			if r.bridge.SignInWithGoogle(ctx) == nil {
				return ErrNotSignedIn
			}
			r.view.Show()
			return nil
		}),
	}
}

func newLogoutCmd(r *run) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out of Google and end the backend session",
		Args:  cobra.NoArgs,
		RunE: r.wrap(func(ctx context.Context, _ []string) error {
			if err := r.bridge.SignOut(ctx); err != nil {
				fmt.Fprintln(r.out, pterm.Error.Sprint("Logout gagal"))
				return err
			}
			return nil
		}),
	}
}

func newStatusCmd(r *run) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the signed-in account",
		Args:  cobra.NoArgs,
		RunE: r.wrap(func(ctx context.Context, _ []string) error {
			r.view.Show()
			return nil
		}),
	}
}

func newBookCmd(r *run) *cobra.Command {
	return &cobra.Command{
		Use:   "book <package-id>",
		Short: "Check you are signed in to book a tour package; asks you to sign in first when needed",
		Args:  cobra.ExactArgs(1),
		RunE: r.wrap(func(ctx context.Context, args []string) error {
			ctx, cancel := context.WithTimeout(ctx, signInTimeout)
			defer cancel()

			packageID := args[0]
			booked := false
			r.bridge.RequireAuth(ctx, func() {
				booked = true
				user := r.bridge.CurrentUser()
				fmt.Fprintln(r.out, pterm.Success.Sprintf("Login sebagai %s, paket %s siap dibooking", user.Email, packageID))
			})
			if !booked {
				return ErrNotSignedIn
			}
			return nil
		}),
	}
}
