package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcoot/gomokuclient-go/internal/credentials/file"
	"github.com/mcoot/gomokuclient-go/internal/model"
)

func newLoginCmd() *cobra.Command {
	var user, pass string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Drop any stale token so the open handshake does not race
			// the explicit login.
			if err := file.New(cfg.TokenFile).Clear(); err != nil {
				return err
			}

			sess, err := dial(cfg, newTerminalNotifier())
			if err != nil {
				return err
			}
			defer func() { _ = sess.Close() }()

			if err := sess.AwaitOpen(defaultTimeout); err != nil {
				return err
			}
			if err := sess.Client.Login(user, pass); err != nil {
				return err
			}
			event, err := sess.Await(defaultTimeout, model.EventSessionEstablished)
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}

			payload := event.Payload.(model.SessionEstablishedPayload)
			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Logged in as %s", payload.UserID))
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "Username (required)")
	cmd.Flags().StringVar(&pass, "pass", "", "Password (required)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("pass")

	return cmd
}

func newRegisterCmd() *cobra.Command {
	var user, pass string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new account",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := dial(cfg, newTerminalNotifier())
			if err != nil {
				return err
			}
			defer func() { _ = sess.Close() }()

			if err := sess.AwaitOpen(defaultTimeout); err != nil {
				return err
			}
			if err := sess.Client.Register(user, pass); err != nil {
				return err
			}
			if _, err := sess.Await(defaultTimeout, model.EventRegistered); err != nil {
				return fmt.Errorf("registration failed: %w", err)
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Registered %s; log in to play", user))
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "Username (required)")
	cmd.Flags().StringVar(&pass, "pass", "", "Password (required)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("pass")

	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Discard the stored session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := file.New(cfg.TokenFile).Clear(); err != nil {
				return err
			}
			NewOutput(cfg.Output).PrintMessage("Logged out")
			return nil
		},
	}
}
