package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcoot/gomokuclient-go/internal/model"
)

func newRoomCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "room",
		Short: "Room directory commands",
	}

	cmd.AddCommand(newRoomListCmd())

	return cmd
}

func newRoomListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List open rooms",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := dial(cfg, newTerminalNotifier())
			if err != nil {
				return err
			}
			defer func() { _ = sess.Close() }()

			if err := sess.AwaitOpen(defaultTimeout); err != nil {
				return err
			}
			if err := sess.AwaitLogin(defaultTimeout); err != nil {
				return err
			}

			// The post-login refresh already requested the room list.
			if _, err := sess.Await(defaultTimeout, model.EventDirectoryUpdated); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(sess.Client.Directory())
			return nil
		},
	}
}

func newLeaderboardCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the win-count ranking",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := dial(cfg, newTerminalNotifier())
			if err != nil {
				return err
			}
			defer func() { _ = sess.Close() }()

			if err := sess.AwaitOpen(defaultTimeout); err != nil {
				return err
			}
			if err := sess.AwaitLogin(defaultTimeout); err != nil {
				return err
			}

			sess.Client.RequestLeaderboard(limit)
			if _, err := sess.Await(defaultTimeout, model.EventLeaderboardUpdated); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(LeaderboardView{Ranks: sess.Client.Leaderboard()})
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Number of entries to fetch")

	return cmd
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show your win/loss record",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := dial(cfg, newTerminalNotifier())
			if err != nil {
				return err
			}
			defer func() { _ = sess.Close() }()

			if err := sess.AwaitOpen(defaultTimeout); err != nil {
				return err
			}
			if err := sess.AwaitLogin(defaultTimeout); err != nil {
				return err
			}

			if _, err := sess.Await(defaultTimeout, model.EventStatsUpdated); err != nil {
				return err
			}

			stats := sess.Client.Stats()
			if stats == nil {
				return fmt.Errorf("no stats available")
			}
			NewOutput(cfg.Output).Print(*stats)
			return nil
		},
	}
}
