package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mcoot/gomokuclient-go/internal/model"
)

func newPlayCmd() *cobra.Command {
	var createName string
	var joinID int64

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a match interactively",
		Long: `play enters a room and runs an interactive match.

Moves are entered as "x y" coordinates. Other commands: board, forfeit,
leave, quit.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (createName == "") == (joinID == 0) {
				return fmt.Errorf("exactly one of --create or --join is required")
			}

			input := newPlayIO()
			sess, err := dial(cfg, input)
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

			if createName != "" {
				err = sess.Client.CreateRoom(createName)
			} else {
				err = sess.Client.JoinRoom(model.RoomID(joinID))
			}
			if err != nil {
				return err
			}
			if _, err := sess.Await(defaultTimeout, model.EventRoomEntered); err != nil {
				return err
			}

			fmt.Println("Entered room; waiting for opponent. Type 'quit' to leave.")
			input.start()
			return runMatch(sess, input)
		},
	}

	cmd.Flags().StringVar(&createName, "create", "", "Create a room with the given name")
	cmd.Flags().Int64Var(&joinID, "join", 0, "Join the room with the given id")

	return cmd
}

// runMatch drives the interactive loop until the user leaves or the
// match concludes
func runMatch(sess *Session, input *playIO) error {
	out := NewOutput(cfg.Output)

	for {
		select {
		case event := <-sess.events:
			done, err := handleMatchEvent(sess, out, event)
			if err != nil {
				return err
			}
			if done {
				return nil
			}
		case line, ok := <-input.lines:
			if !ok {
				return sess.Client.LeaveRoom()
			}
			done, err := handleMatchInput(sess, out, line)
			if err != nil {
				return err
			}
			if done {
				return nil
			}
		}
	}
}

func handleMatchEvent(sess *Session, out *Output, event model.Event) (bool, error) {
	switch event.Type {
	case model.EventOpponentJoined:
		p := event.Payload.(model.OpponentJoinedPayload)
		fmt.Printf("%s joined the room\n", p.Username)

	case model.EventOpponentLeft:
		fmt.Println("Opponent left the room")

	case model.EventGameStarted:
		p := event.Payload.(model.GameStartedPayload)
		fmt.Printf("Game started. You play %s.\n", stoneName(p.LocalColor))
		if p.FirstPlayer == sess.Client.Session().UserID {
			fmt.Println("Your move.")
		} else {
			fmt.Printf("Waiting for %s.\n", p.FirstPlayer)
		}

	case model.EventBoardUpdated:
		p := event.Payload.(model.BoardUpdatedPayload)
		out.printBoard(p.Board)
		if p.LocalTurn {
			fmt.Println("Your move.")
		} else {
			fmt.Printf("Waiting for %s.\n", p.CurrentPlayer)
		}

	case model.EventGameEnded:
		p := event.Payload.(model.GameEndedPayload)
		if p.Outcome == model.OutcomeWin {
			fmt.Println("You win!")
		} else {
			fmt.Printf("You lose. %s wins.\n", p.Winner)
		}
		sess.Client.ReturnToLobby()
		return true, nil

	case model.EventConnStateChanged:
		p := event.Payload.(model.ConnStateChangedPayload)
		if p.State != model.ConnOpen {
			fmt.Println("Connection lost; reconnecting...")
		}
	}
	return false, nil
}

func handleMatchInput(sess *Session, out *Output, line string) (bool, error) {
	switch line {
	case "":
		return false, nil

	case "quit", "leave":
		if err := sess.Client.LeaveRoom(); err != nil && !errors.Is(err, model.ErrNoCurrentRoom) {
			return true, err
		}
		_, _ = sess.Await(defaultTimeout, model.EventRoomLeft)
		return true, nil

	case "forfeit":
		err := sess.Client.Forfeit()
		switch {
		case errors.Is(err, model.ErrForfeitDeclined):
			return false, nil
		case err != nil:
			out.PrintError(err)
			return false, nil
		}
		return false, nil

	case "board":
		if game := sess.Client.Game(); game != nil {
			out.printBoard(game.Board)
		} else {
			fmt.Println("No game in progress")
		}
		return false, nil
	}

	var x, y int
	if _, err := fmt.Sscanf(line, "%d %d", &x, &y); err != nil {
		fmt.Println("Enter a move as 'x y', or: board, forfeit, leave, quit")
		return false, nil
	}
	if err := sess.Client.SubmitMove(x, y); err != nil {
		out.PrintError(err)
	}
	return false, nil
}

// playIO merges the user's input stream with notifier prompts so a
// confirmation can consume the next typed line
type playIO struct {
	lines chan string
}

func newPlayIO() *playIO {
	return &playIO{lines: make(chan string)}
}

// start begins forwarding stdin lines. Call it only once the session is
// ready for input.
func (p *playIO) start() {
	go func() {
		defer close(p.lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			p.lines <- strings.TrimSpace(scanner.Text())
		}
	}()
}

func (p *playIO) Notify(message string) {
	fmt.Fprintf(os.Stderr, "%s\n", message)
}

func (p *playIO) Confirm(prompt string) bool {
	fmt.Fprintf(os.Stderr, "%s [y/N] ", prompt)
	select {
	case line, ok := <-p.lines:
		if !ok {
			return false
		}
		answer := strings.ToLower(line)
		return answer == "y" || answer == "yes"
	case <-time.After(time.Minute):
		return false
	}
}
