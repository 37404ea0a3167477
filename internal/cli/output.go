package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mcoot/gomokuclient-go/internal/model"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// LeaderboardView wraps the ranking for printing
type LeaderboardView struct {
	Ranks []model.RankEntry `json:"ranks"`
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]any{
			"error": map[string]string{"message": err.Error()},
		})
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case model.Directory:
		o.printDirectory(v)
	case model.UserStats:
		o.printStats(v)
	case LeaderboardView:
		o.printLeaderboard(v)
	case model.Board:
		o.printBoard(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

func (o *Output) printDirectory(d model.Directory) {
	if len(d.Rooms) == 0 {
		fmt.Println("No open rooms")
		return
	}
	fmt.Printf("Rooms (%d):\n", len(d.Rooms))
	for _, room := range d.Rooms {
		seats := fmt.Sprintf("%d/%d", len(room.Players), model.MaxRoomPlayers)
		fmt.Printf("  %d: %s [%s]", room.ID, room.Name, seats)
		if room.IsFull() {
			fmt.Print(" (full)")
		}
		fmt.Println()
	}
}

func (o *Output) printStats(s model.UserStats) {
	fmt.Printf("Player: %s\n", s.Username)
	fmt.Printf("Score: %d\n", s.Score)
	fmt.Printf("Record: %dW / %dL", s.WinCount, s.LoseCount)
	if s.WinRate != "" {
		fmt.Printf(" (%s)", s.WinRate)
	}
	fmt.Println()
	if s.Rank > 0 {
		fmt.Printf("Rank: #%d\n", s.Rank)
	}
}

func (o *Output) printLeaderboard(l LeaderboardView) {
	if len(l.Ranks) == 0 {
		fmt.Println("Leaderboard is empty")
		return
	}
	fmt.Println("Leaderboard:")
	for _, entry := range l.Ranks {
		fmt.Printf("  #%d %s  score %d  %dW/%dL\n",
			entry.Rank, entry.Username, entry.Score, entry.WinCount, entry.LoseCount)
	}
}

// printBoard renders the grid with column/row indices; black stones are
// X, white stones are O
func (o *Output) printBoard(b model.Board) {
	size := len(b)
	if size == 0 {
		return
	}

	fmt.Print("    ")
	for x := 0; x < size; x++ {
		fmt.Printf("%2d ", x)
	}
	fmt.Println()

	for y := 0; y < size; y++ {
		fmt.Printf(" %2d ", y)
		for x := 0; x < size; x++ {
			switch b.At(x, y) {
			case model.Black:
				fmt.Print(" X ")
			case model.White:
				fmt.Print(" O ")
			default:
				fmt.Print(" . ")
			}
		}
		fmt.Println()
	}
}

func stoneName(s model.Stone) string {
	switch s {
	case model.Black:
		return "black (X)"
	case model.White:
		return "white (O)"
	default:
		return "none"
	}
}
