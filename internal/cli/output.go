package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
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
	case SessionResult:
		o.printSessionResult(v)
	case LoginResult:
		o.printLoginResult(v)
	case ProgressResult:
		o.printProgressResult(v)
	case SubmitResult:
		o.printSubmitResult(v)
	case LeaderboardResult:
		o.printLeaderboardResult(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// SessionResult is the passphrase endpoint response
type SessionResult struct {
	Accepted     bool   `json:"accepted"`
	SessionToken string `json:"session_token"`
}

// Player response type (matches API)
type Player struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// LoginResult is the login endpoint response
type LoginResult struct {
	Player Player `json:"player"`
}

// LocationView response type
type LocationView struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Clue     string `json:"clue"`
	Found    bool   `json:"found"`
	Unlocked bool   `json:"unlocked"`
}

// ProgressResult is the locations endpoint response
type ProgressResult struct {
	Levels map[int][]LocationView `json:"levels"`
}

// UnlockedLocation response type
type UnlockedLocation struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Clue string `json:"clue"`
}

// SubmitResult is the code submission response
type SubmitResult struct {
	Found           bool              `json:"found"`
	LocationID      int64             `json:"location_id"`
	Name            string            `json:"name"`
	Clue            string            `json:"clue"`
	Unlocked        *UnlockedLocation `json:"unlocked"`
	LevelFoundCount int               `json:"level_found_count"`
}

// LeaderboardEntry response type
type LeaderboardEntry struct {
	Username string `json:"username"`
	Finds    int    `json:"finds"`
}

// LeaderboardResult is the leaderboard endpoint response
type LeaderboardResult struct {
	Entries []LeaderboardEntry `json:"entries"`
}

// HealthResult is the health endpoint response
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printSessionResult(r SessionResult) {
	fmt.Println("Passphrase accepted")
	fmt.Printf("Session token: %s\n", r.SessionToken)
}

func (o *Output) printLoginResult(r LoginResult) {
	fmt.Printf("Logged in as %s (%s)\n", r.Player.Username, r.Player.ID)
}

func (o *Output) printProgressResult(r ProgressResult) {
	levels := make([]int, 0, len(r.Levels))
	for level := range r.Levels {
		levels = append(levels, level)
	}
	sort.Ints(levels)

	for _, level := range levels {
		fmt.Printf("Level %d:\n", level)
		for _, loc := range r.Levels[level] {
			switch {
			case loc.Found:
				fmt.Printf("  [found]  %d: %s\n", loc.ID, loc.Name)
			case loc.Unlocked:
				fmt.Printf("  [open]   %d: %s - %s\n", loc.ID, loc.Name, loc.Clue)
			default:
				fmt.Printf("  [locked] %d\n", loc.ID)
			}
		}
	}
}

func (o *Output) printSubmitResult(r SubmitResult) {
	if !r.Found {
		fmt.Println("Incorrect code")
		fmt.Printf("Clue: %s\n", r.Clue)
		return
	}

	fmt.Printf("Found %s! (%d found in this level)\n", r.Name, r.LevelFoundCount)
	if r.Unlocked != nil {
		fmt.Printf("Unlocked %s: %s\n", r.Unlocked.Name, r.Unlocked.Clue)
	}
}

func (o *Output) printLeaderboardResult(r LeaderboardResult) {
	if len(r.Entries) == 0 {
		fmt.Println("No players yet")
		return
	}

	for i, entry := range r.Entries {
		fmt.Printf("%3d. %-20s %d\n", i+1, entry.Username, entry.Finds)
	}
}

func (o *Output) printHealthResult(r HealthResult) {
	fmt.Printf("Status: %s\n", r.Status)
}
