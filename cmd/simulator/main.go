package main

import (
	"flag"
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// Global flags
	apiURL := "http://localhost:8080"
	if envURL := os.Getenv("API_URL"); envURL != "" {
		apiURL = envURL
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "populate":
		populateCmd(apiURL, args)
	case "tick":
		tickCmd(apiURL, args)
	case "settle":
		settleCmd(apiURL, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Matchmaking Simulator - Development tool for exercising the engine

USAGE:
  simulator <command> [options]

COMMANDS:
  populate  Register a queue and fill it with fake solo players
  tick      Trigger one matchmaking pass and print the queue depth
  settle    Ready, dispatch and report results for a lobby
  help      Show this help message

ENVIRONMENT:
  API_URL   Backend API URL (default: http://localhost:8080)

EXAMPLES:
  # Create a 5v5 queue with 20 fake players
  simulator populate --queue=ranked --team-size=5 --count=20

  # Form matches from whatever is waiting
  simulator tick --queue=ranked

  # Walk a lobby through ready/dispatch/results, team 0 wins
  simulator settle --lobby=<uuid> --winner=0`)
}

func populateCmd(apiURL string, args []string) {
	fs := flag.NewFlagSet("populate", flag.ExitOnError)
	queue := fs.String("queue", "ranked", "Queue name to register and fill")
	teamSize := fs.Int("team-size", 5, "Players per team")
	count := fs.Int("count", 10, "Number of fake solo players to enqueue")
	maxDelta := fs.Float64("max-delta", 500, "Max rating delta for the queue")
	fs.Parse(args)

	client := NewAPIClient(apiURL)

	if err := client.RegisterQueue(*queue, *teamSize, *maxDelta); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Queue %q ready (%dv%d)\n", *queue, *teamSize, *teamSize)

	for i := 0; i < *count; i++ {
		playerID, err := client.JoinSolo(*queue)
		if err != nil {
			fmt.Printf("Error joining player %d: %v\n", i+1, err)
			os.Exit(1)
		}
		fmt.Printf("  joined %s\n", playerID)
	}

	size, err := client.QueueSize(*queue)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Queue depth: %d\n", size)
}

func tickCmd(apiURL string, args []string) {
	fs := flag.NewFlagSet("tick", flag.ExitOnError)
	queue := fs.String("queue", "ranked", "Queue to report depth for")
	fs.Parse(args)

	client := NewAPIClient(apiURL)

	before, err := client.QueueSize(*queue)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	if err := client.Tick(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	after, err := client.QueueSize(*queue)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Tick complete: queue depth %d -> %d (check server logs for lobby ids)\n", before, after)
}

func settleCmd(apiURL string, args []string) {
	fs := flag.NewFlagSet("settle", flag.ExitOnError)
	lobbyID := fs.String("lobby", "", "Lobby id to settle")
	winner := fs.Int("winner", 0, "Winning team index")
	fs.Parse(args)

	if *lobbyID == "" {
		fmt.Println("Error: --lobby is required")
		os.Exit(1)
	}

	client := NewAPIClient(apiURL)

	lobby, err := client.GetLobby(*lobbyID)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	if lobby.State == "waiting_for_ready" {
		for _, playerID := range lobby.PlayerIDs {
			if err := client.MarkReady(*lobbyID, playerID); err != nil {
				fmt.Printf("Error readying %s: %v\n", playerID, err)
				os.Exit(1)
			}
		}
		fmt.Printf("All %d players ready\n", len(lobby.PlayerIDs))

		if err := client.Dispatch(*lobbyID); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Lobby dispatched")
	}

	lobby, err = client.GetLobby(*lobbyID)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	if err := client.ReportResults(lobby, *winner); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Results reported: team %d wins\n", *winner)
}
