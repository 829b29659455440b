// Command simulator drives the Queue & Balancer, Draft Flow Engine, and
// Confirmation Protocol end to end against a running server, without a
// real client for each of the ten seats. It mints its own bearer tokens
// from the server's JWT_SECRET, standing in for the external login flow.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"time"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	apiURL := os.Getenv("API_URL")
	if apiURL == "" {
		apiURL = "http://localhost:8080"
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		fmt.Println("Error: JWT_SECRET must be set to the backend's signing secret")
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "full":
		fullCmd(apiURL, secret, args)
	case "fill":
		fillCmd(apiURL, secret, args)
	case "vote":
		voteCmd(apiURL, secret, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Draft Simulator - development tool for exercising the queue/draft/confirm flow

USAGE:
  simulator <command> [options]

COMMANDS:
  full   Queue ten bots, play the draft to completion, confirm all ten
  fill   Queue bots and wait for a match to form, then print the match id
  vote   Cast votes for a real game id on an existing in-progress match
  help   Show this help message

ENVIRONMENT:
  API_URL     Backend base URL (default http://localhost:8080)
  JWT_SECRET  Must match the backend's signing secret

EXAMPLES:
  simulator full
  simulator fill --count=10
  simulator vote --match=42 --count=10 --game-id=NA1_1234567890`)
}

func botIdentity(i int) string {
	return fmt.Sprintf("SimBot%d#SIM", i)
}

func mintAll(secret string, count int) map[string]string {
	tokens := make(map[string]string, count)
	for i := 1; i <= count; i++ {
		id := botIdentity(i)
		tok, err := mintToken(secret, id)
		if err != nil {
			fmt.Printf("failed to mint token for %s: %v\n", id, err)
			os.Exit(1)
		}
		tokens[id] = tok
	}
	return tokens
}

var lanes = []string{"top", "jungle", "mid", "bot", "support"}

func joinAll(client *APIClient, tokens map[string]string, count int) {
	for i := 1; i <= count; i++ {
		id := botIdentity(i)
		lane := lanes[(i-1)%5]
		secondary := lanes[i%5]
		err := client.JoinQueue(tokens[id], joinQueueRequest{
			PlayerID:      id,
			PrimaryLane:   lane,
			SecondaryLane: secondary,
			SkillRating:   1000 + rand.Float64()*600,
		})
		if err != nil {
			fmt.Printf("  [%d/%d] %s FAILED to join queue: %v\n", i, count, id, err)
			os.Exit(1)
		}
		fmt.Printf("  [%d/%d] %s joined queue (primary=%s secondary=%s)\n", i, count, id, lane, secondary)
	}
}

func waitForMatch(client *APIClient, tokens map[string]string) (*ActiveMatch, string) {
	for attempt := 0; attempt < 30; attempt++ {
		for id, tok := range tokens {
			m, err := client.MyActiveMatch(tok, id)
			if err == nil && m.ID != 0 {
				return m, id
			}
		}
		time.Sleep(500 * time.Millisecond)
	}
	fmt.Println("Timed out waiting for a match to form")
	os.Exit(1)
	return nil, ""
}

func fillCmd(apiURL, secret string, args []string) {
	fs := flag.NewFlagSet("fill", flag.ExitOnError)
	count := fs.Int("count", 10, "Number of bots to queue (must be 10 to form a match)")
	fs.Parse(args)

	client := NewAPIClient(apiURL)
	tokens := mintAll(secret, *count)

	fmt.Printf("Queueing %d bots...\n", *count)
	joinAll(client, tokens, *count)

	fmt.Println("Waiting for the balancer to form a match...")
	m, _ := waitForMatch(client, tokens)
	fmt.Printf("Match formed: id=%d status=%s\n", m.ID, m.Status)
}

func voteCmd(apiURL, secret string, args []string) {
	fs := flag.NewFlagSet("vote", flag.ExitOnError)
	matchID := fs.Int64("match", 0, "Match id (required)")
	count := fs.Int("count", 10, "Number of bots that hold roster seats")
	gameID := fs.String("game-id", "", "LCU game id to vote for (required)")
	fs.Parse(args)

	if *matchID == 0 || *gameID == "" {
		fmt.Println("Error: --match and --game-id are required")
		os.Exit(1)
	}

	client := NewAPIClient(apiURL)
	tokens := mintAll(secret, *count)

	for i := 1; i <= *count; i++ {
		id := botIdentity(i)
		result, err := client.Vote(tokens[id], *matchID, id, *gameID)
		if err != nil {
			fmt.Printf("  [%d/%d] %s FAILED to vote: %v\n", i, *count, id, err)
			continue
		}
		fmt.Printf("  [%d/%d] %s voted (tally=%d shouldLink=%v)\n", i, *count, id, result.VoteCount, result.ShouldLink)
		if result.ShouldLink {
			fmt.Println("Quorum reached, match should now be linked and completed.")
			return
		}
	}
}

// nextAction decodes a match's draftJson far enough to find the next open
// action's acting team and a roster member from that team.
func nextAction(m *ActiveMatch) (idx int, actorID string, done bool) {
	var view draftView
	if err := json.Unmarshal([]byte(m.DraftJSON), &view); err != nil {
		fmt.Printf("failed to decode draft state: %v\n", err)
		os.Exit(1)
	}
	if view.CurrentIndex >= len(view.Actions) {
		return 0, "", true
	}
	a := view.Actions[view.CurrentIndex]
	roster := view.Team1
	if a.Team == 2 {
		roster = view.Team2
	}
	for _, slot := range roster {
		if slot.Lane == a.PlayerSlot {
			return a.Index, slot.Identity, false
		}
	}
	if len(roster) == 0 {
		fmt.Println("match roster is empty, cannot pick an actor")
		os.Exit(1)
	}
	return a.Index, roster[0].Identity, false
}

func playDraft(client *APIClient, tokens map[string]string, matchID int64) {
	champ := 1
	for {
		m, err := client.MyActiveMatch(tokens[botIdentity(1)], botIdentity(1))
		if err != nil {
			fmt.Printf("failed to refresh match state: %v\n", err)
			os.Exit(1)
		}
		idx, actorID, done := nextAction(m)
		if done {
			fmt.Println("Draft complete.")
			return
		}
		tok, ok := tokens[actorID]
		if !ok {
			fmt.Printf("no token minted for roster identity %q\n", actorID)
			os.Exit(1)
		}
		err = client.ProcessAction(tok, draftActionRequest{
			MatchID:     matchID,
			ActionIndex: idx,
			ChampionID:  strconv.Itoa(champ),
			PlayerID:    actorID,
		})
		if err != nil {
			fmt.Printf("action %d by %s FAILED: %v\n", idx, actorID, err)
			os.Exit(1)
		}
		fmt.Printf("  action %d: %s picked/banned champion %d\n", idx, actorID, champ)
		champ++
	}
}

func confirmAll(client *APIClient, tokens map[string]string, count int, matchID int64) {
	for i := 1; i <= count; i++ {
		id := botIdentity(i)
		resp, err := client.ConfirmFinalDraft(tokens[id], matchID, id)
		if err != nil {
			fmt.Printf("  [%d/%d] %s FAILED to confirm: %v\n", i, count, id, err)
			os.Exit(1)
		}
		fmt.Printf("  [%d/%d] %s confirmed (%d/%d)\n", i, count, id, resp.ConfirmedCount, count)
		if resp.AllConfirmed {
			fmt.Println("All ten confirmed, game started.")
			return
		}
	}
}

func fullCmd(apiURL, secret string, args []string) {
	fs := flag.NewFlagSet("full", flag.ExitOnError)
	count := fs.Int("count", 10, "Number of bots (must be 10)")
	fs.Parse(args)

	if *count != 10 {
		fmt.Println("Error: --count must be 10; the balancer only forms a match at exactly ten")
		os.Exit(1)
	}

	client := NewAPIClient(apiURL)
	tokens := mintAll(secret, *count)

	fmt.Println("=== Draft Simulator: Full Flow ===")
	fmt.Println()
	fmt.Println("Queueing bots:")
	joinAll(client, tokens, *count)

	fmt.Println()
	fmt.Println("Waiting for the balancer to form a match...")
	m, _ := waitForMatch(client, tokens)
	fmt.Printf("Match formed: id=%d\n", m.ID)

	fmt.Println()
	fmt.Println("Playing the draft:")
	playDraft(client, tokens, m.ID)

	fmt.Println()
	fmt.Println("Confirming the final draft:")
	confirmAll(client, tokens, *count, m.ID)
}
