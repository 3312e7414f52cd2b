package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"os"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

// TeamEntry mirrors one side of an exported scrim match
type TeamEntry struct {
	TeamID string `json:"teamId"`
	Side   string `json:"side"`
	Win    bool   `json:"win"`
}

// Match mirrors the exported scrim match document (simplified)
type Match struct {
	MatchID   string      `json:"matchId"`
	Timestamp int64       `json:"timestamp"`
	Teams     []TeamEntry `json:"teams"`
}

func main() {
	apiURL := flag.String("url", "http://localhost:8080/api/v1/ingest/matches", "ingest endpoint")
	token := flag.String("token", os.Getenv("SEED_TOKEN"), "API bearer token")
	count := flag.Int("count", 20, "number of matches to send")
	weeks := flag.Int("weeks", 8, "spread matches over this many weeks before now")
	rosters := flag.String("rosters", "TEAM_A1,TEAM_A2", "comma-separated roster ids of the tracked team")
	flag.Parse()

	ids := strings.Split(*rosters, ",")
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	span := time.Duration(*weeks) * 7 * 24 * time.Hour
	now := time.Now()

	matches := make([]Match, 0, *count)
	for i := 0; i < *count; i++ {
		played := now.Add(-time.Duration(rng.Int63n(int64(span))))
		ours := TeamEntry{TeamID: ids[rng.Intn(len(ids))], Side: "BLUE", Win: rng.Intn(2) == 0}
		theirs := TeamEntry{TeamID: fmt.Sprintf("OPPONENT_%d", rng.Intn(6)), Side: "RED", Win: !ours.Win}
		if rng.Intn(2) == 0 {
			ours.Side, theirs.Side = "RED", "BLUE"
		}
		matches = append(matches, Match{
			MatchID:   fmt.Sprintf("SEED_%d_%d", now.Unix(), i),
			Timestamp: played.UnixMilli(),
			Teams:     []TeamEntry{ours, theirs},
		})
	}

	payload, err := json.Marshal(matches)
	if err != nil {
		log.Fatalf("Failed to marshal JSON: %v", err)
	}

	req, err := http.NewRequest("POST", *apiURL, bytes.NewBuffer(payload))
	if err != nil {
		log.Fatalf("Failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if *token != "" {
		req.Header.Set("Authorization", "Bearer "+*token)
	}

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		log.Fatalf("Failed to send request: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	fmt.Printf("Status: %s\n", resp.Status)
	fmt.Printf("Response: %s\n", string(body))

	if resp.StatusCode != http.StatusAccepted {
		fmt.Println("Seeding failed")
		os.Exit(1)
	}
	fmt.Printf("Seeded %d matches\n", len(matches))
}
