// Command seedroadnet loads a road-network JSON snapshot into the SQLite
// store that backs the intersections endpoint. The snapshot carries roads,
// topology nodes, the node placements along each road, and any declared
// work zones.
//
// Usage:
//
//	go run ./cmd/seedroadnet \
//	  -snapshot data/roadnet_snapshot.json \
//	  -db data/roadnet.db
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/roadboard/road-data-api/internal/observability"
	"github.com/roadboard/road-data-api/internal/roadnet"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	snapshotPath := flag.String("snapshot", "", "path to the road-network JSON snapshot")
	dbPath := flag.String("db", "", "path to the SQLite database to seed")
	flag.Parse()

	if *snapshotPath == "" || *dbPath == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -snapshot, -db")
	}

	snap, err := readSnapshot(*snapshotPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", *snapshotPath, err)
	}

	logger := observability.NewLogger("info", "text")
	store, err := roadnet.Open(*dbPath, logger, observability.NewMetrics())
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Seed(context.Background(), snap); err != nil {
		return fmt.Errorf("seeding %s: %w", *dbPath, err)
	}

	log.Printf("seeded %s from %s", *dbPath, *snapshotPath)
	return nil
}

func readSnapshot(path string) (roadnet.Snapshot, error) {
	var snap roadnet.Snapshot

	data, err := os.ReadFile(path)
	if err != nil {
		return snap, err
	}
	if err := json.Unmarshal(data, &snap); err != nil {
		return snap, fmt.Errorf("parse snapshot: %w", err)
	}
	if len(snap.Roads) == 0 {
		return snap, fmt.Errorf("snapshot has no roads")
	}
	return snap, nil
}
