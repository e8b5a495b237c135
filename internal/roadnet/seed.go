package roadnet

import (
	"context"
	"fmt"
	"strings"
)

// Snapshot is the JSON form of a road-network extract consumed by Seed.
type Snapshot struct {
	Roads     []SnapshotRoad     `json:"roads"`
	Nodes     []SnapshotNode     `json:"nodes"`
	RoadNodes []SnapshotRoadNode `json:"roadNodes"`
	WorkZones []SnapshotWorkZone `json:"workZones"`
}

// SnapshotRoad is one registered road. EndSLK is the road's terminal
// chainage in kilometres.
type SnapshotRoad struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	EndSLK float64 `json:"endSlk"`
}

// SnapshotNode is one network node. Coordinates are optional; nodes
// digitised without survey data carry none.
type SnapshotNode struct {
	ID   string   `json:"id"`
	Name string   `json:"name"`
	Lat  *float64 `json:"lat,omitempty"`
	Lon  *float64 `json:"lon,omitempty"`
}

// SnapshotRoadNode places a node on a road at the given chainage.
type SnapshotRoadNode struct {
	RoadID string  `json:"roadId"`
	NodeID string  `json:"nodeId"`
	SLK    float64 `json:"slk"`
}

// SnapshotWorkZone declares an active works subrange on a road.
type SnapshotWorkZone struct {
	RoadID   string  `json:"roadId"`
	SLKStart float64 `json:"slkStart"`
	SLKEnd   float64 `json:"slkEnd"`
}

// Seed replaces the store's contents with the snapshot in one transaction.
// Road identifiers are normalised to upper case on the way in.
func (s *Store) Seed(ctx context.Context, snap Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"roads", "nodes", "road_nodes", "work_zones"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for _, r := range snap.Roads {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO roads (road_id, road_name, end_slk) VALUES (?, ?, ?)`,
			strings.ToUpper(r.ID), r.Name, r.EndSLK)
		if err != nil {
			return fmt.Errorf("insert road %s: %w", r.ID, err)
		}
	}
	for _, n := range snap.Nodes {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO nodes (node_id, name, lat, lon) VALUES (?, ?, ?, ?)`,
			n.ID, n.Name, n.Lat, n.Lon)
		if err != nil {
			return fmt.Errorf("insert node %s: %w", n.ID, err)
		}
	}
	for _, rn := range snap.RoadNodes {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO road_nodes (road_id, node_id, slk) VALUES (?, ?, ?)`,
			strings.ToUpper(rn.RoadID), rn.NodeID, rn.SLK)
		if err != nil {
			return fmt.Errorf("insert road node %s/%s: %w", rn.RoadID, rn.NodeID, err)
		}
	}
	for _, wz := range snap.WorkZones {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO work_zones (road_id, slk_start, slk_end) VALUES (?, ?, ?)`,
			strings.ToUpper(wz.RoadID), wz.SLKStart, wz.SLKEnd)
		if err != nil {
			return fmt.Errorf("insert work zone on %s: %w", wz.RoadID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}

	s.logger.Info("road network seeded",
		"roads", len(snap.Roads),
		"nodes", len(snap.Nodes),
		"links", len(snap.RoadNodes),
		"work_zones", len(snap.WorkZones))

	return nil
}
