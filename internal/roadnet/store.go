// Package roadnet implements the road-network lookup over a seeded SQLite
// snapshot. Intersections are resolved by topology: two roads cross where
// they share a network node. No geometry is computed here; the snapshot is
// the authority on which nodes a road passes through and at what chainage.
package roadnet

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/roadboard/road-data-api/internal/domain"
	"github.com/roadboard/road-data-api/internal/observability"
)

// Store is a SQLite-backed domain.RoadNetwork.
type Store struct {
	db      *sql.DB
	logger  *slog.Logger
	metrics *observability.Metrics
}

// Open opens the snapshot database at path and ensures the schema exists.
func Open(path string, logger *slog.Logger, metrics *observability.Metrics) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open road network db: %w", err)
	}
	s := &Store{db: db, logger: logger, metrics: metrics}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// CheckReadiness reports whether the database answers a ping.
func (s *Store) CheckReadiness(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("road network db: %w", err)
	}
	return nil
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS roads (
		road_id   TEXT PRIMARY KEY,
		road_name TEXT NOT NULL,
		end_slk   REAL NOT NULL
	);
	CREATE TABLE IF NOT EXISTS nodes (
		node_id TEXT PRIMARY KEY,
		name    TEXT NOT NULL,
		lat     REAL,
		lon     REAL
	);
	CREATE TABLE IF NOT EXISTS road_nodes (
		road_id TEXT NOT NULL,
		node_id TEXT NOT NULL,
		slk     REAL NOT NULL,
		PRIMARY KEY (road_id, node_id)
	);
	CREATE INDEX IF NOT EXISTS idx_road_nodes_road_slk ON road_nodes(road_id, slk);
	CREATE INDEX IF NOT EXISTS idx_road_nodes_node ON road_nodes(node_id);
	CREATE TABLE IF NOT EXISTS work_zones (
		road_id   TEXT NOT NULL,
		slk_start REAL NOT NULL,
		slk_end   REAL NOT NULL
	);`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("init road network schema: %w", err)
	}
	return nil
}

// FindIntersections implements domain.RoadNetwork. The zone runs from
// slkStart to slkEnd, or to the road's end when slkEnd is nil. Each node in
// the zone yields one crossing; nodes shared with another registered road
// carry that road's record, the rest are unconfirmed.
func (s *Store) FindIntersections(ctx context.Context, roadID string, slkStart float64, slkEnd *float64) (*domain.RoadContext, error) {
	roadID = strings.ToUpper(strings.TrimSpace(roadID))

	var (
		roadName string
		roadEnd  float64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT road_name, end_slk FROM roads WHERE road_id = ?`, roadID,
	).Scan(&roadName, &roadEnd)
	if errors.Is(err, sql.ErrNoRows) {
		s.metrics.RoadLookups.WithLabelValues("not_found").Inc()
		return nil, domain.ErrRoadNotFound
	}
	if err != nil {
		s.metrics.RoadLookups.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("query road %s: %w", roadID, err)
	}

	end := roadEnd
	if slkEnd != nil {
		end = *slkEnd
	}

	rc := &domain.RoadContext{
		Road: domain.Road{ID: roadID, Name: roadName},
		Zone: domain.SLKRange{Start: slkStart, End: end},
	}

	crossings, err := s.crossingsInZone(ctx, roadID, slkStart, end)
	if err != nil {
		s.metrics.RoadLookups.WithLabelValues("error").Inc()
		return nil, err
	}
	rc.Crossings = crossings

	workZone, err := s.workZoneInZone(ctx, roadID, slkStart, end)
	if err != nil {
		s.metrics.RoadLookups.WithLabelValues("error").Inc()
		return nil, err
	}
	rc.WorkZone = workZone

	s.metrics.RoadLookups.WithLabelValues("found").Inc()
	s.logger.Debug("road lookup",
		"road_id", roadID,
		"slk_start", slkStart,
		"slk_end", end,
		"crossings", len(crossings))

	return rc, nil
}

// crossingsInZone lists the reference road's nodes inside the zone in
// chainage order, each joined with at most one other registered road
// sharing the node (lowest road number wins at multi-road nodes).
func (s *Store) crossingsInZone(ctx context.Context, roadID string, start, end float64) ([]domain.Crossing, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT n.node_id, n.name, rn.slk, n.lat, n.lon,
		       (SELECT r.road_id FROM road_nodes rn2
		        JOIN roads r ON r.road_id = rn2.road_id
		        WHERE rn2.node_id = rn.node_id AND rn2.road_id <> rn.road_id
		        ORDER BY r.road_id LIMIT 1),
		       (SELECT r.road_name FROM road_nodes rn2
		        JOIN roads r ON r.road_id = rn2.road_id
		        WHERE rn2.node_id = rn.node_id AND rn2.road_id <> rn.road_id
		        ORDER BY r.road_id LIMIT 1)
		FROM road_nodes rn
		JOIN nodes n ON n.node_id = rn.node_id
		WHERE rn.road_id = ? AND rn.slk >= ? AND rn.slk <= ?
		ORDER BY rn.slk`,
		roadID, start, end)
	if err != nil {
		return nil, fmt.Errorf("query crossings for %s: %w", roadID, err)
	}
	defer rows.Close()

	var crossings []domain.Crossing
	for rows.Next() {
		var (
			c         domain.Crossing
			lat, lon  sql.NullFloat64
			xID, xNam sql.NullString
		)
		if err := rows.Scan(&c.NodeID, &c.NodeName, &c.SLK, &lat, &lon, &xID, &xNam); err != nil {
			return nil, fmt.Errorf("scan crossing: %w", err)
		}
		if lat.Valid {
			c.Lat = &lat.Float64
		}
		if lon.Valid {
			c.Lon = &lon.Float64
		}
		if xID.Valid {
			c.Road = &domain.Road{ID: xID.String, Name: xNam.String}
		}
		crossings = append(crossings, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate crossings: %w", err)
	}
	return crossings, nil
}

// workZoneInZone returns the first declared work zone overlapping the
// search window, if any.
func (s *Store) workZoneInZone(ctx context.Context, roadID string, start, end float64) (*domain.SLKRange, error) {
	var zone domain.SLKRange
	err := s.db.QueryRowContext(ctx, `
		SELECT slk_start, slk_end FROM work_zones
		WHERE road_id = ? AND slk_end >= ? AND slk_start <= ?
		ORDER BY slk_start LIMIT 1`,
		roadID, start, end,
	).Scan(&zone.Start, &zone.End)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query work zones for %s: %w", roadID, err)
	}
	return &zone, nil
}
