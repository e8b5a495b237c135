package domain

import (
	"context"
	"errors"
)

// ErrRoadNotFound reports that a road identifier has no record in the
// network. Handlers map it to a not-found response.
var ErrRoadNotFound = errors.New("road not found")

// Road is a registered road record.
type Road struct {
	ID   string
	Name string
}

// SLKRange bounds a stretch of road by start and end chainage.
type SLKRange struct {
	Start float64
	End   float64
}

// Crossing is one intersection node on the reference road. Road is nil when
// the topology has the node but no road record matches it; such crossings
// are reported as unconfirmed.
type Crossing struct {
	NodeID   string
	NodeName string
	SLK      float64
	Lat      *float64
	Lon      *float64
	Road     *Road
}

// RoadContext is everything the network lookup knows about a road segment:
// the reference road, the effective search zone, an optional declared work
// zone inside it, and the crossings found within the zone.
type RoadContext struct {
	Road      Road
	Zone      SLKRange
	WorkZone  *SLKRange
	Crossings []Crossing
}

// RoadNetwork looks up the crossings of a reference road within an SLK
// window. A nil slkEnd extends the window to the end of the road. Returns
// ErrRoadNotFound when roadID has no record.
type RoadNetwork interface {
	FindIntersections(ctx context.Context, roadID string, slkStart float64, slkEnd *float64) (*RoadContext, error)
}
