package domain

import (
	"fmt"
	"unicode"
)

// Road-type buckets derived from the road-number prefix convention.
const (
	RoadTypeHighway     = "Highway"
	RoadTypeMainRoad    = "Main Road"
	RoadTypeLocalRoad   = "Local Road"
	RoadTypeUnconfirmed = "Local Road (unconfirmed)"
)

// ClassifyRoadType buckets a road number by its first letter: H for state
// highways, M for main roads, anything else is a local road. The letter is
// compared case-insensitively; identifier length and the remaining
// characters never influence the bucket.
func ClassifyRoadType(roadID string) string {
	if roadID == "" {
		return RoadTypeLocalRoad
	}
	switch unicode.ToUpper(rune(roadID[0])) {
	case 'H':
		return RoadTypeHighway
	case 'M':
		return RoadTypeMainRoad
	default:
		return RoadTypeLocalRoad
	}
}

// IntersectionPayload is the response contract for an intersection lookup.
type IntersectionPayload struct {
	ReferenceRoad ReferenceRoad       `json:"referenceRoad"`
	TCZone        ZoneRange           `json:"tcZone"`
	WorkZone      *ZoneRange          `json:"workZone,omitempty"`
	CrossRoads    []CrossRoad         `json:"crossRoads"`
	Nodes         []IntersectionNode  `json:"intersectionNodes"`
	Summary       IntersectionSummary `json:"summary"`
}

// ReferenceRoad identifies the road the zone was searched along.
type ReferenceRoad struct {
	RoadID   string `json:"roadId"`
	RoadName string `json:"roadName"`
	RoadType string `json:"roadType"`
}

// ZoneRange is an SLK window rendered for the response.
type ZoneRange struct {
	SLKStart float64 `json:"slkStart"`
	SLKEnd   float64 `json:"slkEnd"`
}

// CrossRoad is one crossing entry: either a registered road or an
// unconfirmed topology node rendered in the same shape.
type CrossRoad struct {
	RoadID   string   `json:"roadId,omitempty"`
	RoadName string   `json:"roadName"`
	RoadType string   `json:"roadType"`
	SLK      float64  `json:"slk"`
	Lat      *float64 `json:"latitude,omitempty"`
	Lon      *float64 `json:"longitude,omitempty"`
	MapLink  string   `json:"mapLink,omitempty"`
}

// IntersectionNode is a topology node listed alongside the crossings.
type IntersectionNode struct {
	NodeID  string   `json:"nodeId"`
	Name    string   `json:"name"`
	SLK     float64  `json:"slk"`
	Lat     *float64 `json:"latitude,omitempty"`
	Lon     *float64 `json:"longitude,omitempty"`
	HasRoad bool     `json:"hasRoad"`
}

// IntersectionSummary reports entry counts for the payload.
type IntersectionSummary struct {
	CrossRoadCount       int `json:"crossRoadCount"`
	UnconfirmedNodeCount int `json:"unconfirmedNodeCount"`
}

// BuildIntersectionPayload reshapes a RoadContext into the response
// contract. Registered crossings are classified by road-number prefix;
// nodes without a road record are folded into the same cross-road list as
// unconfirmed local roads carrying the node's own name, chainage and
// coordinates.
func BuildIntersectionPayload(rc *RoadContext) IntersectionPayload {
	crossRoads := make([]CrossRoad, 0, len(rc.Crossings))
	nodes := make([]IntersectionNode, 0, len(rc.Crossings))
	unconfirmed := 0

	for _, c := range rc.Crossings {
		node := IntersectionNode{
			NodeID:  c.NodeID,
			Name:    c.NodeName,
			SLK:     c.SLK,
			Lat:     c.Lat,
			Lon:     c.Lon,
			HasRoad: c.Road != nil,
		}
		nodes = append(nodes, node)

		cr := CrossRoad{
			SLK:     c.SLK,
			Lat:     c.Lat,
			Lon:     c.Lon,
			MapLink: mapLink(c.Lat, c.Lon),
		}
		if c.Road != nil {
			cr.RoadID = c.Road.ID
			cr.RoadName = c.Road.Name
			cr.RoadType = ClassifyRoadType(c.Road.ID)
		} else {
			cr.RoadName = c.NodeName
			cr.RoadType = RoadTypeUnconfirmed
			unconfirmed++
		}
		crossRoads = append(crossRoads, cr)
	}

	return IntersectionPayload{
		ReferenceRoad: ReferenceRoad{
			RoadID:   rc.Road.ID,
			RoadName: rc.Road.Name,
			RoadType: ClassifyRoadType(rc.Road.ID),
		},
		TCZone:     ZoneRange{SLKStart: rc.Zone.Start, SLKEnd: rc.Zone.End},
		WorkZone:   zoneRange(rc.WorkZone),
		CrossRoads: crossRoads,
		Nodes:      nodes,
		Summary: IntersectionSummary{
			CrossRoadCount:       len(crossRoads),
			UnconfirmedNodeCount: unconfirmed,
		},
	}
}

// mapLink renders a maps URL for a coordinate pair, or "" when either
// coordinate is absent.
func mapLink(lat, lon *float64) string {
	if lat == nil || lon == nil {
		return ""
	}
	return fmt.Sprintf("https://www.google.com/maps?q=%.6f,%.6f", *lat, *lon)
}

// zoneRange converts an optional SLKRange for the response.
func zoneRange(r *SLKRange) *ZoneRange {
	if r == nil {
		return nil
	}
	return &ZoneRange{SLKStart: r.Start, SLKEnd: r.End}
}
