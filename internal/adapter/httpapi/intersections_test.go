package httpapi_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roadboard/road-data-api/internal/domain"
)

func floatPtr(f float64) *float64 {
	return &f
}

func TestIntersectionsMissingParamsListBothExamples(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{name: "no params", path: "/api/intersections"},
		{name: "missing slk_start", path: "/api/intersections?road_id=H015"},
		{name: "missing road_id", path: "/api/intersections?slk_start=8.4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			rec := f.get(tt.path)

			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var body struct {
				Error    string   `json:"error"`
				Examples []string `json:"examples"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "road_id and slk_start are required", body.Error)
			assert.Contains(t, body.Examples, "/api/intersections?road_id=H015&slk_start=8.4")
			assert.Contains(t, body.Examples, "/api/intersections?road_id=H015&slk_start=8.4&slk_end=12.2")
			assert.Zero(t, f.roads.calls)
		})
	}
}

func TestIntersectionsRejectsNonFiniteSLK(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{name: "slk_start not a number", path: "/api/intersections?road_id=H015&slk_start=abc"},
		{name: "slk_start NaN", path: "/api/intersections?road_id=H015&slk_start=NaN"},
		{name: "slk_start infinite", path: "/api/intersections?road_id=H015&slk_start=Inf"},
		{name: "slk_end not a number", path: "/api/intersections?road_id=H015&slk_start=8.4&slk_end=end"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			rec := f.get(tt.path)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Zero(t, f.roads.calls)

			var body struct {
				Examples []string `json:"examples"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Len(t, body.Examples, 2)
		})
	}
}

func TestIntersectionsRoadNotFoundEchoesParams(t *testing.T) {
	f := newFixture(t)
	f.roads.err = domain.ErrRoadNotFound

	rec := f.get("/api/intersections?road_id=X123&slk_start=1.5&slk_end=9")

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "road not found", body["error"])
	assert.Equal(t, "X123", body["road_id"])
	assert.Equal(t, "1.5", body["slk_start"])
	assert.Equal(t, "9", body["slk_end"])
}

func TestIntersectionsLookupFailure(t *testing.T) {
	f := newFixture(t)
	f.roads.err = errors.New("query road H015: disk I/O error")

	rec := f.get("/api/intersections?road_id=H015&slk_start=8.4")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "intersection lookup failed", body["error"])
}

func TestIntersectionsPayload(t *testing.T) {
	f := newFixture(t)
	f.roads.rc = &domain.RoadContext{
		Road:     domain.Road{ID: "H015", Name: "GREAT EASTERN HWY"},
		Zone:     domain.SLKRange{Start: 8.4, End: 12.2},
		WorkZone: &domain.SLKRange{Start: 10, End: 11},
		Crossings: []domain.Crossing{
			{
				NodeID:   "N1001",
				NodeName: "Great Eastern Hwy / Toodyay Rd",
				SLK:      9.2,
				Lat:      floatPtr(-31.8885),
				Lon:      floatPtr(116.0123),
				Road:     &domain.Road{ID: "M045", Name: "TOODYAY RD"},
			},
			{NodeID: "N1003", NodeName: "Old Survey Junction", SLK: 11.8},
		},
	}

	rec := f.get("/api/intersections?road_id=H015&slk_start=8.4&slk_end=12.2")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "H015", f.roads.gotRoadID)
	assert.Equal(t, 8.4, f.roads.gotStart)
	require.NotNil(t, f.roads.gotEnd)
	assert.Equal(t, 12.2, *f.roads.gotEnd)

	var got domain.IntersectionPayload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))

	want := domain.IntersectionPayload{
		ReferenceRoad: domain.ReferenceRoad{
			RoadID:   "H015",
			RoadName: "GREAT EASTERN HWY",
			RoadType: domain.RoadTypeHighway,
		},
		TCZone:   domain.ZoneRange{SLKStart: 8.4, SLKEnd: 12.2},
		WorkZone: &domain.ZoneRange{SLKStart: 10, SLKEnd: 11},
		CrossRoads: []domain.CrossRoad{
			{
				RoadID:   "M045",
				RoadName: "TOODYAY RD",
				RoadType: domain.RoadTypeMainRoad,
				SLK:      9.2,
				Lat:      floatPtr(-31.8885),
				Lon:      floatPtr(116.0123),
				MapLink:  "https://www.google.com/maps?q=-31.888500,116.012300",
			},
			{
				RoadName: "Old Survey Junction",
				RoadType: domain.RoadTypeUnconfirmed,
				SLK:      11.8,
			},
		},
		Nodes: []domain.IntersectionNode{
			{
				NodeID:  "N1001",
				Name:    "Great Eastern Hwy / Toodyay Rd",
				SLK:     9.2,
				Lat:     floatPtr(-31.8885),
				Lon:     floatPtr(116.0123),
				HasRoad: true,
			},
			{NodeID: "N1003", Name: "Old Survey Junction", SLK: 11.8},
		},
		Summary: domain.IntersectionSummary{CrossRoadCount: 2, UnconfirmedNodeCount: 1},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("intersection payload mismatch (-want +got):\n%s", diff)
	}
}

func TestIntersectionsOptionalSLKEnd(t *testing.T) {
	f := newFixture(t)
	f.roads.rc = &domain.RoadContext{
		Road: domain.Road{ID: "M010", Name: "ALBANY HWY"},
		Zone: domain.SLKRange{Start: 0, End: 55},
	}

	rec := f.get("/api/intersections?road_id=M010&slk_start=0")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, f.roads.gotEnd)
}
