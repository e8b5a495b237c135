package domain

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
)

// Defaults substituted when a sign attribute is absent from the upstream
// record. The snapshot contract guarantees consumers never see null for
// these fields.
const (
	DefaultCarriageway  = "Single"
	DefaultSignType     = "Unknown"
	DefaultPanelDesign  = "Other"
	DefaultPanelMeaning = "Other"
)

// SignAttributes is the raw attribute map of one feature-service record.
type SignAttributes map[string]any

// SignSource pages through one signage layer. offset is the zero-based
// record offset; implementations return at most SignPageSize records.
type SignSource interface {
	FetchPage(ctx context.Context, layer SignLayer, offset int) ([]SignAttributes, error)
}

// SignFeature is the flattened snapshot record for one sign or crossing.
type SignFeature struct {
	RoadID       string  `json:"road_id"`
	RoadName     string  `json:"road_name"`
	SLK          float64 `json:"slk"`
	Carriageway  string  `json:"carriageway"`
	SignType     string  `json:"sign_type"`
	PanelDesign  string  `json:"panel_design"`
	PanelMeaning string  `json:"panel_meaning"`
}

// Attribute aliases per logical field. Layer schemas differ (the rail layer
// calls its control type XING_TYPE, the sign layers use SIGN_TYPE), so
// flattening probes each candidate in order and takes the first present
// non-empty value.
var (
	roadIDAliases       = []string{"ROAD", "ROAD_NO"}
	roadNameAliases     = []string{"ROAD_NAME"}
	slkAliases          = []string{"SLK", "START_SLK"}
	carriagewayAliases  = []string{"CWY", "CARRIAGEWAY"}
	signTypeAliases     = []string{"SIGN_TYPE", "XING_TYPE"}
	panelDesignAliases  = []string{"PANEL_DESIGN", "SIGN_DESIGN"}
	panelMeaningAliases = []string{"PANEL_LEGEND", "PANEL_MEANING"}
)

// FlattenSignAttributes reshapes one raw feature-service record into a
// SignFeature, substituting the documented defaults for absent fields.
func FlattenSignAttributes(attrs SignAttributes) SignFeature {
	return SignFeature{
		RoadID:       attrString(attrs, roadIDAliases, ""),
		RoadName:     attrString(attrs, roadNameAliases, ""),
		SLK:          attrFloat(attrs, slkAliases),
		Carriageway:  attrString(attrs, carriagewayAliases, DefaultCarriageway),
		SignType:     attrString(attrs, signTypeAliases, DefaultSignType),
		PanelDesign:  attrString(attrs, panelDesignAliases, DefaultPanelDesign),
		PanelMeaning: attrString(attrs, panelMeaningAliases, DefaultPanelMeaning),
	}
}

// attrString returns the first present, non-empty string value among the
// aliased keys. Numeric attribute values are rendered as strings because a
// handful of road numbers arrive as bare integers.
func attrString(attrs SignAttributes, keys []string, fallback string) string {
	for _, key := range keys {
		v, ok := attrs[key]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case string:
			if s := strings.TrimSpace(t); s != "" {
				return s
			}
		case float64:
			return strconv.FormatFloat(t, 'f', -1, 64)
		case json.Number:
			return t.String()
		}
	}
	return fallback
}

// attrFloat returns the first present numeric value among the aliased keys,
// or 0. String-typed numbers are parsed; anything unparseable counts as
// absent.
func attrFloat(attrs SignAttributes, keys []string) float64 {
	for _, key := range keys {
		v, ok := attrs[key]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case float64:
			return t
		case json.Number:
			if f, err := t.Float64(); err == nil {
				return f
			}
		case string:
			s := strings.TrimSpace(t)
			if s == "" {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return f
			}
		}
	}
	return 0
}
