package domain

import "fmt"

// SignPageSize is the fixed page size for feature-service queries. The
// service caps result windows well above this, but 500 keeps individual
// responses comfortably inside the per-page timeout.
const SignPageSize = 500

// SignLayer describes one signage category exposed by the feature service.
type SignLayer struct {
	Key       string   // request value: "rail", "regulatory", "warning"
	Name      string   // human-readable label for logs and messages
	LayerID   int      // feature-service layer number under the service root
	ArrayKey  string   // top-level array name in the snapshot file
	FileName  string   // snapshot file name under the data directory
	MaxOffset int      // pagination ceiling; a runaway guard, not a quota
	OutFields []string // attributes requested from the layer
}

// signLayers is the fixed category catalog, in download order. The rail
// layer holds a few thousand crossings state-wide; the sign layers run to
// tens of thousands of panels, hence the higher ceiling.
var signLayers = []SignLayer{
	{
		Key:       "rail",
		Name:      "railway crossings",
		LayerID:   8,
		ArrayKey:  "railCrossings",
		FileName:  "rail_crossings.json",
		MaxOffset: 5000,
		OutFields: []string{"ROAD", "ROAD_NAME", "SLK", "CWY", "XING_TYPE"},
	},
	{
		Key:       "regulatory",
		Name:      "regulatory signs",
		LayerID:   17,
		ArrayKey:  "regulatorySigns",
		FileName:  "regulatory_signs.json",
		MaxOffset: 50000,
		OutFields: []string{"ROAD", "ROAD_NAME", "SLK", "CWY", "SIGN_TYPE", "PANEL_DESIGN", "PANEL_LEGEND"},
	},
	{
		Key:       "warning",
		Name:      "warning signs",
		LayerID:   18,
		ArrayKey:  "warningSigns",
		FileName:  "warning_signs.json",
		MaxOffset: 50000,
		OutFields: []string{"ROAD", "ROAD_NAME", "SLK", "CWY", "SIGN_TYPE", "PANEL_DESIGN", "PANEL_LEGEND"},
	},
}

// SignLayers returns the full category catalog in download order.
func SignLayers() []SignLayer {
	out := make([]SignLayer, len(signLayers))
	copy(out, signLayers)
	return out
}

// SignLayersFor resolves a request value to the layers it selects: a single
// category key selects that layer, "all" (or empty) selects every layer.
// Unknown values are a client error.
func SignLayersFor(key string) ([]SignLayer, error) {
	if key == "" || key == "all" {
		return SignLayers(), nil
	}
	for _, l := range signLayers {
		if l.Key == key {
			return []SignLayer{l}, nil
		}
	}
	return nil, fmt.Errorf("unknown sign layer %q (expected rail, regulatory, warning or all)", key)
}
