// Package domain models Western Australian road-network assets and the
// condensed weather reports served alongside them.
//
// # Road Network Conventions
//
// Location along a road is expressed as SLK (Straight Line Kilometre), the
// chainage in kilometres from the road's declared start point. SLK is stable
// across realignments, so two points 1 SLK apart are not necessarily 1 km
// apart on the ground; for this service SLK is an opaque ordering coordinate.
//
// Road numbers encode the road class in their first letter:
//
//	H054  → State highway          ("Highway")
//	M010  → Main road              ("Main Road")
//	3060081 (or any other prefix)  ("Local Road")
//
// Classification looks at the first letter only and ignores the case of the
// identifier. Topology nodes that appear in the network without a matching
// road record are real intersections whose crossing road has not been
// confirmed against the register; they surface as "Local Road (unconfirmed)".
//
// # Signage Layers
//
// Sign data comes from a public feature-service query API, one layer per
// category: railway crossings, regulatory signs, warning signs. Layers are
// paged 500 records at a time; each category has a hard offset ceiling as a
// runaway guard (the rail layer is small, the sign layers are not). Feature
// attributes vary by layer, so flattening probes a list of candidate
// attribute names per logical field and substitutes fixed defaults (0,
// "Single", "Unknown", "Other") when every candidate is absent. Consumers of
// the snapshot files never observe null for these fields.
//
// # Weather Conventions
//
// Upstream weather is requested in UTC with wind speeds in km/h. Display
// times use AWST (Australian Western Standard Time), a fixed UTC+8 offset;
// Western Australia observes no daylight saving. Weather codes follow the
// WMO 4677 present-weather table as published by the forecast provider;
// codes missing from the table render as "Unknown". Wind directions map to
// the 16-point compass rose by rounding to the nearest 22.5° sector. UV
// index labels follow the WHO exposure categories (Low through Extreme).
package domain
