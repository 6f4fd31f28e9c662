// Package heatmap turns geo-tagged incidents and known hazard points into
// weighted points for a heatmap renderer.
//
// Four analysis types decide the weight of each point:
//
//	crash_density      every incident weighs 1.0
//	severity_weighted  fixed weight per severity, 0.3 when unknown
//	risk_assessment    incidents by severity, then hazards at riskScore/10
//	temporal_analysis  severity weight scaled by recency over one year
//
// Generate is pure: the reference time is a parameter, output order follows
// input order (hazards after incidents), and every intensity is at least 0.
// Rendering is left to the map layer; Layer bundles points, statistics and
// the renderer settings it needs.
package heatmap
