// Package irap rates road segments with the iRAP star scheme and prices the
// improvements they need.
//
// A segment's stars come from eight weighted design factors, or from a
// rating measured in the field:
//
//	roadWidth           0.20
//	shoulderWidth       0.15
//	medianBarrier       0.20
//	intersectionDesign  0.15
//	speedLimit          0.10
//	lighting            0.10
//	signage             0.05
//	roadCondition       0.05
//
// Stars drive the risk band and the upgrade cost per kilometre; the crash
// rate drives the expected savings. Evaluate turns an investment and its
// annual savings into payback, ROI, NPV and benefit/cost figures.
//
// Everything here is pure and deterministic. Rounding follows the
// dashboard: halves round up, toward positive infinity.
package irap
