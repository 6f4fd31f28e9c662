// Package impact compares traffic-safety indicators before and after a
// project: an intersection upgrade, a speed campaign, new lighting.
//
// Improvement is signed so that positive always means better. For most
// indicators a drop is an improvement; for the ones where more is better
// (traffic flow, average speed, satisfaction) the sign is flipped.
package impact
