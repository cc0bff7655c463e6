// Package kinematics computes one-way travel-time profiles for AGVs.
//
// Vehicles are modelled with constant acceleration from rest, an optional
// cruise phase at the peak speed and constant deceleration to a stop. Routes too
// short to reach the rated speed produce a triangular profile. Each turn adds a
// fixed overhead. All distances are in metres, speeds in m/s and times in
// seconds unless a field name says otherwise.
//
// Compute never fails: malformed inputs are clamped to safe positive values so
// the result is always finite.
package kinematics
