// Package geom provides the polyline primitives shared by the vectorization
// stages: points, paths, arc length, Douglas-Peucker simplification,
// arc-length resampling, and coordinate rounding.
//
// # Coordinate System
//
// Points use image coordinates: X grows to the right and Y grows downward,
// with (0,0) at the top-left pixel. Pixel centers sit on integer coordinates.
//
// # Ownership
//
// Every function in this package returns a new Path and never modifies its
// argument, so a stage can hand its output to the next stage without copying.
package geom
