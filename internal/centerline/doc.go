// Package centerline turns a line mask into vector paths.
//
// Extraction runs in five steps:
//
//  1. Skeletonize the mask with one of the Algorithm strategies
//  2. Trace the skeleton graph into polylines
//  3. Simplify each polyline with Douglas-Peucker
//  4. Optionally smooth each polyline with a penalized spline
//  5. Color the paths and serialize them to SVG
//
// The result also carries a preview raster and JSON-ready statistics.
package centerline
