// Package pathclean post-processes the polylines of an SVG document.
//
// The steps run in a fixed order, each one individually switchable:
//
//  1. exact duplicates are removed, keeping the first
//  2. paths shorter than a minimum arc length are removed
//  3. paths are simplified with Douglas-Peucker
//  4. near duplicates are collapsed into the longer path
//  5. paths whose ends meet are joined end to end
//  6. coordinates are rounded
//
// Path data is read as a flat list of numbers taken in x,y pairs, so curve
// commands are reduced to their control and end points.
package pathclean
