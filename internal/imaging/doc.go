// Package imaging provides the raster plumbing around the vectorizer: image
// loading and saving, grayscale conversion, Canny edge detection, color
// sampling and clustering, and the diagnostic preview renderers.
//
// All operations work with standard Go image.Image types and use a coordinate
// system where (0,0) is at the top-left corner, X increases rightward, and Y
// increases downward.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. All other functions are
// stateless and never modify their inputs.
//
// # Color Representation
//
// Colors are reported as lowercase hex strings "#rrggbb" (alpha excluded)
// together with their 8-bit RGB components.
//
// # Previews
//
// Preview renderers produce *image.NRGBA images for human inspection only.
// Nothing in the pipeline reads them back.
package imaging
