// Package mask implements binary raster masks and the morphological and
// topological operations the vectorizer runs on them.
//
// A Mask is a dense width*height grid of booleans stored row-major. Masks
// exchanged with the rest of the program are encoded as 8-bit grayscale
// images where 255 is "on" and 0 is "off".
//
// # Operations
//
//   - Morphology: Dilate, Erode, Open, Close with square k*k kernels
//   - Distance: exact Euclidean distance transform, normalization, 3x3 maxima
//   - Thinning: Zhang-Suen skeletonization and distance-ordered medial axis
//   - Topology: 8-connected component labeling, border following
//   - Thresholding: Otsu's method over a grayscale histogram
//
// Pixels outside the mask are treated as "off" by every operation except the
// distance transform, which does not treat the image border as background.
//
// All operations return new masks; inputs are never modified.
package mask
