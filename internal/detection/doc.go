// Package detection separates a line-art raster into ink and fill regions.
//
// A Detector turns an image into two spatially aligned binary masks:
//
//   - Line mask: thin ink strokes, the input to centerline extraction
//   - Fill mask: solid foreground areas that are not strokes
//
// and can optionally cluster the colors found under the line mask.
//
// # Algorithm Overview
//
//  1. Grayscale: RGB -> luminance with ITU-R BT.601 weights
//  2. Background separation: Otsu, fixed light-background or fixed
//     dark-background threshold, then a 3x3 opening and closing
//  3. Line detection: Canny edges grown by the minimum stroke width, the
//     outer shell left after eroding by half the maximum stroke width, or
//     the union of both
//  4. Fill separation: foreground minus lines, optionally dropping small
//     regions
//  5. Color clustering: k-means over the RGB values under the line mask
//
// # Coordinate System
//
// Masks share the source image's size with the origin at the top-left pixel.
//
// # Limitations
//
// The detector works best on clean, high-contrast scans. A blank page is not
// an error: it yields empty masks.
package detection
