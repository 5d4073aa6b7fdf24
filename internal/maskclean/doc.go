// Package maskclean reduces thick, doubled or noisy line masks to cleaner,
// mostly single-pixel masks before centerline extraction.
//
// Four modes are available:
//
//   - merge_close_lines: dilate by the merge distance, then thin
//   - remove_duplicates: keep only borders that are not near a longer one
//   - thin_only: thin without merging
//   - distance_based: dilate, then keep the ridges of the distance transform
//
// Small 8-connected components are removed afterwards in every mode.
package maskclean
