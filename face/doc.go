// Package face wraps an opened outline font for the rendering core. A
// Source is the heavyweight, parseable font file (one per on-disk font);
// a Face binds a Source to a concrete size and style and carries the
// shaping-engine handle and sprite position cache a resolved font needs.
//
// Font discovery on disk and the initial file-open path belong to the
// host; Open is the only filesystem-touching entry point,
// everything size/shaping/raster-related hangs off the Source it returns.
//
// Font parsing is abstracted through the Parser interface so the
// golang.org/x/image backend could in principle be swapped; only one
// backend ships.
package face
