// Package export persists the results of a shapeme run: numbered PNG frames,
// an SVG document of the final triangles, an upscaled raster rendering and a
// chart of the fitness history.
package export
