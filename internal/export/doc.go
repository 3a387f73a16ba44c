// Package export writes simulation output to files: animated GIFs and PNG
// stills of the raster surface, SVG drawings of the traces, and JSON or
// CSV reports of divergence runs.
package export
