// Package render turns field snapshots into images. It reads snapshots only
// and never advances a simulation.
//
//   - [WritePNG]: gonum/plot heat map of Ez (2D) or Ez profile (1D), with
//     material regions outlined
//   - [Frame] and [WriteGIF]: paletted animation frames in the blue/red
//     diverging palette, material edges in yellow
//   - [Recorder]: sim.Observer that collects GIF frames or writes one PNG per
//     snapshot
package render
