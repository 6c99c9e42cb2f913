// Package analysis provides post-processing for probe traces.
//
//   - [PowerSpectrum]: one-sided power spectrum of a trace, zero-padded to a power of two
//   - [DominantBin]: strongest non-DC frequency bin
//   - [Peak]: largest absolute sample and its step
//   - [ArrivalStep]: first step a trace reaches a fraction of its peak
//
// # Spectra
//
// Bin k of an n-point spectrum sits at k/n cycles per step:
//
//	ps := analysis.PowerSpectrum(result.Probes["centre"])
//	k := analysis.DominantBin(ps)
//	f := analysis.BinFrequency(k, len(ps))
package analysis
