// Package bootstrap implements the resampling half of the spatial point
// pattern test: aggregated unit counts are expanded into events, events are
// encoded as a sparse (events x units) membership matrix, B multinomial
// draws re-weight the events, and encodingᵀ x weights yields the
// (units x B) bootstrap distribution from which percentile intervals are read.
//
// Nothing here touches global random state. Every draw takes its generator
// from a ports.RNGPort keyed by (seed, variable, draw), which keeps results
// bit-identical whether draws run serially or on many goroutines.
package bootstrap
