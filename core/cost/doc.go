// Package cost converts token usage into an estimated price.
//
// [ModelCost] holds per-million-token rates for one model. [Summary] is the
// breakdown an overview reports after a run.
package cost
