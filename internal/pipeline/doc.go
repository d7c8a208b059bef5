// Package pipeline executes the steps of a csphash scan in sequence.
//
// A scan is split into discovery, extraction, audit and aggregation. Each
// stage is a Step that receives the shared *model.ScanReport and adds to
// it. Steps run one after another on the calling goroutine; the context is
// checked between steps so an interrupt stops the scan cleanly.
package pipeline
