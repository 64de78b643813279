// Package pipeline wires cleaning, clock synchronization, window
// extraction, and analysis into per-subject runs.
//
// Each (metric, comparison group) unit of work is independent and
// side-effect free, so metrics fan out onto goroutines with no locking;
// a unit whose cleaning empties the series records a data-quality
// failure without aborting its siblings. A file lock on the output
// directory keeps concurrent invocations from interleaving writes to the
// results database.
package pipeline
