// Command biopipe cleans wearable sensor recordings, aligns them to an
// event marker log, and reports per-group statistics.
package main
