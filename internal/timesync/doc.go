// Package timesync aligns a sensor device's local clock with an
// independently recorded event log and carves event-relative analysis
// windows out of the aligned stream.
//
// The offset estimator is deliberately the simplest possible one: a
// single-point anchor at stream start. Clock drift within a session is
// assumed negligible relative to the constant offset introduced by
// timezone or device-clock misconfiguration, which is commonly a whole
// multiple of 3600 seconds.
package timesync
