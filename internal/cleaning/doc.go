// Package cleaning validates raw biometric sample series through a
// six-stage, independently toggleable pipeline.
//
// Each Cleaner is bound to a metric type and resolves its physiological
// bounds from an immutable catalog at construction time. Clean never
// mutates its input and always returns a fresh series together with
// per-stage removal counts; an empty result is the caller's signal that
// the recording produced no usable data (wrong units, disconnected
// sensor, or over-aggressive stage configuration).
//
// Stage order is fixed regardless of which flags are enabled: validity,
// physiological range, robust statistical outliers, rate-of-change
// artifacts, gap interpolation, smoothing.
package cleaning
