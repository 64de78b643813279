// Package ingest discovers and loads a subject's recording files.
//
// A subject directory holds one CSV per sensor stream, classified by
// filename suffix (for example HR_2024_..._HR.csv carries the heart rate
// stream), three accelerometer axis files, and one event marker log
// recorded by the experiment software on an independent clock. Ingest
// happens once per run at the orchestration boundary; the processing core
// only ever sees in-memory series.
package ingest
