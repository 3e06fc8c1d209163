// Package clock provides the time source for NavKeep.
//
// Restoration decisions hinge on wall-clock intervals measured across
// process restarts, so the engine never reads time.Now directly:
// components take a Clock so tests can script the passage of time.
//
// The package also ships an optional SNTP skew probe. A device clock
// that jumped while the app was dead silently changes every staleness
// decision; the probe measures the offset against NTP at startup so
// large skew is at least visible in logs and metrics.
package clock
