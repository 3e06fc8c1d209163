package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// BuildInfoCollector exposes the running build and its uptime.
type BuildInfoCollector struct {
	buildDesc  *prometheus.Desc
	uptimeDesc *prometheus.Desc
	version    string
	commit     string
	started    time.Time
}

// NewBuildInfoCollector creates a collector for build info and uptime.
func NewBuildInfoCollector(version, commit string) *BuildInfoCollector {
	return &BuildInfoCollector{
		buildDesc: prometheus.NewDesc(
			"navkeep_build_info",
			"Build information. Value is always 1.",
			nil,
			prometheus.Labels{"version": version, "commit": commit},
		),
		uptimeDesc: prometheus.NewDesc(
			"navkeep_uptime_seconds",
			"Seconds since the process started.",
			nil, nil,
		),
		version: version,
		commit:  commit,
		started: time.Now(),
	}
}

// Describe implements prometheus.Collector.
func (c *BuildInfoCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.buildDesc
	ch <- c.uptimeDesc
}

// Collect implements prometheus.Collector.
func (c *BuildInfoCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.buildDesc, prometheus.GaugeValue, 1)
	ch <- prometheus.MustNewConstMetric(c.uptimeDesc, prometheus.GaugeValue, time.Since(c.started).Seconds())
}
