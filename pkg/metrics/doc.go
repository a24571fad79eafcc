// Package metrics defines Prometheus metrics for mail delivery and profile
// storage, and can export them in the node_exporter textfile format so that
// cron jobs and scripts using the CLI can be monitored.
package metrics
