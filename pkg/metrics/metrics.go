package metrics

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds every smtpmailer metric. It is separate from the default
// registry so textfile exports carry no Go runtime collectors.
var Registry = prometheus.NewRegistry()

var (
	MailSendSuccess = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "smtpmailer_mail_send_success_total",
		Help: "Total number of messages accepted by the SMTP server",
	}, []string{"host"})
	MailSendFailure = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "smtpmailer_mail_send_failure_total",
		Help: "Total number of failed send attempts by failure reason",
	}, []string{"host", "reason"})
	MailSendDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "smtpmailer_mail_send_duration_seconds",
		Help:    "Duration of SMTP sessions from dial to close",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"host"})
	MailAttachments = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "smtpmailer_mail_attachments_total",
		Help: "Total number of attachments included in sent messages",
	})
	ProfileOperations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "smtpmailer_profile_operations_total",
		Help: "Total number of profile store operations by result",
	}, []string{"operation", "result"})
	LastSendTimestamp = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "smtpmailer_last_send_timestamp_seconds",
		Help: "Unix time of the last successful send",
	})
)

func init() {
	Registry.MustRegister(MailSendSuccess)
	Registry.MustRegister(MailSendFailure)
	Registry.MustRegister(MailSendDuration)
	Registry.MustRegister(MailAttachments)
	Registry.MustRegister(ProfileOperations)
	Registry.MustRegister(LastSendTimestamp)
}

// ObserveProfileOperation counts a profile store operation.
func ObserveProfileOperation(operation string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	ProfileOperations.WithLabelValues(operation, result).Inc()
}

// WriteTextfile writes the current metric values to path in the Prometheus
// text format, replacing the file atomically.
func WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create metrics dir: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, Registry); err != nil {
		return fmt.Errorf("failed to write metrics file: %w", err)
	}
	return nil
}
