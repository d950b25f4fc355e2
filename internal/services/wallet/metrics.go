package wallet

import (
	"time"

	"ajopay/internal/domain/money"
)

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (n *NoopMetricsCollector) RecordOperationDuration(string, time.Duration) {}
func (n *NoopMetricsCollector) RecordTransaction(string, money.Money)         {}
func (n *NoopMetricsCollector) RecordError(string, string)                    {}
