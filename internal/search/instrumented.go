package search

import (
	"context"
	"time"

	"github.com/franciscosanchezn/pizza-search-api/internal/metrics"
	"github.com/sirupsen/logrus"
)

// InstrumentedStore records the latency and outcome of every call to the wrapped store
type InstrumentedStore struct {
	next    DocumentStore
	metrics *metrics.Metrics
}

// NewInstrumentedStore wraps next with Prometheus instrumentation
func NewInstrumentedStore(next DocumentStore, m *metrics.Metrics) *InstrumentedStore {
	return &InstrumentedStore{next: next, metrics: m}
}

func (s *InstrumentedStore) Insert(ctx context.Context, index string, document []byte) (*IndexResponse, error) {
	start := time.Now()
	res, err := s.next.Insert(ctx, index, document)
	outcome := "ok"
	switch {
	case err != nil:
		outcome = "error"
	case !res.Created():
		outcome = "rejected"
		log.WithFields(logrus.Fields{
			"index":        index,
			"status":       res.StatusCode,
			"error_type":   res.ErrorType,
			"error_reason": res.ErrorReason,
		}).Warn("Document store rejected document")
	default:
		s.metrics.DocsIndexedTotal.Inc()
	}
	s.observe("insert", outcome, start, err)
	return res, err
}

func (s *InstrumentedStore) QueryAll(ctx context.Context, index string) (*SearchResponse, error) {
	start := time.Now()
	res, err := s.next.QueryAll(ctx, index)
	outcome := "ok"
	switch {
	case err != nil:
		outcome = "error"
	case res.StatusCode >= 300 && res.ErrorType != IndexNotFound:
		outcome = "rejected"
	}
	s.observe("query_all", outcome, start, err)
	return res, err
}

func (s *InstrumentedStore) Ping(ctx context.Context) error {
	start := time.Now()
	err := s.next.Ping(ctx)
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	s.observe("ping", outcome, start, err)
	return err
}

func (s *InstrumentedStore) Close() error {
	return s.next.Close()
}

func (s *InstrumentedStore) observe(operation, outcome string, start time.Time, err error) {
	s.metrics.StoreLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	s.metrics.StoreOperationsTotal.WithLabelValues(operation, outcome).Inc()
	if err != nil {
		log.WithError(err).WithField("operation", operation).Error("Document store call failed")
	}
}
