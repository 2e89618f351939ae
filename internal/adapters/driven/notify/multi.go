package notify

import (
	"context"
	"errors"

	"github.com/custodia-labs/rankwatch/internal/core/domain"
	"github.com/custodia-labs/rankwatch/internal/core/ports/driven"
)

// Ensure MultiSink and Discard implement the interface.
var (
	_ driven.ReportSink = (MultiSink)(nil)
	_ driven.ReportSink = Discard{}
)

// MultiSink delivers to every sink in order. A failing sink does not stop
// delivery to the others; all errors are joined.
type MultiSink []driven.ReportSink

// NewMultiSink returns a sink over the non-nil sinks given.
func NewMultiSink(sinks ...driven.ReportSink) MultiSink {
	out := make(MultiSink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

// DeliverReport delivers to every sink.
func (m MultiSink) DeliverReport(ctx context.Context, report *domain.DomainReport) error {
	var errs []error
	for _, s := range m {
		if err := s.DeliverReport(ctx, report); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// DeliverFailure delivers to every sink.
func (m MultiSink) DeliverFailure(ctx context.Context, failure *domain.CheckFailure) error {
	var errs []error
	for _, s := range m {
		if err := s.DeliverFailure(ctx, failure); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Discard is a sink that drops everything.
type Discard struct{}

// DeliverReport does nothing.
func (Discard) DeliverReport(context.Context, *domain.DomainReport) error { return nil }

// DeliverFailure does nothing.
func (Discard) DeliverFailure(context.Context, *domain.CheckFailure) error { return nil }
