// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package api

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/carbonlab/chemresolve/internal/source"
)

var (
	resolutionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chemresolve",
		Subsystem: "api",
		Name:      "resolutions_total",
		Help:      "Resolution passes served, labelled by terminal status.",
	}, []string{"status"})

	adapterCallsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chemresolve",
		Subsystem: "adapter",
		Name:      "calls_total",
		Help:      "Upstream adapter calls, labelled by source and result.",
	}, []string{"source", "result"})
)

func init() {
	prometheus.MustRegister(resolutionsTotal, adapterCallsTotal)
}

// InstrumentSources wraps the three adapters so every upstream call is
// counted. Any argument may be nil and is passed through untouched.
func InstrumentSources(db source.DatabaseSearcher, pc source.PubChemSearcher, cas source.CASSearcher) (source.DatabaseSearcher, source.PubChemSearcher, source.CASSearcher) {
	if db != nil {
		db = instrumentedDB{inner: db}
	}
	if pc != nil {
		pc = instrumentedPubChem{inner: pc}
	}
	if cas != nil {
		cas = instrumentedCAS{inner: cas}
	}
	return db, pc, cas
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "hit"
	case source.IsNotFound(err):
		return "miss"
	default:
		return "error"
	}
}

type instrumentedDB struct {
	inner source.DatabaseSearcher
}

func (d instrumentedDB) SearchCompound(ctx context.Context, query string) (*source.CatalogMatch, error) {
	m, err := d.inner.SearchCompound(ctx, query)
	adapterCallsTotal.WithLabelValues("catalog", resultLabel(err)).Inc()
	return m, err
}

type instrumentedPubChem struct {
	inner source.PubChemSearcher
}

func (p instrumentedPubChem) Search(ctx context.Context, query string, kind source.QueryKind) (*source.Record, error) {
	rec, err := p.inner.Search(ctx, query, kind)
	adapterCallsTotal.WithLabelValues("pubchem", resultLabel(err)).Inc()
	return rec, err
}

type instrumentedCAS struct {
	inner source.CASSearcher
}

func (c instrumentedCAS) Search(ctx context.Context, sel source.Selector) (*source.CASRecord, error) {
	rec, err := c.inner.Search(ctx, sel)
	adapterCallsTotal.WithLabelValues("cas", resultLabel(err)).Inc()
	return rec, err
}
