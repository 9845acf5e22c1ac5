// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/carbonlab/chemresolve/internal/source"
	"github.com/carbonlab/chemresolve/pkg/types"
)

// User-facing terminal messages and warnings. The exact wording is shown in
// the contribution form, so tests pin it.
const (
	MsgValidation     = "Please enter a Common Name or PubChem CID"
	MsgFoundInCatalog = "Compound found in the catalog."
	MsgFoundInPubChem = "Compound data retrieved from PubChem."
	MsgNotInPubChem   = "Compound not found in PubChem."
	MsgPubChemError   = "PubChem search failed."

	// MsgCASRecovered qualifies a PubChem failure message when the degraded
	// CAS-only recovery still produced a registry number.
	MsgCASRecovered = " A CAS Registry Number was still found."

	WarnCASViaInChI      = "CAS Registry Number found via InChI search"
	WarnNoCASInChIOrSyn  = "No CAS Registry Number found via InChI or synonym search"
	WarnNoCASSynonym     = "No CAS Registry Number found via synonym search"
	warnCASViaSynonymFmt = "CAS Registry Number found via synonym search: %s"
)

// Resolver sequences source lookups for one contribution form: catalog
// first (authoritative, short-circuits enrichment), then PubChem, then the
// CAS registry for whatever is still missing. Lookups are strictly
// sequential; CAS in particular is rate-limited and candidates must be
// tried in priority order with early exit on first success.
type Resolver struct {
	db      source.DatabaseSearcher
	pubchem source.PubChemSearcher
	cas     source.CASSearcher
	cfg     types.ResolveConfig
	log     *zap.Logger

	// gen guards against overlapping passes: a debounced field edit can
	// start a new pass while one is in flight. Each pass snapshots gen at
	// entry and stops merging once a newer pass has bumped it.
	gen atomic.Uint64
}

// NewResolver wires a resolver over the three source adapters. A nil logger
// is replaced with a no-op logger.
func NewResolver(db source.DatabaseSearcher, pubchem source.PubChemSearcher, cas source.CASSearcher, cfg types.ResolveConfig, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{
		db:      db,
		pubchem: pubchem,
		cas:     cas,
		cfg:     cfg.WithDefaults(),
		log:     log,
	}
}

// Resolve runs one resolution pass over rec, mutating it in place on every
// successful merge, and returns the terminal outcome. A *source.ValidationError
// is returned, before any adapter call, when no usable search term exists.
// Cancellation abandons the pass without further mutation. If a newer pass
// starts while this one is in flight the outcome comes back Superseded and
// should be discarded.
func (r *Resolver) Resolve(ctx context.Context, rec *types.Compound, trigger Trigger) (Outcome, error) {
	gen := r.gen.Add(1)
	log := r.log.With(zap.String("trigger", string(trigger)))

	pool := BuildPool(rec.CommonName, nil, rec.Synonyms, r.cfg.MaxNameQueryLen)
	if rec.PubChemCID == "" && len(pool) == 0 && rec.SMILES == "" && rec.InChI == "" {
		return Outcome{}, &source.ValidationError{Msg: MsgValidation}
	}

	var out Outcome

	// Catalog tier. A hit is authoritative: the draft becomes an edit of
	// the stored entity and no remote source is consulted, even when the
	// user also supplied a CID.
	if rec.CommonName != "" {
		m, err := r.db.SearchCompound(ctx, rec.CommonName)
		switch {
		case err == nil:
			if r.stale(gen) {
				out.Superseded = true
				return out, nil
			}
			applyTrusted(rec, m)
			out.MatchedID = m.ID
			out.Status = StatusFoundInDatabase
			out.Message = MsgFoundInCatalog
			out.Record = *rec
			return out, nil
		case source.IsNotFound(err):
			log.Debug("no catalog match", zap.String("query", rec.CommonName))
		default:
			log.Warn("catalog search failed", zap.String("query", rec.CommonName), zap.Error(err))
		}
	}
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}

	casKnownAtStart := rec.CASNumber != ""

	// PubChem tier.
	pcRec, transportFailure, err := r.searchPubChem(ctx, rec, pool, log)
	if err != nil {
		return Outcome{}, err
	}

	if pcRec != nil {
		if r.stale(gen) {
			out.Superseded = true
			return out, nil
		}
		applyFillMissing(rec, pcRec)
		if rec.PubChemCID != "" {
			out.PubChemURL = source.CompoundURL(rec.PubChemCID)
		}
		out.Status = StatusFoundInPubChem
		out.Message = MsgFoundInPubChem
		if !casKnownAtStart {
			if _, err := r.enrichCAS(ctx, gen, rec, &out, pcRec.Synonyms, log); err != nil {
				return Outcome{}, err
			}
			if out.Superseded {
				return out, nil
			}
		}
		out.Record = *rec
		return out, nil
	}

	// PubChem produced nothing. Do not surface the failure yet: attempt a
	// degraded CAS-only recovery with whatever the draft already carries.
	failMsg, status := MsgNotInPubChem, StatusNotFound
	if transportFailure {
		failMsg, status = MsgPubChemError, StatusSearchError
	}

	recovered := false
	if !casKnownAtStart {
		var err error
		recovered, err = r.enrichCAS(ctx, gen, rec, &out, nil, log)
		if err != nil {
			return Outcome{}, err
		}
	}
	if out.Superseded {
		return out, nil
	}

	out.Status = status
	out.Message = failMsg
	if recovered {
		out.Message = failMsg + MsgCASRecovered
	}
	out.Record = *rec
	return out, nil
}

// searchPubChem tries the CID directly when one was supplied, otherwise
// scans the candidate pool with one name query per candidate, stopping at
// the first success, then falls back to a SMILES lookup. It reports whether
// any attempt failed for transport (rather than not-found) reasons.
func (r *Resolver) searchPubChem(ctx context.Context, rec *types.Compound, pool []string, log *zap.Logger) (*source.Record, bool, error) {
	transportFailure := false

	try := func(query string, kind source.QueryKind) (*source.Record, error) {
		pc, err := r.pubchem.Search(ctx, query, kind)
		if err == nil {
			return pc, nil
		}
		if source.IsNotFound(err) {
			log.Debug("no PubChem match", zap.String("kind", string(kind)), zap.String("query", query))
		} else {
			transportFailure = true
			log.Warn("PubChem search failed", zap.String("kind", string(kind)), zap.String("query", query), zap.Error(err))
		}
		return nil, err
	}

	if rec.PubChemCID != "" {
		pc, _ := try(rec.PubChemCID, source.ByCID)
		return pc, transportFailure, ctx.Err()
	}

	for _, cand := range pool {
		if err := ctx.Err(); err != nil {
			return nil, transportFailure, err
		}
		if pc, _ := try(cand, source.ByName); pc != nil {
			return pc, transportFailure, nil
		}
	}

	if rec.SMILES != "" {
		if err := ctx.Err(); err != nil {
			return nil, transportFailure, err
		}
		if pc, _ := try(rec.SMILES, source.BySMILES); pc != nil {
			return pc, transportFailure, nil
		}
	}

	return nil, transportFailure, ctx.Err()
}

// enrichCAS fills in a missing CAS Registry Number: by InChI first (the
// higher-precision key), then a bounded sequential scan of the candidate
// pool as synonym queries. When the number arrived some other way during
// this pass but the structure fields are still empty, a single detail
// lookup backfills them; its failure is silently skipped. Returns whether a
// registry number was found via InChI or synonym search.
func (r *Resolver) enrichCAS(ctx context.Context, gen uint64, rec *types.Compound, out *Outcome, discovered []string, log *zap.Logger) (bool, error) {
	if rec.CASNumber != "" {
		if rec.SMILES == "" {
			cr, err := r.cas.Search(ctx, source.Selector{CASNumber: rec.CASNumber})
			if err != nil {
				log.Debug("CAS detail lookup failed", zap.String("rn", rec.CASNumber), zap.Error(err))
			} else if !r.stale(gen) {
				backfillStructure(rec, cr)
			}
		}
		return false, ctx.Err()
	}

	inchiTried := false
	if rec.InChI != "" {
		inchiTried = true
		cr, err := r.cas.Search(ctx, source.Selector{InChI: rec.InChI})
		switch {
		case err == nil:
			if r.stale(gen) {
				out.Superseded = true
				return false, nil
			}
			rec.CASNumber = cr.RegistryNumber
			backfillStructure(rec, cr)
			out.addWarning(WarnCASViaInChI)
			return true, nil
		case source.IsNotFound(err):
			log.Debug("no CAS match by InChI")
		default:
			log.Warn("CAS InChI search failed", zap.Error(err))
		}
	}

	pool := BuildPool(rec.CommonName, discovered, rec.Synonyms, r.cfg.MaxSynonymQueryLen)
	for _, cand := range pool {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		cr, err := r.cas.Search(ctx, source.Selector{Synonym: cand})
		if err != nil {
			if source.IsNotFound(err) {
				log.Debug("no CAS match by synonym", zap.String("synonym", cand))
			} else {
				log.Warn("CAS synonym search failed", zap.String("synonym", cand), zap.Error(err))
			}
			continue
		}
		if r.stale(gen) {
			out.Superseded = true
			return false, nil
		}
		rec.CASNumber = cr.RegistryNumber
		backfillStructure(rec, cr)
		out.addWarning(fmt.Sprintf(warnCASViaSynonymFmt, cand))
		return true, nil
	}

	if inchiTried {
		out.addWarning(WarnNoCASInChIOrSyn)
	} else {
		out.addWarning(WarnNoCASSynonym)
	}
	return false, ctx.Err()
}

func (r *Resolver) stale(gen uint64) bool {
	return r.gen.Load() != gen
}
