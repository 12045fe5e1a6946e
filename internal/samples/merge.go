package samples

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// sourceSet is a parsed source document: sample IDs mapped to their raw
// field sets, in document order.
type sourceSet struct {
	ids  []string
	byID map[string]sourceRecord
}

func parseSource(name string, data []byte) (*sourceSet, error) {
	set := &sourceSet{byID: make(map[string]sourceRecord)}
	err := eachObjectEntry(data, func(id string, raw json.RawMessage) error {
		var rec sourceRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return fmt.Errorf("sample %q: %v", id, err)
		}
		if _, ok := set.byID[id]; !ok {
			set.ids = append(set.ids, id)
		}
		set.byID[id] = rec
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedSource, name, err)
	}
	return set, nil
}

// Stats summarizes one merge pass. DroppedOverrides counts augment entries
// whose sample ID never appeared in the transformation source; they are
// dropped from the output, with the count surfaced for diagnostics instead of
// treating them as an error.
type Stats struct {
	Merged           int      `json:"merged"`
	DroppedOverrides int      `json:"dropped_overrides"`
	DroppedIDs       []string `json:"dropped_ids,omitempty"`
}

// merge joins the two parsed sources into a database document. The record set
// holds exactly the IDs of the transformation source, in its document order.
// Augment fields win over transformation fields field by field; the totals
// and path come from the transformation source alone.
func merge(augments, transformations *sourceSet, at time.Time) (*Database, Stats) {
	set := NewRecordSet()

	for _, id := range transformations.ids {
		base := transformations.byID[id]
		// a missing augment entry is an in-progress sample, not an error;
		// the zero sourceRecord leaves every override unset
		over := augments.byID[id]

		rec := Record{
			Name:                  stringField(over.Name, base.Name),
			Status:                canonicalStatus(stringField(over.Status, base.Status)),
			CrossSection:          floatField(over.CrossSection, base.CrossSection),
			CrossSectionError:     floatField(over.CrossSectionError, base.CrossSectionError),
			Efficiency:            1.0,
			TotalSumOfWeights:     base.TotalSumOfWeights,
			TotalNumberOfEvents:   base.TotalNumberOfEvents,
			NumberOfEventsPerFile: base.NumberOfEventsPerFile,
			Path:                  base.Path,
		}
		if over.Efficiency != nil {
			rec.Efficiency = *over.Efficiency
		}
		if over.EfficiencyInfo != nil {
			rec.EfficiencyInfo = *over.EfficiencyInfo
		}

		set.Set(id, rec)
	}

	stats := Stats{Merged: set.Len()}
	for _, id := range augments.ids {
		if _, ok := transformations.byID[id]; !ok {
			stats.DroppedOverrides++
			stats.DroppedIDs = append(stats.DroppedIDs, id)
		}
	}

	db := &Database{
		LastUpdate: at.UTC().Format(time.RFC3339),
		Samples:    set,
	}
	return db, stats
}

func stringField(override, base *string) string {
	if override != nil {
		return *override
	}
	if base != nil {
		return *base
	}
	return ""
}

func floatField(override, base *float64) *float64 {
	if override != nil {
		return override
	}
	return base
}

// canonicalStatus lower-cases the lifecycle state. Upstream sources have been
// seen with mixed casing; the display color class keys on the lower-cased form.
func canonicalStatus(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Merger loads the two source documents, merges them, and persists the result.
// Source and output locations are explicit configuration, never globals.
type Merger struct {
	loader    Loader
	store     *DocumentStore
	augments  string
	transinfo string
	logger    *slog.Logger
	now       func() time.Time
}

// NewMerger creates a Merger reading augments and transformation info through
// loader and writing the merged database through store. A nil now falls back
// to time.Now.
func NewMerger(
	loader Loader,
	store *DocumentStore,
	augmentsPath string,
	transinfoPath string,
	logger *slog.Logger,
	now func() time.Time,
) *Merger {
	if now == nil {
		now = time.Now
	}
	return &Merger{
		loader:    loader,
		store:     store,
		augments:  augmentsPath,
		transinfo: transinfoPath,
		logger:    logger.With("system", "merger"),
		now:       now,
	}
}

// Run performs one full merge pass: load both sources, join them, and fully
// overwrite the persisted database document. On any source failure no
// document is written and the previous version stays in place.
func (m *Merger) Run(ctx context.Context) (*Database, Stats, error) {
	started := time.Now()

	var augData, transData []byte
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		augData, err = m.loader.Load(gctx, m.augments)
		return err
	})
	g.Go(func() error {
		var err error
		transData, err = m.loader.Load(gctx, m.transinfo)
		return err
	})
	if err := g.Wait(); err != nil {
		mergeFailures.Inc()
		return nil, Stats{}, err
	}

	augments, err := parseSource(m.augments, augData)
	if err != nil {
		mergeFailures.Inc()
		return nil, Stats{}, err
	}
	transformations, err := parseSource(m.transinfo, transData)
	if err != nil {
		mergeFailures.Inc()
		return nil, Stats{}, err
	}

	db, stats := merge(augments, transformations, m.now())

	if m.store != nil {
		if err := m.store.Write(db); err != nil {
			mergeFailures.Inc()
			return nil, Stats{}, fmt.Errorf("persist sample database: %w", err)
		}
	}

	mergesTotal.Inc()
	mergeDuration.Observe(time.Since(started).Seconds())
	droppedOverrideKeys.Set(float64(stats.DroppedOverrides))

	m.logger.Info(
		"sample database rebuilt",
		"samples", stats.Merged,
		"dropped_overrides", stats.DroppedOverrides,
		"duration", time.Since(started),
	)
	return db, stats, nil
}
