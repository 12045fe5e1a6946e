package samples

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fcc-hep/samplecat/pkg/pagination"
	"github.com/fcc-hep/samplecat/pkg/query"
	"github.com/fcc-hep/samplecat/pkg/repository"
)

// sampleNamespace seeds deterministic UUIDs so re-importing the same sample
// always targets the same row. Bump the suffix when the identity scheme
// changes (v01 -> v02 regenerates every UUID).
var sampleNamespace = uuid.NewSHA1(uuid.NameSpaceDNS, []byte("samples.fcc-hep.ch.v01"))

// SampleUUID returns the deterministic UUID for a sample ID.
func SampleUUID(sampleID string) uuid.UUID {
	return uuid.NewSHA1(sampleNamespace, []byte(sampleID))
}

// StoredSample is one merged record mirrored into PostgreSQL for paginated
// API queries.
type StoredSample struct {
	ID                    uuid.UUID `json:"id"`
	SampleID              string    `json:"sample_id"`
	Name                  *string   `json:"name,omitempty"`
	Status                string    `json:"status"`
	CrossSection          *float64  `json:"cross_section,omitempty"`
	CrossSectionError     *float64  `json:"cross_section_error,omitempty"`
	Efficiency            float64   `json:"efficiency"`
	EfficiencyInfo        *string   `json:"efficiency_info,omitempty"`
	TotalSumOfWeights     *float64  `json:"total_sum_of_weights,omitempty"`
	TotalNumberOfEvents   *int64    `json:"total_number_of_events,omitempty"`
	NumberOfEventsPerFile *int64    `json:"number_of_events_per_file,omitempty"`
	Paths                 []string  `json:"paths,omitempty"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// Store defines the PostgreSQL-backed sample queries.
type Store interface {
	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[StoredSample], error)

	Find(ctx context.Context, sampleID string) (*StoredSample, error)

	// Import upserts every record of db and returns the number of rows written.
	Import(ctx context.Context, db *Database) (int, error)
}

type store struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// NewStore creates a Store backed by the given connection pool.
func NewStore(db *sql.DB, logger *slog.Logger, pagination pagination.Config) Store {
	return &store{
		db:         db,
		logger:     logger.With("system", "samples"),
		pagination: pagination,
	}
}

func (s *store) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[StoredSample], error) {
	page.Normalize(s.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "SampleID", "Name")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := s.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count samples: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	records, err := repository.QueryMany(ctx, s.db, pageSQL, pageArgs, scanSample)
	if err != nil {
		return nil, fmt.Errorf("query samples: %w", err)
	}

	result := pagination.NewPageResult(records, total, page.Page, page.PageSize)
	return &result, nil
}

func (s *store) Find(ctx context.Context, sampleID string) (*StoredSample, error) {
	q, args := query.NewBuilder(projection).BuildSingle("SampleID", sampleID)

	rec, err := repository.QueryOne(ctx, s.db, q, args, scanSample)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrNotFound)
	}
	return &rec, nil
}

const upsertSample = `
	INSERT INTO samples(
		id, sample_id, name, status,
		cross_section, cross_section_error,
		efficiency, efficiency_info,
		total_sum_of_weights, total_number_of_events, number_of_events_per_file,
		paths, updated_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, now())
	ON CONFLICT (id) DO UPDATE SET
		name = EXCLUDED.name,
		status = EXCLUDED.status,
		cross_section = EXCLUDED.cross_section,
		cross_section_error = EXCLUDED.cross_section_error,
		efficiency = EXCLUDED.efficiency,
		efficiency_info = EXCLUDED.efficiency_info,
		total_sum_of_weights = EXCLUDED.total_sum_of_weights,
		total_number_of_events = EXCLUDED.total_number_of_events,
		number_of_events_per_file = EXCLUDED.number_of_events_per_file,
		paths = EXCLUDED.paths,
		updated_at = now()`

func (s *store) Import(ctx context.Context, db *Database) (int, error) {
	count, err := repository.WithTx(ctx, s.db, func(tx *sql.Tx) (int, error) {
		n := 0
		err := db.Samples.Each(func(id string, rec Record) error {
			if _, err := tx.ExecContext(ctx, upsertSample,
				SampleUUID(id),
				id,
				nullString(rec.Name),
				rec.Status,
				rec.CrossSection,
				rec.CrossSectionError,
				rec.Efficiency,
				nullString(rec.EfficiencyInfo),
				rec.TotalSumOfWeights,
				rec.TotalNumberOfEvents,
				rec.NumberOfEventsPerFile,
				joinPaths(rec.Path),
			); err != nil {
				return fmt.Errorf("upsert sample %q: %w", id, err)
			}
			n++
			return nil
		})
		return n, err
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("sample import complete", "samples", count)
	return count, nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
