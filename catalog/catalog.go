// Package catalog stores integrated-flux measurements in SQLite so light
// curves can be assembled across runs.
package catalog

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/cwbudde/algo-uvspec/spectrum"
)

//go:embed schema.sql
var schema string

// ErrInvalidMeasurement is returned by Record for a measurement without
// dataset or species.
var ErrInvalidMeasurement = errors.New("catalog: measurement needs dataset and species")

// Measurement is one integrated flux of one line in one exposure.
type Measurement struct {
	ID      string
	Dataset string
	Species string
	Central float64
	// Range holds the integration bounds, in km/s when Velocity is set and
	// in Å otherwise.
	Range       [2]float64
	Velocity    bool
	StartJD     float64
	EndJD       float64
	Flux        float64
	Uncertainty float64
	Method      string
	// Version of the spectrum the flux was measured on.
	Version   int
	CreatedAt time.Time
}

// MidJD returns the exposure midpoint.
func (m Measurement) MidJD() float64 { return (m.StartJD + m.EndJD) / 2 }

// Measure integrates s over r with the given uncertainty method and returns
// the measurement for species.
func Measure(s *spectrum.Spectrum, species string, central float64, r spectrum.Range, method spectrum.Method, opts ...spectrum.FluxOption) (Measurement, error) {
	opts = append([]spectrum.FluxOption{spectrum.WithMethod(method)}, opts...)
	flux, unc, err := s.IntegratedFlux(r, opts...)
	if err != nil {
		return Measurement{}, err
	}
	return Measurement{
		Dataset:     s.Dataset,
		Species:     species,
		Central:     central,
		Range:       r.Bounds(),
		Velocity:    r.IsVelocity(),
		StartJD:     s.StartJD,
		EndJD:       s.EndJD,
		Flux:        flux,
		Uncertainty: unc,
		Method:      method.String(),
		Version:     s.Version,
	}, nil
}

// Catalog is a measurement store.
type Catalog struct {
	db *sql.DB
}

// Open opens or creates the catalog at dsn, a SQLite file path.
func Open(dsn string) (*Catalog, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("catalog: open %s: %w", dsn, err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("catalog: init schema: %w", err)
	}
	return &Catalog{db: db}, nil
}

// Close closes the database.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// Record stores m under a new ID and returns it with ID and CreatedAt set.
func (c *Catalog) Record(ctx context.Context, m Measurement) (Measurement, error) {
	if m.Dataset == "" || m.Species == "" {
		return Measurement{}, ErrInvalidMeasurement
	}
	m.ID = uuid.New().String()
	m.CreatedAt = time.Now().UTC()

	_, err := c.db.ExecContext(ctx, `
		INSERT INTO measurements (id, dataset, species, central, range_lo, range_hi, velocity,
		                          start_jd, end_jd, flux, uncertainty, method, version, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.Dataset, m.Species, m.Central, m.Range[0], m.Range[1], boolInt(m.Velocity),
		m.StartJD, m.EndJD, m.Flux, m.Uncertainty, m.Method, m.Version, m.CreatedAt.UnixNano(),
	)
	if err != nil {
		return Measurement{}, fmt.Errorf("catalog: insert measurement: %w", err)
	}
	return m, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// likeEscaper quotes the LIKE wildcards so split names such as
// lb4m01abq_1 match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// LightCurve returns the measurements of species whose dataset starts with
// dataset, ordered by start time. This picks up the splits of an exposure
// together with the exposure itself.
func (c *Catalog) LightCurve(ctx context.Context, dataset, species string) ([]Measurement, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT id, dataset, species, central, range_lo, range_hi, velocity,
		       start_jd, end_jd, flux, uncertainty, method, version, created_at
		FROM measurements
		WHERE dataset LIKE ? || '%' ESCAPE '\' AND species = ?
		ORDER BY start_jd, dataset`,
		likeEscaper.Replace(dataset), species,
	)
	if err != nil {
		return nil, fmt.Errorf("catalog: query light curve: %w", err)
	}
	defer rows.Close()

	var out []Measurement
	for rows.Next() {
		var (
			m       Measurement
			created int64
		)
		if err := rows.Scan(&m.ID, &m.Dataset, &m.Species, &m.Central, &m.Range[0], &m.Range[1], &m.Velocity,
			&m.StartJD, &m.EndJD, &m.Flux, &m.Uncertainty, &m.Method, &m.Version, &created); err != nil {
			return nil, fmt.Errorf("catalog: scan measurement: %w", err)
		}
		m.CreatedAt = time.Unix(0, created).UTC()
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog: read light curve: %w", err)
	}
	return out, nil
}
