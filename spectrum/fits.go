package spectrum

import (
	"fmt"
	"os"
	"reflect"

	"github.com/astrogo/fitsio"

	"github.com/cwbudde/algo-uvspec/dsp/grid"
)

// FITS layout of the calibrated products.
const (
	ExtractedSuffix = "_x1d.fits"
	CorrtagSuffix   = "_corrtag_a.fits"
	CorrtagBSuffix  = "_corrtag_b.fits"

	extractedExtension = "SCI"
	corrtagTimingHDU   = 3
	keyStartJD         = "EXPSTRTJ"
	keyEndJD           = "EXPENDJ"
)

// FITSSource reads `<Prefix><dataset>_x1d.fits` and
// `<Prefix><dataset>_corrtag_a.fits`.
type FITSSource struct {
	Prefix string
}

// Read loads the extracted spectrum and the exposure timing of dataset.
func (s FITSSource) Read(dataset string) (Raw, error) {
	var raw Raw

	x1d := s.Prefix + dataset + ExtractedSuffix
	if err := withFITS(x1d, func(f *fitsio.File) error {
		return readExtracted(f, &raw)
	}); err != nil {
		return Raw{}, err
	}

	corrtag := s.Prefix + dataset + CorrtagSuffix
	if err := withFITS(corrtag, func(f *fitsio.File) error {
		return readTiming(f, &raw)
	}); err != nil {
		return Raw{}, err
	}
	return raw, nil
}

func withFITS(path string, fn func(*fitsio.File) error) error {
	r, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDataSource, err)
	}
	defer r.Close()

	f, err := fitsio.Open(r)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrDataSource, path, err)
	}
	defer f.Close()

	if err := fn(f); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func readExtracted(f *fitsio.File, raw *Raw) error {
	var table *fitsio.Table
	for _, hdu := range f.HDUs() {
		if t, ok := hdu.(*fitsio.Table); ok && hdu.Name() == extractedExtension {
			table = t
			break
		}
	}
	if table == nil {
		return fmt.Errorf("%w: no %s table", ErrDataSource, extractedExtension)
	}

	n := table.NumRows()
	if n < 1 || n > grid.NumSides {
		return fmt.Errorf("%w: %s has %d rows", ErrDataSource, extractedExtension, n)
	}

	rows, err := table.Read(0, n)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDataSource, err)
	}
	defer rows.Close()

	side := 0
	for rows.Next() {
		row := make(map[string]interface{})
		if err := rows.Scan(&row); err != nil {
			return fmt.Errorf("%w: row %d: %v", ErrDataSource, side, err)
		}
		seg, exptime, err := segmentFromRow(row)
		if err != nil {
			return fmt.Errorf("row %d: %w", side, err)
		}
		raw.Segments[side] = seg
		raw.ExposureTime[side] = exptime
		side++
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrDataSource, err)
	}
	if side == 1 {
		raw.ExposureTime[1] = raw.ExposureTime[0]
	}
	return nil
}

func segmentFromRow(row map[string]interface{}) (Segment, float64, error) {
	var seg Segment
	columns := []struct {
		name string
		dst  *[]float64
	}{
		{"WAVELENGTH", &seg.Wavelength},
		{"FLUX", &seg.Flux},
		{"ERROR", &seg.Error},
		{"GCOUNTS", &seg.GrossCounts},
		{"BACKGROUND", &seg.Background},
		{"NET", &seg.Net},
	}
	for _, col := range columns {
		v, ok := row[col.name]
		if !ok {
			return Segment{}, 0, fmt.Errorf("%w: missing column %s", ErrDataSource, col.name)
		}
		a, err := toFloats(v)
		if err != nil {
			return Segment{}, 0, fmt.Errorf("%w: column %s: %v", ErrDataSource, col.name, err)
		}
		*col.dst = a
	}

	v, ok := row["EXPTIME"]
	if !ok {
		return Segment{}, 0, fmt.Errorf("%w: missing column EXPTIME", ErrDataSource)
	}
	exptime, err := toFloat(v)
	if err != nil {
		return Segment{}, 0, fmt.Errorf("%w: column EXPTIME: %v", ErrDataSource, err)
	}
	return seg, exptime, nil
}

func readTiming(f *fitsio.File, raw *Raw) error {
	hdus := f.HDUs()
	if len(hdus) <= corrtagTimingHDU {
		return fmt.Errorf("%w: %d HDUs, timing expected in HDU %d", ErrDataSource, len(hdus), corrtagTimingHDU)
	}
	hdr := hdus[corrtagTimingHDU].Header()

	for _, key := range []struct {
		name string
		dst  *float64
	}{
		{keyStartJD, &raw.StartJD},
		{keyEndJD, &raw.EndJD},
	} {
		card := hdr.Get(key.name)
		if card == nil {
			return fmt.Errorf("%w: missing header key %s", ErrDataSource, key.name)
		}
		v, err := toFloat(card.Value)
		if err != nil {
			return fmt.Errorf("%w: header key %s: %v", ErrDataSource, key.name, err)
		}
		*key.dst = v
	}
	return nil
}

// toFloats converts a decoded FITS vector cell (slice or fixed-size array of
// any numeric kind) to []float64.
func toFloats(v interface{}) ([]float64, error) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]float64, rv.Len())
		for i := range out {
			f, err := numeric(rv.Index(i))
			if err != nil {
				return nil, err
			}
			out[i] = f
		}
		return out, nil
	default:
		f, err := numeric(rv)
		if err != nil {
			return nil, err
		}
		return []float64{f}, nil
	}
}

// toFloat converts a scalar cell or header value, taking the first element
// of vectors.
func toFloat(v interface{}) (float64, error) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Len() == 0 {
			return 0, fmt.Errorf("empty vector")
		}
		return numeric(rv.Index(0))
	default:
		return numeric(rv)
	}
}

func numeric(rv reflect.Value) (float64, error) {
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), nil
	case reflect.Interface:
		return numeric(rv.Elem())
	default:
		return 0, fmt.Errorf("non-numeric value of kind %s", rv.Kind())
	}
}
