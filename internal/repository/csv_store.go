package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/guttosm/stock-service/internal/domain/dto"
	"github.com/rs/zerolog/log"
)

// CSVSchemaVersion identifies the column layout in CSVColumns.
const CSVSchemaVersion = 1

// CSVColumns is the v1 column order. Readers parse fields by index, so the
// order is part of the file format.
var CSVColumns = []string{"code", "name", "quantity", "price", "discount"}

const (
	colCode = iota
	colName
	colQuantity
	colPrice
	colDiscount
)

// CSVStore stores item records in a CSV file. The discount policy is not part
// of schema v1 and is not persisted.
type CSVStore struct {
	path string
}

// NewCSVStore creates a store backed by the file at path.
func NewCSVStore(path string) *CSVStore {
	return &CSVStore{path: path}
}

// Path returns the backing file path.
func (s *CSVStore) Path() string {
	return s.path
}

// SaveItems writes all records, replacing the file. The data is written to a
// temporary file first and renamed into place.
func (s *CSVStore) SaveItems(ctx context.Context, records []dto.ItemRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	if err := WriteItemsCSV(tmp, records); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}

	log.Debug().Str("path", s.path).Int("records", len(records)).Msg("Saved items to CSV")
	return nil
}

// LoadItems reads all records from the file.
func (s *CSVStore) LoadItems(ctx context.Context) ([]dto.ItemRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", s.path, ErrStoreNotFound)
	}
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	records, err := ReadItemsCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}

	log.Debug().Str("path", s.path).Int("records", len(records)).Msg("Loaded items from CSV")
	return records, nil
}

// WriteItemsCSV writes the header row followed by one row per record.
func WriteItemsCSV(w io.Writer, records []dto.ItemRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVColumns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	row := make([]string, len(CSVColumns))
	for _, rec := range records {
		row[colCode] = strconv.FormatInt(rec.Code, 10)
		row[colName] = rec.Name
		row[colQuantity] = strconv.Itoa(rec.Quantity)
		row[colPrice] = strconv.FormatFloat(rec.Price, 'f', -1, 64)
		row[colDiscount] = strconv.FormatFloat(rec.Discount, 'f', -1, 64)
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write item %d: %w", rec.Code, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadItemsCSV skips the header row and parses the remaining rows by column
// index. Extra trailing columns are ignored.
func ReadItemsCSV(r io.Reader) ([]dto.ItemRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return []dto.ItemRecord{}, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	records := []dto.ItemRecord{}
	for row := 2; ; row++ {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}

		rec, err := parseRow(fields)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		records = append(records, rec)
	}

	return records, nil
}

func parseRow(fields []string) (dto.ItemRecord, error) {
	if len(fields) < len(CSVColumns) {
		return dto.ItemRecord{}, fmt.Errorf("%w: want %d fields, got %d", ErrMalformedRow, len(CSVColumns), len(fields))
	}

	code, err := strconv.ParseInt(strings.TrimSpace(fields[colCode]), 10, 64)
	if err != nil {
		return dto.ItemRecord{}, fmt.Errorf("%w: code: %v", ErrMalformedRow, err)
	}
	quantity, err := strconv.Atoi(strings.TrimSpace(fields[colQuantity]))
	if err != nil {
		return dto.ItemRecord{}, fmt.Errorf("%w: quantity: %v", ErrMalformedRow, err)
	}
	price, err := parseAmount(fields[colPrice])
	if err != nil {
		return dto.ItemRecord{}, fmt.Errorf("%w: price: %v", ErrMalformedRow, err)
	}
	discount, err := parseAmount(fields[colDiscount])
	if err != nil {
		return dto.ItemRecord{}, fmt.Errorf("%w: discount: %v", ErrMalformedRow, err)
	}

	return dto.ItemRecord{
		Code:     code,
		Name:     fields[colName],
		Quantity: quantity,
		Price:    price,
		Discount: discount,
	}, nil
}

// parseAmount parses a price or discount. ParseFloat accepts NaN and Inf,
// which no stored amount may hold.
func parseAmount(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not a finite number", s)
	}
	return v, nil
}
