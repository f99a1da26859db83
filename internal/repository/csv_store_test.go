//go:build !integration

package repository

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/guttosm/stock-service/internal/domain/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecords() []dto.ItemRecord {
	return []dto.ItemRecord{
		{Code: 1234567, Name: "CI12345", Quantity: 10, Price: 99.5, Discount: 12},
		{Code: 7654321, Name: "CI54321", Quantity: 0, Price: 10, Discount: 0},
		{Code: 1111111, Name: "name, with comma", Quantity: 3, Price: 0.1, Discount: 29.75},
	}
}

func TestWriteItemsCSV(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, WriteItemsCSV(&buf, sampleRecords()[:2]))

	assert.Equal(t,
		"code,name,quantity,price,discount\n"+
			"1234567,CI12345,10,99.5,12\n"+
			"7654321,CI54321,0,10,0\n",
		buf.String())
}

func TestReadItemsCSV(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []dto.ItemRecord
		wantErr  error
	}{
		{
			name:     "empty input",
			input:    "",
			expected: []dto.ItemRecord{},
		},
		{
			name:     "header only",
			input:    "code,name,quantity,price,discount\n",
			expected: []dto.ItemRecord{},
		},
		{
			name:  "header is skipped whatever it says",
			input: "Barcode,Name,Quantity,Price,Discount\n1000000,CI10000,5,20,3\n",
			expected: []dto.ItemRecord{
				{Code: 1000000, Name: "CI10000", Quantity: 5, Price: 20, Discount: 3},
			},
		},
		{
			name:  "extra columns are ignored",
			input: "h\n1000000,CI10000,5,20,3,fixed\n",
			expected: []dto.ItemRecord{
				{Code: 1000000, Name: "CI10000", Quantity: 5, Price: 20, Discount: 3},
			},
		},
		{
			name:    "too few fields",
			input:   "h\n1000000,CI10000,5,20\n",
			wantErr: ErrMalformedRow,
		},
		{
			name:    "bad code",
			input:   "h\nabc,CI10000,5,20,3\n",
			wantErr: ErrMalformedRow,
		},
		{
			name:    "bad quantity",
			input:   "h\n1000000,CI10000,5.5,20,3\n",
			wantErr: ErrMalformedRow,
		},
		{
			name:    "bad price",
			input:   "h\n1000000,CI10000,5,x,3\n",
			wantErr: ErrMalformedRow,
		},
		{
			name:    "bad discount",
			input:   "h\n1000000,CI10000,5,20,\n",
			wantErr: ErrMalformedRow,
		},
		{
			name:    "NaN discount",
			input:   "h\n1000000,CI10000,5,20,NaN\n",
			wantErr: ErrMalformedRow,
		},
		{
			name:    "infinite discount",
			input:   "h\n1000000,CI10000,5,20,-Inf\n",
			wantErr: ErrMalformedRow,
		},
		{
			name:    "infinite price",
			input:   "h\n1000000,CI10000,5,Inf,3\n",
			wantErr: ErrMalformedRow,
		},
		{
			name:    "signed infinite price",
			input:   "h\n1000000,CI10000,5,+Inf,3\n",
			wantErr: ErrMalformedRow,
		},
		{
			name:    "NaN price",
			input:   "h\n1000000,CI10000,5,nan,3\n",
			wantErr: ErrMalformedRow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := ReadItemsCSV(strings.NewReader(tt.input))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, records)
		})
	}
}

func TestReadItemsCSV_ReportsRowNumber(t *testing.T) {
	_, err := ReadItemsCSV(strings.NewReader("h\n1000000,a,1,1,1\n1000001,b,1,1\n"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 3")
}

func TestCSVStore_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "database.csv")
	store := NewCSVStore(path)

	require.NoError(t, store.SaveItems(ctx, sampleRecords()))

	loaded, err := store.LoadItems(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleRecords(), loaded)

	t.Run("save replaces content", func(t *testing.T) {
		require.NoError(t, store.SaveItems(ctx, sampleRecords()[:1]))

		loaded, err := store.LoadItems(ctx)
		require.NoError(t, err)
		assert.Len(t, loaded, 1)
	})

	t.Run("no temp files left behind", func(t *testing.T) {
		entries, err := os.ReadDir(filepath.Dir(path))
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})
}

func TestCSVStore_LoadMissingFile(t *testing.T) {
	store := NewCSVStore(filepath.Join(t.TempDir(), "missing.csv"))

	_, err := store.LoadItems(context.Background())

	assert.ErrorIs(t, err, ErrStoreNotFound)
}

func TestCSVStore_CancelledContext(t *testing.T) {
	store := NewCSVStore(filepath.Join(t.TempDir(), "db.csv"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, store.SaveItems(ctx, sampleRecords()), context.Canceled)
	_, err := store.LoadItems(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
