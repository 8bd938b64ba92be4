package sheets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yuchialin/tripledger/internal/service"
)

func TestRowToRecord(t *testing.T) {
	tests := []struct {
		name string
		row  []any
		want service.RawRecord
	}{
		{
			name: "full row",
			row: []any{
				"2024-03-02", "7-Eleven", "water\nsnacks", "food", "public",
				"A", "JPY", "300", "63", "TRUE", "A,B", "A:32(150);B:31(150)",
			},
			want: service.RawRecord{
				RowIndex:     2,
				Date:         "2024-03-02",
				Merchant:     "7-Eleven",
				Item:         "water\nsnacks",
				Category:     "food",
				Kind:         "public",
				PayerName:    "A",
				Currency:     "JPY",
				OriginAmount: 300,
				HomeAmount:   63,
				IsSplit:      true,
				Participants: "A,B",
				SplitDetail:  "A:32(150);B:31(150)",
			},
		},
		{
			name: "malformed amounts become zero",
			row: []any{
				"2024-03-02", "hotel", "", "lodging", "public",
				"A", "TWD", "???", "n/a", "FALSE", "", "",
			},
			want: service.RawRecord{
				RowIndex:  2,
				Date:      "2024-03-02",
				Merchant:  "hotel",
				Category:  "lodging",
				Kind:      "public",
				PayerName: "A",
				Currency:  "TWD",
			},
		},
		{
			name: "short row pads with blanks",
			row:  []any{"2024-03-02", "taxi"},
			want: service.RawRecord{
				RowIndex: 2,
				Date:     "2024-03-02",
				Merchant: "taxi",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rowToRecord(tt.row, 2))
		})
	}
}

func TestRowsToRecordsSkipsClearedRows(t *testing.T) {
	// Rows 3 and 4 were cleared by remote deletes: one came back with no
	// cells at all, one with empty strings.
	values := [][]any{
		{"2024-03-02", "7-Eleven", "", "food", "public", "A", "JPY", "300", "63", "TRUE", "A,B", ""},
		{},
		{"", "", "", "", "", "", "", ""},
		{"2024-03-04", "taxi", "", "transport", "public", "B", "JPY", "1200", "252", "FALSE", "", ""},
	}

	records := rowsToRecords(values)
	require.Len(t, records, 2)

	// Sheet positions survive the skips.
	assert.Equal(t, 2, records[0].RowIndex)
	assert.Equal(t, 5, records[1].RowIndex)
}

func TestRecordRowRoundTrip(t *testing.T) {
	rec := service.RawRecord{
		Date:         "2024-03-05",
		Merchant:     "ryokan",
		Item:         "two nights",
		Category:     "lodging",
		Kind:         "public",
		PayerName:    "B",
		Currency:     "JPY",
		OriginAmount: 42000,
		HomeAmount:   8820,
		IsSplit:      true,
		Participants: "A,B,C",
		SplitDetail:  "A:2940(14000);B:2940(14000);C:2940(14000)",
	}

	got := rowToRecord(recordToRow(rec), 7)
	rec.RowIndex = 7
	assert.Equal(t, rec, got)
}

func TestParseBool(t *testing.T) {
	assert.True(t, parseBool("TRUE"))
	assert.True(t, parseBool("true"))
	assert.True(t, parseBool("1"))
	assert.False(t, parseBool("FALSE"))
	assert.False(t, parseBool(""))
}
