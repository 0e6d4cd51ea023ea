package dataprocessing

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"storefeatures/internal/shared/testutil"
)

func TestNormalizeColumnName(t *testing.T) {
	tests := map[string]string{
		"Store":                       "store",
		" StoreType ":                 "storetype",
		"Competition_Open Since-Year": "competitionopensinceyear",
		"PROMO_2":                     "promo2",
		"":                            "",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeColumnName(in), in)
	}
}

func TestIsNull(t *testing.T) {
	for _, cell := range []string{"", "  ", "NaN", "NA", "null", "n/a"} {
		assert.True(t, IsNull(cell), cell)
	}
	for _, cell := range []string{"0", "None", "a", "Jan,Apr"} {
		assert.False(t, IsNull(cell), cell)
	}
}

func TestReadTable_CSV(t *testing.T) {
	obsPath, _ := testutil.WriteSalesFixtures(t)

	table, err := ReadTable(obsPath, TableObservations, ',')
	require.NoError(t, err)

	assert.Equal(t, TableObservations, table.Name)
	assert.Equal(t, []string{"store", "dayofweek", "date", "sales", "customers", "open", "promo"}, table.Header)
	require.Len(t, table.Rows, 7)
	assert.Equal(t, "2015-07-31", table.Cell(0, table.Index("date")))
	assert.Equal(t, 2, table.Line(0))
	assert.Equal(t, 8, table.Line(6))
	assert.Equal(t, -1, table.Index("profit"))
}

func TestReadTableFrom_QuotedAndShortRows(t *testing.T) {
	input := "\ufeffStore;PromoInterval;Extra\n1;\"Jan;Apr\";x\n2\n"

	table, err := ReadTableFrom(strings.NewReader(input), "stores.txt", TableStores, ';')
	require.NoError(t, err)

	assert.Equal(t, []string{"store", "promointerval", "extra"}, table.Header)
	assert.Equal(t, "Jan;Apr", table.Cell(0, 1))
	assert.Equal(t, "", table.Cell(1, 2))
}

func TestReadTableFrom_Empty(t *testing.T) {
	_, err := ReadTableFrom(strings.NewReader(""), "train.csv", TableObservations, ',')
	assert.Error(t, err)
}

func TestReadTable_XLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"Store", "Date", "Sales"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{1, "2015-07-31", 5263}))
	require.NoError(t, f.SetSheetRow(sheet, "A4", &[]interface{}{2, "2015-07-31", 6064}))

	path := filepath.Join(t.TempDir(), "train.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	table, err := ReadTable(path, TableObservations, ',')
	require.NoError(t, err)

	assert.Equal(t, []string{"store", "date", "sales"}, table.Header)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "5263", table.Cell(0, 2))
	assert.Equal(t, "2", table.Cell(1, 0))
	assert.Equal(t, 4, table.Line(1))
}

func TestRawTable_WriteCSV(t *testing.T) {
	table := &RawTable{
		Header: []string{"store", "promointerval"},
		Rows:   [][]string{{"1", "Jan,Apr"}, {"2", "None"}},
	}

	var buf bytes.Buffer
	require.NoError(t, table.WriteCSV(&buf, ','))
	assert.Equal(t, "store,promointerval\n1,\"Jan,Apr\"\n2,None\n", buf.String())
}
