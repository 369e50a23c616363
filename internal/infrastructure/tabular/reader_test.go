package tabular

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     Format
		wantErr  bool
	}{
		{"csv", "products.csv", FormatCSV, false},
		{"csv upper case", "PRODUCTS.CSV", FormatCSV, false},
		{"xlsx", "products.xlsx", FormatXLSX, false},
		{"xls", "products.xls", FormatXLS, false},
		{"txt", "products.txt", "", true},
		{"no extension", "products", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			format, err := DetectFormat(tt.filename)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, format)
		})
	}
}

func TestRead_CSV(t *testing.T) {
	t.Run("basic file", func(t *testing.T) {
		data := []byte("Name,Price,Stock\nChair,129.90,5\nDesk,300,2\n")

		table, err := Read(data, "products.csv")

		require.NoError(t, err)
		assert.Equal(t, []string{"name", "price", "stock"}, table.Headers)
		require.Len(t, table.Rows, 2)
		assert.Equal(t, 2, table.Rows[0].Number)
		assert.Equal(t, 3, table.Rows[1].Number)

		name, ok := table.Rows[0].Get("name")
		require.True(t, ok)
		assert.Equal(t, "Chair", name)
	})

	t.Run("headers trimmed and lower cased", func(t *testing.T) {
		data := []byte(" Name , PRICE \nChair,10\n")

		table, err := Read(data, "products.csv")

		require.NoError(t, err)
		assert.Equal(t, []string{"name", "price"}, table.Headers)
	})

	t.Run("utf-8 BOM stripped", func(t *testing.T) {
		data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("name,price\nChair,10\n")...)

		table, err := Read(data, "products.csv")

		require.NoError(t, err)
		assert.Equal(t, "name", table.Headers[0])
	})

	t.Run("cp1251 fallback", func(t *testing.T) {
		encoder := charmap.Windows1251.NewEncoder()
		encoded, err := encoder.String("name,category\nСтул,Мебель\n")
		require.NoError(t, err)

		table, err := Read([]byte(encoded), "products.csv")

		require.NoError(t, err)
		require.Len(t, table.Rows, 1)
		name, _ := table.Rows[0].Get("name")
		assert.Equal(t, "Стул", name)
		category, _ := table.Rows[0].Get("category")
		assert.Equal(t, "Мебель", category)
	})

	t.Run("null markers dropped", func(t *testing.T) {
		data := []byte("name,price,stock,description\nChair,10,NaN,-\n")

		table, err := Read(data, "products.csv")

		require.NoError(t, err)
		row := table.Rows[0]
		_, hasStock := row.Get("stock")
		assert.False(t, hasStock)
		_, hasDescription := row.Get("description")
		assert.False(t, hasDescription)
		_, hasPrice := row.Get("price")
		assert.True(t, hasPrice)
	})

	t.Run("blank rows skipped but numbering preserved", func(t *testing.T) {
		data := []byte("name,price\nChair,10\n,\nDesk,20\n")

		table, err := Read(data, "products.csv")

		require.NoError(t, err)
		require.Len(t, table.Rows, 2)
		assert.Equal(t, 2, table.Rows[0].Number)
		assert.Equal(t, 4, table.Rows[1].Number)
	})

	t.Run("short rows padded by omission", func(t *testing.T) {
		data := []byte("name,price,stock\nChair,10\n")

		table, err := Read(data, "products.csv")

		require.NoError(t, err)
		_, hasStock := table.Rows[0].Get("stock")
		assert.False(t, hasStock)
	})

	t.Run("empty file", func(t *testing.T) {
		_, err := Read(nil, "products.csv")

		require.ErrorIs(t, err, ErrEmptyFile)
	})

	t.Run("header only", func(t *testing.T) {
		table, err := Read([]byte("name,price\n"), "products.csv")

		require.NoError(t, err)
		assert.Empty(t, table.Rows)
	})
}

func TestRead_XLSX(t *testing.T) {
	book := excelize.NewFile()
	sheet := book.GetSheetName(0)
	require.NoError(t, book.SetSheetRow(sheet, "A1", &[]any{"Name", "Price", "Stock"}))
	require.NoError(t, book.SetSheetRow(sheet, "A2", &[]any{"Chair", 129.9, 5}))
	require.NoError(t, book.SetSheetRow(sheet, "A3", &[]any{"Desk", 300, 2}))

	var buf bytes.Buffer
	require.NoError(t, book.Write(&buf))

	table, err := Read(buf.Bytes(), "products.xlsx")

	require.NoError(t, err)
	assert.Equal(t, []string{"name", "price", "stock"}, table.Headers)
	require.Len(t, table.Rows, 2)
	name, _ := table.Rows[0].Get("name")
	assert.Equal(t, "Chair", name)
	assert.Equal(t, 2, table.Rows[0].Number)
}

func TestRead_UnreadableWorkbook(t *testing.T) {
	_, err := Read([]byte("definitely not a zip archive"), "products.xlsx")

	require.ErrorIs(t, err, ErrUnreadable)
}

func TestTable_HasColumn(t *testing.T) {
	table, err := Read([]byte("name,price\nChair,10\n"), "products.csv")
	require.NoError(t, err)

	assert.True(t, table.HasColumn("price"))
	assert.False(t, table.HasColumn("stock"))
}
