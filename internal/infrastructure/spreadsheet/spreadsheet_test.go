package spreadsheet

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestRawRow(t *testing.T) {
	row := RawRow{Number: 3, Cells: []string{" a ", "", "b"}}

	assert.Equal(t, "a", row.Cell(1))
	assert.Equal(t, "", row.Cell(2))
	assert.Equal(t, "b", row.Cell(3))
	assert.Equal(t, "", row.Cell(4))
	assert.Equal(t, "", row.Cell(0))
	assert.False(t, row.IsBlank())

	blank := RawRow{Number: 4, Cells: []string{"  ", "", "\t"}}
	assert.True(t, blank.IsBlank())
}

func TestWriterRoundTrip(t *testing.T) {
	w, err := NewWriter()
	require.NoError(t, err)
	defer func() { _ = w.Close() }()

	require.NoError(t, w.AppendHeaderRow([]string{"주문번호", "수량"}))
	require.NoError(t, w.AppendRow([]interface{}{"ORD-1", "2"}))
	require.NoError(t, w.AppendRow([]interface{}{"ORD-2", "1"}))
	assert.Equal(t, 3, w.RowCount())

	require.NoError(t, w.AppendErrorSheet([]RowError{
		{Row: 5, Message: "field 'orderNo' is required"},
	}))

	data, err := w.Bytes()
	require.NoError(t, err)

	wb, err := OpenWorkbook(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = wb.Close() }()
	assert.Equal(t, "Sheet1", wb.SheetName())

	it, err := wb.Rows()
	require.NoError(t, err)
	defer func() { _ = it.Close() }()

	var rows []RawRow
	for it.Next() {
		rows = append(rows, it.Row())
	}
	require.NoError(t, it.Err())
	require.Len(t, rows, 3)
	assert.Equal(t, 1, rows[0].Number)
	assert.Equal(t, "주문번호", rows[0].Cell(1))
	assert.Equal(t, "ORD-2", rows[2].Cell(1))

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	assert.Contains(t, f.GetSheetList(), "오류")

	errRows, err := f.GetRows("오류")
	require.NoError(t, err)
	require.Len(t, errRows, 2)
	assert.Equal(t, "5", errRows[1][0])
}

func TestOpenWorkbookInvalid(t *testing.T) {
	_, err := OpenWorkbook(strings.NewReader("not an xlsx file"))
	assert.Error(t, err)
}

func TestErrorCollection(t *testing.T) {
	t.Run("caps collected errors but counts all", func(t *testing.T) {
		ec := NewErrorCollection(3)
		for i := 0; i < 5; i++ {
			ec.AddRequiredError(i+2, "orderNo")
		}

		assert.Equal(t, 3, ec.Count())
		assert.Equal(t, 5, ec.TotalCount())
		assert.True(t, ec.IsTruncated())
		assert.True(t, ec.HasErrors())
	})

	t.Run("number errors keep the raw value", func(t *testing.T) {
		ec := NewErrorCollection(10)
		ec.AddNumberError(7, "paymentAmount", "무료")

		errs := ec.Errors()
		require.Len(t, errs, 1)
		assert.Equal(t, 7, errs[0].Row)
		assert.Equal(t, ErrCodeIngestInvalidNumber, errs[0].Code)
		assert.Equal(t, "무료", errs[0].Value)
	})

	t.Run("empty collection", func(t *testing.T) {
		ec := NewErrorCollection(10)
		assert.False(t, ec.HasErrors())
		assert.Equal(t, "no errors", ec.String())
	})
}

func TestHeaderMismatchError(t *testing.T) {
	err := &HeaderMismatchError{MallName: "스마트몰", Missing: []string{"주문번호", "수량"}}
	assert.Contains(t, err.Error(), "스마트몰")
	assert.Contains(t, err.Error(), "주문번호, 수량")
}
