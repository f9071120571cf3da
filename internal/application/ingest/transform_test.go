package ingestapp

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/gwak2837/shabangnet-sub001/internal/domain/mall"
	"github.com/gwak2837/shabangnet-sub001/internal/infrastructure/spreadsheet"
)

// buildWorkbook writes rows into an in-memory xlsx, starting at row 1.
func buildWorkbook(t *testing.T, rows [][]interface{}) io.Reader {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	for i, cells := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cellRef, &cells))
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return &buf
}

func transformTemplate(t *testing.T) *mall.Template {
	t.Helper()
	tmpl, err := mall.NewTemplate("스마트몰", 1, 2, map[string]mall.ColumnRef{
		mall.FieldOrderNo:          {Header: "주문번호"},
		mall.FieldMallProductID:    {Header: "상품번호"},
		mall.FieldProductName:      {Header: "상품명"},
		mall.FieldOptionName:       {Header: "옵션"},
		mall.FieldManufacturerName: {Header: "제조사"},
		mall.FieldQuantity:         {Header: "수량"},
		mall.FieldPaymentAmount:    {Header: "결제금액"},
		mall.FieldCost:             {Header: "원가"},
	})
	require.NoError(t, err)
	return tmpl
}

var transformHeader = []interface{}{"주문번호", "상품번호", "상품명", "옵션", "제조사", "수량", "결제금액", "원가"}

func TestTransform(t *testing.T) {
	src := buildWorkbook(t, [][]interface{}{
		transformHeader,
		{"ORD-1", "P-100", "무선 마우스", "블랙", "한빛산업", "2", "10,000", "6,000"},
		{"ORD-2", "P-100", "무선 마우스", "블랙", "", "1", "", "3,000"},
		{"ORD-3", "P-200", "키보드", "", "한빛산업", "1", "30000", ""},
	})

	tr := NewTransformer(transformTemplate(t), "스마트몰", 20)
	result, err := tr.Transform(src)
	require.NoError(t, err)

	assert.Equal(t, 3, result.TotalRows)
	require.Len(t, result.Rows, 3)
	assert.False(t, result.Errors.HasErrors())

	t.Run("composite product code", func(t *testing.T) {
		assert.Equal(t, "스마트몰::P-100", result.Rows[0].ProductCode)
	})

	t.Run("per-unit derivation", func(t *testing.T) {
		assert.Equal(t, "5000", result.Rows[0].UnitPrice.String())
		assert.Equal(t, "3000", result.Rows[0].UnitCost.String())
	})

	t.Run("aggregates fill forward", func(t *testing.T) {
		products := result.Aggregates.Products()
		require.Len(t, products, 2)

		first := products[0]
		assert.Equal(t, "스마트몰::P-100", first.ProductCode)
		assert.Equal(t, "한빛산업", first.ManufacturerName)
		// Row 2 had no payment; the first-seen per-unit price stands, the
		// missing cost never regresses the first-seen value.
		assert.Equal(t, "5000", first.Price.String())
		assert.Equal(t, "3000", first.Cost.String())

		second := products[1]
		assert.Equal(t, "스마트몰::P-200", second.ProductCode)
		assert.True(t, second.Cost.IsZero())
	})

	t.Run("manufacturer names deduplicated first-seen", func(t *testing.T) {
		assert.Equal(t, []string{"한빛산업"}, result.Aggregates.ManufacturerNames())
	})

	t.Run("row without name registers option candidate", func(t *testing.T) {
		candidates := result.Aggregates.OptionCandidates()
		require.Len(t, candidates, 1)
		assert.Equal(t, "스마트몰::P-100", candidates[0].ProductCode)
		assert.Equal(t, "블랙", candidates[0].OptionName)
	})

	t.Run("totals sum line amounts", func(t *testing.T) {
		assert.Equal(t, "40000", result.Aggregates.TotalPayment.String())
		assert.Equal(t, "9000", result.Aggregates.TotalCost.String())
	})

	t.Run("output workbook carries canonical header", func(t *testing.T) {
		out, err := excelize.OpenReader(bytes.NewReader(result.Workbook))
		require.NoError(t, err)
		defer func() { _ = out.Close() }()

		rows, err := out.GetRows("Sheet1")
		require.NoError(t, err)
		require.Len(t, rows, 4)
		assert.Equal(t, "주문번호", rows[0][0])
		assert.Equal(t, "ORD-1", rows[1][0])
		assert.NotContains(t, out.GetSheetList(), "오류")
	})
}

func TestTransformRowErrors(t *testing.T) {
	src := buildWorkbook(t, [][]interface{}{
		transformHeader,
		{"", "P-100", "무선 마우스", "", "", "1", "1000", ""},
		{"ORD-2", "", "무선 마우스", "", "", "1", "1000", ""},
		{"ORD-3", "P-100", "무선 마우스", "", "", "1", "무료", "500"},
		{},
		{"ORD-4", "P-100", "무선 마우스", "", "", "1", "2000", ""},
	})

	tr := NewTransformer(transformTemplate(t), "스마트몰", 20)
	result, err := tr.Transform(src)
	require.NoError(t, err)

	t.Run("mandatory-field rows are skipped", func(t *testing.T) {
		assert.Equal(t, 4, result.TotalRows)
		assert.Len(t, result.Rows, 2)
	})

	t.Run("unparsable amount zeroes the field and keeps the row", func(t *testing.T) {
		assert.Equal(t, "ORD-3", result.Rows[0].OrderNo)
		assert.True(t, result.Rows[0].PaymentAmount.IsZero())
		assert.Equal(t, "500", result.Rows[0].Cost.String())
	})

	t.Run("errors are collected with row numbers", func(t *testing.T) {
		errs := result.Errors.Errors()
		require.Len(t, errs, 3)
		assert.Equal(t, 2, errs[0].Row)
		assert.Equal(t, spreadsheet.ErrCodeIngestRequiredField, errs[0].Code)
		assert.Equal(t, 3, errs[1].Row)
		assert.Equal(t, 4, errs[2].Row)
		assert.Equal(t, spreadsheet.ErrCodeIngestInvalidNumber, errs[2].Code)
	})

	t.Run("error sheet is appended", func(t *testing.T) {
		out, err := excelize.OpenReader(bytes.NewReader(result.Workbook))
		require.NoError(t, err)
		defer func() { _ = out.Close() }()
		assert.Contains(t, out.GetSheetList(), "오류")
	})
}

func TestTransformFrontMatter(t *testing.T) {
	tmpl, err := mall.NewTemplate("스마트몰", 3, 4, map[string]mall.ColumnRef{
		mall.FieldOrderNo:       {Header: "주문번호"},
		mall.FieldMallProductID: {Header: "상품번호"},
	})
	require.NoError(t, err)
	tmpl.CopyFrontMatter = true

	src := buildWorkbook(t, [][]interface{}{
		{"스마트몰 주문내역"},
		{"추출일: 2026-08-29"},
		{"주문번호", "상품번호"},
		{"ORD-1", "P-100"},
	})

	result, err := NewTransformer(tmpl, "스마트몰", 20).Transform(src)
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)

	out, err := excelize.OpenReader(bytes.NewReader(result.Workbook))
	require.NoError(t, err)
	defer func() { _ = out.Close() }()

	rows, err := out.GetRows("Sheet1")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "스마트몰 주문내역", rows[0][0])
	assert.Equal(t, "주문번호", rows[2][0])
	assert.Equal(t, "ORD-1", rows[3][0])
}

func TestTransformHeaderMismatch(t *testing.T) {
	src := buildWorkbook(t, [][]interface{}{
		{"이상한헤더"},
		{"ORD-1"},
	})

	_, err := NewTransformer(transformTemplate(t), "스마트몰", 20).Transform(src)
	var mismatch *spreadsheet.HeaderMismatchError
	require.ErrorAs(t, err, &mismatch)
}

func TestTransformEmptySheet(t *testing.T) {
	src := buildWorkbook(t, nil)
	_, err := NewTransformer(transformTemplate(t), "스마트몰", 20).Transform(src)
	assert.ErrorIs(t, err, spreadsheet.ErrEmptyFile)
}
