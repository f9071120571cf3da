// Package ingestapp implements the order ingestion pipeline: template-driven
// streaming spreadsheet transform, manufacturer resolution, exclusion
// matching, and the bulk persistence stage orchestration.
package ingestapp

import (
	"fmt"
	"io"
	"strconv"

	"github.com/gwak2837/shabangnet-sub001/internal/domain/ingest"
	"github.com/gwak2837/shabangnet-sub001/internal/domain/mall"
	"github.com/gwak2837/shabangnet-sub001/internal/domain/partner"
	"github.com/gwak2837/shabangnet-sub001/internal/domain/shared"
	"github.com/gwak2837/shabangnet-sub001/internal/infrastructure/spreadsheet"
	"github.com/shopspring/decimal"
)

// ProductKey is the normalized composite product identity. Mall product
// identifiers are only unique within one mall, so the mall name is part of
// the key.
type ProductKey struct {
	Site string
	Code string
}

// NewProductKey builds a normalized composite product key
func NewProductKey(site, mallProductID string) ProductKey {
	return ProductKey{
		Site: shared.NormalizeKey(site),
		Code: shared.NormalizeKey(mallProductID),
	}
}

// CanonicalRow is one source row normalized into the fixed internal field
// set, independent of which mall it came from. Payment, cost and shipping
// hold the line totals as written; UnitPrice and UnitCost are derived per
// unit.
type CanonicalRow struct {
	RowNumber        int
	OrderNo          string
	MallOrderNo      string
	MallProductID    string
	ProductCode      string // composite "mall::mallProductID"
	ProductName      string
	OptionName       string
	ManufacturerName string
	Quantity         int
	PaymentAmount    decimal.Decimal
	Cost             decimal.Decimal
	ShippingCost     decimal.Decimal
	UnitPrice        decimal.Decimal
	UnitCost         decimal.Decimal
	FulfillmentType  string
	RecipientName    string
	RecipientPhone   string
	RecipientAddress string
	PostalCode       string
	Memo             string
}

// Aggregates is the sequential accumulation state of one transform run. Rows
// are observed strictly in source order: first-seen values win and later rows
// only fill fields still empty, so re-running the same file reproduces the
// same aggregates.
type Aggregates struct {
	products          map[ProductKey]*ingest.ProductAggregate
	productOrder      []ProductKey
	manufacturerNames map[string]string // normalized -> first-seen display name
	nameOrder         []string
	optionCandidates  map[OptionKey]ingest.OptionCandidate
	candidateOrder    []OptionKey

	TotalPayment decimal.Decimal
	TotalCost    decimal.Decimal
}

func newAggregates() *Aggregates {
	return &Aggregates{
		products:          make(map[ProductKey]*ingest.ProductAggregate),
		manufacturerNames: make(map[string]string),
		optionCandidates:  make(map[OptionKey]ingest.OptionCandidate),
		TotalPayment:      decimal.Zero,
		TotalCost:         decimal.Zero,
	}
}

// observe folds one canonical row into the aggregation state
func (a *Aggregates) observe(mallName string, c CanonicalRow) {
	key := NewProductKey(mallName, c.MallProductID)
	nameSpecified := !partner.IsUnspecifiedName(c.ManufacturerName)

	agg, ok := a.products[key]
	if !ok {
		agg = &ingest.ProductAggregate{
			ProductCode: c.ProductCode,
			ProductName: c.ProductName,
			OptionName:  c.OptionName,
			Price:       c.UnitPrice,
			Cost:        c.UnitCost,
		}
		if nameSpecified {
			agg.ManufacturerName = c.ManufacturerName
		}
		a.products[key] = agg
		a.productOrder = append(a.productOrder, key)
	} else {
		// Fill-forward: a later row only upgrades zero/empty fields
		if agg.Price.IsZero() && c.UnitPrice.IsPositive() {
			agg.Price = c.UnitPrice
		}
		if agg.Cost.IsZero() && c.UnitCost.IsPositive() {
			agg.Cost = c.UnitCost
		}
		if agg.OptionName == "" && c.OptionName != "" {
			agg.OptionName = c.OptionName
		}
		if agg.ManufacturerName == "" && nameSpecified {
			agg.ManufacturerName = c.ManufacturerName
		}
	}

	if nameSpecified {
		nameKey := shared.NormalizeKey(c.ManufacturerName)
		if _, seen := a.manufacturerNames[nameKey]; !seen {
			a.manufacturerNames[nameKey] = c.ManufacturerName
			a.nameOrder = append(a.nameOrder, nameKey)
		}
	} else if c.ProductCode != "" && c.OptionName != "" {
		// A row without a manufacturer name registers its (code, option) pair
		// as an unresolved mapping candidate, even when another row of the
		// same product carries a name.
		ck := NewOptionKey(c.ProductCode, c.OptionName)
		if _, seen := a.optionCandidates[ck]; !seen {
			a.optionCandidates[ck] = ingest.OptionCandidate{
				ProductCode: c.ProductCode,
				OptionName:  c.OptionName,
			}
			a.candidateOrder = append(a.candidateOrder, ck)
		}
	}

	a.TotalPayment = a.TotalPayment.Add(c.PaymentAmount)
	a.TotalCost = a.TotalCost.Add(c.Cost)
}

// Products returns the product aggregates in first-seen order
func (a *Aggregates) Products() []ingest.ProductAggregate {
	out := make([]ingest.ProductAggregate, 0, len(a.productOrder))
	for _, key := range a.productOrder {
		out = append(out, *a.products[key])
	}
	return out
}

// ManufacturerNames returns the candidate display names in first-seen order,
// deduplicated case-insensitively.
func (a *Aggregates) ManufacturerNames() []string {
	out := make([]string, 0, len(a.nameOrder))
	for _, key := range a.nameOrder {
		out = append(out, a.manufacturerNames[key])
	}
	return out
}

// OptionCandidates returns the unresolved (code, option) pairs in first-seen
// order.
func (a *Aggregates) OptionCandidates() []ingest.OptionCandidate {
	out := make([]ingest.OptionCandidate, 0, len(a.candidateOrder))
	for _, key := range a.candidateOrder {
		out = append(out, a.optionCandidates[key])
	}
	return out
}

// TransformResult is everything one transform run produces: the canonical
// rows, the aggregates, the collected row-level errors, and the generated
// output workbook.
type TransformResult struct {
	Rows       []CanonicalRow
	Aggregates *Aggregates
	Errors     *spreadsheet.ErrorCollection
	Workbook   []byte
	TotalRows  int // non-blank data rows read
}

// Transformer converts one mall export stream into canonical rows under a
// template. Rows are processed strictly in source order; nothing is buffered
// beyond the aggregates and the canonical row set.
type Transformer struct {
	template  *mall.Template
	mallName  string
	maxErrors int
}

// NewTransformer creates a Transformer for one run
func NewTransformer(template *mall.Template, mallName string, maxErrors int) *Transformer {
	return &Transformer{
		template:  template,
		mallName:  mallName,
		maxErrors: maxErrors,
	}
}

// Transform reads the source workbook row by row and produces the canonical
// result. Validation failures (unreadable workbook, missing worksheet,
// template header mismatch) abort before any data row is processed;
// row-level errors are collected and never abort the run.
func (t *Transformer) Transform(r io.Reader) (*TransformResult, error) {
	wb, err := spreadsheet.OpenWorkbook(r)
	if err != nil {
		return nil, err
	}
	defer func() { _ = wb.Close() }()

	writer, err := spreadsheet.NewWriter()
	if err != nil {
		return nil, err
	}
	defer func() { _ = writer.Close() }()

	it, err := wb.Rows()
	if err != nil {
		return nil, err
	}
	defer func() { _ = it.Close() }()

	result := &TransformResult{
		Aggregates: newAggregates(),
		Errors:     spreadsheet.NewErrorCollection(t.maxErrors),
	}
	exportCols := t.exportColumns()

	var resolver *fieldResolver
	for it.Next() {
		row := it.Row()
		switch {
		case row.Number < t.template.HeaderRow:
			if t.template.CopyFrontMatter {
				if err := writer.AppendRow(toCells(row.Cells)); err != nil {
					return nil, err
				}
			}
		case row.Number == t.template.HeaderRow:
			resolver, err = newFieldResolver(t.template, row.Cells)
			if err != nil {
				return nil, err
			}
			if err := writer.AppendHeaderRow(exportLabels(exportCols)); err != nil {
				return nil, err
			}
		case row.Number >= t.template.DataStartRow:
			if row.IsBlank() {
				continue
			}
			result.TotalRows++
			c, ok := t.parseDataRow(resolver, row, result.Errors)
			if !ok {
				continue
			}
			result.Rows = append(result.Rows, c)
			result.Aggregates.observe(t.mallName, c)
			if err := writer.AppendRow(renderExportRow(exportCols, c)); err != nil {
				return nil, err
			}
		}
	}
	if err := it.Err(); err != nil {
		return nil, fmt.Errorf("failed to read workbook rows: %w", err)
	}
	if resolver == nil {
		// The sheet ended before the template's header row
		return nil, spreadsheet.ErrEmptyFile
	}

	if result.Errors.HasErrors() {
		if err := writer.AppendErrorSheet(result.Errors.Errors()); err != nil {
			return nil, err
		}
	}
	result.Workbook, err = writer.Bytes()
	if err != nil {
		return nil, err
	}

	return result, nil
}

// parseDataRow resolves one data row into a canonical row. A row missing
// either mandatory identity field is recorded as an error and skipped; an
// unparsable non-empty amount is recorded as an error with the field treated
// as zero, and the row continues.
func (t *Transformer) parseDataRow(r *fieldResolver, row spreadsheet.RawRow, ec *spreadsheet.ErrorCollection) (CanonicalRow, bool) {
	orderNo := r.fieldValue(row, mall.FieldOrderNo)
	if orderNo == "" {
		ec.AddRequiredError(row.Number, mall.FieldOrderNo)
		return CanonicalRow{}, false
	}
	mallProductID := r.fieldValue(row, mall.FieldMallProductID)
	if mallProductID == "" {
		ec.AddRequiredError(row.Number, mall.FieldMallProductID)
		return CanonicalRow{}, false
	}

	quantity := parseQuantity(r.fieldValue(row, mall.FieldQuantity))

	payment := t.parseAmountField(r, row, mall.FieldPaymentAmount, ec)
	cost := t.parseAmountField(r, row, mall.FieldCost, ec)
	shipping := t.parseAmountField(r, row, mall.FieldShippingCost, ec)

	return CanonicalRow{
		RowNumber:        row.Number,
		OrderNo:          orderNo,
		MallOrderNo:      r.fieldValue(row, mall.FieldMallOrderNo),
		MallProductID:    mallProductID,
		ProductCode:      fmt.Sprintf("%s::%s", t.mallName, mallProductID),
		ProductName:      r.fieldValue(row, mall.FieldProductName),
		OptionName:       r.fieldValue(row, mall.FieldOptionName),
		ManufacturerName: r.fieldValue(row, mall.FieldManufacturerName),
		Quantity:         quantity,
		PaymentAmount:    payment,
		Cost:             cost,
		ShippingCost:     shipping,
		UnitPrice:        perUnit(payment, quantity),
		UnitCost:         perUnit(cost, quantity),
		FulfillmentType:  r.fieldValue(row, mall.FieldFulfillmentType),
		RecipientName:    r.fieldValue(row, mall.FieldRecipientName),
		RecipientPhone:   r.fieldValue(row, mall.FieldRecipientPhone),
		RecipientAddress: r.fieldValue(row, mall.FieldRecipientAddress),
		PostalCode:       r.fieldValue(row, mall.FieldPostalCode),
		Memo:             r.fieldValue(row, mall.FieldMemo),
	}, true
}

func (t *Transformer) parseAmountField(r *fieldResolver, row spreadsheet.RawRow, field string, ec *spreadsheet.ErrorCollection) decimal.Decimal {
	raw := r.fieldValue(row, field)
	d, err := parseAmount(raw)
	if err != nil {
		ec.AddNumberError(row.Number, field, raw)
		return decimal.Zero
	}
	return d
}

// exportColumns returns the template's output layout, or the canonical
// default layout when the template does not define one.
func (t *Transformer) exportColumns() []mall.ExportColumn {
	if len(t.template.ExportColumns) > 0 {
		return t.template.ExportColumns
	}
	return DefaultExportColumns()
}

// DefaultExportColumns is the canonical output workbook layout used when a
// template defines no export configuration.
func DefaultExportColumns() []mall.ExportColumn {
	return []mall.ExportColumn{
		{Label: "주문번호", Field: mall.FieldOrderNo},
		{Label: "몰주문번호", Field: mall.FieldMallOrderNo},
		{Label: "상품번호", Field: mall.FieldMallProductID},
		{Label: "상품명", Field: mall.FieldProductName},
		{Label: "옵션", Field: mall.FieldOptionName},
		{Label: "제조사", Field: mall.FieldManufacturerName},
		{Label: "수량", Field: mall.FieldQuantity},
		{Label: "결제금액", Field: mall.FieldPaymentAmount},
		{Label: "원가", Field: mall.FieldCost},
		{Label: "배송비", Field: mall.FieldShippingCost},
		{Label: "발송유형", Field: mall.FieldFulfillmentType},
		{Label: "수취인", Field: mall.FieldRecipientName},
		{Label: "연락처", Field: mall.FieldRecipientPhone},
		{Label: "주소", Field: mall.FieldRecipientAddress},
		{Label: "우편번호", Field: mall.FieldPostalCode},
		{Label: "메모", Field: mall.FieldMemo},
	}
}

func exportLabels(cols []mall.ExportColumn) []string {
	labels := make([]string, len(cols))
	for i, c := range cols {
		labels[i] = c.Label
	}
	return labels
}

// renderExportRow maps a canonical row onto the output column layout
func renderExportRow(cols []mall.ExportColumn, c CanonicalRow) []interface{} {
	cells := make([]interface{}, len(cols))
	for i, col := range cols {
		if col.Field == "" {
			cells[i] = col.Constant
			continue
		}
		cells[i] = canonicalValue(c, col.Field)
	}
	return cells
}

func canonicalValue(c CanonicalRow, field string) string {
	switch field {
	case mall.FieldOrderNo:
		return c.OrderNo
	case mall.FieldMallOrderNo:
		return c.MallOrderNo
	case mall.FieldMallProductID:
		return c.MallProductID
	case mall.FieldProductName:
		return c.ProductName
	case mall.FieldOptionName:
		return c.OptionName
	case mall.FieldManufacturerName:
		return c.ManufacturerName
	case mall.FieldQuantity:
		return strconv.Itoa(c.Quantity)
	case mall.FieldPaymentAmount:
		return c.PaymentAmount.String()
	case mall.FieldCost:
		return c.Cost.String()
	case mall.FieldShippingCost:
		return c.ShippingCost.String()
	case mall.FieldFulfillmentType:
		return c.FulfillmentType
	case mall.FieldRecipientName:
		return c.RecipientName
	case mall.FieldRecipientPhone:
		return c.RecipientPhone
	case mall.FieldRecipientAddress:
		return c.RecipientAddress
	case mall.FieldPostalCode:
		return c.PostalCode
	case mall.FieldMemo:
		return c.Memo
	default:
		return ""
	}
}

func toCells(cells []string) []interface{} {
	out := make([]interface{}, len(cells))
	for i, c := range cells {
		out[i] = c
	}
	return out
}
