package ingestapp

import (
	"strings"

	"github.com/gwak2837/shabangnet-sub001/internal/domain/mall"
	"github.com/gwak2837/shabangnet-sub001/internal/domain/shared"
	"github.com/gwak2837/shabangnet-sub001/internal/infrastructure/spreadsheet"
	"github.com/shopspring/decimal"
	"golang.org/x/text/width"
)

// fieldResolver resolves canonical field values for one run, after the
// template's header-based column references have been bound to the observed
// header row.
type fieldResolver struct {
	template *mall.Template
	columns  map[string]int // canonical field -> 1-based source column
}

// newFieldResolver binds a template to the observed header row. Header-based
// mappings pointing at headers absent from the source aggregate into a single
// HeaderMismatchError before any data row is read.
func newFieldResolver(t *mall.Template, headerCells []string) (*fieldResolver, error) {
	if missing := t.MissingHeaders(headerCells); len(missing) > 0 {
		return nil, &spreadsheet.HeaderMismatchError{MallName: t.MallName, Missing: missing}
	}

	headerPos := make(map[string]int, len(headerCells))
	for i, h := range headerCells {
		key := shared.NormalizeKey(h)
		if key == "" {
			continue
		}
		// First occurrence wins for duplicated header texts
		if _, ok := headerPos[key]; !ok {
			headerPos[key] = i + 1
		}
	}

	columns := make(map[string]int, len(t.ColumnMappings))
	for field, ref := range t.ColumnMappings {
		if ref.IsByHeader() {
			columns[field] = headerPos[shared.NormalizeKey(ref.Header)]
		} else {
			columns[field] = ref.Column
		}
	}

	return &fieldResolver{template: t, columns: columns}, nil
}

// fieldValue resolves one canonical field from a source row: mapped column
// value if non-blank, else the template's fixed value, else "".
func (r *fieldResolver) fieldValue(row spreadsheet.RawRow, field string) string {
	if col, ok := r.columns[field]; ok {
		if v := row.Cell(col); v != "" {
			return v
		}
	}
	if v, ok := r.template.FixedValue(field); ok {
		return v
	}
	return ""
}

// amountRunes are thousands separators and currency glyphs stripped before
// numeric parsing.
func isAmountNoise(r rune) bool {
	switch r {
	case ',', '₩', '\\', '$', ' ', '원':
		return true
	}
	return false
}

// parseAmount parses a monetary cell leniently: full-width characters are
// folded to ASCII, separators and currency glyphs stripped. An empty cell is
// zero; an unparsable non-empty cell is an error the caller records as a
// row-level error while treating the field as zero.
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}

	folded := width.Narrow.String(s)
	cleaned := strings.Map(func(r rune) rune {
		if isAmountNoise(r) {
			return -1
		}
		return r
	}, folded)
	if cleaned == "" || cleaned == "-" {
		return decimal.Zero, nil
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

// parseQuantity parses a quantity cell with the same lenient folding,
// defaulting to 1 when the cell is absent or not a positive number.
func parseQuantity(s string) int {
	d, err := parseAmount(s)
	if err != nil {
		return 1
	}
	qty := int(d.IntPart())
	if qty <= 0 {
		return 1
	}
	return qty
}

// perUnit derives a per-unit amount from a line total: round(total/qty) when
// the total is positive, else zero.
func perUnit(lineTotal decimal.Decimal, quantity int) decimal.Decimal {
	if !lineTotal.IsPositive() || quantity <= 0 {
		return decimal.Zero
	}
	return lineTotal.Div(decimal.NewFromInt(int64(quantity))).Round(0)
}
