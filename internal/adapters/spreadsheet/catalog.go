package spreadsheet

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/phenrril/exactmatch/internal/domain"
)

const (
	sheetName = "Catalog"
	listSep   = ";"
)

var columns = []string{
	"name", "brand", "model_number", "slug", "categories", "voltage",
	"amp_hours", "cold_cranking_amps", "reserve_capacity",
	"length", "width", "height", "weight",
	"condition", "price", "original_price", "stock_quantity",
	"short_description", "description", "features", "compatibility",
	"compatible_vehicles", "vehicle_makes", "vehicle_models",
	"is_featured", "is_popular", "is_active",
}

var required = []string{"name", "brand", "model_number"}

func joinList(items []string) string { return strings.Join(items, listSep+" ") }

func splitList(s string) []string {
	out := []string{}
	for _, p := range strings.Split(s, listSep) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func formatCategories(cats []domain.Category) string {
	parts := make([]string, 0, len(cats))
	for _, c := range cats {
		parts = append(parts, string(c.CategoryType)+":"+c.Name)
	}
	return joinList(parts)
}

// parseCategories reads "kind:name" pairs; a bare name matches any kind.
func parseCategories(s string) []domain.CategoryRef {
	refs := []domain.CategoryRef{}
	for _, p := range splitList(s) {
		kind, name, ok := strings.Cut(p, ":")
		if ok && domain.CategoryKind(strings.TrimSpace(kind)).Valid() {
			refs = append(refs, domain.CategoryRef{Kind: domain.CategoryKind(strings.TrimSpace(kind)), Name: strings.TrimSpace(name)})
			continue
		}
		refs = append(refs, domain.CategoryRef{Name: p})
	}
	return refs
}

func fixed(d decimal.Decimal) string { return d.StringFixed(2) }

// WriteCatalog renders the batteries as a single-sheet workbook.
func WriteCatalog(w io.Writer, list []domain.Battery) error {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}
	header := make([]any, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	last, _ := excelize.ColumnNumberToName(len(columns))
	if err := f.SetCellStyle(sheetName, "A1", last+"1", bold); err != nil {
		return err
	}

	for i, b := range list {
		orig := ""
		if b.OriginalPrice.Valid {
			orig = fixed(b.OriginalPrice.Decimal)
		}
		row := []any{
			b.Name, b.Brand.Name, b.ModelNumber, b.Slug, formatCategories(b.Categories), string(b.Voltage),
			b.AmpHours, b.ColdCrankingAmps, b.ReserveCapacity,
			fixed(b.Length), fixed(b.Width), fixed(b.Height), fixed(b.Weight),
			string(b.Condition), fixed(b.Price), orig, b.StockQuantity,
			b.ShortDescription, b.Description, joinList(b.Features), joinList(b.Compatibility),
			joinList(b.CompatibleVehicles), joinList(b.VehicleMakes), joinList(b.VehicleModels),
			b.IsFeatured, b.IsPopular, b.IsActive,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
	}
	return f.Write(w)
}

type rowReader struct {
	cells    []string
	index    map[string]int
	problems map[string]string
}

func (r *rowReader) str(col string) string {
	i, ok := r.index[col]
	if !ok || i >= len(r.cells) {
		return ""
	}
	return strings.TrimSpace(r.cells[i])
}

func (r *rowReader) fail(col, msg string) {
	if r.problems == nil {
		r.problems = map[string]string{}
	}
	r.problems[col] = msg
}

func (r *rowReader) integer(col string) int {
	s := r.str(col)
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	// whole numbers sometimes come back as "50.0"
	if d, err := decimal.NewFromString(s); err == nil && d.IsInteger() {
		return int(d.IntPart())
	}
	r.fail(col, "a valid integer is required")
	return 0
}

func (r *rowReader) dec(col string) decimal.Decimal {
	s := r.str(col)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		r.fail(col, "a valid number is required")
		return decimal.Zero
	}
	return d
}

func (r *rowReader) boolean(col string, def bool) bool {
	switch strings.ToLower(r.str(col)) {
	case "":
		return def
	case "1", "true", "yes", "y", "si", "x":
		return true
	case "0", "false", "no", "n":
		return false
	}
	r.fail(col, "expected true or false")
	return def
}

// ReadCatalog parses the first sheet of an XLSX workbook whose first row
// names the columns. Unknown columns are ignored; rows with unparseable
// cells come back with Problems set.
func ReadCatalog(src io.Reader) ([]domain.ImportRow, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []domain.ImportRow{}, nil
	}
	index := map[string]int{}
	for i, h := range rows[0] {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, c := range required {
		if _, ok := index[c]; !ok {
			return nil, fmt.Errorf("missing column %q", c)
		}
	}

	out := []domain.ImportRow{}
	for i, cells := range rows[1:] {
		if strings.TrimSpace(strings.Join(cells, "")) == "" {
			continue
		}
		r := &rowReader{cells: cells, index: index}
		in := domain.BatteryInput{
			Name:               r.str("name"),
			ModelNumber:        r.str("model_number"),
			Slug:               r.str("slug"),
			Voltage:            domain.Voltage(r.str("voltage")),
			AmpHours:           r.integer("amp_hours"),
			ColdCrankingAmps:   r.integer("cold_cranking_amps"),
			ReserveCapacity:    r.integer("reserve_capacity"),
			Length:             r.dec("length"),
			Width:              r.dec("width"),
			Height:             r.dec("height"),
			Weight:             r.dec("weight"),
			Condition:          domain.Condition(r.str("condition")),
			Price:              r.dec("price"),
			StockQuantity:      r.integer("stock_quantity"),
			ShortDescription:   r.str("short_description"),
			Description:        r.str("description"),
			Features:           splitList(r.str("features")),
			Compatibility:      splitList(r.str("compatibility")),
			CompatibleVehicles: splitList(r.str("compatible_vehicles")),
			VehicleMakes:       splitList(r.str("vehicle_makes")),
			VehicleModels:      splitList(r.str("vehicle_models")),
			IsFeatured:         r.boolean("is_featured", false),
			IsPopular:          r.boolean("is_popular", false),
			IsActive:           r.boolean("is_active", true),
		}
		if r.str("original_price") != "" {
			op := r.dec("original_price")
			in.OriginalPrice = &op
		}
		out = append(out, domain.ImportRow{
			Line:       i + 2,
			BrandName:  r.str("brand"),
			Categories: parseCategories(r.str("categories")),
			Battery:    in,
			Problems:   r.problems,
		})
	}
	return out, nil
}
