package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"vibe-commerce/internal/domain"
)

type ProductWriter interface {
	Create(ctx context.Context, product domain.Product) (*domain.Product, error)
}

// CSVImporter reads catalog rows (name,price,description,image_url,stock) and
// inserts them as products. Column order is taken from the header row.
type CSVImporter struct {
	reader      *csv.Reader
	productRepo ProductWriter
}

func NewCSVImporter(r io.Reader, repo ProductWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:      csvr,
		productRepo: repo,
	}
}

// Result counts inserted rows and rows skipped because the name already exists.
type Result struct {
	Imported int
	Skipped  int
}

// Run inserts every data row. It stops at the first malformed row or store error.
func (i *CSVImporter) Run(ctx context.Context) (Result, error) {
	var res Result

	headers, err := i.reader.Read()
	if err != nil {
		return res, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	for _, required := range []string{"name", "price"} {
		if _, ok := index[required]; !ok {
			return res, fmt.Errorf("missing %q column", required)
		}
	}

	line := 1
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return res, fmt.Errorf("read row %d: %w", line, err)
		}
		if blank(record) {
			continue
		}

		p, err := parseRow(record, index)
		if err != nil {
			return res, fmt.Errorf("row %d: %w", line, err)
		}

		_, err = i.productRepo.Create(ctx, p)
		if errors.Is(err, domain.ErrProductExists) {
			res.Skipped++
			continue
		}
		if err != nil {
			return res, fmt.Errorf("insert product %q: %w", p.Name, err)
		}
		res.Imported++
	}

	return res, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) (domain.Product, error) {
	name := pick(record, index, "name")
	if name == "" {
		return domain.Product{}, errors.New("name is required")
	}

	price, err := decimal.NewFromString(pick(record, index, "price"))
	if err != nil {
		return domain.Product{}, fmt.Errorf("invalid price for %q: %w", name, err)
	}
	if price.IsNegative() {
		return domain.Product{}, fmt.Errorf("price for %q must be >= 0", name)
	}

	stock := domain.DefaultStock
	if raw := pick(record, index, "stock"); raw != "" {
		stock, err = strconv.Atoi(raw)
		if err != nil || stock < 0 {
			return domain.Product{}, fmt.Errorf("invalid stock for %q: %s", name, raw)
		}
	}

	return domain.Product{
		Name:        name,
		Price:       price,
		Description: pick(record, index, "description"),
		ImageURL:    pick(record, index, "image_url"),
		Stock:       stock,
	}, nil
}

func blank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
