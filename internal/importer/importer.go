package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"hotelmart/internal/domain"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

type CategoryWriter interface {
	Upsert(ctx context.Context, category domain.Category) (*domain.Category, error)
}

// CSVImporter reads catalog CSV exports and inserts/updates products by slug.
//
// Expected headers: name, slug, category, price, countInStock, image,
// description, brand. Extra columns are ignored.
type CSVImporter struct {
	reader       *csv.Reader
	productRepo  ProductWriter
	categoryRepo CategoryWriter
}

func NewCSVImporter(r io.Reader, products ProductWriter, categories CategoryWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:       csvr,
		productRepo:  products,
		categoryRepo: categories,
	}
}

// Run upserts every product row and each distinct category once. It stops at
// the first invalid row and reports how many products were saved before it.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	for _, required := range []string{"name", "slug", "price"} {
		if _, ok := index[required]; !ok {
			return 0, fmt.Errorf("missing %q column", required)
		}
	}

	var (
		imported int
		line     = 1
		seenCats = map[string]struct{}{}
	)
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return imported, fmt.Errorf("read row %d: %w", line, err)
		}
		if blank(record) {
			continue
		}

		p, err := parseRow(record, index)
		if err != nil {
			return imported, fmt.Errorf("row %d: %w", line, err)
		}
		if p.Category != "" && i.categoryRepo != nil {
			if _, seen := seenCats[p.Category]; !seen {
				seenCats[p.Category] = struct{}{}
				if _, err := i.categoryRepo.Upsert(ctx, domain.Category{Key: slugify(p.Category), Name: p.Category}); err != nil {
					return imported, fmt.Errorf("upsert category %q: %w", p.Category, err)
				}
			}
		}
		if _, err := i.productRepo.Upsert(ctx, p); err != nil {
			return imported, fmt.Errorf("upsert product %q: %w", p.Slug, err)
		}
		imported++
	}
	return imported, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) (domain.Product, error) {
	p := domain.Product{
		Name:        pick(record, index, "name"),
		Slug:        pick(record, index, "slug"),
		Category:    pick(record, index, "category"),
		Image:       pick(record, index, "image"),
		Description: pick(record, index, "description"),
		Brand:       pick(record, index, "brand"),
	}
	if p.Name == "" {
		return p, errors.New("name required")
	}
	if p.Slug == "" {
		p.Slug = slugify(p.Name)
	}

	price, err := strconv.ParseFloat(pick(record, index, "price"), 64)
	if err != nil || price < 0 {
		return p, fmt.Errorf("invalid price for %q", p.Slug)
	}
	p.Price = price

	if v := pick(record, index, "countInStock"); v != "" {
		stock, err := strconv.Atoi(v)
		if err != nil || stock < 0 {
			return p, fmt.Errorf("invalid countInStock for %q", p.Slug)
		}
		p.CountInStock = stock
	}
	return p, nil
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}

func blank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
