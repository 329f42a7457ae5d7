package httpserver

import (
	"errors"
	"net/http"
	"testing"

	"hotelmart/internal/domain"
)

func TestSearchProducts_PassesQuery(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(http.MethodGet, "/api/products?category=Breads&query=all&price=1-50&sort=lowest", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	in := env.products.lastInput
	if in.Category != "Breads" || in.Query != "all" || in.Price != "1-50" || in.Sort != "lowest" {
		t.Fatalf("unexpected search input %+v", in)
	}
	var body struct {
		Products      []domain.Product `json:"products"`
		CountProducts int              `json:"countProducts"`
	}
	decode(t, rec, &body)
	if body.CountProducts != 2 || len(body.Products) != 2 {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestSearchProducts_InvalidPrice(t *testing.T) {
	env := newTestEnv(t)
	env.products.searchErr = domain.Invalid("price must look like min-max")
	if rec := env.do(http.MethodGet, "/api/products?price=cheap", "", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestSearchProducts_InternalError(t *testing.T) {
	env := newTestEnv(t)
	env.products.searchErr = errors.New("db down")
	rec := env.do(http.MethodGet, "/api/products", "", nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestGetProduct(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(http.MethodGet, "/api/products/muffin", "", nil)
	var p domain.Product
	decode(t, rec, &p)
	if rec.Code != http.StatusOK || p.Slug != "apple-muffin" {
		t.Fatalf("unexpected response %d %+v", rec.Code, p)
	}
	if rec := env.do(http.MethodGet, "/api/products/ghost", "", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestGetProductBySlug(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(http.MethodGet, "/api/products/slug/bagel", "", nil)
	var p domain.Product
	decode(t, rec, &p)
	if rec.Code != http.StatusOK || p.ID != "bagel" {
		t.Fatalf("unexpected response %d %+v", rec.Code, p)
	}
}

func TestListCategories(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(http.MethodGet, "/api/products/categories", "", nil)
	var names []string
	decode(t, rec, &names)
	if len(names) != 2 || names[0] != "Breads" {
		t.Fatalf("unexpected categories %v", names)
	}
}

func TestPayPalClientID(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(http.MethodGet, "/api/keys/paypal", "", nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "sb" {
		t.Fatalf("unexpected response %d %q", rec.Code, rec.Body.String())
	}
}
