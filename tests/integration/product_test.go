//go:build integration

package integration

import (
	"net/http"
	"testing"
)

func TestListProducts(t *testing.T) {
	resp := doGet(t, "/api/products", "")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	env := decodeJSON[envelope[productListData]](t, resp)
	if env.Status != "success" {
		t.Fatalf("status: got %q, want success", env.Status)
	}
	if len(env.Data.Products) != seedCount {
		t.Fatalf("expected %d products, got %d", seedCount, len(env.Data.Products))
	}
}

func TestListProducts_Fields(t *testing.T) {
	resp := doGet(t, "/api/products", "")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	env := decodeJSON[envelope[productListData]](t, resp)

	var waffle *productResponse
	for i := range env.Data.Products {
		if env.Data.Products[i].ID == waffleID {
			waffle = &env.Data.Products[i]
			break
		}
	}

	if waffle == nil {
		t.Fatal("waffle product not found")
	}
	if waffle.Name != "Waffle with Berries" {
		t.Errorf("name: got %q, want %q", waffle.Name, "Waffle with Berries")
	}
	if waffle.Price != "6.5" {
		t.Errorf("price: got %q, want %q", waffle.Price, "6.5")
	}
	if waffle.Slug == "" {
		t.Error("slug is empty")
	}
	if waffle.Stock <= 0 {
		t.Errorf("stock: got %d, want > 0", waffle.Stock)
	}
}

func TestGetProduct(t *testing.T) {
	resp := doGet(t, "/api/products/"+waffleID, "")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	env := decodeJSON[envelope[productData]](t, resp)
	if env.Data.Product.ID != waffleID {
		t.Errorf("id: got %q, want %q", env.Data.Product.ID, waffleID)
	}
	if env.Data.Product.Name != "Waffle with Berries" {
		t.Errorf("name: got %q, want %q", env.Data.Product.Name, "Waffle with Berries")
	}
}

func TestGetProduct_NotFound(t *testing.T) {
	resp := doGet(t, "/api/products/00000000-0000-0000-0000-000000000000", "")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}

	env := decodeJSON[envelope[struct{}]](t, resp)
	if env.Status != "fail" {
		t.Errorf("status: got %q, want fail", env.Status)
	}
	if env.Message != "Product not found" {
		t.Errorf("message: got %q, want %q", env.Message, "Product not found")
	}
}
