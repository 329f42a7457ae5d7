package httpserver

import (
	"net/http"
	"strings"
	"testing"

	"hotelmart/internal/domain"
	"hotelmart/internal/service/auth"
	cartsvc "hotelmart/internal/service/cart"
	"hotelmart/internal/store"
)

func cookieNamed(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestCartFlow_CookiesCarryState(t *testing.T) {
	env := newTestEnv(t)
	var cookies []*http.Cookie

	rec := env.do(http.MethodPost, "/api/cart/items", `{"productId":"muffin","quantity":2}`, cookies)
	if rec.Code != http.StatusOK {
		t.Fatalf("add muffin: expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	cookies = jar(cookies, rec)
	if cookieNamed(cookies, store.CookieCartItems) == nil {
		t.Fatalf("expected cartItems cookie, got %v", cookies)
	}

	rec = env.do(http.MethodPost, "/api/cart/items", `{"productId":"bagel"}`, cookies)
	if rec.Code != http.StatusOK {
		t.Fatalf("add bagel: expected 200, got %d", rec.Code)
	}
	cookies = jar(cookies, rec)

	rec = env.do(http.MethodGet, "/api/cart", "", cookies)
	var sum cartsvc.Summary
	decode(t, rec, &sum)
	if len(sum.Items) != 2 || sum.Items[0].Key != "muffin" || sum.ItemCount != 3 {
		t.Fatalf("unexpected cart %+v", sum)
	}
	if sum.Subtotal != 19.98 || sum.Tax != 3 || sum.Total != 22.98 {
		t.Fatalf("unexpected totals %+v", sum.Totals)
	}

	rec = env.do(http.MethodDelete, "/api/cart/items/muffin", "", cookies)
	cookies = jar(cookies, rec)
	decode(t, env.do(http.MethodGet, "/api/cart", "", cookies), &sum)
	if len(sum.Items) != 1 || sum.Items[0].Key != "bagel" {
		t.Fatalf("unexpected cart after remove %+v", sum)
	}
}

func TestAddCartItem_OutOfStock(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(http.MethodPost, "/api/cart/items", `{"productId":"bagel","quantity":2}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var body map[string]string
	decode(t, rec, &body)
	if body["message"] != "Sorry, this product is out of stock" {
		t.Fatalf("unexpected message %q", body["message"])
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatalf("rejected add must not write cookies")
	}
}

func TestAddCartItem_UnknownProduct(t *testing.T) {
	env := newTestEnv(t)
	if rec := env.do(http.MethodPost, "/api/cart/items", `{"productId":"ghost"}`, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if rec := env.do(http.MethodPost, "/api/cart/items", `{}`, nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing productId, got %d", rec.Code)
	}
}

func TestUpdateCartItem(t *testing.T) {
	env := newTestEnv(t)
	cookies := jar(nil, env.do(http.MethodPost, "/api/cart/items", `{"productId":"muffin"}`, nil))

	rec := env.do(http.MethodPut, "/api/cart/items/muffin", `{"quantity":4}`, cookies)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	var sum cartsvc.Summary
	decode(t, rec, &sum)
	if sum.Items[0].Quantity != 4 {
		t.Fatalf("expected quantity 4, got %+v", sum.Items)
	}
	if rec := env.do(http.MethodPut, "/api/cart/items/muffin", `{"quantity":9}`, cookies); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 over stock, got %d", rec.Code)
	}
}

func TestThemeCookie(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(http.MethodPost, "/api/session/theme", `{"darkMode":true}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	cookies := jar(nil, rec)
	c := cookieNamed(cookies, store.CookieDarkMode)
	if c == nil || c.Value != "ON" {
		t.Fatalf("expected darkMode=ON cookie, got %+v", c)
	}
	var st store.State
	decode(t, env.do(http.MethodGet, "/api/session", "", cookies), &st)
	if !st.DarkMode {
		t.Fatalf("expected dark mode restored from cookie")
	}
}

func TestSavePaymentMethod(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(http.MethodPut, "/api/cart/payment-method", `{"paymentMethod":""}`, nil)
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "Please select a payment method") {
		t.Fatalf("expected payment method validation, got %d %s", rec.Code, rec.Body.String())
	}
	rec = env.do(http.MethodPut, "/api/cart/payment-method", `{"paymentMethod":"Cash"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	c := cookieNamed(jar(nil, rec), store.CookiePaymentMethod)
	if c == nil || c.Value != "Cash" {
		t.Fatalf("expected paymentMethod cookie, got %+v", c)
	}
}

func TestPlaceOrder_RequiresLogin(t *testing.T) {
	env := newTestEnv(t)
	cookies := jar(nil, env.do(http.MethodPost, "/api/cart/items", `{"productId":"muffin"}`, nil))
	rec := env.do(http.MethodPost, "/api/cart/place-order", "", cookies)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	var body map[string]string
	decode(t, rec, &body)
	if body["redirect"] != "/login?redirect=%2Fplaceorder" {
		t.Fatalf("unexpected redirect %q", body["redirect"])
	}
}

func TestLoginPlaceOrderLogout(t *testing.T) {
	env := newTestEnv(t)
	var cookies []*http.Cookie

	rec := env.do(http.MethodPost, "/api/users/login", `{"roomNumber":"101","password":"secret1"}`, cookies)
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", rec.Code)
	}
	cookies = jar(cookies, rec)
	if cookieNamed(cookies, store.CookieUserInfo) == nil {
		t.Fatalf("expected userInfo cookie")
	}

	cookies = jar(cookies, env.do(http.MethodPost, "/api/cart/items", `{"productId":"muffin","quantity":2}`, cookies))
	cookies = jar(cookies, env.do(http.MethodPost, "/api/cart/items", `{"productId":"bagel"}`, cookies))
	cookies = jar(cookies, env.do(http.MethodPut, "/api/cart/payment-method", `{"paymentMethod":"PayPal"}`, cookies))

	rec = env.do(http.MethodPost, "/api/cart/place-order", "", cookies)
	if rec.Code != http.StatusCreated {
		t.Fatalf("place order: expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	cookies = jar(cookies, rec)
	if cookieNamed(cookies, store.CookieCartItems) != nil {
		t.Fatalf("cartItems cookie must be removed after placing an order")
	}
	in := env.orders.lastCreate
	if in.TotalPrice != 22.98 || in.PaymentMethod != "PayPal" || len(in.Items) != 2 {
		t.Fatalf("unexpected order submission %+v", in)
	}
	if env.orders.lastCaller.ID != "u1" {
		t.Fatalf("unexpected caller %+v", env.orders.lastCaller)
	}

	rec = env.do(http.MethodPost, "/api/users/logout", "", cookies)
	if rec.Code != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d", rec.Code)
	}
	cookies = jar(cookies, rec)
	for _, name := range []string{store.CookieUserInfo, store.CookiePaymentMethod} {
		if cookieNamed(cookies, name) != nil {
			t.Fatalf("expected %s cookie removed on logout, got %v", name, cookies)
		}
	}
}

func TestPlaceOrder_FailureKeepsCart(t *testing.T) {
	env := newTestEnv(t)
	env.orders.createErr = domain.Invalid("Order totals do not match cart")
	cookies := jar(nil, env.do(http.MethodPost, "/api/users/login", `{"roomNumber":"101","password":"x"}`, nil))
	cookies = jar(cookies, env.do(http.MethodPost, "/api/cart/items", `{"productId":"muffin"}`, cookies))
	cookies = jar(cookies, env.do(http.MethodPut, "/api/cart/payment-method", `{"paymentMethod":"Cash"}`, cookies))

	rec := env.do(http.MethodPost, "/api/cart/place-order", "", cookies)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == store.CookieCartItems {
			t.Fatalf("failed order must not touch the cart cookie")
		}
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	env := newTestEnv(t)
	env.auth.loginErr = auth.ErrInvalidCredentials
	rec := env.do(http.MethodPost, "/api/users/login", `{"roomNumber":"101","password":"nope"}`, nil)
	if rec.Code != http.StatusUnauthorized || !strings.Contains(rec.Body.String(), "Invalid room number or password") {
		t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
	}
}

func TestLogin_RateLimited(t *testing.T) {
	env := newTestEnv(t)
	body := `{"roomNumber":"101","password":"secret1"}`
	for i := 0; i < 2; i++ {
		if rec := env.do(http.MethodPost, "/api/users/login", body, nil); rec.Code != http.StatusOK {
			t.Fatalf("attempt %d: expected 200, got %d", i, rec.Code)
		}
	}
	if rec := env.do(http.MethodPost, "/api/users/login", body, nil); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
}

func TestRegister(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(http.MethodPost, "/api/users/register", `{"lastName":"Doe","roomNumber":"101","password":"secret1","confirmPassword":"secret2"}`, nil)
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "Passwords don't match") {
		t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
	}
	rec = env.do(http.MethodPost, "/api/users/register", `{"lastName":"Doe","roomNumber":"101","password":"secret1","confirmPassword":"secret1"}`, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if cookieNamed(jar(nil, rec), store.CookieUserInfo) == nil {
		t.Fatalf("expected userInfo cookie after register")
	}
}
