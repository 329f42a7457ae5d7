package store

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Cookie names of the persisted state layout.
const (
	CookieDarkMode      = "darkMode"
	CookieCartItems     = "cartItems"
	CookiePaymentMethod = "paymentMethod"
	CookieUserInfo      = "userInfo"
)

const cookieMaxAge = 30 * 24 * time.Hour

// CookieJar persists state fields as response cookies. Values are
// URI-component encoded so JSON survives as a valid cookie value.
type CookieJar struct {
	w      http.ResponseWriter
	secure bool
	log    logrus.FieldLogger
}

// NewCookieJar returns a Persister writing to w.
func NewCookieJar(w http.ResponseWriter, secure bool, log logrus.FieldLogger) *CookieJar {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &CookieJar{w: w, secure: secure, log: log}
}

func (j *CookieJar) SaveDarkMode(on bool) {
	v := "OFF"
	if on {
		v = "ON"
	}
	j.set(CookieDarkMode, v, false)
}

func (j *CookieJar) SaveCartItems(items []LineItem) {
	if items == nil {
		items = []LineItem{}
	}
	j.setJSON(CookieCartItems, items)
}

func (j *CookieJar) SavePaymentMethod(m PaymentMethod) {
	if m == PaymentUnset {
		j.Remove(CookiePaymentMethod)
		return
	}
	j.set(CookiePaymentMethod, string(m), true)
}

func (j *CookieJar) SaveUser(u *UserSession) {
	if u == nil {
		j.Remove(CookieUserInfo)
		return
	}
	j.setJSON(CookieUserInfo, u)
}

func (j *CookieJar) Remove(names ...string) {
	for _, name := range names {
		http.SetCookie(j.w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			Secure:   j.secure,
			SameSite: http.SameSiteLaxMode,
		})
	}
}

func (j *CookieJar) setJSON(name string, v interface{}) {
	raw, err := json.Marshal(v)
	if err != nil {
		j.log.WithError(err).WithField("cookie", name).Warn("store: encode cookie")
		return
	}
	j.set(name, string(raw), true)
}

func (j *CookieJar) set(name, value string, httpOnly bool) {
	http.SetCookie(j.w, &http.Cookie{
		Name:     name,
		Value:    encodeComponent(value),
		Path:     "/",
		MaxAge:   int(cookieMaxAge.Seconds()),
		HttpOnly: httpOnly,
		Secure:   j.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// LoadState rebuilds the initial state from request cookies. Missing or
// malformed cookies leave the matching field at its zero value.
func LoadState(r *http.Request) State {
	st := State{Cart: CartState{Items: []LineItem{}}}

	if v, ok := cookieValue(r, CookieDarkMode); ok {
		st.DarkMode = v == "ON"
	}
	if v, ok := cookieValue(r, CookieCartItems); ok {
		var items []LineItem
		if err := json.Unmarshal([]byte(v), &items); err == nil && items != nil {
			st.Cart.Items = dedupe(items)
		}
	}
	if v, ok := cookieValue(r, CookiePaymentMethod); ok {
		if m, ok := ParsePaymentMethod(v); ok {
			st.Cart.PaymentMethod = m
		}
	}
	if v, ok := cookieValue(r, CookieUserInfo); ok {
		var u UserSession
		if err := json.Unmarshal([]byte(v), &u); err == nil && u.ID != "" {
			st.User = &u
		}
	}
	return st
}

// dedupe keeps the first entry per key.
func dedupe(items []LineItem) []LineItem {
	seen := make(map[string]struct{}, len(items))
	out := make([]LineItem, 0, len(items))
	for _, it := range items {
		if _, dup := seen[it.Key]; dup {
			continue
		}
		seen[it.Key] = struct{}{}
		out = append(out, it)
	}
	return out
}

func cookieValue(r *http.Request, name string) (string, bool) {
	c, err := r.Cookie(name)
	if err != nil || c.Value == "" {
		return "", false
	}
	v, err := url.QueryUnescape(c.Value)
	if err != nil {
		return "", false
	}
	return v, true
}

func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
