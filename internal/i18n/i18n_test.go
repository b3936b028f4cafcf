package i18n

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestMatch(t *testing.T) {
	cases := []struct {
		raw  string
		want string
		ok   bool
	}{
		{raw: "pt-BR", want: LocalePtBR, ok: true},
		{raw: "pt", want: LocalePtBR, ok: true},
		{raw: "zh-CN,zh;q=0.9,en;q=0.8", want: LocaleZhCN, ok: true},
		{raw: "en-GB", want: LocaleEnUS, ok: true},
		{raw: "", ok: false},
		{raw: ";;;", ok: false},
	}
	for _, tc := range cases {
		got, ok := Match(tc.raw)
		if ok != tc.ok || (ok && got != tc.want) {
			t.Fatalf("match %q want %s/%v got %s/%v", tc.raw, tc.want, tc.ok, got, ok)
		}
	}
}

func TestResolveLocalePrefersQueryThenHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/api/v1/cart?lang=zh-CN", nil)
	c.Request.Header.Set("Accept-Language", "pt-BR")
	if got := ResolveLocale(c); got != LocaleZhCN {
		t.Fatalf("query lang want %s got %s", LocaleZhCN, got)
	}

	c, _ = gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/api/v1/cart", nil)
	c.Request.Header.Set("Accept-Language", "pt-BR,pt;q=0.9")
	if got := ResolveLocale(c); got != LocalePtBR {
		t.Fatalf("accept-language want %s got %s", LocalePtBR, got)
	}

	if got := ResolveLocale(nil); got != DefaultLocale {
		t.Fatalf("nil context want default got %s", got)
	}
}

func TestTranslateFallbacks(t *testing.T) {
	if got := T(LocaleZhCN, "error.empty_cart"); got != "购物车为空" {
		t.Fatalf("zh translation want 购物车为空 got %s", got)
	}
	if got := T("fr-FR", "error.empty_cart"); got != "Your cart is empty" {
		t.Fatalf("unknown locale should fall back to english, got %s", got)
	}
	if got := T(LocaleEnUS, "error.no_such_key"); got != "error.no_such_key" {
		t.Fatalf("missing key should return key, got %s", got)
	}
	if got := Sprintf(LocaleEnUS, "error.stock_item", "Keyboard", 1, 2); got != "Keyboard (stock: 1, requested: 2)" {
		t.Fatalf("unexpected formatted message: %s", got)
	}
}

func TestEveryLocaleCoversEnglishKeys(t *testing.T) {
	for key := range messages[LocaleEnUS] {
		for _, locale := range []string{LocalePtBR, LocaleZhCN} {
			if _, ok := messages[locale][key]; !ok {
				switch key {
				case "error.user_id_invalid", "error.user_id_type_invalid", "error.admin_id_invalid", "error.admin_id_type_invalid":
					continue
				}
				t.Fatalf("locale %s misses key %s", locale, key)
			}
		}
	}
}
