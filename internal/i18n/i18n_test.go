package i18n

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestMatchLocale(t *testing.T) {
	cases := map[string]string{
		"":                        LocaleEN,
		"en":                      LocaleEN,
		"zh-CN,zh;q=0.9":          LocaleZHCN,
		"zh-Hant-TW":              LocaleZHTW,
		"not a tag!!":             LocaleEN,
		"de;q=0.5, zh-Hans;q=0.8": LocaleZHCN,
	}
	for raw, want := range cases {
		if got := Match(raw); got != want {
			t.Fatalf("Match(%q) want %s got %s", raw, want, got)
		}
	}
}

func TestResolveLocalePrefersQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest("GET", "/api/v1/cart?lang=zh-CN", nil)
	c.Request.Header.Set("Accept-Language", "en-US")
	if got := ResolveLocale(c); got != LocaleZHCN {
		t.Fatalf("query lang should win, got %s", got)
	}
}

func TestTranslateFallsBack(t *testing.T) {
	if got := T(LocaleZHCN, "cart.cleared"); got != "购物车已清空" {
		t.Fatalf("unexpected zh-CN message: %s", got)
	}
	if got := T("xx", "cart.cleared"); got != "Cart cleared" {
		t.Fatalf("unknown locale should fall back to english, got %s", got)
	}
	if got := T(LocaleEN, "missing.key"); got != "missing.key" {
		t.Fatalf("missing key should echo the key, got %s", got)
	}
	if got := Sprintf(LocaleEN, "cart.coupon_shortfall", "50"); got != "Add items worth ₹50 more to apply this coupon" {
		t.Fatalf("unexpected shortfall message: %s", got)
	}
}
