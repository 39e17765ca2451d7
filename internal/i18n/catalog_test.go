package i18n_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/teamslict/hotel/internal/i18n"
)

func writeLocale(t *testing.T, dir, code, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, code+".json"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func testCatalog(t *testing.T) *i18n.Catalog {
	t.Helper()
	dir := t.TempDir()
	writeLocale(t, dir, "en", `{
		"hero": {"title": "Welcome to {hotelName}"},
		"booking": {"confirmed": "Booking Confirmed!"},
		"plain": "hello"
	}`)
	writeLocale(t, dir, "ar", `{
		"hero": {"title": "مرحباً بكم في {hotelName}"},
		"booking": {"confirmed": "تم تأكيد الحجز!"}
	}`)
	return i18n.NewCatalog(dir, "en")
}

func TestT_LookupAndInterpolation(t *testing.T) {
	b, err := testCatalog(t).Bundle("en")
	if err != nil {
		t.Fatalf("bundle: %v", err)
	}

	got := b.T("hero.title", map[string]string{"hotelName": "Ceylon Paradise"})
	if got != "Welcome to Ceylon Paradise" {
		t.Fatalf("got %q", got)
	}
	if got := b.T("plain", nil); got != "hello" {
		t.Fatalf("got %q", got)
	}
	// unknown placeholder stays literal
	if got := b.T("hero.title", map[string]string{"other": "x"}); got != "Welcome to {hotelName}" {
		t.Fatalf("got %q", got)
	}
}

func TestT_MissingKeyReturnsKey(t *testing.T) {
	b, _ := testCatalog(t).Bundle("en")
	if got := b.T("booking.nope", nil); got != "booking.nope" {
		t.Fatalf("missing key must echo the key, got %q", got)
	}
	// non-leaf key is also "missing"
	if got := b.T("hero", nil); got != "hero" {
		t.Fatalf("got %q", got)
	}
	if got := b.T("hero.title.deeper", nil); got != "hero.title.deeper" {
		t.Fatalf("got %q", got)
	}
}

func TestBundle_FallbackToDefault(t *testing.T) {
	c := testCatalog(t)
	b, err := c.Bundle("si") // not present in the temp dir
	if err != nil {
		t.Fatalf("fallback must succeed: %v", err)
	}
	if b.Locale() != "en" {
		t.Fatalf("expected default bundle, got %s", b.Locale())
	}
}

func TestArabic_RTLAndStrings(t *testing.T) {
	c := testCatalog(t)
	b, err := c.Bundle("ar")
	if err != nil {
		t.Fatalf("bundle: %v", err)
	}
	if b.Dir() != "rtl" {
		t.Fatalf("ar must be rtl, got %s", b.Dir())
	}
	if got := b.T("booking.confirmed", nil); got != "تم تأكيد الحجز!" {
		t.Fatalf("got %q", got)
	}
	if i18n.Dir("en") != "ltr" || i18n.Dir("ta") != "ltr" {
		t.Fatalf("en/ta must be ltr")
	}
}

func TestShippedBundlesParse(t *testing.T) {
	c := i18n.NewCatalog(filepath.Join("..", "..", "translations"), "en")
	for _, l := range i18n.Languages {
		b, err := c.Bundle(l.Code)
		if err != nil {
			t.Fatalf("locale %s: %v", l.Code, err)
		}
		if b.Locale() != l.Code {
			t.Fatalf("locale %s fell back to %s", l.Code, b.Locale())
		}
		if got := b.T("booking.checkIn", nil); got == "booking.checkIn" {
			t.Fatalf("locale %s missing booking.checkIn", l.Code)
		}
	}
}
