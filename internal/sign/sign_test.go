package sign

import (
	"errors"
	"strings"
	"testing"

	"github.com/huangdongj/wego/internal/apperrors"
)

func TestSignKnownVector(t *testing.T) {
	got := Sign(map[string]string{"a": "1", "b": "2"}, "secret")
	// md5("a=1&b=2&key=secret") en hex mayúsculas
	want := "9F565CCD686CFA5DC3B06B3A89E4E3AD"
	if got != want {
		t.Fatalf("Sign = %s, want %s", got, want)
	}
}

func TestSignKnownVectorTwoFields(t *testing.T) {
	got := Sign(map[string]string{"appid": "wx1234", "body": "test"}, "s3cr3t")
	want := "84D3536F3941269542406BA456F5799C"
	if got != want {
		t.Fatalf("Sign = %s, want %s", got, want)
	}
}

func TestSignEmptyFields(t *testing.T) {
	// sin campos, la cadena canónica es solo "key=<secret>"
	got := Sign(map[string]string{}, "")
	want := "08E27903AFD3B3888F0974F33B255A0F"
	if got != want {
		t.Fatalf("Sign = %s, want %s", got, want)
	}
}

func TestSignDeterministic(t *testing.T) {
	fields := map[string]string{
		"out_trade_no": "ORD-1",
		"total_fee":    "100",
		"appid":        "wx1234",
		"mch_id":       "10000100",
	}
	first := Sign(fields, "k")
	for i := 0; i < 50; i++ {
		if got := Sign(fields, "k"); got != first {
			t.Fatalf("Sign not deterministic: %s vs %s", got, first)
		}
	}
}

func TestSignInsertionOrderIndependent(t *testing.T) {
	a := map[string]string{}
	a["zeta"] = "1"
	a["alpha"] = "2"
	a["mid"] = "3"

	b := map[string]string{}
	b["alpha"] = "2"
	b["mid"] = "3"
	b["zeta"] = "1"

	if Sign(a, "k") != Sign(b, "k") {
		t.Fatal("Sign depends on insertion order")
	}
}

func TestSignLength(t *testing.T) {
	got := Sign(map[string]string{"a": "1"}, "k")
	if len(got) != 32 {
		t.Fatalf("len(Sign) = %d, want 32", len(got))
	}
	if got != strings.ToUpper(got) {
		t.Fatalf("Sign = %s, want uppercase", got)
	}
}

func TestRequireOK(t *testing.T) {
	fields := map[string]string{"a": "1", "b": "2"}
	if err := Require(fields, "a", "b"); err != nil {
		t.Fatalf("Require: %v", err)
	}
}

func TestRequireNamesFirstMissing(t *testing.T) {
	fields := map[string]string{"a": "1", "c": ""}
	err := Require(fields, "a", "b", "c")
	if err == nil {
		t.Fatal("Require: expected error")
	}
	if !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("Require: got %v, want ErrValidation", err)
	}
	var ae *apperrors.AppError
	if !errors.As(err, &ae) {
		t.Fatalf("Require: %T is not *AppError", err)
	}
	if ae.Detail != "b" {
		t.Fatalf("Require detail = %q, want %q", ae.Detail, "b")
	}
}

func TestRequireEmptyCountsAsMissing(t *testing.T) {
	if err := Require(map[string]string{"a": ""}, "a"); err == nil {
		t.Fatal("Require: empty value must fail")
	}
}

func TestRequireAnyOK(t *testing.T) {
	fields := map[string]string{"transaction_id": "42"}
	if err := RequireAny(fields, "out_trade_no", "transaction_id"); err != nil {
		t.Fatalf("RequireAny: %v", err)
	}
}

func TestRequireAnyAllMissing(t *testing.T) {
	err := RequireAny(map[string]string{}, "out_trade_no", "transaction_id")
	if err == nil {
		t.Fatal("RequireAny: expected error")
	}
	var ae *apperrors.AppError
	if !errors.As(err, &ae) {
		t.Fatalf("RequireAny: %T is not *AppError", err)
	}
	if ae.Detail != "out_trade_no|transaction_id" {
		t.Fatalf("RequireAny detail = %q", ae.Detail)
	}
}

func TestNonceShape(t *testing.T) {
	n := Nonce()
	if len(n) != 32 {
		t.Fatalf("len(Nonce) = %d, want 32", len(n))
	}
	for i := 0; i < len(n); i++ {
		if !strings.ContainsRune(nonceAlphabet, rune(n[i])) {
			t.Fatalf("Nonce contains %q outside the alphabet", n[i])
		}
	}
}

func TestNonceUnique(t *testing.T) {
	seen := make(map[string]bool, 10000)
	for i := 0; i < 10000; i++ {
		n := Nonce()
		if seen[n] {
			t.Fatalf("Nonce repeated after %d draws: %s", i, n)
		}
		seen[n] = true
	}
}
