package wechat

import (
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/huangdongj/wego/internal/apperrors"
	"github.com/huangdongj/wego/internal/cache"
)

func TestAPIError(t *testing.T) {
	if err := apiError(map[string]any{"openid": "x"}); err != nil {
		t.Fatalf("apiError without errcode: %v", err)
	}
	if err := apiError(map[string]any{"errcode": float64(0), "errmsg": "ok"}); err != nil {
		t.Fatalf("apiError errcode=0: %v", err)
	}

	err := apiError(map[string]any{"errcode": float64(40029), "errmsg": "invalid code"})
	if !errors.Is(err, apperrors.ErrRemoteProvider) {
		t.Fatalf("apiError: err = %v, want ErrRemoteProvider", err)
	}
	var ae *apperrors.AppError
	if !errors.As(err, &ae) {
		t.Fatalf("apiError: %T", err)
	}
	if ae.Detail != "errcode=40029 errmsg=invalid code" {
		t.Fatalf("detail = %q", ae.Detail)
	}
}

func TestToInt(t *testing.T) {
	cases := []struct {
		in   any
		want int
		ok   bool
	}{
		{float64(42), 42, true},
		{7, 7, true},
		{"13", 13, true},
		{"nope", 0, false},
		{nil, 0, false},
		{true, 0, false},
	}
	for _, c := range cases {
		got, ok := toInt(c.in)
		if got != c.want || ok != c.ok {
			t.Fatalf("toInt(%v) = %d, %v; want %d, %v", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestTokenResultComplete(t *testing.T) {
	tr, err := tokenResult(map[string]any{
		"openid":        "o6_xyz",
		"access_token":  "AT",
		"expires_in":    float64(7200),
		"refresh_token": "RT",
		"scope":         "snsapi_userinfo",
	}, "sns/oauth2/access_token")
	if err != nil {
		t.Fatalf("tokenResult: %v", err)
	}
	if tr.OpenID != "o6_xyz" || tr.AccessToken != "AT" || tr.ExpiresIn != 7200 || tr.RefreshToken != "RT" {
		t.Fatalf("tokenResult = %+v", tr)
	}
}

func TestTokenResultMissingFieldIsProtocolError(t *testing.T) {
	for _, missing := range []string{"openid", "access_token", "expires_in", "refresh_token"} {
		body := map[string]any{
			"openid":        "o6_xyz",
			"access_token":  "AT",
			"expires_in":    float64(7200),
			"refresh_token": "RT",
		}
		delete(body, missing)
		_, err := tokenResult(body, "sns/oauth2/access_token")
		if !errors.Is(err, apperrors.ErrProtocol) {
			t.Fatalf("tokenResult without %s: err = %v, want ErrProtocol", missing, err)
		}
	}
}

func TestStringify(t *testing.T) {
	got := stringify(map[string]any{
		"nickname":   "ana",
		"sex":        float64(2),
		"subscribe":  true,
		"unfollowed": false,
		"score":      1.5,
		"privilege":  []any{"a", "b"}, // no escalar: se descarta
	})
	want := map[string]string{
		"nickname":   "ana",
		"sex":        "2",
		"subscribe":  "1",
		"unfollowed": "0",
		"score":      "1.5",
	}
	if len(got) != len(want) {
		t.Fatalf("stringify = %v, want %v", got, want)
	}
	for k, v := range want {
		if got[k] != v {
			t.Fatalf("stringify[%s] = %q, want %q", k, got[k], v)
		}
	}
}

func TestAuthorizeURL(t *testing.T) {
	c := NewClient(Credentials{AppID: "wx1234"}, cache.NewMemory(""))
	got := c.AuthorizeURL("https://app.example/me")

	if !strings.HasPrefix(got, "https://open.weixin.qq.com/connect/oauth2/authorize?") {
		t.Fatalf("AuthorizeURL = %s", got)
	}
	if !strings.HasSuffix(got, "#wechat_redirect") {
		t.Fatalf("AuthorizeURL missing fragment: %s", got)
	}
	u, err := url.Parse(strings.TrimSuffix(got, "#wechat_redirect"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	q := u.Query()
	if q.Get("appid") != "wx1234" || q.Get("redirect_uri") != "https://app.example/me" {
		t.Fatalf("query = %v", q)
	}
	if q.Get("response_type") != "code" || q.Get("scope") != "snsapi_userinfo" {
		t.Fatalf("query = %v", q)
	}
}
