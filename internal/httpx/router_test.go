package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangdongj/wego/internal/auth"
	"github.com/huangdongj/wego/internal/cache"
	"github.com/huangdongj/wego/internal/pay"
	"github.com/huangdongj/wego/internal/wechat"
)

// stubProvider implementa las interfaces OAuth, de usuario y de pago del
// proveedor con respuestas fijas.
type stubProvider struct {
	payCalls map[string]map[string]string // último payload por operación
}

func newStubProvider() *stubProvider {
	return &stubProvider{payCalls: make(map[string]map[string]string)}
}

func (s *stubProvider) AuthorizeURL(redirectURL string) string {
	return "https://provider.example/authorize?redirect_uri=" + redirectURL
}

func (s *stubProvider) ExchangeCode(ctx context.Context, code string) (*wechat.TokenResult, error) {
	return &wechat.TokenResult{
		OpenID:       "o6_xyz",
		AccessToken:  "AT-1",
		ExpiresIn:    7200,
		RefreshToken: "RT-1",
	}, nil
}

func (s *stubProvider) RefreshToken(ctx context.Context, refreshToken string) (*wechat.TokenResult, error) {
	return nil, nil
}

func (s *stubProvider) SNSUserInfo(ctx context.Context, openid, accessToken string) (map[string]string, error) {
	return map[string]string{"openid": openid, "nickname": "ana", "city": "BA"}, nil
}

func (s *stubProvider) ExtUserInfo(ctx context.Context, openid string) (map[string]string, error) {
	return map[string]string{"subscribe": "1", "language": "es", "remark": "old"}, nil
}

func (s *stubProvider) SetRemark(ctx context.Context, openid, remark string) error { return nil }

func (s *stubProvider) Groups(ctx context.Context) ([]wechat.Group, error) {
	return []wechat.Group{{ID: 0, Name: "default"}, {ID: 3, Name: "vip"}}, nil
}

func (s *stubProvider) ChangeUserGroup(ctx context.Context, openid string, groupID int) error {
	return nil
}

func (s *stubProvider) pay(op string, fields map[string]string, extra map[string]string) (map[string]string, error) {
	s.payCalls[op] = fields
	out := map[string]string{"return_code": "SUCCESS", "result_code": "SUCCESS"}
	for k, v := range extra {
		out[k] = v
	}
	return out, nil
}

func (s *stubProvider) UnifiedOrder(ctx context.Context, fields map[string]string) (map[string]string, error) {
	return s.pay("unifiedorder", fields, map[string]string{
		"appid":     fields["appid"],
		"nonce_str": "RNONCE",
		"prepay_id": "pp-1",
	})
}
func (s *stubProvider) OrderQuery(ctx context.Context, fields map[string]string) (map[string]string, error) {
	return s.pay("orderquery", fields, map[string]string{"trade_state": "SUCCESS"})
}
func (s *stubProvider) CloseOrder(ctx context.Context, fields map[string]string) (map[string]string, error) {
	return s.pay("closeorder", fields, nil)
}
func (s *stubProvider) Refund(ctx context.Context, fields map[string]string) (map[string]string, error) {
	return s.pay("refund", fields, map[string]string{"refund_id": "rf-1"})
}
func (s *stubProvider) RefundQuery(ctx context.Context, fields map[string]string) (map[string]string, error) {
	return s.pay("refundquery", fields, nil)
}
func (s *stubProvider) DownloadBill(ctx context.Context, fields map[string]string) (map[string]string, error) {
	return s.pay("downloadbill", fields, nil)
}
func (s *stubProvider) Report(ctx context.Context, fields map[string]string) (map[string]string, error) {
	return s.pay("report", fields, nil)
}

func newTestRouter(t *testing.T) (http.Handler, *stubProvider) {
	t.Helper()
	c, err := cache.New(cache.Config{Driver: "memory"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	stub := newStubProvider()
	flow := auth.NewFlow(stub, stub, c, auth.Config{})
	builder := pay.NewBuilder(stub, pay.Config{
		AppID:     "wx1234",
		MchID:     "10000100",
		MchSecret: "s3cr3t",
		NotifyURL: "https://example.com/notify",
	})
	return NewRouter(Deps{Flow: flow, Builder: builder}), stub
}

func TestHealthz(t *testing.T) {
	r, _ := newTestRouter(t)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestProtectedRouteRedirectsWithoutSession(t *testing.T) {
	r, _ := newTestRouter(t)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/me", nil))

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "https://provider.example/authorize")
	// la cookie de sesión se mintea en el primer contacto
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "wego_sid", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
}

// authenticate corre el callback con code y devuelve la cookie de sesión.
func authenticate(t *testing.T, r http.Handler) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/me?code=CODE", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	return cookies[0]
}

func TestCodeCallbackAuthenticates(t *testing.T) {
	r, _ := newTestRouter(t)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/me?code=CODE", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"openid":"o6_xyz"`)
	assert.Contains(t, rec.Body.String(), `"nickname":"ana"`)
	assert.Contains(t, rec.Body.String(), `"subscribed":true`)
}

func TestAuthenticatedSessionPersists(t *testing.T) {
	r, _ := newTestRouter(t)
	cookie := authenticate(t, r)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"openid":"o6_xyz"`)
}

func TestSetRemark(t *testing.T) {
	r, _ := newTestRouter(t)
	cookie := authenticate(t, r)

	req := httptest.NewRequest(http.MethodPost, "/me/remark", strings.NewReader(`{"remark":"vip"}`))
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"remark":"vip"}`, rec.Body.String())
}

func TestSetGroupByName(t *testing.T) {
	r, _ := newTestRouter(t)
	cookie := authenticate(t, r)

	req := httptest.NewRequest(http.MethodPost, "/me/group", strings.NewReader(`{"name":"vip"}`))
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestSetGroupWithoutSelectorFails(t *testing.T) {
	r, _ := newTestRouter(t)
	cookie := authenticate(t, r)

	req := httptest.NewRequest(http.MethodPost, "/me/group", strings.NewReader(`{}`))
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "groupid|name")
}

func TestCreateOrder(t *testing.T) {
	r, stub := newTestRouter(t)
	cookie := authenticate(t, r)

	body := `{"body":"premium","out_trade_no":"ORD-1","total_fee":"4200","spbill_create_ip":"203.0.113.9"}`
	req := httptest.NewRequest(http.MethodPost, "/pay/orders", strings.NewReader(body))
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"package":"prepay_id=pp-1"`)
	assert.Contains(t, rec.Body.String(), `"signType":"MD5"`)

	// el openid autenticado viaja en el payload firmado
	sent := stub.payCalls["unifiedorder"]
	require.NotNil(t, sent)
	assert.Equal(t, "o6_xyz", sent["openid"])
	assert.NotEmpty(t, sent["sign"])
}

func TestQueryAndCloseOrder(t *testing.T) {
	r, stub := newTestRouter(t)
	cookie := authenticate(t, r)

	req := httptest.NewRequest(http.MethodGet, "/pay/orders/ORD-1", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ORD-1", stub.payCalls["orderquery"]["out_trade_no"])

	req = httptest.NewRequest(http.MethodDelete, "/pay/orders/ORD-1", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ORD-1", stub.payCalls["closeorder"]["out_trade_no"])
}

func TestRefundWithoutIdentifierFails(t *testing.T) {
	r, stub := newTestRouter(t)
	cookie := authenticate(t, r)

	body := `{"out_refund_no":"REF-1","total_fee":"4200","refund_fee":"4200"}`
	req := httptest.NewRequest(http.MethodPost, "/pay/refunds", strings.NewReader(body))
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, stub.payCalls["refund"], "refund dispatched on invalid input")
}

func TestPushTextEcho(t *testing.T) {
	r, _ := newTestRouter(t)
	xml := `<xml><ToUserName><![CDATA[gh]]></ToUserName><FromUserName><![CDATA[o6_xyz]]></FromUserName><MsgType><![CDATA[text]]></MsgType><Content><![CDATA[hola]]></Content></xml>`
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/push", strings.NewReader(xml)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<Content><![CDATA[hola]]></Content>")
	// la respuesta invierte emisor y receptor
	assert.Contains(t, rec.Body.String(), "<ToUserName><![CDATA[o6_xyz]]></ToUserName>")
}

func TestPushUnknownTypeAcks(t *testing.T) {
	r, _ := newTestRouter(t)
	xml := `<xml><ToUserName><![CDATA[gh]]></ToUserName><FromUserName><![CDATA[o6_xyz]]></FromUserName><MsgType><![CDATA[event]]></MsgType><Event><![CDATA[unsubscribe]]></Event></xml>`
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/push", strings.NewReader(xml)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", rec.Body.String())
}

func TestMetricsExposed(t *testing.T) {
	r, _ := newTestRouter(t)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}
