package wechat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/huangdongj/wego/internal/apperrors"
	"github.com/huangdongj/wego/internal/cache"
	"github.com/huangdongj/wego/internal/metrics"
)

const (
	apiBase   = "https://api.weixin.qq.com"
	openBase  = "https://open.weixin.qq.com"
	mchBase   = "https://api.mch.weixin.qq.com"
	qrShowURL = "https://mp.weixin.qq.com/cgi-bin/showqrcode?ticket="
)

// Credentials agrupa las credenciales de la cuenta oficial y del comercio.
type Credentials struct {
	AppID     string
	AppSecret string
	MchID     string
	MchSecret string
}

// Client es el cliente HTTP contra la API del proveedor.
// Implementa OAuthClient, UserClient, GroupAdminClient y PayClient.
type Client struct {
	creds Credentials
	http  *http.Client
	cache cache.Client // access token global
}

// NewClient crea un cliente del proveedor.
// El cache se usa para el access token global de la cuenta (no el del
// usuario); puede compartirse con el backend de sesión.
func NewClient(creds Credentials, c cache.Client) *Client {
	return &Client{
		creds: creds,
		http:  &http.Client{Timeout: 10 * time.Second},
		cache: c,
	}
}

// apiError inspecciona el errcode a nivel de aplicación de una respuesta.
// Los errores del proveedor se exponen al caller con code y msg intactos.
func apiError(body map[string]any) error {
	code, ok := body["errcode"]
	if !ok {
		return nil
	}
	n, _ := toInt(code)
	if n == 0 {
		return nil
	}
	msg, _ := body["errmsg"].(string)
	return apperrors.ErrRemoteProvider.WithDetail(fmt.Sprintf("errcode=%d errmsg=%s", n, msg))
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case string:
		i, err := strconv.Atoi(n)
		return i, err == nil
	}
	return 0, false
}

// getJSON hace un GET y decodifica la respuesta JSON en un map genérico.
func (c *Client) getJSON(ctx context.Context, endpoint string, q url.Values) (map[string]any, error) {
	u := endpoint
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	return c.doJSON(req, endpoint)
}

// postJSON hace un POST con body JSON y decodifica la respuesta.
func (c *Client) postJSON(ctx context.Context, endpoint string, q url.Values, body any) (map[string]any, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	u := endpoint
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	return c.doJSON(req, endpoint)
}

func (c *Client) doJSON(req *http.Request, endpoint string) (map[string]any, error) {
	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.ObserveProviderCall(req.URL.Path, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("wechat: %s http %d", endpoint, resp.StatusCode)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("wechat: %s bad json: %w", endpoint, err)
	}
	return out, nil
}

// globalAccessToken devuelve el access token global de la cuenta, cacheado
// con el mismo margen de 180 s que los tokens de usuario.
func (c *Client) globalAccessToken(ctx context.Context) (string, error) {
	const key = "wego:global_access_token"

	if tok, err := c.cache.Get(ctx, key); err == nil && tok != "" {
		return tok, nil
	}

	q := url.Values{}
	q.Set("grant_type", "client_credential")
	q.Set("appid", c.creds.AppID)
	q.Set("secret", c.creds.AppSecret)

	body, err := c.getJSON(ctx, apiBase+"/cgi-bin/token", q)
	if err != nil {
		return "", err
	}
	if err := apiError(body); err != nil {
		return "", err
	}
	tok, _ := body["access_token"].(string)
	expires, _ := toInt(body["expires_in"])
	if tok == "" || expires == 0 {
		return "", apperrors.ErrProtocol.WithDetail("cgi-bin/token: missing access_token/expires_in")
	}

	ttl := time.Duration(expires-180) * time.Second
	if ttl > 0 {
		_ = c.cache.Set(ctx, key, tok, ttl)
	}
	return tok, nil
}

// tokenQuery arma el query con el access token global ya resuelto.
func (c *Client) tokenQuery(ctx context.Context) (url.Values, error) {
	tok, err := c.globalAccessToken(ctx)
	if err != nil {
		return nil, err
	}
	q := url.Values{}
	q.Set("access_token", tok)
	return q, nil
}
