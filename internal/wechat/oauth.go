package wechat

import (
	"context"
	"net/url"
	"strconv"

	"github.com/huangdongj/wego/internal/apperrors"
)

// AuthorizeURL construye la URL de autorización del proveedor.
// redirectURL es el path exacto al que debe volver el usuario con el code.
func (c *Client) AuthorizeURL(redirectURL string) string {
	q := url.Values{}
	q.Set("appid", c.creds.AppID)
	q.Set("redirect_uri", redirectURL)
	q.Set("response_type", "code")
	q.Set("scope", "snsapi_userinfo")
	q.Set("state", "STATE")
	return openBase + "/connect/oauth2/authorize?" + q.Encode() + "#wechat_redirect"
}

// ExchangeCode cambia un authorization code por tokens de usuario.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*TokenResult, error) {
	q := url.Values{}
	q.Set("appid", c.creds.AppID)
	q.Set("secret", c.creds.AppSecret)
	q.Set("code", code)
	q.Set("grant_type", "authorization_code")

	body, err := c.getJSON(ctx, apiBase+"/sns/oauth2/access_token", q)
	if err != nil {
		return nil, err
	}
	if err := apiError(body); err != nil {
		return nil, err
	}
	return tokenResult(body, "sns/oauth2/access_token")
}

// RefreshToken renueva el access token de usuario.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (*TokenResult, error) {
	q := url.Values{}
	q.Set("appid", c.creds.AppID)
	q.Set("grant_type", "refresh_token")
	q.Set("refresh_token", refreshToken)

	body, err := c.getJSON(ctx, apiBase+"/sns/oauth2/refresh_token", q)
	if err != nil {
		return nil, err
	}
	if err := apiError(body); err != nil {
		return nil, err
	}
	return tokenResult(body, "sns/oauth2/refresh_token")
}

// tokenResult valida la presencia de los campos obligatorios del intercambio.
// La ausencia de cualquiera es un error de protocolo.
func tokenResult(body map[string]any, endpoint string) (*TokenResult, error) {
	tr := &TokenResult{}
	tr.OpenID, _ = body["openid"].(string)
	tr.AccessToken, _ = body["access_token"].(string)
	tr.RefreshToken, _ = body["refresh_token"].(string)
	tr.Scope, _ = body["scope"].(string)
	if n, ok := toInt(body["expires_in"]); ok {
		tr.ExpiresIn = int64(n)
	}

	if tr.OpenID == "" || tr.AccessToken == "" || tr.ExpiresIn == 0 || tr.RefreshToken == "" {
		return nil, apperrors.ErrProtocol.WithDetail(endpoint + ": missing openid/access_token/expires_in/refresh_token")
	}
	return tr, nil
}

// SNSUserInfo trae el perfil base del usuario autorizado.
func (c *Client) SNSUserInfo(ctx context.Context, openid, accessToken string) (map[string]string, error) {
	q := url.Values{}
	q.Set("access_token", accessToken)
	q.Set("openid", openid)
	q.Set("lang", "zh_CN")

	body, err := c.getJSON(ctx, apiBase+"/sns/userinfo", q)
	if err != nil {
		return nil, err
	}
	if err := apiError(body); err != nil {
		return nil, err
	}
	return stringify(body), nil
}

// stringify aplana un map JSON a string → string.
// Los valores no escalares se descartan; el SDK trabaja con campos planos.
func stringify(body map[string]any) map[string]string {
	out := make(map[string]string, len(body))
	for k, v := range body {
		switch t := v.(type) {
		case string:
			out[k] = t
		case float64:
			if t == float64(int64(t)) {
				out[k] = strconv.FormatInt(int64(t), 10)
			} else {
				out[k] = strconv.FormatFloat(t, 'f', -1, 64)
			}
		case bool:
			if t {
				out[k] = "1"
			} else {
				out[k] = "0"
			}
		}
	}
	return out
}
