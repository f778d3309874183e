package wechat

import (
	"context"

	"github.com/huangdongj/wego/internal/apperrors"
)

// QRCode es el resultado de crear un código QR de escena.
type QRCode struct {
	Ticket  string `json:"ticket"`
	URL     string `json:"url"`
	CodeURL string `json:"code_url"` // URL lista para <img src>
}

func (c *Client) createQRCode(ctx context.Context, payload map[string]any) (*QRCode, error) {
	q, err := c.tokenQuery(ctx)
	if err != nil {
		return nil, err
	}
	body, err := c.postJSON(ctx, apiBase+"/cgi-bin/qrcode/create", q, payload)
	if err != nil {
		return nil, err
	}
	if err := apiError(body); err != nil {
		return nil, err
	}
	ticket, _ := body["ticket"].(string)
	if ticket == "" {
		return nil, apperrors.ErrProtocol.WithDetail("cgi-bin/qrcode/create: missing ticket")
	}
	u, _ := body["url"].(string)
	return &QRCode{Ticket: ticket, URL: u, CodeURL: qrShowURL + ticket}, nil
}

// CreateSceneQRCode crea un QR temporal de escena numérica con expiración
// en segundos.
func (c *Client) CreateSceneQRCode(ctx context.Context, sceneID, expireSeconds int) (*QRCode, error) {
	return c.createQRCode(ctx, map[string]any{
		"expire_seconds": expireSeconds,
		"action_name":    "QR_SCENE",
		"action_info":    map[string]any{"scene": map[string]any{"scene_id": sceneID}},
	})
}

// CreateLimitSceneQRCode crea un QR permanente de escena numérica.
func (c *Client) CreateLimitSceneQRCode(ctx context.Context, sceneID int) (*QRCode, error) {
	return c.createQRCode(ctx, map[string]any{
		"action_name": "QR_LIMIT_SCENE",
		"action_info": map[string]any{"scene": map[string]any{"scene_id": sceneID}},
	})
}

// CreateLimitStrSceneQRCode crea un QR permanente de escena string.
func (c *Client) CreateLimitStrSceneQRCode(ctx context.Context, sceneStr string) (*QRCode, error) {
	return c.createQRCode(ctx, map[string]any{
		"action_name": "QR_LIMIT_STR_SCENE",
		"action_info": map[string]any{"scene": map[string]any{"scene_str": sceneStr}},
	})
}

// ShortURL acorta una URL larga.
func (c *Client) ShortURL(ctx context.Context, longURL string) (string, error) {
	q, err := c.tokenQuery(ctx)
	if err != nil {
		return "", err
	}
	body, err := c.postJSON(ctx, apiBase+"/cgi-bin/shorturl", q, map[string]string{
		"action":   "long2short",
		"long_url": longURL,
	})
	if err != nil {
		return "", err
	}
	if err := apiError(body); err != nil {
		return "", err
	}
	s, _ := body["short_url"].(string)
	if s == "" {
		return "", apperrors.ErrProtocol.WithDetail("cgi-bin/shorturl: missing short_url")
	}
	return s, nil
}
