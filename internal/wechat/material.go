package wechat

import (
	"context"
	"encoding/json"
)

// Operaciones de material permanente: pass-through sin lógica propia.

// AddMaterial agrega un material (el documento JSON completo del proveedor).
func (c *Client) AddMaterial(ctx context.Context, material json.RawMessage) (map[string]any, error) {
	q, err := c.tokenQuery(ctx)
	if err != nil {
		return nil, err
	}
	body, err := c.postJSON(ctx, apiBase+"/cgi-bin/material/add_news", q, material)
	if err != nil {
		return nil, err
	}
	if err := apiError(body); err != nil {
		return nil, err
	}
	return body, nil
}

// GetMaterial descarga un material por media_id.
func (c *Client) GetMaterial(ctx context.Context, mediaID string) (map[string]any, error) {
	q, err := c.tokenQuery(ctx)
	if err != nil {
		return nil, err
	}
	body, err := c.postJSON(ctx, apiBase+"/cgi-bin/material/get_material", q, map[string]string{
		"media_id": mediaID,
	})
	if err != nil {
		return nil, err
	}
	if err := apiError(body); err != nil {
		return nil, err
	}
	return body, nil
}

// DeleteMaterial elimina un material por media_id.
func (c *Client) DeleteMaterial(ctx context.Context, mediaID string) error {
	q, err := c.tokenQuery(ctx)
	if err != nil {
		return err
	}
	body, err := c.postJSON(ctx, apiBase+"/cgi-bin/material/del_material", q, map[string]string{
		"media_id": mediaID,
	})
	if err != nil {
		return err
	}
	return apiError(body)
}

// UpdateMaterial actualiza un artículo de un material de tipo news.
func (c *Client) UpdateMaterial(ctx context.Context, update json.RawMessage) error {
	q, err := c.tokenQuery(ctx)
	if err != nil {
		return err
	}
	body, err := c.postJSON(ctx, apiBase+"/cgi-bin/material/update_news", q, update)
	if err != nil {
		return err
	}
	return apiError(body)
}

// MaterialCount devuelve el conteo de materiales por tipo.
func (c *Client) MaterialCount(ctx context.Context) (map[string]any, error) {
	q, err := c.tokenQuery(ctx)
	if err != nil {
		return nil, err
	}
	body, err := c.getJSON(ctx, apiBase+"/cgi-bin/material/get_materialcount", q)
	if err != nil {
		return nil, err
	}
	if err := apiError(body); err != nil {
		return nil, err
	}
	return body, nil
}

// MaterialList pagina los materiales de un tipo.
func (c *Client) MaterialList(ctx context.Context, materialType string, offset, count int) (map[string]any, error) {
	q, err := c.tokenQuery(ctx)
	if err != nil {
		return nil, err
	}
	body, err := c.postJSON(ctx, apiBase+"/cgi-bin/material/batchget_material", q, map[string]any{
		"type":   materialType,
		"offset": offset,
		"count":  count,
	})
	if err != nil {
		return nil, err
	}
	if err := apiError(body); err != nil {
		return nil, err
	}
	return body, nil
}
