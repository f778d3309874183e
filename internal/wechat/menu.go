package wechat

import (
	"context"
	"encoding/json"
	"strconv"
)

// Operaciones de menú de la cuenta oficial: pass-through sin lógica propia.

// CreateMenu crea el menú principal. menu es el documento JSON completo
// ({"button": [...]}) tal como lo espera el proveedor.
func (c *Client) CreateMenu(ctx context.Context, menu json.RawMessage) error {
	q, err := c.tokenQuery(ctx)
	if err != nil {
		return err
	}
	body, err := c.postJSON(ctx, apiBase+"/cgi-bin/menu/create", q, menu)
	if err != nil {
		return err
	}
	return apiError(body)
}

// CreateConditionalMenu crea un menú condicional y devuelve su menuid.
func (c *Client) CreateConditionalMenu(ctx context.Context, menu json.RawMessage) (string, error) {
	q, err := c.tokenQuery(ctx)
	if err != nil {
		return "", err
	}
	body, err := c.postJSON(ctx, apiBase+"/cgi-bin/menu/addconditional", q, menu)
	if err != nil {
		return "", err
	}
	if err := apiError(body); err != nil {
		return "", err
	}
	id, _ := body["menuid"].(string)
	if id == "" {
		if n, ok := toInt(body["menuid"]); ok {
			id = strconv.Itoa(n)
		}
	}
	return id, nil
}

// Menus devuelve la configuración de menús actual.
// errcode 46003 (sin menú configurado) se normaliza a un menú vacío.
func (c *Client) Menus(ctx context.Context) (map[string]any, error) {
	q, err := c.tokenQuery(ctx)
	if err != nil {
		return nil, err
	}
	body, err := c.getJSON(ctx, apiBase+"/cgi-bin/menu/get", q)
	if err != nil {
		return nil, err
	}
	if n, _ := toInt(body["errcode"]); n == 46003 {
		return map[string]any{"menu": map[string]any{}}, nil
	}
	if err := apiError(body); err != nil {
		return nil, err
	}
	return body, nil
}

// DeleteAllMenus elimina todos los menús, incluidos los condicionales.
func (c *Client) DeleteAllMenus(ctx context.Context) error {
	q, err := c.tokenQuery(ctx)
	if err != nil {
		return err
	}
	body, err := c.getJSON(ctx, apiBase+"/cgi-bin/menu/delete", q)
	if err != nil {
		return err
	}
	return apiError(body)
}

// DeleteConditionalMenu elimina un menú condicional por id.
func (c *Client) DeleteConditionalMenu(ctx context.Context, menuID int) error {
	q, err := c.tokenQuery(ctx)
	if err != nil {
		return err
	}
	body, err := c.postJSON(ctx, apiBase+"/cgi-bin/menu/delconditional", q, map[string]int{
		"menuid": menuID,
	})
	if err != nil {
		return err
	}
	return apiError(body)
}
