package wechat

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/huangdongj/wego/internal/apperrors"
)

// ExtUserInfo trae el perfil extendido del usuario (subscribe, language,
// remark, groupid). Requiere el access token global.
func (c *Client) ExtUserInfo(ctx context.Context, openid string) (map[string]string, error) {
	q, err := c.tokenQuery(ctx)
	if err != nil {
		return nil, err
	}
	q.Set("openid", openid)
	q.Set("lang", "zh_CN")

	body, err := c.getJSON(ctx, apiBase+"/cgi-bin/user/info", q)
	if err != nil {
		return nil, err
	}
	if err := apiError(body); err != nil {
		return nil, err
	}
	return stringify(body), nil
}

// SetRemark escribe el remark del usuario.
func (c *Client) SetRemark(ctx context.Context, openid, remark string) error {
	q, err := c.tokenQuery(ctx)
	if err != nil {
		return err
	}
	body, err := c.postJSON(ctx, apiBase+"/cgi-bin/user/info/updateremark", q, map[string]string{
		"openid": openid,
		"remark": remark,
	})
	if err != nil {
		return err
	}
	return apiError(body)
}

// Groups lista todos los grupos en el orden que entrega el proveedor.
func (c *Client) Groups(ctx context.Context) ([]Group, error) {
	q, err := c.tokenQuery(ctx)
	if err != nil {
		return nil, err
	}
	body, err := c.getJSON(ctx, apiBase+"/cgi-bin/groups/get", q)
	if err != nil {
		return nil, err
	}
	if err := apiError(body); err != nil {
		return nil, err
	}

	raw, err := json.Marshal(body["groups"])
	if err != nil {
		return nil, err
	}
	var groups []Group
	if err := json.Unmarshal(raw, &groups); err != nil {
		return nil, apperrors.ErrProtocol.WithDetail("cgi-bin/groups/get: bad groups payload")
	}
	return groups, nil
}

// CreateGroup crea un grupo nuevo.
func (c *Client) CreateGroup(ctx context.Context, name string) (*Group, error) {
	q, err := c.tokenQuery(ctx)
	if err != nil {
		return nil, err
	}
	body, err := c.postJSON(ctx, apiBase+"/cgi-bin/groups/create", q, map[string]any{
		"group": map[string]string{"name": name},
	})
	if err != nil {
		return nil, err
	}
	if err := apiError(body); err != nil {
		return nil, err
	}

	raw, err := json.Marshal(body["group"])
	if err != nil {
		return nil, err
	}
	var g Group
	if err := json.Unmarshal(raw, &g); err != nil {
		return nil, apperrors.ErrProtocol.WithDetail("cgi-bin/groups/create: bad group payload")
	}
	return &g, nil
}

// RenameGroup cambia el nombre de un grupo.
func (c *Client) RenameGroup(ctx context.Context, groupID int, name string) error {
	q, err := c.tokenQuery(ctx)
	if err != nil {
		return err
	}
	body, err := c.postJSON(ctx, apiBase+"/cgi-bin/groups/update", q, map[string]any{
		"group": map[string]any{"id": groupID, "name": name},
	})
	if err != nil {
		return err
	}
	return apiError(body)
}

// DeleteGroup elimina un grupo.
func (c *Client) DeleteGroup(ctx context.Context, groupID int) error {
	q, err := c.tokenQuery(ctx)
	if err != nil {
		return err
	}
	body, err := c.postJSON(ctx, apiBase+"/cgi-bin/groups/delete", q, map[string]any{
		"group": map[string]any{"id": groupID},
	})
	if err != nil {
		return err
	}
	return apiError(body)
}

// ChangeUserGroup mueve al usuario al grupo dado.
func (c *Client) ChangeUserGroup(ctx context.Context, openid string, groupID int) error {
	q, err := c.tokenQuery(ctx)
	if err != nil {
		return err
	}
	body, err := c.postJSON(ctx, apiBase+"/cgi-bin/groups/members/update", q, map[string]string{
		"openid":     openid,
		"to_groupid": strconv.Itoa(groupID),
	})
	if err != nil {
		return err
	}
	return apiError(body)
}
