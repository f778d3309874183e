// Package user expone la vista perezosa de lectura/escritura sobre el perfil
// de un usuario WeChat.
//
// El perfil base viene del login; los campos extendidos (subscribe, language,
// remark, groupid) se traen del proveedor una sola vez, en el primer acceso, y
// después se sirven del snapshot en memoria durante la vida del objeto. Las
// escrituras de remark y grupo son write-through al proveedor.
package user

import (
	"context"
	"strconv"

	"github.com/huangdongj/wego/internal/apperrors"
	"github.com/huangdongj/wego/internal/wechat"
)

// Client agrupa lo que User necesita del proveedor.
type Client interface {
	wechat.UserClient
}

// User es la vista perezosa sobre el perfil de un usuario.
// No es segura para uso concurrente: vive dentro de un request.
type User struct {
	client Client
	openid string

	data     map[string]string
	upgraded bool
}

// New crea la vista sobre el perfil base obtenido en el login.
func New(client Client, openid string, base map[string]string) *User {
	data := make(map[string]string, len(base))
	for k, v := range base {
		data[k] = v
	}
	return &User{client: client, openid: openid, data: data}
}

// OpenID devuelve el identity id del usuario.
func (u *User) OpenID() string { return u.openid }

// Base devuelve un campo del snapshot actual.
// Semántica permisiva: vacío cuando el campo genuinamente no está.
func (u *User) Base(key string) string {
	return u.data[key]
}

// Nickname devuelve el nickname del perfil base.
func (u *User) Nickname() string { return u.data["nickname"] }

// City devuelve la ciudad del perfil base.
func (u *User) City() string { return u.data["city"] }

// Province devuelve la provincia del perfil base.
func (u *User) Province() string { return u.data["province"] }

// Country devuelve el país del perfil base.
func (u *User) Country() string { return u.data["country"] }

// HeadImgURL devuelve la URL del avatar del perfil base.
func (u *User) HeadImgURL() string { return u.data["headimgurl"] }

// Upgrade trae el perfil extendido del proveedor si todavía no se trajo.
// Es idempotente: la segunda llamada no emite un segundo fetch.
func (u *User) Upgrade(ctx context.Context) error {
	if u.upgraded {
		return nil
	}

	// Defaults para que los campos mutables existan aunque el proveedor
	// los omita.
	u.data["remark"] = ""
	u.data["groupid"] = ""

	ext, err := u.client.ExtUserInfo(ctx, u.openid)
	if err != nil {
		return err
	}
	for k, v := range ext {
		u.data[k] = v
	}
	u.upgraded = true
	return nil
}

// Ext devuelve el snapshot extendido. Falla con ErrNotLoaded si no se llamó
// Upgrade todavía: el acceso crudo no dispara red implícitamente.
func (u *User) Ext() (map[string]string, error) {
	if !u.upgraded {
		return nil, apperrors.ErrNotLoaded
	}
	return u.data, nil
}

// Subscribed informa si el usuario está suscrito a la cuenta.
func (u *User) Subscribed(ctx context.Context) (bool, error) {
	if err := u.Upgrade(ctx); err != nil {
		return false, err
	}
	return u.data["subscribe"] == "1", nil
}

// Language devuelve el idioma del usuario.
func (u *User) Language(ctx context.Context) (string, error) {
	if err := u.Upgrade(ctx); err != nil {
		return "", err
	}
	return u.data["language"], nil
}

// Remark devuelve el remark actual del usuario.
func (u *User) Remark(ctx context.Context) (string, error) {
	if err := u.Upgrade(ctx); err != nil {
		return "", err
	}
	return u.data["remark"], nil
}

// GroupID devuelve el id del grupo del usuario.
func (u *User) GroupID(ctx context.Context) (int, error) {
	if err := u.Upgrade(ctx); err != nil {
		return 0, err
	}
	id, _ := strconv.Atoi(u.data["groupid"])
	return id, nil
}

// Group resuelve el grupo del usuario contra la lista del proveedor.
// El campo no viene en el perfil: se deriva del groupid cacheado.
func (u *User) Group(ctx context.Context) (wechat.Group, error) {
	id, err := u.GroupID(ctx)
	if err != nil {
		return wechat.Group{}, err
	}
	groups, err := u.client.Groups(ctx)
	if err != nil {
		return wechat.Group{}, err
	}
	for _, g := range groups {
		if g.ID == id {
			return g, nil
		}
	}
	return wechat.Group{}, apperrors.ErrUnknownGroup
}

// SetRemark escribe el remark del usuario.
// Falla con ErrSubscriptionRequired, sin tocar la red, si el usuario no está
// suscrito. Si el valor no cambió, no escribe.
func (u *User) SetRemark(ctx context.Context, remark string) error {
	subscribed, err := u.Subscribed(ctx)
	if err != nil {
		return err
	}
	if !subscribed {
		return apperrors.ErrSubscriptionRequired
	}
	if u.data["remark"] == remark {
		return nil
	}
	if err := u.client.SetRemark(ctx, u.openid, remark); err != nil {
		return err
	}
	u.data["remark"] = remark
	return nil
}

// SetGroupID mueve al usuario al grupo dado.
// Falla con ErrUnknownGroup si el id no existe.
func (u *User) SetGroupID(ctx context.Context, groupID int) error {
	groups, err := u.client.Groups(ctx)
	if err != nil {
		return err
	}
	return u.setGroup(ctx, groups, groupID)
}

// SetGroupByName resuelve el nombre al primer grupo que coincida exactamente,
// en el orden del proveedor, y mueve al usuario ahí. El nombre de grupo no es
// único: la ambigüedad se resuelve por primer match, no se asume biyección.
func (u *User) SetGroupByName(ctx context.Context, name string) error {
	groups, err := u.client.Groups(ctx)
	if err != nil {
		return err
	}
	for _, g := range groups {
		if g.Name == name {
			return u.setGroup(ctx, groups, g.ID)
		}
	}
	return apperrors.ErrUnknownGroup
}

func (u *User) setGroup(ctx context.Context, groups []wechat.Group, groupID int) error {
	known := false
	for _, g := range groups {
		if g.ID == groupID {
			known = true
			break
		}
	}
	if !known {
		return apperrors.ErrUnknownGroup
	}
	if err := u.client.ChangeUserGroup(ctx, u.openid, groupID); err != nil {
		return err
	}
	if u.upgraded {
		u.data["groupid"] = strconv.Itoa(groupID)
	}
	return nil
}
