// Package wechat implementa el cliente HTTP contra la API del proveedor.
//
// El resto del SDK no depende del tipo concreto: consume las interfaces
// estrechas OAuthClient, UserClient y PayClient, todas implementadas por
// *Client.
package wechat

import (
	"context"
)

// TokenResult es la respuesta del intercambio de code y del refresh.
type TokenResult struct {
	OpenID       string `json:"openid"`
	AccessToken  string `json:"access_token"`
	ExpiresIn    int64  `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	Scope        string `json:"scope"`
}

// Group es un grupo de usuarios de la cuenta oficial.
// El nombre no es único: el lookup por nombre devuelve el primer match en el
// orden que entrega el proveedor.
type Group struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// OAuthClient cubre el handshake OAuth de usuario (endpoints sns).
type OAuthClient interface {
	// AuthorizeURL construye la URL de autorización del proveedor,
	// parametrizada con el path al que debe volver el usuario.
	AuthorizeURL(redirectURL string) string

	// ExchangeCode cambia un authorization code por tokens.
	// Una respuesta sin openid/access_token/expires_in/refresh_token es un
	// error de protocolo, no se tolera en silencio.
	ExchangeCode(ctx context.Context, code string) (*TokenResult, error)

	// RefreshToken renueva el access token con el refresh token.
	RefreshToken(ctx context.Context, refreshToken string) (*TokenResult, error)

	// SNSUserInfo trae el perfil base del usuario con su access token.
	SNSUserInfo(ctx context.Context, openid, accessToken string) (map[string]string, error)
}

// UserClient cubre las operaciones de usuario/grupo de la cuenta oficial
// (requieren el access token global, no el del usuario).
type UserClient interface {
	// ExtUserInfo trae el perfil extendido (subscribe, language, remark,
	// groupid) del usuario.
	ExtUserInfo(ctx context.Context, openid string) (map[string]string, error)

	// SetRemark escribe el remark del usuario.
	SetRemark(ctx context.Context, openid, remark string) error

	// Groups lista todos los grupos en el orden del proveedor.
	Groups(ctx context.Context) ([]Group, error)

	// ChangeUserGroup mueve al usuario al grupo dado.
	ChangeUserGroup(ctx context.Context, openid string, groupID int) error
}

// GroupAdminClient cubre el CRUD de grupos.
type GroupAdminClient interface {
	CreateGroup(ctx context.Context, name string) (*Group, error)
	RenameGroup(ctx context.Context, groupID int, name string) error
	DeleteGroup(ctx context.Context, groupID int) error
}

// PayClient cubre los endpoints de pago (XML firmado).
// Cada método recibe el parameter set ya validado y firmado y devuelve los
// campos de la respuesta tal cual.
type PayClient interface {
	UnifiedOrder(ctx context.Context, fields map[string]string) (map[string]string, error)
	OrderQuery(ctx context.Context, fields map[string]string) (map[string]string, error)
	CloseOrder(ctx context.Context, fields map[string]string) (map[string]string, error)
	Refund(ctx context.Context, fields map[string]string) (map[string]string, error)
	RefundQuery(ctx context.Context, fields map[string]string) (map[string]string, error)
	DownloadBill(ctx context.Context, fields map[string]string) (map[string]string, error)
	Report(ctx context.Context, fields map[string]string) (map[string]string, error)
}
