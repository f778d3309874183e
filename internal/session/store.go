// Package session implementa el estado durable por usuario: tokens OAuth y el
// cache secundario de perfil, sobre un backend cache.Client externo.
//
// Los nombres de campo persistidos (wx_openid, wx_access_token,
// wx_access_token_expires_at, wx_refresh_token, wx_userinfo) son parte del
// contrato con el backend de sesión del host.
package session

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/huangdongj/wego/internal/cache"
)

// expiryMargin se resta del expires_in declarado por el proveedor para que el
// refresh ocurra antes de la expiración real.
const expiryMargin = 180 * time.Second

// Tokens es el registro de credenciales de un usuario.
type Tokens struct {
	AccessToken  string
	ExpiresAt    time.Time
	RefreshToken string
}

// Expired informa si el access token ya no es usable.
// now >= ExpiresAt cuenta como expirado.
func (t *Tokens) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// Store lee y escribe los campos de la sesión de un usuario.
// No hace I/O de red propio: todo delega en el backend.
type Store struct {
	c   cache.Client
	sid string

	sessionTTL time.Duration // vida de los campos de la sesión
	profileTTL time.Duration // 0 deshabilita el cache de perfil

	now func() time.Time
}

// NewStore crea un Store atado a una sesión.
// profileTTL 0 deshabilita por completo el cache de perfil.
func NewStore(c cache.Client, sid string, sessionTTL, profileTTL time.Duration) *Store {
	return &Store{
		c:          c,
		sid:        sid,
		sessionTTL: sessionTTL,
		profileTTL: profileTTL,
		now:        time.Now,
	}
}

func (s *Store) key(field string) string {
	return "wego:sess:" + s.sid + ":" + field
}

func (s *Store) get(ctx context.Context, field string) (string, error) {
	v, err := s.c.Get(ctx, s.key(field))
	if cache.IsNotFound(err) {
		return "", nil
	}
	return v, err
}

// OpenID devuelve el identity id guardado, o vacío si no hay sesión.
func (s *Store) OpenID(ctx context.Context) (string, error) {
	return s.get(ctx, "wx_openid")
}

// SetOpenID guarda el identity id del usuario.
func (s *Store) SetOpenID(ctx context.Context, openid string) error {
	return s.c.Set(ctx, s.key("wx_openid"), openid, s.sessionTTL)
}

// Tokens devuelve las credenciales guardadas, o nil si no hay.
func (s *Store) Tokens(ctx context.Context) (*Tokens, error) {
	access, err := s.get(ctx, "wx_access_token")
	if err != nil {
		return nil, err
	}
	if access == "" {
		return nil, nil
	}
	expires, err := s.get(ctx, "wx_access_token_expires_at")
	if err != nil {
		return nil, err
	}
	refresh, err := s.get(ctx, "wx_refresh_token")
	if err != nil {
		return nil, err
	}
	sec, _ := strconv.ParseInt(expires, 10, 64)
	return &Tokens{
		AccessToken:  access,
		ExpiresAt:    time.Unix(sec, 0),
		RefreshToken: refresh,
	}, nil
}

// SetTokens guarda las credenciales calculando la expiración absoluta con el
// margen de seguridad de 180 segundos.
func (s *Store) SetTokens(ctx context.Context, accessToken string, expiresIn int64, refreshToken string) error {
	expiresAt := s.now().Add(time.Duration(expiresIn)*time.Second - expiryMargin)

	if err := s.c.Set(ctx, s.key("wx_access_token"), accessToken, s.sessionTTL); err != nil {
		return err
	}
	if err := s.c.Set(ctx, s.key("wx_access_token_expires_at"), strconv.FormatInt(expiresAt.Unix(), 10), s.sessionTTL); err != nil {
		return err
	}
	return s.c.Set(ctx, s.key("wx_refresh_token"), refreshToken, s.sessionTTL)
}

// CachedProfile devuelve el perfil cacheado si existe y sigue fresco.
func (s *Store) CachedProfile(ctx context.Context) (map[string]string, bool) {
	if s.profileTTL <= 0 {
		return nil, false
	}
	raw, err := s.get(ctx, "wx_userinfo")
	if err != nil || raw == "" {
		return nil, false
	}

	var stored struct {
		ExpiresAt int64             `json:"expires_at"`
		Profile   map[string]string `json:"profile"`
	}
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return nil, false
	}
	if stored.ExpiresAt <= s.now().Unix() {
		return nil, false
	}
	return stored.Profile, true
}

// SetCachedProfile guarda un snapshot del perfil con su propia expiración.
// Si el TTL de perfil no está configurado, el caching se omite por completo.
func (s *Store) SetCachedProfile(ctx context.Context, profile map[string]string) error {
	if s.profileTTL <= 0 {
		return nil
	}
	stored := struct {
		ExpiresAt int64             `json:"expires_at"`
		Profile   map[string]string `json:"profile"`
	}{
		ExpiresAt: s.now().Add(s.profileTTL).Unix(),
		Profile:   profile,
	}
	raw, err := json.Marshal(stored)
	if err != nil {
		return err
	}
	return s.c.Set(ctx, s.key("wx_userinfo"), string(raw), s.profileTTL)
}

// Clear borra todos los campos de la sesión.
func (s *Store) Clear(ctx context.Context) error {
	for _, f := range []string{"wx_openid", "wx_access_token", "wx_access_token_expires_at", "wx_refresh_token", "wx_userinfo"} {
		if err := s.c.Delete(ctx, s.key(f)); err != nil {
			return err
		}
	}
	return nil
}
