// Package auth orquesta el handshake OAuth y el refresh de tokens.
//
// Authenticate es la máquina de estados por request:
//
//	S0 NoSession       sin sesión; con code se intercambia, sin code → S1
//	S1 RedirectForCode terminal: redirigir al endpoint de autorización
//	S2 HasAccessToken  validar expiración; refresh si hace falta
//	S3 Authenticated   perfil (cache o remoto) + LazyUserView
//
// Los fallos de sesión (refresh rechazado, perfil con error del proveedor) se
// convierten en la ruta de re-autorización, nunca en un error fatal: volver a
// autorizar es la recuperación esperada.
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/huangdongj/wego/internal/apperrors"
	"github.com/huangdongj/wego/internal/cache"
	"github.com/huangdongj/wego/internal/metrics"
	"github.com/huangdongj/wego/internal/observability/logger"
	"github.com/huangdongj/wego/internal/session"
	"github.com/huangdongj/wego/internal/user"
	"github.com/huangdongj/wego/internal/wechat"
)

// Config parametriza el flujo.
type Config struct {
	// CookieName es el nombre de la cookie de sesión.
	CookieName string

	// SessionTTL es la vida de los campos de sesión en el backend.
	SessionTTL time.Duration

	// ProfileTTL es la vida del cache de perfil. 0 lo deshabilita.
	ProfileTTL time.Duration
}

// Context es el resultado exitoso del flujo: la identidad autenticada que
// recibe el handler del caller.
type Context struct {
	OpenID string
	User   *user.User
}

// Redirect es la instrucción terminal de re-autorización.
type Redirect struct {
	URL string
}

// Flow orquesta el handshake usando el TokenStore, el ProfileCache y el
// cliente del proveedor.
type Flow struct {
	oauth wechat.OAuthClient
	users user.Client
	cache cache.Client
	cfg   Config

	now func() time.Time
}

// NewFlow crea el flujo.
func NewFlow(oauth wechat.OAuthClient, users user.Client, c cache.Client, cfg Config) *Flow {
	if cfg.CookieName == "" {
		cfg.CookieName = "wego_sid"
	}
	if cfg.SessionTTL == 0 {
		cfg.SessionTTL = 30 * 24 * time.Hour
	}
	return &Flow{oauth: oauth, users: users, cache: c, cfg: cfg, now: time.Now}
}

// Authenticate corre la máquina de estados para una sesión.
// Devuelve exactamente uno de: contexto autenticado, o instrucción de
// redirect. currentURL es la URL a la que el usuario debe volver con el code.
func (f *Flow) Authenticate(ctx context.Context, sid, code, currentURL string) (*Context, *Redirect, error) {
	log := logger.From(ctx).With(logger.Component("auth"), logger.SessionID(sid))
	store := session.NewStore(f.cache, sid, f.cfg.SessionTTL, f.cfg.ProfileTTL)

	// S0: un code entrante se intercambia y la sesión pasa a S2.
	if code != "" {
		tr, err := f.oauth.ExchangeCode(ctx, code)
		if err != nil {
			if errors.Is(err, apperrors.ErrRemoteProvider) {
				// code inválido o ya usado: volver a autorizar
				log.Warn("code exchange rejected", logger.Err(err))
				return nil, f.redirect(currentURL), nil
			}
			return nil, nil, err
		}
		if err := store.SetOpenID(ctx, tr.OpenID); err != nil {
			return nil, nil, err
		}
		if err := store.SetTokens(ctx, tr.AccessToken, tr.ExpiresIn, tr.RefreshToken); err != nil {
			return nil, nil, err
		}
	}

	openid, err := store.OpenID(ctx)
	if err != nil {
		return nil, nil, err
	}
	if openid == "" {
		// S1
		return nil, f.redirect(currentURL), nil
	}

	profile, err2 := f.profile(ctx, store, openid)
	if err2 != nil {
		if errors.Is(err2, apperrors.ErrAuthorizationRequired) || errors.Is(err2, apperrors.ErrRefreshFailed) {
			return nil, f.redirect(currentURL), nil
		}
		return nil, nil, err2
	}

	// S3
	return &Context{
		OpenID: openid,
		User:   user.New(f.users, openid, profile),
	}, nil, nil
}

// profile resuelve el perfil del usuario: primero el cache (si está
// habilitado y fresco), después el proveedor con escritura al cache.
func (f *Flow) profile(ctx context.Context, store *session.Store, openid string) (map[string]string, error) {
	if p, ok := store.CachedProfile(ctx); ok {
		metrics.ProfileCacheHits.WithLabelValues("hit").Inc()
		return p, nil
	}
	metrics.ProfileCacheHits.WithLabelValues("miss").Inc()

	tokens, err := store.Tokens(ctx)
	if err != nil {
		return nil, err
	}
	if tokens == nil {
		return nil, apperrors.ErrAuthorizationRequired
	}

	// S2: refresh antes de la expiración real
	if tokens.Expired(f.now()) {
		tr, err := f.oauth.RefreshToken(ctx, tokens.RefreshToken)
		if err != nil {
			metrics.TokenRefreshes.WithLabelValues("error").Inc()
			logger.From(ctx).Warn("token refresh rejected", logger.Component("auth"), logger.OpenID(openid), logger.Err(err))
			return nil, apperrors.ErrRefreshFailed.WithCause(err)
		}
		metrics.TokenRefreshes.WithLabelValues("ok").Inc()
		if err := store.SetTokens(ctx, tr.AccessToken, tr.ExpiresIn, tr.RefreshToken); err != nil {
			return nil, err
		}
		tokens.AccessToken = tr.AccessToken
	}

	p, err := f.oauth.SNSUserInfo(ctx, openid, tokens.AccessToken)
	if err != nil {
		if errors.Is(err, apperrors.ErrRemoteProvider) {
			// El proveedor marcó el fetch como erróneo: re-autorizar,
			// nunca un crash.
			return nil, apperrors.ErrAuthorizationRequired.WithCause(err)
		}
		return nil, err
	}

	if err := store.SetCachedProfile(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (f *Flow) redirect(currentURL string) *Redirect {
	return &Redirect{URL: f.oauth.AuthorizeURL(currentURL)}
}
