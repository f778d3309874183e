package auth

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/huangdongj/wego/internal/apperrors"
)

type ctxKey struct{}

// WithContext inyecta el contexto autenticado en el request context.
func WithContext(ctx context.Context, ac *Context) context.Context {
	return context.WithValue(ctx, ctxKey{}, ac)
}

// FromContext extrae el contexto autenticado, o nil si no hay.
func FromContext(ctx context.Context) *Context {
	if v := ctx.Value(ctxKey{}); v != nil {
		if ac, ok := v.(*Context); ok {
			return ac
		}
	}
	return nil
}

// RequireWeChatUser es el middleware que corre el flujo por request:
// mintea la cookie de sesión cuando falta, toma el code del query, y o bien
// redirige al endpoint de autorización o invoca el handler con el contexto
// autenticado inyectado.
func RequireWeChatUser(flow *Flow) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sid := sessionID(w, r, flow.cfg.CookieName)
			code := r.URL.Query().Get("code")

			ac, redirect, err := flow.Authenticate(r.Context(), sid, code, currentURL(r))
			if err != nil {
				apperrors.WriteError(w, err)
				return
			}
			if redirect != nil {
				http.Redirect(w, r, redirect.URL, http.StatusFound)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithContext(r.Context(), ac)))
		})
	}
}

// sessionID devuelve el sid de la cookie, minteando uno nuevo si falta.
func sessionID(w http.ResponseWriter, r *http.Request, cookieName string) string {
	if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
		return c.Value
	}
	sid := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sid
}

// currentURL reconstruye la URL absoluta a la que el usuario debe volver con
// el code. El query actual se descarta para no arrastrar un code viejo.
func currentURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if p := r.Header.Get("X-Forwarded-Proto"); p != "" {
		scheme = p
	}
	return scheme + "://" + r.Host + r.URL.Path
}
