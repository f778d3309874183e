// Package httpx define las rutas HTTP del servidor de referencia.
package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/huangdongj/wego/internal/auth"
	"github.com/huangdongj/wego/internal/pay"
)

// Deps contiene las dependencias del router.
type Deps struct {
	Flow    *auth.Flow
	Builder *pay.Builder
}

// NewRouter arma el router con el middleware de autenticación montado sobre
// las rutas que requieren un usuario WeChat.
func NewRouter(deps Deps) http.Handler {
	c := &controllers{deps: deps}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(withLogging)

	r.Get("/healthz", c.health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Notificaciones push del proveedor: sin sesión de usuario.
	r.Post("/push", c.push)

	// Rutas detrás del login WeChat.
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireWeChatUser(deps.Flow))

		r.Get("/me", c.me)
		r.Post("/me/remark", c.setRemark)
		r.Post("/me/group", c.setGroup)

		r.Post("/pay/orders", c.createOrder)
		r.Get("/pay/orders/{out_trade_no}", c.queryOrder)
		r.Delete("/pay/orders/{out_trade_no}", c.closeOrder)
		r.Post("/pay/refunds", c.refund)
		r.Post("/pay/refunds/query", c.refundQuery)
	})

	return r
}
