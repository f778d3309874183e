package httpx

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/huangdongj/wego/internal/apperrors"
	"github.com/huangdongj/wego/internal/auth"
	"github.com/huangdongj/wego/internal/observability/logger"
	"github.com/huangdongj/wego/internal/push"
)

// controllers implementa los handlers del servidor de referencia.
// Son deliberadamente finos: toda la lógica vive en los packages del SDK.
type controllers struct {
	deps Deps
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (c *controllers) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// me devuelve la identidad autenticada con su perfil extendido.
func (c *controllers) me(w http.ResponseWriter, r *http.Request) {
	ac := auth.FromContext(r.Context())

	subscribed, err := ac.User.Subscribed(r.Context())
	if err != nil {
		apperrors.WriteError(w, err)
		return
	}
	lang, _ := ac.User.Language(r.Context())
	remark, _ := ac.User.Remark(r.Context())

	writeJSON(w, http.StatusOK, map[string]any{
		"openid":     ac.OpenID,
		"nickname":   ac.User.Nickname(),
		"city":       ac.User.City(),
		"headimgurl": ac.User.HeadImgURL(),
		"subscribed": subscribed,
		"language":   lang,
		"remark":     remark,
	})
}

func (c *controllers) setRemark(w http.ResponseWriter, r *http.Request) {
	ac := auth.FromContext(r.Context())

	var body struct {
		Remark string `json:"remark"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		apperrors.WriteError(w, apperrors.ErrValidation.WithDetail("remark"))
		return
	}
	if err := ac.User.SetRemark(r.Context(), body.Remark); err != nil {
		apperrors.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"remark": body.Remark})
}

func (c *controllers) setGroup(w http.ResponseWriter, r *http.Request) {
	ac := auth.FromContext(r.Context())

	var body struct {
		GroupID *int   `json:"groupid"`
		Name    string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		apperrors.WriteError(w, apperrors.ErrValidation.WithDetail("groupid|name"))
		return
	}

	var err error
	switch {
	case body.GroupID != nil:
		err = ac.User.SetGroupID(r.Context(), *body.GroupID)
	case body.Name != "":
		err = ac.User.SetGroupByName(r.Context(), body.Name)
	default:
		err = apperrors.ErrValidation.WithDetail("groupid|name")
	}
	if err != nil {
		apperrors.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// createOrder crea la orden y devuelve el payload de confirmación con su
// segunda firma, listo para el lado del usuario.
func (c *controllers) createOrder(w http.ResponseWriter, r *http.Request) {
	ac := auth.FromContext(r.Context())

	var fields map[string]string
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		apperrors.WriteError(w, apperrors.ErrValidation.WithDetail("body"))
		return
	}
	if fields == nil {
		fields = map[string]string{}
	}
	fields["openid"] = ac.OpenID

	confirm, err := c.deps.Builder.UnifiedOrder(r.Context(), fields)
	if err != nil {
		apperrors.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, confirm)
}

func (c *controllers) queryOrder(w http.ResponseWriter, r *http.Request) {
	out, err := c.deps.Builder.OrderQuery(r.Context(), chi.URLParam(r, "out_trade_no"), "")
	if err != nil {
		apperrors.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (c *controllers) closeOrder(w http.ResponseWriter, r *http.Request) {
	out, err := c.deps.Builder.CloseOrder(r.Context(), chi.URLParam(r, "out_trade_no"))
	if err != nil {
		apperrors.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (c *controllers) refund(w http.ResponseWriter, r *http.Request) {
	var fields map[string]string
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		apperrors.WriteError(w, apperrors.ErrValidation.WithDetail("body"))
		return
	}
	out, err := c.deps.Builder.Refund(r.Context(), fields)
	if err != nil {
		apperrors.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (c *controllers) refundQuery(w http.ResponseWriter, r *http.Request) {
	var fields map[string]string
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		apperrors.WriteError(w, apperrors.ErrValidation.WithDetail("body"))
		return
	}
	out, err := c.deps.Builder.RefundQuery(r.Context(), fields)
	if err != nil {
		apperrors.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// push recibe la notificación XML del proveedor y contesta inline.
func (c *controllers) push(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		apperrors.WriteError(w, err)
		return
	}
	p, err := push.Parse(raw)
	if err != nil {
		apperrors.WriteError(w, apperrors.ErrValidation.WithDetail("push xml"))
		return
	}

	logger.From(r.Context()).Info("push received",
		logger.Component("push"),
		logger.Op(p.Type),
		logger.OpenID(p.FromUser),
	)

	w.Header().Set("Content-Type", "text/xml; charset=utf-8")
	switch p.Type {
	case "subscribe", "scan_subscribe":
		_, _ = w.Write(p.ReplyText("welcome"))
	case "text":
		_, _ = w.Write(p.ReplyText(p.Field("Content")))
	default:
		// el proveedor acepta "success" como ack vacío
		_, _ = w.Write([]byte("success"))
	}
}
