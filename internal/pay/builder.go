// Package pay compone, valida, firma y despacha las operaciones de pago.
//
// Cada operación mezcla un set fijo de defaults (appid, mch_id, nonce_str
// fresco, defaults propios de la operación) con los campos del caller, valida
// presencia ANTES de cualquier llamada de red, firma con el secreto del
// comercio y despacha vía el cliente del proveedor.
package pay

import (
	"context"
	"strconv"
	"time"

	"github.com/huangdongj/wego/internal/apperrors"
	"github.com/huangdongj/wego/internal/sign"
	"github.com/huangdongj/wego/internal/wechat"
)

// Config parametriza el builder.
type Config struct {
	AppID     string
	MchID     string
	MchSecret string
	NotifyURL string

	// ForceMinimalFee fuerza total_fee=1 en orden y devolución.
	// Flag explícito de configuración para entornos que no son producción.
	ForceMinimalFee bool
}

// Builder arma y despacha requests de pago firmados.
type Builder struct {
	client wechat.PayClient
	cfg    Config

	nonce func() string
	now   func() time.Time
}

// NewBuilder crea el builder con el generador de nonce por defecto.
func NewBuilder(client wechat.PayClient, cfg Config) *Builder {
	return &Builder{
		client: client,
		cfg:    cfg,
		nonce:  sign.Nonce,
		now:    time.Now,
	}
}

// defaults arma el set fijo que toda operación lleva.
func (b *Builder) defaults() map[string]string {
	return map[string]string{
		"appid":     b.cfg.AppID,
		"mch_id":    b.cfg.MchID,
		"nonce_str": b.nonce(),
	}
}

// merge superpone los campos del caller sobre los defaults.
func merge(defaults, caller map[string]string) map[string]string {
	out := make(map[string]string, len(defaults)+len(caller))
	for k, v := range defaults {
		out[k] = v
	}
	for k, v := range caller {
		out[k] = v
	}
	return out
}

// seal firma el parameter set y agrega el campo sign.
// El mapping nunca contiene "sign" al firmar: se computa y se agrega después.
func (b *Builder) seal(fields map[string]string) map[string]string {
	fields["sign"] = sign.Sign(fields, b.cfg.MchSecret)
	return fields
}

// OrderConfirm es el payload client-facing de la confirmación de pago.
// Lleva su propia segunda firma, independiente de la del request, porque el
// verificador del lado del usuario firma sobre otros campos.
type OrderConfirm struct {
	AppID     string `json:"appId"`
	TimeStamp string `json:"timeStamp"`
	NonceStr  string `json:"nonceStr"`
	Package   string `json:"package"`
	SignType  string `json:"signType"`
	PaySign   string `json:"paySign"`
}

// UnifiedOrder crea la orden y devuelve el payload de confirmación listo para
// el cliente. fields debe traer al menos body, out_trade_no, total_fee y
// spbill_create_ip; notify_url y trade_type tienen defaults de configuración.
func (b *Builder) UnifiedOrder(ctx context.Context, fields map[string]string) (*OrderConfirm, error) {
	defaults := b.defaults()
	defaults["notify_url"] = b.cfg.NotifyURL
	defaults["trade_type"] = "JSAPI"

	data := merge(defaults, fields)
	if b.cfg.ForceMinimalFee {
		data["total_fee"] = "1"
	}

	if err := sign.Require(data,
		"appid",
		"mch_id",
		"nonce_str",
		"body",
		"out_trade_no",
		"total_fee",
		"spbill_create_ip",
		"notify_url",
		"trade_type",
	); err != nil {
		return nil, err
	}

	order, err := b.client.UnifiedOrder(ctx, b.seal(data))
	if err != nil {
		return nil, err
	}
	if order["prepay_id"] == "" {
		return nil, apperrors.ErrProtocol.WithDetail("pay/unifiedorder: missing prepay_id")
	}

	confirm := map[string]string{
		"appId":     order["appid"],
		"timeStamp": strconv.FormatInt(b.now().Unix(), 10),
		"nonceStr":  order["nonce_str"],
		"package":   "prepay_id=" + order["prepay_id"],
		"signType":  "MD5",
	}
	paySign := sign.Sign(confirm, b.cfg.MchSecret)

	return &OrderConfirm{
		AppID:     confirm["appId"],
		TimeStamp: confirm["timeStamp"],
		NonceStr:  confirm["nonceStr"],
		Package:   confirm["package"],
		SignType:  confirm["signType"],
		PaySign:   paySign,
	}, nil
}

// OrderQuery consulta una orden por out_trade_no o transaction_id,
// exactamente uno de los dos.
func (b *Builder) OrderQuery(ctx context.Context, outTradeNo, transactionID string) (map[string]string, error) {
	if (outTradeNo == "") == (transactionID == "") {
		return nil, apperrors.ErrValidation.WithDetail("out_trade_no|transaction_id")
	}

	data := b.defaults()
	if transactionID != "" {
		data["transaction_id"] = transactionID
	} else {
		data["out_trade_no"] = outTradeNo
	}

	return b.client.OrderQuery(ctx, b.seal(data))
}

// CloseOrder cierra una orden por out_trade_no.
func (b *Builder) CloseOrder(ctx context.Context, outTradeNo string) (map[string]string, error) {
	data := b.defaults()
	data["out_trade_no"] = outTradeNo

	if err := sign.Require(data, "appid", "mch_id", "nonce_str", "out_trade_no"); err != nil {
		return nil, err
	}
	return b.client.CloseOrder(ctx, b.seal(data))
}

// Refund pide una devolución. op_user_id tiene default mch_id.
// Requiere además uno de out_trade_no | transaction_id.
func (b *Builder) Refund(ctx context.Context, fields map[string]string) (map[string]string, error) {
	defaults := b.defaults()
	defaults["op_user_id"] = b.cfg.MchID

	data := merge(defaults, fields)
	if data["op_user_id"] == "" {
		data["op_user_id"] = b.cfg.MchID
	}
	if b.cfg.ForceMinimalFee {
		data["total_fee"] = "1"
	}

	if err := sign.Require(data,
		"appid",
		"mch_id",
		"nonce_str",
		"out_refund_no",
		"total_fee",
		"refund_fee",
		"op_user_id",
	); err != nil {
		return nil, err
	}
	if err := sign.RequireAny(data, "out_trade_no", "transaction_id"); err != nil {
		return nil, err
	}

	return b.client.Refund(ctx, b.seal(data))
}

// RefundQuery consulta una devolución por cualquiera de los cuatro
// identificadores alternativos.
func (b *Builder) RefundQuery(ctx context.Context, fields map[string]string) (map[string]string, error) {
	data := merge(b.defaults(), fields)

	if err := sign.RequireAny(data, "transaction_id", "out_trade_no", "out_refund_no", "refund_id"); err != nil {
		return nil, err
	}

	return b.client.RefundQuery(ctx, b.seal(data))
}

// DownloadBill descarga la conciliación de un día.
func (b *Builder) DownloadBill(ctx context.Context, fields map[string]string) (map[string]string, error) {
	data := merge(b.defaults(), fields)

	if err := sign.Require(data, "appid", "mch_id", "nonce_str", "bill_date", "bill_type"); err != nil {
		return nil, err
	}
	return b.client.DownloadBill(ctx, b.seal(data))
}

// Report reporta métricas de la interfaz de pago al proveedor.
func (b *Builder) Report(ctx context.Context, fields map[string]string) (map[string]string, error) {
	data := merge(b.defaults(), fields)

	if err := sign.Require(data,
		"appid",
		"mch_id",
		"nonce_str",
		"interface_url",
		"execute_time",
		"return_code",
		"result_code",
		"user_ip",
	); err != nil {
		return nil, err
	}
	return b.client.Report(ctx, b.seal(data))
}
