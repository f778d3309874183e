package logger

import (
	"time"

	"go.uber.org/zap"

	"github.com/huangdongj/wego/internal/util"
)

// Campos estándar — HTTP.

// RequestID crea un campo para el ID del request.
func RequestID(v string) zap.Field {
	return zap.String("request_id", v)
}

// Method crea un campo para el método HTTP.
func Method(v string) zap.Field {
	return zap.String("method", v)
}

// Path crea un campo para el path del request.
func Path(v string) zap.Field {
	return zap.String("path", v)
}

// Status crea un campo para el status code HTTP.
func Status(v int) zap.Field {
	return zap.Int("status", v)
}

// Duration crea un campo para la duración del request.
func Duration(v time.Duration) zap.Field {
	return zap.Duration("duration", v)
}

// Campos estándar — negocio.

// OpenID crea un campo para el openid del usuario WeChat.
func OpenID(v string) zap.Field {
	return zap.String("openid", v)
}

// SessionID crea un campo para el id de sesión (cookie), enmascarado.
func SessionID(v string) zap.Field {
	return zap.String("sid", util.MaskSecret(v))
}

// Endpoint crea un campo para el endpoint del proveedor invocado.
func Endpoint(v string) zap.Field {
	return zap.String("endpoint", v)
}

// OutTradeNo crea un campo para el número de orden del comercio.
func OutTradeNo(v string) zap.Field {
	return zap.String("out_trade_no", v)
}

// Campos estándar — sistema.

// Component crea un campo para el componente/módulo.
func Component(v string) zap.Field {
	return zap.String("component", v)
}

// Op crea un campo para la operación actual.
func Op(v string) zap.Field {
	return zap.String("op", v)
}

// Err crea un campo para un error.
func Err(err error) zap.Field {
	return zap.Error(err)
}
