// Package push normaliza las notificaciones push entrantes del proveedor y
// construye las respuestas XML.
package push

import (
	"strings"

	"github.com/huangdongj/wego/internal/util/wxml"
)

// Push es una notificación entrante normalizada.
type Push struct {
	// Type es el tag normalizado: el MsgType para mensajes, o para eventos
	// el nombre del evento en minúsculas, con dos casos especiales: un
	// subscribe que trae Ticket de escaneo es "scan_subscribe" y el evento
	// LOCATION es "user_location".
	Type string

	FromUser string
	ToUser   string

	// Data expone todos los campos crudos del documento.
	Data map[string]string
}

// Parse decodifica el XML crudo y calcula el push type normalizado.
func Parse(raw []byte) (*Push, error) {
	data, err := wxml.Decode(raw)
	if err != nil {
		return nil, err
	}

	p := &Push{
		FromUser: data["FromUserName"],
		ToUser:   data["ToUserName"],
		Data:     data,
	}

	if data["MsgType"] == "event" {
		switch {
		case data["Event"] == "subscribe" && data["Ticket"] != "":
			p.Type = "scan_subscribe"
		case data["Event"] == "LOCATION":
			p.Type = "user_location"
		default:
			p.Type = strings.ToLower(data["Event"])
		}
	} else {
		p.Type = data["MsgType"]
	}
	return p, nil
}

// Field devuelve un campo crudo del documento, vacío si no está.
func (p *Push) Field(name string) string {
	return p.Data[name]
}
