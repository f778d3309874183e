package wechat

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/huangdongj/wego/internal/apperrors"
	"github.com/huangdongj/wego/internal/metrics"
	"github.com/huangdongj/wego/internal/util/wxml"
)

// payPost envía el parameter set firmado como documento XML plano y devuelve
// los campos de la respuesta. return_code / result_code = FAIL se exponen como
// error del proveedor con su código y mensaje intactos.
func (c *Client) payPost(ctx context.Context, path string, fields map[string]string) (map[string]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, mchBase+path, bytes.NewReader(wxml.Encode(fields)))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.ObserveProviderCall(path, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("wechat: %s http %d", path, resp.StatusCode)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	out, err := wxml.Decode(raw)
	if err != nil {
		return nil, apperrors.ErrProtocol.WithDetail(path + ": non-xml reply")
	}
	if rc := out["return_code"]; rc != "" && rc != "SUCCESS" {
		return nil, apperrors.ErrRemoteProvider.WithDetail(fmt.Sprintf("%s return_code=%s return_msg=%s", path, rc, out["return_msg"]))
	}
	if rc := out["result_code"]; rc != "" && rc != "SUCCESS" {
		return nil, apperrors.ErrRemoteProvider.WithDetail(fmt.Sprintf("%s err_code=%s err_code_des=%s", path, out["err_code"], out["err_code_des"]))
	}
	return out, nil
}

// UnifiedOrder crea una orden unificada.
func (c *Client) UnifiedOrder(ctx context.Context, fields map[string]string) (map[string]string, error) {
	return c.payPost(ctx, "/pay/unifiedorder", fields)
}

// OrderQuery consulta el estado de una orden.
func (c *Client) OrderQuery(ctx context.Context, fields map[string]string) (map[string]string, error) {
	return c.payPost(ctx, "/pay/orderquery", fields)
}

// CloseOrder cierra una orden.
func (c *Client) CloseOrder(ctx context.Context, fields map[string]string) (map[string]string, error) {
	return c.payPost(ctx, "/pay/closeorder", fields)
}

// Refund pide la devolución de una orden.
func (c *Client) Refund(ctx context.Context, fields map[string]string) (map[string]string, error) {
	return c.payPost(ctx, "/secapi/pay/refund", fields)
}

// RefundQuery consulta el estado de una devolución.
func (c *Client) RefundQuery(ctx context.Context, fields map[string]string) (map[string]string, error) {
	return c.payPost(ctx, "/pay/refundquery", fields)
}

// DownloadBill descarga la conciliación del día.
// La respuesta exitosa es texto plano, no XML: se devuelve bajo la key "data".
func (c *Client) DownloadBill(ctx context.Context, fields map[string]string) (map[string]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, mchBase+"/pay/downloadbill", bytes.NewReader(wxml.Encode(fields)))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.ObserveProviderCall("/pay/downloadbill", time.Since(start), err)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if out, err := wxml.Decode(raw); err == nil {
		// Sólo los errores vienen como XML
		if rc := out["return_code"]; rc != "" && rc != "SUCCESS" {
			return nil, apperrors.ErrRemoteProvider.WithDetail("/pay/downloadbill return_msg=" + out["return_msg"])
		}
		return out, nil
	}
	return map[string]string{"data": string(raw)}, nil
}

// Report envía métricas de la interfaz de pago al proveedor.
func (c *Client) Report(ctx context.Context, fields map[string]string) (map[string]string, error) {
	return c.payPost(ctx, "/payitil/report", fields)
}
