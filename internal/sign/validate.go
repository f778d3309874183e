package sign

import (
	"strings"

	"github.com/huangdongj/wego/internal/apperrors"
)

// Require verifica que cada campo nombrado esté presente y no vacío,
// escaneando en el orden dado. Falla con ErrValidation nombrando el primer
// campo faltante. No muta fields; se ejecuta antes de cualquier I/O de red.
func Require(fields map[string]string, names ...string) error {
	for _, n := range names {
		if fields[n] == "" {
			return apperrors.ErrValidation.WithDetail(n)
		}
	}
	return nil
}

// RequireAny verifica que al menos uno de los campos nombrados esté presente
// y no vacío. Es la restricción OR de order-query/refund/refund-query,
// distinta del AND de Require.
func RequireAny(fields map[string]string, names ...string) error {
	for _, n := range names {
		if fields[n] != "" {
			return nil
		}
	}
	return apperrors.ErrValidation.WithDetail(strings.Join(names, "|"))
}
