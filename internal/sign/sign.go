// Package sign implementa la firma canónica de requests de pago y la
// validación de presencia de parámetros.
//
// La canonicalización (keys ordenadas por orden de bytes, pares k=v unidos con
// "&", el secreto agregado al final bajo la key literal "key", MD5 en hex
// mayúsculas) es un contrato de compatibilidad con el verificador remoto:
// tiene que reproducirse bit a bit.
package sign

import (
	"crypto/md5"
	"fmt"
	"sort"
	"strings"
)

// Sign calcula la firma canónica sobre fields con el secreto compartido.
// El mapping no debe contener la key "sign": la firma se calcula y se agrega
// después por el caller.
func Sign(fields map[string]string, secret string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys)+1)
	for _, k := range keys {
		pairs = append(pairs, k+"="+fields[k])
	}
	pairs = append(pairs, "key="+secret)

	sum := md5.Sum([]byte(strings.Join(pairs, "&")))
	return strings.ToUpper(fmt.Sprintf("%x", sum))
}
