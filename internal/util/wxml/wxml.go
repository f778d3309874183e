// Package wxml codifica y decodifica los documentos XML planos del proveedor:
// un elemento raíz <xml> con hijos de un solo nivel, strings con CDATA.
package wxml

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
)

// Decode convierte un documento <xml> plano en un map campo → valor.
// Los elementos anidados más allá del primer nivel se ignoran.
func Decode(raw []byte) (map[string]string, error) {
	dec := xml.NewDecoder(bytes.NewReader(raw))
	out := make(map[string]string)

	var field string
	depth := 0
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("wxml: decode: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if depth == 2 {
				field = t.Name.Local
			}
		case xml.EndElement:
			depth--
			field = ""
		case xml.CharData:
			if depth == 2 && field != "" {
				out[field] += string(t)
			}
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("wxml: empty or non-flat document")
	}
	return out, nil
}

// Encode convierte un map campo → valor en un documento <xml> plano con
// valores en CDATA. Las keys se emiten ordenadas para que la salida sea
// determinista.
func Encode(fields map[string]string) []byte {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.WriteString("<xml>")
	for _, k := range keys {
		buf.WriteString("<" + k + "><![CDATA[")
		buf.WriteString(fields[k])
		buf.WriteString("]]></" + k + ">")
	}
	buf.WriteString("</xml>")
	return buf.Bytes()
}
