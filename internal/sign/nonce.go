package sign

import (
	"crypto/rand"
)

// nonceAlphabet son los 62 caracteres alfanuméricos admitidos por el
// verificador remoto para nonce_str.
const nonceAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// nonceLen es la longitud fija del nonce.
const nonceLen = 32

// Nonce genera un nonce aleatorio de 32 caracteres alfanuméricos.
func Nonce() string {
	b := make([]byte, nonceLen)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand no falla en plataformas soportadas
		panic(err)
	}
	for i := range b {
		b[i] = nonceAlphabet[int(b[i])%len(nonceAlphabet)]
	}
	return string(b)
}
