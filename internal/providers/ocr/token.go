package ocr

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"encoding/hex"
	"fmt"
	"time"
)

const tokenTimeLayout = "20060102150405"

// tokenSigner builds the bearer token the OCR service expects: the caller
// email and a UTC timestamp, AES-256-CBC encrypted with PKCS#7 padding and
// hex encoded.
type tokenSigner struct {
	block cipher.Block
	iv    []byte
}

func newTokenSigner(key, iv string) (*tokenSigner, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("ocr encrypt key must be 32 bytes, got %d", len(key))
	}
	if len(iv) != aes.BlockSize {
		return nil, fmt.Errorf("ocr encrypt vector must be %d bytes, got %d", aes.BlockSize, len(iv))
	}
	block, err := aes.NewCipher([]byte(key))
	if err != nil {
		return nil, fmt.Errorf("init ocr cipher: %w", err)
	}
	return &tokenSigner{block: block, iv: []byte(iv)}, nil
}

func (s *tokenSigner) Token(email string, now time.Time) string {
	plain := pkcs7Pad([]byte(fmt.Sprintf("%s _ %s", email, now.UTC().Format(tokenTimeLayout))), aes.BlockSize)
	out := make([]byte, len(plain))
	cipher.NewCBCEncrypter(s.block, s.iv).CryptBlocks(out, plain)
	return hex.EncodeToString(out)
}

func (s *tokenSigner) decrypt(token string) (string, error) {
	raw, err := hex.DecodeString(token)
	if err != nil {
		return "", err
	}
	if len(raw) == 0 || len(raw)%aes.BlockSize != 0 {
		return "", fmt.Errorf("ciphertext is not a multiple of the block size")
	}
	out := make([]byte, len(raw))
	cipher.NewCBCDecrypter(s.block, s.iv).CryptBlocks(out, raw)
	n := int(out[len(out)-1])
	if n == 0 || n > aes.BlockSize || n > len(out) {
		return "", fmt.Errorf("invalid padding")
	}
	return string(out[:len(out)-n]), nil
}

func pkcs7Pad(b []byte, size int) []byte {
	n := size - len(b)%size
	return append(b, bytes.Repeat([]byte{byte(n)}, n)...)
}
