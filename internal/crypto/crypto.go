package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/scrypt"
)

// Формат токена (до base64):
//
//	version(1) | costLog(1) | salt(16) | nonce(12) | AES-256-GCM ciphertext+tag
//
// Заголовок и соль аутентифицируются как additional data.
const (
	tokenVersion byte = 1

	keyLen   = 32 // AES-256
	saltLen  = 16
	nonceLen = 12
	tagLen   = 16
	headLen  = 2 + saltLen

	scryptR = 8
	scryptP = 1

	// DefaultCostLog - log2(N) для scrypt по умолчанию.
	DefaultCostLog = 15
	minCostLog     = 10
	maxCostLog     = 16
)

var (
	// ErrDecryptionFailed - токен повреждён, подделан или зашифрован другим ключом.
	ErrDecryptionFailed = errors.New("decryption failed")
	// ErrEmptyKey - ключ шифрования не задан.
	ErrEmptyKey = errors.New("empty encryption key")
)

// Cipher шифрует произвольные данные в самодостаточный текстовый токен.
// Ключ AES выводится из парольной фразы через scrypt со случайной солью на каждый токен.
type Cipher struct {
	passphrase []byte
	costLog    uint8
}

// Option настраивает Cipher.
type Option func(*Cipher)

// WithCost задаёт log2(N) для scrypt при шифровании. Значение ограничивается допустимым диапазоном.
func WithCost(costLog uint8) Option {
	return func(c *Cipher) {
		switch {
		case costLog < minCostLog:
			c.costLog = minCostLog
		case costLog > maxCostLog:
			c.costLog = maxCostLog
		default:
			c.costLog = costLog
		}
	}
}

// NewCipher создаёт шифратор для заданной парольной фразы.
func NewCipher(passphrase string, opts ...Option) (*Cipher, error) {
	if passphrase == "" {
		return nil, ErrEmptyKey
	}
	c := &Cipher{passphrase: []byte(passphrase), costLog: DefaultCostLog}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Encrypt шифрует plain и возвращает токен в base64.
func (c *Cipher) Encrypt(plain []byte) (string, error) {
	head := make([]byte, headLen, headLen+nonceLen+len(plain)+tagLen)
	head[0] = tokenVersion
	head[1] = c.costLog
	if _, err := io.ReadFull(rand.Reader, head[2:]); err != nil {
		return "", err
	}
	gcm, err := c.newGCM(head[2:], c.costLog)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, nonceLen)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}
	aad := append([]byte(nil), head...)
	out := append(head, nonce...)
	out = gcm.Seal(out, nonce, plain, aad)
	return base64.StdEncoding.EncodeToString(out), nil
}

// Decrypt восстанавливает данные из токена. Любая проблема с токеном
// возвращается как ErrDecryptionFailed.
func (c *Cipher) Decrypt(token string) ([]byte, error) {
	raw, err := base64.StdEncoding.Strict().DecodeString(strings.TrimSpace(token))
	if err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrDecryptionFailed, err)
	}
	if len(raw) < headLen+nonceLen+tagLen {
		return nil, fmt.Errorf("%w: token too short", ErrDecryptionFailed)
	}
	if raw[0] != tokenVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrDecryptionFailed, raw[0])
	}
	costLog := raw[1]
	if costLog < minCostLog || costLog > maxCostLog {
		return nil, fmt.Errorf("%w: invalid cost", ErrDecryptionFailed)
	}
	head := raw[:headLen]
	nonce := raw[headLen : headLen+nonceLen]
	gcm, err := c.newGCM(head[2:], costLog)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecryptionFailed, err)
	}
	plain, err := gcm.Open(nil, nonce, raw[headLen+nonceLen:], head)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecryptionFailed, err)
	}
	return plain, nil
}

func (c *Cipher) newGCM(salt []byte, costLog uint8) (cipher.AEAD, error) {
	key, err := scrypt.Key(c.passphrase, salt, 1<<costLog, scryptR, scryptP, keyLen)
	if err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCMWithNonceSize(block, nonceLen)
}
