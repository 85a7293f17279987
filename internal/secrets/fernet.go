// Package secrets реализует расшифровку cookies процессным симметричным ключом Fernet.
// Формат токенов совместим с python-библиотекой cryptography.fernet,
// которой компонент логина шифрует cookies при записи в MongoDB.
package secrets

import (
	"errors"
	"fmt"

	"github.com/fernet/fernet-go"
)

var (
	// ErrBadKey — ключ не является валидным ключом Fernet.
	ErrBadKey = errors.New("bad fernet key")
	// ErrDecrypt — шифртекст повреждён или зашифрован другим ключом.
	// Нарушение целостности данных: расшифровка прерывается целиком,
	// неполный набор cookies дал бы обманчивую «неавторизованную» страницу.
	ErrDecrypt = errors.New("decrypt failed")
)

// Cipher — обёртка над процессным ключом Fernet.
type Cipher struct {
	keys []*fernet.Key
}

// New валидирует ключ один раз при старте процесса.
func New(key string) (*Cipher, error) {
	k, err := fernet.DecodeKey(key)
	if err != nil {
		return nil, fmt.Errorf("secrets: %w", ErrBadKey)
	}

	return &Cipher{keys: []*fernet.Key{k}}, nil
}

// DecryptCookies расшифровывает набор cookie-имя -> шифртекст в открытые значения.
// Любая одиночная ошибка прерывает операцию с ErrDecrypt — записи не пропускаются.
// Результат живёт не дольше одного HTTP-запроса и нигде не сохраняется.
//
// TTL токенов не проверяется: сессионные cookies живут до перелогина,
// а срок годности контролирует сам ОРИОКС.
func (c *Cipher) DecryptCookies(enc map[string]string) (map[string]string, error) {
	out := make(map[string]string, len(enc))

	for name, token := range enc {
		msg := fernet.VerifyAndDecrypt([]byte(token), 0, c.keys)
		if msg == nil {
			return nil, fmt.Errorf("secrets: cookie %q: %w", name, ErrDecrypt)
		}

		out[name] = string(msg)
	}

	return out, nil
}
