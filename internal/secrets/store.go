package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// per-user API token store (file, 0600) with AES-GCM obfuscation.
// Not a replacement for OS keychains but avoids plain-text config.

const fileName = "tokens.json"

// ErrNoToken is returned when no token was stored for a server.
var ErrNoToken = errors.New("no token stored")

type tokenFile struct {
	Tokens map[string]string `json:"tokens"` // server URL -> base64(ciphertext)
}

// StoreToken saves the bearer token used against server.
func StoreToken(server, token string) error {
	if server = norm(server); server == "" {
		return fmt.Errorf("server required")
	}
	if strings.TrimSpace(token) == "" {
		return fmt.Errorf("token required")
	}
	path, err := filePath()
	if err != nil {
		return err
	}
	tf, err := load(path)
	if err != nil {
		return err
	}
	if tf.Tokens == nil {
		tf.Tokens = map[string]string{}
	}
	ct, err := encrypt([]byte(strings.TrimSpace(token)))
	if err != nil {
		return err
	}
	tf.Tokens[server] = base64.StdEncoding.EncodeToString(ct)
	return save(path, tf)
}

// FetchToken returns the token stored for server, or ErrNoToken.
func FetchToken(server string) (string, error) {
	if server = norm(server); server == "" {
		return "", fmt.Errorf("server required")
	}
	path, err := filePath()
	if err != nil {
		return "", err
	}
	tf, err := load(path)
	if err != nil {
		return "", err
	}
	enc, ok := tf.Tokens[server]
	if !ok {
		return "", ErrNoToken
	}
	raw, err := base64.StdEncoding.DecodeString(enc)
	if err != nil {
		return "", err
	}
	pt, err := decrypt(raw)
	if err != nil {
		return "", fmt.Errorf("decrypt token: %w", err)
	}
	return string(pt), nil
}

// DeleteToken forgets the token for server. Deleting a missing token is not an error.
func DeleteToken(server string) error {
	if server = norm(server); server == "" {
		return fmt.Errorf("server required")
	}
	path, err := filePath()
	if err != nil {
		return err
	}
	tf, err := load(path)
	if err != nil {
		return err
	}
	if _, ok := tf.Tokens[server]; !ok {
		return nil
	}
	delete(tf.Tokens, server)
	return save(path, tf)
}

func filePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	dir = filepath.Join(dir, "lendtrack")
	if err := os.MkdirAll(dir, 0o700); err != nil { // restrict directory
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

func load(path string) (tokenFile, error) {
	var tf tokenFile
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return tokenFile{}, nil
		}
		return tf, err
	}
	if err := json.Unmarshal(data, &tf); err != nil {
		return tf, err
	}
	return tf, nil
}

func save(path string, tf tokenFile) error {
	data, err := json.MarshalIndent(tf, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// norm keys tokens by server so http://host/api and http://HOST/api/ match.
func norm(server string) string {
	return strings.TrimRight(strings.TrimSpace(strings.ToLower(server)), "/")
}

func masterKey() []byte {
	base := fmt.Sprintf("lendtrack-%s-%s", runtime.GOOS, os.Getenv("USER"))
	hash := sha256.Sum256([]byte(base))
	return hash[:]
}

func newGCM() (cipher.AEAD, error) {
	block, err := aes.NewCipher(masterKey())
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

func encrypt(plain []byte) ([]byte, error) {
	gcm, err := newGCM()
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, plain, nil), nil
}

func decrypt(ciphertext []byte) ([]byte, error) {
	gcm, err := newGCM()
	if err != nil {
		return nil, err
	}
	if len(ciphertext) < gcm.NonceSize() {
		return nil, fmt.Errorf("ciphertext too short")
	}
	nonce := ciphertext[:gcm.NonceSize()]
	body := ciphertext[gcm.NonceSize():]
	return gcm.Open(nil, nonce, body, nil)
}
