package managers

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTMgr is the session token codec. It mints a signed token binding a user
// ID with an absolute expiry and verifies tokens presented on later requests.
type JWTMgr interface {
	GenerateJWT(userId string) (string, error)
	ValidateJWT(tokenString string) (string, error)
}

// sessionTokenLifetime is the absolute lifetime of a session token. It matches
// the max-age of the session cookie carrying the token.
const sessionTokenLifetime = time.Hour * 24

// JWTManager handles JWT generation, signing, and validation.
type JWTManager struct {
	privateKey ed25519.PrivateKey
	publicKey  ed25519.PublicKey
}

// NewJWTManager creates a new JWTManager with the given key pair.
// The key pair is injected so that the signing secret never lives in
// ambient process state.
func NewJWTManager(privateKey ed25519.PrivateKey, publicKey ed25519.PublicKey) JWTMgr {
	return &JWTManager{
		privateKey: privateKey,
		publicKey:  publicKey,
	}
}

// NewJWTManagerFromFile creates a new JWTManager with the key pair stored at
// KEY_PAIR_PATH. A fresh key pair is generated and persisted on first boot.
func NewJWTManagerFromFile() (JWTMgr, error) {
	path := os.Getenv("KEY_PAIR_PATH")

	privateKey, publicKey, err := loadKeyPair(path)
	if err != nil {
		// No key yet for initial setup, generate a new key pair
		privateKey, publicKey, err = generateKeyPair(path)
		if err != nil {
			return nil, err
		}
	}

	return NewJWTManager(privateKey, publicKey), nil
}

// GenerateJWT generates a new signed JWT asserting the given user ID until
// one day after issuance.
func (jm *JWTManager) GenerateJWT(userId string) (string, error) {
	claims := jwt.MapClaims{
		"iss": "account-service",
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(sessionTokenLifetime).Unix(),
		"sub": userId,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	return token.SignedString(jm.privateKey)
}

// ValidateJWT validates the given JWT and returns the subject user ID.
// A malformed token, a bad signature and a passed expiry all fail validation
// with an error rather than a panic, the caller decides how to respond.
func (jm *JWTManager) ValidateJWT(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Verify the signing method
		if token.Method.Alg() != jwt.SigningMethodEdDSA.Alg() {
			return nil, fmt.Errorf("invalid signing method")
		}

		return jm.publicKey, nil
	})

	if err != nil {
		return "", err
	}

	if !token.Valid {
		return "", jwt.ErrSignatureInvalid
	}

	userId, err := token.Claims.GetSubject()
	if err != nil || userId == "" {
		return "", jwt.ErrTokenInvalidSubject
	}

	return userId, nil
}

// generateKeyPair generates a new key pair and saves it to a file.
func generateKeyPair(path string) (ed25519.PrivateKey, ed25519.PublicKey, error) {
	publicKey, privateKey, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, nil, err
	}

	// Save the new key pair to a file for persistence
	err = saveKeyPair(privateKey, publicKey, path)
	if err != nil {
		return nil, nil, err
	}

	return privateKey, publicKey, nil
}

// saveKeyPair saves the key pair to the specified file.
func saveKeyPair(privateKey ed25519.PrivateKey, publicKey ed25519.PublicKey, path string) error {
	keyPairBytes := append(privateKey, publicKey...)
	return os.WriteFile(path, keyPairBytes, 0600)
}

// loadKeyPair loads the key pair from the specified file.
func loadKeyPair(path string) (ed25519.PrivateKey, ed25519.PublicKey, error) {
	keyPairBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	var privateKey ed25519.PrivateKey
	var publicKey ed25519.PublicKey

	// The key pair is the concatenation of private and public keys
	if len(keyPairBytes) == ed25519.PrivateKeySize+ed25519.PublicKeySize {
		privateKey = keyPairBytes[:ed25519.PrivateKeySize]
		publicKey = keyPairBytes[ed25519.PrivateKeySize:]
	} else {
		return nil, nil, fmt.Errorf("invalid key pair format")
	}

	return privateKey, publicKey, nil
}
