package app

import (
	"fmt"
	"log/slog"

	"github.com/oakmontlabs/accounts/pkg/jwtx"
)

// InitSigningKeys creates a new KeyManager with ephemeral Ed25519 keys.
//
// Keys are generated on startup and stored only in memory, so all existing
// tokens become invalid when the service restarts. Access tokens are short
// lived, which keeps the blast radius of a restart small.
//
// By default, generates 3 signing keys with random identifiers for improved
// availability and load distribution. Use ACCOUNTS_NUM_KEYS to customize.
func InitSigningKeys(cfg Config, logger *slog.Logger) (*jwtx.KeyManager, error) {
	logger.Info("initializing ephemeral key manager", "num_keys", cfg.NumKeys)

	keyManager, err := jwtx.NewKeyManager(jwtx.KeyManagerOptions{
		Issuer:  cfg.Issuer,
		NumKeys: cfg.NumKeys,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize key manager: %w", err)
	}

	logger.Info("generated ephemeral signing keys",
		"num_keys", keyManager.NumSigners(),
		"issuer", cfg.Issuer,
	)
	logger.Warn("all previously issued tokens are now invalid due to key rotation on startup")

	return keyManager, nil
}
