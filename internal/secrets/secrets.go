// Package secrets fetches the chat bot credentials from a secret store.
package secrets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// DefaultSecretID is the Secrets Manager entry holding the JSON secret bundle.
const DefaultSecretID = "chatops/secrets"

// Field names looked up in the secret bundle, in order.
const (
	FieldBotToken       = "bot_token"
	FieldLegacyBotToken = "telegram_bot_token"
)

// EnvBotToken is the variable read by EnvStore.
const EnvBotToken = "BOT_TOKEN"

var (
	// ErrSecretNotFound is returned when the store has no value for the secret.
	ErrSecretNotFound = errors.New("secret not found")

	// ErrMissingField is returned when the bundle lacks the bot token field.
	ErrMissingField = errors.New("secret bundle has no bot token field")
)

// Store returns the secret bundle as a flat string map.
type Store interface {
	Fetch(ctx context.Context) (map[string]string, error)
}

// GetSecretValueAPI is the subset of the Secrets Manager client used here.
type GetSecretValueAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// AWSStore reads a JSON secret bundle from AWS Secrets Manager.
type AWSStore struct {
	client   GetSecretValueAPI
	secretID string
}

// NewAWSStore creates a store reading secretID. An empty ID uses DefaultSecretID.
func NewAWSStore(client GetSecretValueAPI, secretID string) *AWSStore {
	if secretID == "" {
		secretID = DefaultSecretID
	}
	return &AWSStore{client: client, secretID: secretID}
}

// Fetch retrieves and decodes the bundle.
func (s *AWSStore) Fetch(ctx context.Context) (map[string]string, error) {
	out, err := s.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(s.secretID),
	})
	if err != nil {
		return nil, fmt.Errorf("get secret %s: %w", s.secretID, err)
	}
	if out.SecretString == nil || *out.SecretString == "" {
		return nil, fmt.Errorf("%w: %s has no string value", ErrSecretNotFound, s.secretID)
	}

	var bundle map[string]any
	if err := json.Unmarshal([]byte(*out.SecretString), &bundle); err != nil {
		return nil, fmt.Errorf("decode secret %s: %w", s.secretID, err)
	}

	values := make(map[string]string, len(bundle))
	for k, v := range bundle {
		if str, ok := v.(string); ok {
			values[k] = str
		}
	}
	return values, nil
}

// EnvStore reads the bot token from the process environment.
type EnvStore struct {
	// Lookup defaults to os.LookupEnv.
	Lookup func(key string) (string, bool)
}

// Fetch returns a bundle holding the BOT_TOKEN value.
func (s EnvStore) Fetch(context.Context) (map[string]string, error) {
	lookup := s.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}

	token, ok := lookup(EnvBotToken)
	if !ok || strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("%w: %s is not set", ErrSecretNotFound, EnvBotToken)
	}
	return map[string]string{FieldBotToken: token}, nil
}

// BotToken fetches the bot token once and caches it for the process lifetime.
// Failed fetches are not cached.
type BotToken struct {
	store Store

	mu    sync.Mutex
	token string
}

// NewBotToken creates a cached bot token reader over store.
func NewBotToken(store Store) *BotToken {
	return &BotToken{store: store}
}

// Get returns the cached token, fetching it on first use.
func (b *BotToken) Get(ctx context.Context) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.token != "" {
		return b.token, nil
	}

	bundle, err := b.store.Fetch(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to fetch bot token: %w", err)
	}

	for _, field := range []string{FieldBotToken, FieldLegacyBotToken} {
		if token := strings.TrimSpace(bundle[field]); token != "" {
			b.token = token
			return token, nil
		}
	}
	return "", ErrMissingField
}
