package repositories

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/abdullharslan/ProductManager/domain"
)

// consumeScript deletes the key only when it holds the expected digest
var consumeScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	redis.call("DEL", KEYS[1])
	return 1
end
return 0
`)

// UserTokenRepositoryImpl implements domain.UserTokenRepository using Redis.
// Only a SHA-256 digest of each token is stored; a new token for the same
// purpose and user replaces the previous one.
type UserTokenRepositoryImpl struct {
	client *redis.Client
	prefix string
}

// NewUserTokenRepository creates a new user token repository
func NewUserTokenRepository(client *redis.Client) domain.UserTokenRepository {
	return &UserTokenRepositoryImpl{
		client: client,
		prefix: "usertoken:",
	}
}

func (r *UserTokenRepositoryImpl) key(purpose, userID string) string {
	return fmt.Sprintf("%s%s:%s", r.prefix, purpose, userID)
}

func digest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// Store implements domain.UserTokenRepository
func (r *UserTokenRepositoryImpl) Store(ctx context.Context, purpose, userID, token string, ttl time.Duration) error {
	if err := r.client.Set(ctx, r.key(purpose, userID), digest(token), ttl).Err(); err != nil {
		return fmt.Errorf("failed to store %s token: %w", purpose, err)
	}
	return nil
}

// Consume implements domain.UserTokenRepository. It returns true at most once per stored token.
func (r *UserTokenRepositoryImpl) Consume(ctx context.Context, purpose, userID, token string) (bool, error) {
	if token == "" {
		return false, nil
	}
	n, err := consumeScript.Run(ctx, r.client, []string{r.key(purpose, userID)}, digest(token)).Int()
	if err != nil {
		return false, fmt.Errorf("failed to consume %s token: %w", purpose, err)
	}
	return n == 1, nil
}
