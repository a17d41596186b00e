package otpstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/minuteserv/minuteserv-go/internal/models"
)

// RedisStore keeps challenges in Redis so several devserver processes can
// share them. The TTL enforces expiry; consumed challenges are deleted.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects using a redis:// URL and pings before returning.
func NewRedisStore(redisURL string) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %v", err)
	}
	client := redis.NewClient(opt)
	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %v", err)
	}
	return &RedisStore{client: client}, nil
}

type redisChallenge struct {
	CodeHash  string    `json:"code_hash"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *RedisStore) Put(ctx context.Context, subject string, purpose models.OTPPurpose, code string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	data, err := json.Marshal(redisChallenge{
		CodeHash:  string(hash),
		ExpiresAt: time.Now().Add(models.OTPExpiry),
	})
	if err != nil {
		return err
	}
	return s.client.Set(ctx, challengeKey(subject, purpose), data, models.OTPExpiry).Err()
}

func (s *RedisStore) Verify(ctx context.Context, subject string, purpose models.OTPPurpose, code string) error {
	_, err := s.load(ctx, subject, purpose, code)
	return err
}

func (s *RedisStore) Consume(ctx context.Context, subject string, purpose models.OTPPurpose, code string) error {
	key, err := s.load(ctx, subject, purpose, code)
	if err != nil {
		return err
	}
	return s.client.Del(ctx, key).Err()
}

func (s *RedisStore) load(ctx context.Context, subject string, purpose models.OTPPurpose, code string) (string, error) {
	key := challengeKey(subject, purpose)
	data, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", ErrCodeInvalid
	}
	if err != nil {
		return "", err
	}
	var challenge redisChallenge
	if err := json.Unmarshal([]byte(data), &challenge); err != nil {
		return "", err
	}
	if time.Now().After(challenge.ExpiresAt) {
		s.client.Del(ctx, key)
		return "", ErrCodeExpired
	}
	if bcrypt.CompareHashAndPassword([]byte(challenge.CodeHash), []byte(code)) != nil {
		return "", ErrCodeInvalid
	}
	return key, nil
}
