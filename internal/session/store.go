package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/models"
)

var ErrSessionNotFound = errors.New("session not found")

const (
	fieldAuthenticated = "isAuthenticated"
	fieldUser          = "user"
	fieldAccessToken   = "accessToken"
	fieldExpiresAt     = "expiresAt"

	// authenticatedValue is the only value that counts as logged in
	authenticatedValue = "true"
)

type Session struct {
	ID              string      `json:"-"`
	IsAuthenticated bool        `json:"isAuthenticated"`
	User            models.User `json:"user"`
	AccessToken     string      `json:"-"`
	ExpiresAt       time.Time   `json:"expiresAt"`
}

type Store interface {
	Save(ctx context.Context, s *Session, ttl time.Duration) error
	Load(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}

// RedisStore keeps each session in one hash
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, prefix: "edubot:session:"}
}

func (s *RedisStore) key(id string) string {
	return s.prefix + id
}

func (s *RedisStore) Save(ctx context.Context, sess *Session, ttl time.Duration) error {
	user, err := json.Marshal(sess.User)
	if err != nil {
		return fmt.Errorf("failed to marshal session user: %w", err)
	}

	flag := "false"
	if sess.IsAuthenticated {
		flag = authenticatedValue
	}

	key := s.key(sess.ID)
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key,
			fieldAuthenticated, flag,
			fieldUser, string(user),
			fieldAccessToken, sess.AccessToken,
			fieldExpiresAt, sess.ExpiresAt.UTC().Format(time.RFC3339),
		)
		pipe.Expire(ctx, key, ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context, id string) (*Session, error) {
	fields, err := s.client.HGetAll(ctx, s.key(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if len(fields) == 0 {
		return nil, ErrSessionNotFound
	}

	sess := &Session{
		ID:              id,
		IsAuthenticated: fields[fieldAuthenticated] == authenticatedValue,
		AccessToken:     fields[fieldAccessToken],
	}
	if raw := fields[fieldUser]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &sess.User); err != nil {
			return nil, fmt.Errorf("failed to decode session user: %w", err)
		}
	}
	if raw := fields[fieldExpiresAt]; raw != "" {
		sess.ExpiresAt, _ = time.Parse(time.RFC3339, raw)
	}
	return sess, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
