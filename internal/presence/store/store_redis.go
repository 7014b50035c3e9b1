package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sampleslayer92/utopia-produkcia-sub005/internal/presence/models"
	id "github.com/sampleslayer92/utopia-produkcia-sub005/pkg/domain"
	"github.com/sampleslayer92/utopia-produkcia-sub005/pkg/platform/sentinel"
)

const (
	sessionKeyPrefix = "presence:session:"
	caseKeyPrefix    = "presence:case:"
)

// RedisStore keeps each session under its own key expiring with the session,
// plus a per-case set of tokens. Set members whose session key has expired
// are dropped lazily on read and by DeleteExpired.
type RedisStore struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func sessionKey(token id.SessionID) string { return sessionKeyPrefix + token.String() }
func caseKey(caseID id.CaseID) string     { return caseKeyPrefix + caseID.String() }

func (s *RedisStore) Save(ctx context.Context, session models.Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode presence session: %w", err)
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, sessionKey(session.Token), raw, 0)
		pipe.ExpireAt(ctx, sessionKey(session.Token), session.ExpiresAt)
		pipe.SAdd(ctx, caseKey(session.CaseID), session.Token.String())
		return nil
	})
	if err != nil {
		return fmt.Errorf("save presence session: %w", err)
	}
	return nil
}

func (s *RedisStore) Touch(ctx context.Context, token id.SessionID, now, expiresAt time.Time) error {
	return s.update(ctx, token, func(session *models.Session) error {
		if !session.Active(now) {
			return sentinel.ErrNotFound
		}
		session.ExpiresAt = expiresAt
		return nil
	})
}

func (s *RedisStore) SetStep(ctx context.Context, token id.SessionID, step int) error {
	return s.update(ctx, token, func(session *models.Session) error {
		session.CurrentStep = step
		return nil
	})
}

// update applies mutate under WATCH so a concurrent heartbeat and step change
// cannot overwrite each other.
func (s *RedisStore) update(ctx context.Context, token id.SessionID, mutate func(*models.Session) error) error {
	key := sessionKey(token)
	return s.client.Watch(ctx, func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return sentinel.ErrNotFound
		}
		if err != nil {
			return err
		}
		var session models.Session
		if err := json.Unmarshal(raw, &session); err != nil {
			return fmt.Errorf("decode presence session: %w", err)
		}
		if err := mutate(&session); err != nil {
			return err
		}
		updated, err := json.Marshal(session)
		if err != nil {
			return fmt.Errorf("encode presence session: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, updated, 0)
			pipe.ExpireAt(ctx, key, session.ExpiresAt)
			return nil
		})
		return err
	}, key)
}

func (s *RedisStore) Delete(ctx context.Context, token id.SessionID) error {
	key := sessionKey(token)
	raw, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("delete presence session: %w", err)
	}
	var session models.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return s.client.Del(ctx, key).Err()
	}
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, key)
	pipe.SRem(ctx, caseKey(session.CaseID), token.String())
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete presence session: %w", err)
	}
	return nil
}

func (s *RedisStore) ListByCase(ctx context.Context, caseID id.CaseID) ([]models.Session, error) {
	members, err := s.client.SMembers(ctx, caseKey(caseID)).Result()
	if err != nil {
		return nil, fmt.Errorf("list presence sessions: %w", err)
	}
	if len(members) == 0 {
		return nil, nil
	}
	keys := make([]string, len(members))
	for i, m := range members {
		keys[i] = sessionKeyPrefix + m
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("list presence sessions: %w", err)
	}
	sessions := make([]models.Session, 0, len(values))
	var stale []any
	for i, v := range values {
		str, ok := v.(string)
		if !ok {
			stale = append(stale, members[i])
			continue
		}
		var session models.Session
		if err := json.Unmarshal([]byte(str), &session); err != nil {
			stale = append(stale, members[i])
			continue
		}
		sessions = append(sessions, session)
	}
	if len(stale) > 0 {
		_ = s.client.SRem(ctx, caseKey(caseID), stale...).Err()
	}
	return sessions, nil
}

// DeleteExpired prunes case-set members whose session key Redis has already
// expired. The session keys themselves expire on their own.
func (s *RedisStore) DeleteExpired(ctx context.Context, _ time.Time) (int, error) {
	removed := 0
	iter := s.client.Scan(ctx, 0, caseKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		setKey := iter.Val()
		members, err := s.client.SMembers(ctx, setKey).Result()
		if err != nil {
			return removed, fmt.Errorf("sweep presence sessions: %w", err)
		}
		for _, m := range members {
			exists, err := s.client.Exists(ctx, sessionKeyPrefix+m).Result()
			if err != nil {
				return removed, fmt.Errorf("sweep presence sessions: %w", err)
			}
			if exists == 0 {
				if err := s.client.SRem(ctx, setKey, m).Err(); err != nil {
					return removed, fmt.Errorf("sweep presence sessions: %w", err)
				}
				removed++
			}
		}
	}
	if err := iter.Err(); err != nil {
		return removed, fmt.Errorf("sweep presence sessions: %w", err)
	}
	return removed, nil
}
