package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"adaptive_edu_backend/internal/engine"
	"adaptive_edu_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	fieldProbability = "probability"
	fieldAttempts    = "attempts"
	fieldUpdated     = "last_updated"
)

// RedisStore keeps one hash per (user, skill) and a set of skills per user.
// Update is a WATCH/MULTI compare-and-swap retried up to maxRetries times.
type RedisStore struct {
	rdb        *redis.Client
	prefix     string
	maxRetries int
}

func NewRedisStore(rdb *redis.Client, prefix string, maxRetries int) *RedisStore {
	if prefix == "" {
		prefix = "mastery"
	}
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &RedisStore{rdb: rdb, prefix: prefix, maxRetries: maxRetries}
}

func (s *RedisStore) key(userID, skillID string) string {
	return fmt.Sprintf("%s:%s:%s", s.prefix, userID, skillID)
}

func (s *RedisStore) indexKey(userID string) string {
	return fmt.Sprintf("%s:%s:skills", s.prefix, userID)
}

func encodeState(st engine.MasteryState) map[string]interface{} {
	return map[string]interface{}{
		fieldProbability: strconv.FormatFloat(st.Probability, 'g', -1, 64),
		fieldAttempts:    strconv.Itoa(st.Attempts),
		fieldUpdated:     st.LastUpdated.UTC().Format(time.RFC3339Nano),
	}
}

func decodeState(userID, skillID string, h map[string]string) (*engine.MasteryState, error) {
	if len(h) == 0 {
		return nil, nil
	}
	p, err := strconv.ParseFloat(h[fieldProbability], 64)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", fieldProbability, err)
	}
	attempts, err := strconv.Atoi(h[fieldAttempts])
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", fieldAttempts, err)
	}
	var updated time.Time
	if v := h[fieldUpdated]; v != "" {
		if updated, err = time.Parse(time.RFC3339Nano, v); err != nil {
			return nil, fmt.Errorf("decode %s: %w", fieldUpdated, err)
		}
	}
	return &engine.MasteryState{
		UserID:      userID,
		SkillID:     skillID,
		Probability: p,
		Attempts:    attempts,
		LastUpdated: updated,
	}, nil
}

func (s *RedisStore) Get(ctx context.Context, userID, skillID string) (*engine.MasteryState, error) {
	h, err := s.rdb.HGetAll(ctx, s.key(userID, skillID)).Result()
	if err != nil {
		return nil, err
	}
	return decodeState(userID, skillID, h)
}

func (s *RedisStore) List(ctx context.Context, userID string, skillIDs []string) (map[string]engine.MasteryState, error) {
	if skillIDs == nil {
		members, err := s.rdb.SMembers(ctx, s.indexKey(userID)).Result()
		if err != nil {
			return nil, err
		}
		skillIDs = members
	}
	out := make(map[string]engine.MasteryState, len(skillIDs))
	if len(skillIDs) == 0 {
		return out, nil
	}

	pipe := s.rdb.Pipeline()
	cmds := make([]*redis.StringStringMapCmd, len(skillIDs))
	for i, skill := range skillIDs {
		cmds[i] = pipe.HGetAll(ctx, s.key(userID, skill))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}

	for i, skill := range skillIDs {
		st, err := decodeState(userID, skill, cmds[i].Val())
		if err != nil {
			return nil, err
		}
		if st != nil {
			out[skill] = *st
		}
	}
	return out, nil
}

func (s *RedisStore) Update(ctx context.Context, userID, skillID string, fn UpdateFunc) (engine.MasteryState, error) {
	key := s.key(userID, skillID)
	var result engine.MasteryState

	txf := func(tx *redis.Tx) error {
		h, err := tx.HGetAll(ctx, key).Result()
		if err != nil {
			return err
		}
		current, err := decodeState(userID, skillID, h)
		if err != nil {
			return err
		}
		next, err := fn(current)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, encodeState(next))
			pipe.SAdd(ctx, s.indexKey(userID), skillID)
			return nil
		})
		if err == nil {
			result = next
		}
		return err
	}

	for i := 0; i < s.maxRetries; i++ {
		err := s.rdb.Watch(ctx, txf, key)
		if err == nil {
			return result, nil
		}
		if !errors.Is(err, redis.TxFailedErr) {
			return engine.MasteryState{}, err
		}
		logger.Log.Debug("Mastery CAS retry",
			zap.String("userId", userID),
			zap.String("skillId", skillID),
			zap.Int("attempt", i+1))
	}
	return engine.MasteryState{}, fmt.Errorf("%w: %s/%s after %d attempts", ErrConflict, userID, skillID, s.maxRetries)
}
