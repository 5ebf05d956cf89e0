package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"yanoback/logger"
	"yanoback/model"
	"yanoback/repository"
)

const (
	// durableServiceName labels external-service errors from the durable tier.
	durableServiceName = "Redis"
	// durableMinTTL 是持久层允许的最小TTL（Redis过期粒度下限）
	durableMinTTL = 60 * time.Second
)

// durableEntry is the persisted envelope for a durable-store value.
// Data holds plain JSON, or a JSON string of base64(salt‖nonce‖ciphertext)
// for encrypted payloads.
type durableEntry struct {
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"` // creation instant, epoch ms
	TTL       int64           `json:"ttl"`       // logical TTL, ms
}

// Service 实现两级缓存：进程内Store优先，Redis持久层可选。
// rdb为nil表示本地开发模式，所有操作退化为仅进程内缓存。
type Service struct {
	store      *Store
	rdb        *redis.Client
	cipher     repository.EncryptionRepository
	defaultTTL time.Duration

	now func() time.Time
}

var _ repository.CacheRepository = (*Service)(nil)

// NewService creates a cache service over the given store and optional
// durable client. cipher handles transparent payload encryption; defaultTTL
// applies to writes that do not specify one.
func NewService(store *Store, rdb *redis.Client, cipher repository.EncryptionRepository, defaultTTL time.Duration) *Service {
	return &Service{
		store:      store,
		rdb:        rdb,
		cipher:     cipher,
		defaultTTL: defaultTTL,
		now:        time.Now,
	}
}

// Get looks up key, memory tier first, then the durable tier when requested.
// A miss returns Lookup{Found: false} with a nil error.
func (s *Service) Get(ctx context.Context, key string, opts repository.GetOptions) (repository.Lookup, error) {
	// 先查进程内缓存
	if e, ok := s.store.get(key); ok {
		if e.expired(s.now(), opts.MaxAge) {
			s.store.delete(key)
		} else {
			data, err := s.decode(e.data, opts.Decrypt)
			if err != nil {
				return repository.Lookup{}, err
			}
			logger.Debug("cache memory hit", logger.String("key", key))
			return repository.Lookup{Found: true, Data: data}, nil
		}
	}

	// 进程内未命中时回落到持久层
	if opts.UseDurable && s.rdb != nil {
		lookup, err := s.getFromDurable(ctx, key, opts.MaxAge)
		if err != nil {
			return repository.Lookup{}, err
		}
		if lookup.Found {
			// 回填进程内缓存，后续读取不再访问持久层。
			// 回填条目用defaultTTL，不继承持久层条目的剩余寿命。
			s.store.set(key, entry{data: lookup.Data, createdAt: s.now(), ttl: s.defaultTTL})
			logger.Debug("cache durable hit, promoted to memory", logger.String("key", key))
			data, err := s.decode(lookup.Data, opts.Decrypt)
			if err != nil {
				return repository.Lookup{}, err
			}
			return repository.Lookup{Found: true, Data: data}, nil
		}
	}

	logger.Debug("cache miss", logger.String("key", key))
	return repository.Lookup{Found: false}, nil
}

// Set serializes data and writes it to the memory tier, and to the durable
// tier when requested. The memory write is authoritative: a durable-store
// write failure is logged but does not fail the call.
func (s *Service) Set(ctx context.Context, key string, data any, opts repository.SetOptions) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return model.NewCacheError(fmt.Sprintf("failed to serialize cache payload for %q", key), err)
	}

	if opts.Encrypt {
		// 加密不可用时立即失败，绝不静默落盘明文
		ciphertext, err := s.cipher.Encrypt(string(payload))
		if err != nil {
			return err
		}
		payload, err = json.Marshal(ciphertext)
		if err != nil {
			return model.NewCacheError(fmt.Sprintf("failed to serialize ciphertext for %q", key), err)
		}
	}

	ttl := opts.TTL
	if ttl <= 0 {
		ttl = s.defaultTTL
	}

	now := s.now()
	s.store.set(key, entry{data: payload, createdAt: now, ttl: ttl})

	if opts.UseDurable && s.rdb != nil {
		if err := s.setToDurable(ctx, key, payload, now, ttl); err != nil {
			logger.Warn("durable cache write failed, memory write succeeded",
				logger.String("key", key), logger.ErrorField(err))
		}
	}
	return nil
}

// decode optionally decrypts a stored payload. Decryption failure surfaces
// as an error instead of returning garbage data.
func (s *Service) decode(data json.RawMessage, decrypt bool) (json.RawMessage, error) {
	if !decrypt {
		return data, nil
	}
	var ciphertext string
	if err := json.Unmarshal(data, &ciphertext); err != nil {
		return nil, model.NewDecryptionError(fmt.Errorf("stored payload is not an encrypted string: %w", err))
	}
	plaintext, err := s.cipher.Decrypt(ciphertext)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(plaintext), nil
}

func (s *Service) getFromDurable(ctx context.Context, key string, maxAge time.Duration) (repository.Lookup, error) {
	raw, err := s.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return repository.Lookup{Found: false}, nil
	}
	if err != nil {
		return repository.Lookup{}, model.NewExternalServiceError(durableServiceName,
			fmt.Sprintf("cache get failed for %q", key), err)
	}

	var de durableEntry
	if err := json.Unmarshal([]byte(raw), &de); err != nil {
		return repository.Lookup{}, model.NewExternalServiceError(durableServiceName,
			fmt.Sprintf("malformed durable entry for %q", key), err)
	}

	createdAt := time.UnixMilli(de.Timestamp)
	e := entry{data: de.Data, createdAt: createdAt, ttl: time.Duration(de.TTL) * time.Millisecond}
	if e.expired(s.now(), maxAge) {
		// 过期条目在读取时删除
		if err := s.rdb.Del(ctx, key).Err(); err != nil {
			logger.Warn("failed to delete expired durable entry",
				logger.String("key", key), logger.ErrorField(err))
		}
		return repository.Lookup{Found: false}, nil
	}
	return repository.Lookup{Found: true, Data: de.Data}, nil
}

func (s *Service) setToDurable(ctx context.Context, key string, payload json.RawMessage, now time.Time, ttl time.Duration) error {
	de := durableEntry{
		Data:      payload,
		Timestamp: now.UnixMilli(),
		TTL:       ttl.Milliseconds(),
	}
	raw, err := json.Marshal(de)
	if err != nil {
		return fmt.Errorf("failed to marshal durable entry: %w", err)
	}

	// Redis过期时间至少60秒，逻辑TTL更短时由读取路径兜底
	expiration := ttl
	if expiration < durableMinTTL {
		expiration = durableMinTTL
	}
	if err := s.rdb.Set(ctx, key, raw, expiration).Err(); err != nil {
		return fmt.Errorf("failed to set durable entry: %w", err)
	}
	return nil
}
