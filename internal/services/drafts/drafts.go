// Package drafts parks failed form submissions so a client can redisplay
// them after a redirect.
package drafts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/productform-backend/internal/domain/forms"
	"github.com/yungbote/productform-backend/internal/platform/logger"
)

var (
	ErrNotFound = errors.New("draft not found")
	ErrDisabled = errors.New("drafts disabled")
)

const keyPrefix = "productform:draft:"

type Row struct {
	Key        forms.RowKey     `json:"key"`
	Attributes forms.Attributes `json:"attributes"`
}

// Draft is one rejected submission together with its error report.
type Draft struct {
	ProductID *uuid.UUID       `json:"product_id,omitempty"`
	Parent    forms.Attributes `json:"parent"`
	Rows      []Row            `json:"rows"`
	Report    forms.Report     `json:"report"`
	Code      string           `json:"code"`
	CreatedAt time.Time        `json:"created_at"`
}

// FromPayload copies the submitted sections of p into a draft.
func FromPayload(p forms.Payload, report forms.Report, code string) Draft {
	d := Draft{
		Parent: p.Parent.Clone(),
		Rows:   make([]Row, 0, len(p.Children)),
		Report: report,
		Code:   code,
	}
	for _, c := range p.Children {
		d.Rows = append(d.Rows, Row{Key: c.Key, Attributes: c.Attrs.Clone()})
	}
	return d
}

type Store interface {
	Enabled() bool
	Put(ctx context.Context, d Draft) (string, error)
	Get(ctx context.Context, token string) (*Draft, error)
}

type redisStore struct {
	log *logger.Logger
	rdb goredis.UniversalClient
	ttl time.Duration
}

// NewRedisStore falls back to the noop store when rdb is nil.
func NewRedisStore(log *logger.Logger, rdb *goredis.Client, ttl time.Duration) Store {
	if rdb == nil {
		return noopStore{}
	}
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &redisStore{log: log.With("service", "DraftStore"), rdb: rdb, ttl: ttl}
}

func (s *redisStore) Enabled() bool { return true }

func (s *redisStore) Put(ctx context.Context, d Draft) (string, error) {
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}
	raw, err := json.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("encode draft: %w", err)
	}
	token := uuid.NewString()
	if err := s.rdb.Set(ctx, key(token), raw, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store draft: %w", err)
	}
	s.log.Debug("draft stored", "draft", token, "rows", len(d.Rows), "ttl", s.ttl.String())
	return token, nil
}

func (s *redisStore) Get(ctx context.Context, token string) (*Draft, error) {
	if !validToken(token) {
		return nil, ErrNotFound
	}
	raw, err := s.rdb.Get(ctx, key(token)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load draft: %w", err)
	}
	var d Draft
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("decode draft: %w", err)
	}
	return &d, nil
}

type noopStore struct{}

// NewNoopStore returns a store used when redis is not configured.
func NewNoopStore() Store { return noopStore{} }

func (noopStore) Enabled() bool { return false }

func (noopStore) Put(context.Context, Draft) (string, error) { return "", ErrDisabled }

func (noopStore) Get(context.Context, string) (*Draft, error) { return nil, ErrDisabled }

func key(token string) string { return keyPrefix + strings.TrimSpace(token) }

func validToken(token string) bool {
	_, err := uuid.Parse(strings.TrimSpace(token))
	return err == nil
}

// Dial connects to redis and verifies the connection. An empty addr yields a
// nil client and no error.
func Dial(ctx context.Context, addr, password string, db int) (*goredis.Client, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, nil
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    password,
		DB:          db,
		DialTimeout: 5 * time.Second,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}
