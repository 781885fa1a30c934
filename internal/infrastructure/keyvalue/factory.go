package keyvalue

import (
	"go.uber.org/zap"
)

// SelectedTeamKey is the slot key holding the workspace's selected team.
const SelectedTeamKey = "workspace:selected_team"

// SlotFactory creates slots based on configuration.
type SlotFactory struct {
	redisConfig   RedisConfig
	logger        *zap.Logger
	allowFallback bool
}

// SlotFactoryOption is a functional option for configuring the factory
type SlotFactoryOption func(*SlotFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) SlotFactoryOption {
	return func(f *SlotFactory) {
		f.logger = logger
	}
}

// WithMemoryFallback controls whether to fall back to an in-memory slot
// when Redis is unavailable. Default is true.
func WithMemoryFallback(allow bool) SlotFactoryOption {
	return func(f *SlotFactory) {
		f.allowFallback = allow
	}
}

// NewSlotFactory creates a new factory
func NewSlotFactory(cfg RedisConfig, opts ...SlotFactoryOption) *SlotFactory {
	f := &SlotFactory{
		redisConfig:   cfg,
		logger:        zap.NewNop(),
		allowFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Create returns a Redis-backed slot, falling back to memory when Redis
// is unreachable and fallback is allowed.
func (f *SlotFactory) Create(key string) (Slot, error) {
	slot, err := NewRedisSlot(f.redisConfig, key)
	if err == nil {
		f.logger.Info("using redis slot", zap.String("key", key))
		return slot, nil
	}
	if !f.allowFallback {
		return nil, err
	}
	f.logger.Warn("redis unavailable, using in-memory slot",
		zap.String("key", key),
		zap.Error(err))
	return NewMemorySlot(), nil
}
