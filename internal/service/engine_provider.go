package service

import (
	"sync/atomic"

	"adaptive_edu_backend/internal/config"
	"adaptive_edu_backend/internal/engine"
	"adaptive_edu_backend/pkg/logger"

	"go.uber.org/zap"
)

// EngineProvider 持有当前生效的引擎，配置热更新时整体替换
type EngineProvider struct {
	current atomic.Pointer[engine.Engine]
}

func NewEngineProvider(p engine.Params) (*EngineProvider, error) {
	e, err := engine.New(p)
	if err != nil {
		return nil, err
	}
	ep := &EngineProvider{}
	ep.current.Store(e)
	return ep, nil
}

// Engine returns the engine in effect. Callers should grab it once per
// operation so one request never mixes two parameter sets.
func (p *EngineProvider) Engine() *engine.Engine {
	return p.current.Load()
}

// Reload 用新配置重建引擎；参数非法时保留旧引擎
func (p *EngineProvider) Reload(cfg *config.Config) {
	params, err := cfg.Engine.Params()
	if err != nil {
		logger.Log.Error("Rejected engine parameters on reload, keeping previous", zap.Error(err))
		return
	}
	e, err := engine.New(params)
	if err != nil {
		logger.Log.Error("Failed to rebuild engine", zap.Error(err))
		return
	}
	p.current.Store(e)
	logger.Log.Info("Engine parameters reloaded",
		zap.Float64("prior", params.Prior),
		zap.Float64("transit", params.Transit))
}
