package config

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/pixelmill/pixelmill/internal/adapters/logger"
	"github.com/pixelmill/pixelmill/internal/core/domain"
	"github.com/pixelmill/pixelmill/internal/core/ports"
)

// NodeID is the unique identifier for the resolved configuration Graft node.
const NodeID graft.ID = "adapter.config"

func init() {
	graft.Register(graft.Node[domain.Config]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (domain.Config, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return domain.Config{}, err
			}
			return NewLoader(log).Load()
		},
	})
}
