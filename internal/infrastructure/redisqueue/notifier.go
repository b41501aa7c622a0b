// Package redisqueue publica avisos de stock bajo en una lista Redis que
// consume el worker de notificaciones (email / panel de reposición).
package redisqueue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tu-usuario/pos-backend/internal/application/inventory"
	"github.com/tu-usuario/pos-backend/internal/domain/entity"
	"github.com/tu-usuario/pos-backend/pkg/config"
)

var _ inventory.LowStockNotifier = (*Notifier)(nil)

// lowStockJob payload del trabajo encolado.
type lowStockJob struct {
	Type      string    `json:"type"`
	ProductID string    `json:"product_id"`
	Name      string    `json:"name"`
	Stock     int       `json:"stock"`
	MinStock  int       `json:"min_stock"`
	At        time.Time `json:"at"`
}

// Notifier encola trabajos de notificación vía LPUSH.
type Notifier struct {
	rdb   *redis.Client
	queue string
}

// NewNotifier conecta a Redis y valida la conexión al arrancar.
func NewNotifier(cfg config.RedisConfig) (*Notifier, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &Notifier{rdb: rdb, queue: cfg.Queue}, nil
}

// NotifyLowStock implementa inventory.LowStockNotifier.
func (n *Notifier) NotifyLowStock(ctx context.Context, product *entity.Product) error {
	job := lowStockJob{
		Type:      "stock_bajo",
		ProductID: product.ID,
		Name:      product.Name,
		Stock:     product.Stock,
		MinStock:  product.MinStock,
		At:        time.Now(),
	}
	encoded, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal low stock job: %w", err)
	}
	if err := n.rdb.LPush(ctx, n.queue, encoded).Err(); err != nil {
		return fmt.Errorf("enqueue low stock job: %w", err)
	}
	return nil
}

// Close cierra la conexión a Redis.
func (n *Notifier) Close() error {
	return n.rdb.Close()
}
