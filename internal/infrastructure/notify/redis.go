// Package notify broadcaster de eventos de dominio vía Redis pub/sub para los
// dashboards de revisión en vivo. Es fire-and-forget: un Redis caído degrada
// la experiencia, nunca el flujo de negocio.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/credipronto/originacion-api/internal/application/ports"
	"github.com/credipronto/originacion-api/pkg/config"
	"github.com/credipronto/originacion-api/pkg/logger"
)

var _ ports.Notifier = (*RedisNotifier)(nil)

// RedisNotifier implementa Notifier publicando en un canal de Redis.
type RedisNotifier struct {
	client  *redis.Client
	channel string
	log     *logger.Logger
}

// NewRedis construye el notificador y valida conectividad con un ping.
func NewRedis(cfg config.RedisConfig, log *logger.Logger) (*RedisNotifier, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisNotifier{client: client, channel: cfg.Channel, log: log}, nil
}

// Publish publica el evento serializado. Los errores se registran y se tragan.
func (n *RedisNotifier) Publish(event string, payload map[string]any) {
	body, err := json.Marshal(map[string]any{
		"event":   event,
		"payload": payload,
		"at":      time.Now().UTC(),
	})
	if err != nil {
		n.log.Warn().Err(err).Str("event", event).Msg("no se pudo serializar evento")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := n.client.Publish(ctx, n.channel, body).Err(); err != nil {
		n.log.Warn().Err(err).Str("event", event).Msg("no se pudo publicar evento")
	}
}

// Close cierra la conexión con Redis.
func (n *RedisNotifier) Close() error {
	return n.client.Close()
}

// NopNotifier implementación nula para entornos sin Redis (tests, desarrollo).
type NopNotifier struct{}

// Publish descarta el evento.
func (NopNotifier) Publish(string, map[string]any) {}
