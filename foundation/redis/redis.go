package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Redis publishes conversation log entries and confirmed orders onto
// pub/sub channels consumed by the monitoring dashboard.
type Redis struct {
	Client              *redis.Client
	Logger              *zap.SugaredLogger
	ConversationChannel string
	OrdersChannel       string
}

func New(host, password, conversationChannel, ordersChannel string, logger *zap.SugaredLogger) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     host,
		Password: password,
	})

	_, err := client.Ping(context.Background()).Result()
	if err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return &Redis{
		Client:              client,
		Logger:              logger,
		ConversationChannel: conversationChannel,
		OrdersChannel:       ordersChannel,
	}, nil
}

func (r *Redis) PublishConversation(ctx context.Context, data any) error {
	return r.publish(ctx, r.ConversationChannel, data)
}

func (r *Redis) PublishOrder(ctx context.Context, data any) error {
	return r.publish(ctx, r.OrdersChannel, data)
}

func (r *Redis) publish(ctx context.Context, channel string, data any) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	if err := r.Client.Publish(ctx, channel, jsonData).Err(); err != nil {
		return err
	}

	r.Logger.Infow("redis: publish", "channel", channel)

	return nil
}

func (r *Redis) Close() error {
	return r.Client.Close()
}
