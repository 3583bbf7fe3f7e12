// File: internal/infra/redis/injection_bus.go
package redis

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
)

// InjectionRequest is the payload the transcriber publishes for the
// downstream language-injection bot when /inject is enabled for a chat.
type InjectionRequest struct {
	ChatID int64  `json:"chatId"`
	Text   string `json:"text"`
}

// InjectionBus is a thin pub/sub wrapper over one Redis channel.
type InjectionBus struct {
	cli     *redis.Client
	channel string
	log     *zerolog.Logger
}

func NewInjectionBus(cli *redis.Client, channel string, log *zerolog.Logger) (*InjectionBus, error) {
	if cli == nil {
		return nil, errors.New("redis client is nil")
	}
	if channel == "" {
		return nil, errors.New("injection channel name empty")
	}
	return &InjectionBus{cli: cli, channel: channel, log: log}, nil
}

func (b *InjectionBus) Publish(ctx context.Context, req InjectionRequest) error {
	payload, err := json.Marshal(req)
	if err != nil {
		return err
	}
	return b.cli.Publish(ctx, b.channel, payload).Err()
}

// Subscribe delivers injection requests until ctx is cancelled. Messages
// that fail to decode are logged and dropped.
func (b *InjectionBus) Subscribe(ctx context.Context) (<-chan InjectionRequest, error) {
	sub := b.cli.Subscribe(ctx, b.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, err
	}

	out := make(chan InjectionRequest)
	go func() {
		defer close(out)
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var req InjectionRequest
				if err := json.Unmarshal([]byte(msg.Payload), &req); err != nil {
					b.log.Warn().Err(err).Msg("dropping undecodable injection message")
					continue
				}
				select {
				case out <- req:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
