package extras

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/redis/go-redis/v9"
	"ru-ticket/common/constant"
	"ru-ticket/common/errs"
	"ru-ticket/model"
	"time"
)

type Redis struct {
	Cache *redis.Client
	TTL   time.Duration
}

func NewRedis(cache *redis.Client, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = constant.TicketExtrasDefaultTTL
	}
	return &Redis{Cache: cache, TTL: ttl}
}

func (s *Redis) Put(ctx context.Context, ticketId string, extras model.TicketExtras) error {
	data, err := json.Marshal(extras)
	if err != nil {
		return err
	}

	err = s.Cache.Set(ctx, fmt.Sprintf(constant.TicketExtrasKey, ticketId), data, s.TTL).Err()
	if err != nil {
		return errs.NewStorageError("put extras", err)
	}

	return nil
}

func (s *Redis) Get(ctx context.Context, ticketId string) (model.TicketExtras, bool, error) {
	data, err := s.Cache.Get(ctx, fmt.Sprintf(constant.TicketExtrasKey, ticketId)).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.TicketExtras{}, false, nil
	}
	if err != nil {
		return model.TicketExtras{}, false, errs.NewStorageError("get extras", err)
	}

	var extras model.TicketExtras
	if err = json.Unmarshal(data, &extras); err != nil {
		return model.TicketExtras{}, false, errs.NewStorageError("decode extras", err)
	}

	return extras, true, nil
}
