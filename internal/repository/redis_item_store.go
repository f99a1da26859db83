package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/guttosm/stock-service/internal/domain/dto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// DefaultRedisKeyPrefix namespaces the catalog keys.
const DefaultRedisKeyPrefix = "stock:"

// RedisItemStore keeps the code order in a list and one hash per item.
type RedisItemStore struct {
	client *redis.Client
	prefix string
}

// NewRedisItemStore creates a store; an empty prefix uses DefaultRedisKeyPrefix.
func NewRedisItemStore(client *redis.Client, prefix string) *RedisItemStore {
	if prefix == "" {
		prefix = DefaultRedisKeyPrefix
	}
	return &RedisItemStore{client: client, prefix: prefix}
}

func (s *RedisItemStore) codesKey() string {
	return s.prefix + "codes"
}

func (s *RedisItemStore) itemKey(code string) string {
	return s.prefix + "item:" + code
}

// saveRetries bounds how often SaveItems restarts after a concurrent write
// to the code list.
const saveRetries = 3

// SaveItems replaces the stored catalog. The code list is WATCHed while the
// previous hashes are read, and the replace runs in MULTI/EXEC, so a writer
// that touches the list in between aborts the transaction and it is retried.
func (s *RedisItemStore) SaveItems(ctx context.Context, records []dto.ItemRecord) error {
	replace := func(tx *redis.Tx) error {
		previous, err := tx.LRange(ctx, s.codesKey(), 0, -1).Result()
		if err != nil {
			return fmt.Errorf("read codes: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			for _, code := range previous {
				pipe.Del(ctx, s.itemKey(code))
			}
			pipe.Del(ctx, s.codesKey())

			codes := make([]interface{}, 0, len(records))
			for _, rec := range records {
				code := strconv.FormatInt(rec.Code, 10)
				pipe.HSet(ctx, s.itemKey(code), map[string]interface{}{
					"name":     rec.Name,
					"quantity": rec.Quantity,
					"price":    strconv.FormatFloat(rec.Price, 'f', -1, 64),
					"discount": strconv.FormatFloat(rec.Discount, 'f', -1, 64),
					"policy":   rec.Policy,
				})
				codes = append(codes, code)
			}
			if len(codes) > 0 {
				pipe.RPush(ctx, s.codesKey(), codes...)
			}
			return nil
		})
		return err
	}

	var err error
	for attempt := 0; attempt < saveRetries; attempt++ {
		err = s.client.Watch(ctx, replace, s.codesKey())
		if !errors.Is(err, redis.TxFailedErr) {
			break
		}
		log.Debug().Int("attempt", attempt+1).Msg("Item codes changed during save, retrying")
	}
	if err != nil {
		return fmt.Errorf("save items: %w", err)
	}

	log.Debug().Int("records", len(records)).Msg("Saved items to Redis")
	return nil
}

// LoadItems reads the code list and fetches every item hash in one pipeline.
func (s *RedisItemStore) LoadItems(ctx context.Context) ([]dto.ItemRecord, error) {
	codes, err := s.client.LRange(ctx, s.codesKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read codes: %w", err)
	}
	if len(codes) == 0 {
		return []dto.ItemRecord{}, nil
	}

	pipe := s.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(codes))
	for i, code := range codes {
		cmds[i] = pipe.HGetAll(ctx, s.itemKey(code))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("read items: %w", err)
	}

	records := make([]dto.ItemRecord, 0, len(codes))
	for i, code := range codes {
		rec, err := parseRedisItem(code, cmds[i].Val())
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseRedisItem(code string, fields map[string]string) (dto.ItemRecord, error) {
	if len(fields) == 0 {
		return dto.ItemRecord{}, fmt.Errorf("item %s: %w: hash missing", code, ErrMalformedRow)
	}

	c, err := strconv.ParseInt(code, 10, 64)
	if err != nil {
		return dto.ItemRecord{}, fmt.Errorf("item %s: %w: code: %v", code, ErrMalformedRow, err)
	}
	quantity, err := strconv.Atoi(fields["quantity"])
	if err != nil {
		return dto.ItemRecord{}, fmt.Errorf("item %s: %w: quantity: %v", code, ErrMalformedRow, err)
	}
	price, err := parseAmount(fields["price"])
	if err != nil {
		return dto.ItemRecord{}, fmt.Errorf("item %s: %w: price: %v", code, ErrMalformedRow, err)
	}
	discount, err := parseAmount(fields["discount"])
	if err != nil {
		return dto.ItemRecord{}, fmt.Errorf("item %s: %w: discount: %v", code, ErrMalformedRow, err)
	}

	return dto.ItemRecord{
		Code:     c,
		Name:     fields["name"],
		Quantity: quantity,
		Price:    price,
		Discount: discount,
		Policy:   fields["policy"],
	}, nil
}
