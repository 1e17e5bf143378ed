package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// DLQPrefix prefixes the source queue name: jobs:email parks in dlq:jobs:email.
const DLQPrefix = "dlq:"

// Fallido is a job that will not be attempted again. Someone has to look
// at it and re-enqueue by hand.
type Fallido struct {
	Cola     string          `json:"cola"`
	Tipo     string          `json:"tipo"`
	Payload  json.RawMessage `json:"payload"`
	Motivo   string          `json:"motivo"`
	FalloEn  time.Time       `json:"fallo_en"`
	Intentos int             `json:"intentos"`
}

// aparcar pushes f onto its dead letter list. The pool has no retries, so
// every caller passes Intentos=1. A push failure is logged and the job is lost.
func aparcar(ctx context.Context, rdb redis.Cmdable, f Fallido) {
	if f.FalloEn.IsZero() {
		f.FalloEn = time.Now().UTC()
	}
	key := DLQPrefix + f.Cola
	data, err := json.Marshal(f)
	if err == nil {
		err = rdb.LPush(ctx, key, data).Err()
	}
	if err != nil {
		log.Error().Err(err).Str("dlq_key", key).Str("tipo", f.Tipo).Msg("dlq: job lost")
		return
	}
	log.Warn().
		Str("queue", f.Cola).
		Str("tipo", f.Tipo).
		Str("motivo", f.Motivo).
		Msg("dlq: job parked")
}

// DLQLength is reported by the health endpoint.
func DLQLength(ctx context.Context, rdb redis.Cmdable, queue string) (int64, error) {
	return rdb.LLen(ctx, DLQPrefix+queue).Result()
}

// Fallidos returns up to n parked jobs, newest first.
func Fallidos(ctx context.Context, rdb redis.Cmdable, queue string, n int64) ([]Fallido, error) {
	raws, err := rdb.LRange(ctx, DLQPrefix+queue, 0, n-1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]Fallido, 0, len(raws))
	for _, raw := range raws {
		var f Fallido
		if err := json.Unmarshal([]byte(raw), &f); err != nil {
			continue
		}
		out = append(out, f)
	}
	return out, nil
}
