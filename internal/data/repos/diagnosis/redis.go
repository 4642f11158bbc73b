package diagnosis

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	types "github.com/yungbote/plantdx-backend/internal/domain"
	"github.com/yungbote/plantdx-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/plantdx-backend/internal/pkg/errors"
	"github.com/yungbote/plantdx-backend/internal/platform/logger"
)

const (
	defaultRedisPrefix = "plantdx"
	maxCreateAttempts  = 16
)

type redisRepo struct {
	rdb    *goredis.Client
	log    *logger.Logger
	prefix string
	now    func() time.Time
}

// NewRedisRepo keeps each record as a JSON blob under <prefix>:diagnosis:<id>,
// allocates ids from <prefix>:diagnosis:seq and orders them in the
// <prefix>:diagnoses sorted set.
func NewRedisRepo(rdb *goredis.Client, prefix string, baseLog *logger.Logger) DiagnosisRepo {
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &redisRepo{
		rdb:    rdb,
		log:    baseLog.With("repo", "RedisDiagnosisRepo"),
		prefix: prefix,
		now:    time.Now,
	}
}

func (r *redisRepo) seqKey() string    { return r.prefix + ":diagnosis:seq" }
func (r *redisRepo) lastTSKey() string { return r.prefix + ":diagnosis:last_ts" }
func (r *redisRepo) indexKey() string  { return r.prefix + ":diagnoses" }
func (r *redisRepo) recordKey(id int64) string {
	return r.prefix + ":diagnosis:" + strconv.FormatInt(id, 10)
}

func (r *redisRepo) List(dbc dbctx.Context) ([]*types.Diagnosis, error) {
	ids, err := r.rdb.ZRevRange(dbc.Context(), r.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list diagnoses: %w", err)
	}
	if len(ids) == 0 {
		return []*types.Diagnosis{}, nil
	}
	keys := make([]string, 0, len(ids))
	for _, raw := range ids {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("list diagnoses: bad index member %q", raw)
		}
		keys = append(keys, r.recordKey(id))
	}
	blobs, err := r.rdb.MGet(dbc.Context(), keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("list diagnoses: %w", err)
	}
	out := make([]*types.Diagnosis, 0, len(blobs))
	for i, b := range blobs {
		s, ok := b.(string)
		if !ok {
			r.log.Warn("indexed diagnosis missing", "key", keys[i])
			continue
		}
		d, err := decodeDiagnosis([]byte(s))
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", keys[i], err)
		}
		out = append(out, d)
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *redisRepo) Get(dbc dbctx.Context, id int64) (*types.Diagnosis, error) {
	raw, err := r.rdb.Get(dbc.Context(), r.recordKey(id)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, fmt.Errorf("diagnosis %d: %w", id, pkgerrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get diagnosis %d: %w", id, err)
	}
	return decodeDiagnosis(raw)
}

// Create reads the sequence and last timestamp under WATCH and commits the
// record, index entry and counters in one MULTI/EXEC, so id order and
// timestamp order always agree.
func (r *redisRepo) Create(dbc dbctx.Context, in types.CreateDiagnosisInput) (*types.Diagnosis, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	d := in.Build()
	ctx := dbc.Context()

	txf := func(tx *goredis.Tx) error {
		seq, err := tx.Get(ctx, r.seqKey()).Int64()
		if err != nil && !errors.Is(err, goredis.Nil) {
			return err
		}
		var prev time.Time
		lastNanos, err := tx.Get(ctx, r.lastTSKey()).Int64()
		switch {
		case err == nil:
			prev = time.Unix(0, lastNanos).UTC()
		case !errors.Is(err, goredis.Nil):
			return err
		}

		d.ID = seq + 1
		d.Timestamp = nextTimestamp(prev, r.now(), time.Nanosecond)
		blob, err := json.Marshal(d)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.Incr(ctx, r.seqKey())
			pipe.Set(ctx, r.recordKey(d.ID), blob, 0)
			pipe.ZAdd(ctx, r.indexKey(), goredis.Z{Score: float64(d.ID), Member: strconv.FormatInt(d.ID, 10)})
			pipe.Set(ctx, r.lastTSKey(), d.Timestamp.UnixNano(), 0)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < maxCreateAttempts; attempt++ {
		err := r.rdb.Watch(ctx, txf, r.seqKey(), r.lastTSKey())
		if err == nil {
			r.log.Debug("diagnosis stored", "id", d.ID, "disease", d.DiseaseName.In(types.LangEnglish))
			return d.Clone(), nil
		}
		if errors.Is(err, goredis.TxFailedErr) {
			continue
		}
		return nil, fmt.Errorf("create diagnosis: %w", err)
	}
	return nil, fmt.Errorf("create diagnosis: too much contention after %d attempts", maxCreateAttempts)
}

func decodeDiagnosis(raw []byte) (*types.Diagnosis, error) {
	var d types.Diagnosis
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, err
	}
	d.Timestamp = d.Timestamp.UTC()
	return &d, nil
}
