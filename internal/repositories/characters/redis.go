package characters

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/Anomanderiz/wdh-character-vault/internal/domain/character"
	dnderr "github.com/Anomanderiz/wdh-character-vault/internal/errors"
)

// RecordData represents the serialized form of a record in Redis. The export
// is kept as a string so its bytes survive the round trip unchanged.
type RecordData struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Source     string    `json:"source,omitempty"`
	ImportedAt time.Time `json:"imported_at"`
	Snapshot   string    `json:"snapshot"`
}

// redisRepo implements the Repository interface using Redis
type redisRepo struct {
	client redis.UniversalClient
	prefix string
}

// RedisRepoConfig holds configuration for the Redis repository
type RedisRepoConfig struct {
	Client    redis.UniversalClient
	KeyPrefix string // Prepended to every key, e.g. "vault"
}

// NewRedisRepository creates a new Redis-backed snapshot repository
func NewRedisRepository(cfg *RedisRepoConfig) Repository {
	if cfg == nil {
		panic("RedisRepoConfig cannot be nil")
	}
	if cfg.Client == nil {
		panic("Redis client cannot be nil")
	}

	return &redisRepo{
		client: cfg.Client,
		prefix: strings.TrimSuffix(cfg.KeyPrefix, ":"),
	}
}

func (r *redisRepo) withPrefix(key string) string {
	if r.prefix == "" {
		return key
	}
	return r.prefix + ":" + key
}

// key generates the Redis key for a snapshot
func (r *redisRepo) key(id string) string {
	return r.withPrefix(fmt.Sprintf("snapshot:%s", id))
}

// indexKey is the set holding every stored snapshot ID
func (r *redisRepo) indexKey() string {
	return r.withPrefix("snapshots")
}

// Create stores a new record
func (r *redisRepo) Create(ctx context.Context, record *character.Record) error {
	if record == nil {
		return dnderr.InvalidArgument("record cannot be nil")
	}
	if record.ID == "" {
		return dnderr.InvalidArgument("record ID is required")
	}

	jsonData, err := json.Marshal(toRecordData(record))
	if err != nil {
		return dnderr.WrapWithCode(err, dnderr.CodeInternal, "failed to marshal snapshot")
	}

	// SETNX decides the winner when the same ID is imported concurrently.
	// SADD of an already indexed ID is a no-op.
	pipe := r.client.TxPipeline()
	created := pipe.SetNX(ctx, r.key(record.ID), string(jsonData), 0)
	pipe.SAdd(ctx, r.indexKey(), record.ID)
	if _, err = pipe.Exec(ctx); err != nil {
		return dnderr.WrapWithCode(err, dnderr.CodeUnavailable, "failed to store snapshot").
			WithMeta("snapshot_id", record.ID)
	}

	if !created.Val() {
		return dnderr.AlreadyExistsf("snapshot with ID '%s' already exists", record.ID).
			WithMeta("snapshot_id", record.ID)
	}

	return nil
}

// Get retrieves a record by ID
func (r *redisRepo) Get(ctx context.Context, id string) (*character.Record, error) {
	if id == "" {
		return nil, dnderr.InvalidArgument("snapshot ID is required")
	}

	jsonData, err := r.client.Get(ctx, r.key(id)).Bytes()
	if err == redis.Nil {
		return nil, dnderr.NotFoundf("snapshot with ID '%s' not found", id).
			WithMeta("snapshot_id", id)
	}
	if err != nil {
		return nil, dnderr.WrapWithCode(err, dnderr.CodeUnavailable, "failed to get snapshot")
	}

	var data RecordData
	if unmarshalErr := json.Unmarshal(jsonData, &data); unmarshalErr != nil {
		return nil, dnderr.WrapWithCode(unmarshalErr, dnderr.CodeInternal, "failed to unmarshal snapshot").
			WithMeta("snapshot_id", id)
	}

	return fromRecordData(&data), nil
}

// List returns every stored record. IDs left in the index without a
// document are skipped.
func (r *redisRepo) List(ctx context.Context) ([]*character.Record, error) {
	ids, err := r.client.SMembers(ctx, r.indexKey()).Result()
	if err != nil {
		return nil, dnderr.WrapWithCode(err, dnderr.CodeUnavailable, "failed to list snapshot IDs")
	}

	records := make([]*character.Record, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		g.Go(func() error {
			record, err := r.Get(gctx, id)
			if dnderr.IsNotFound(err) {
				return nil
			}
			if err != nil {
				return dnderr.Wrapf(err, "failed to get snapshot %s", id)
			}
			records[i] = record
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return sortRecords(records), nil
}

// Delete removes a record
func (r *redisRepo) Delete(ctx context.Context, id string) error {
	if id == "" {
		return dnderr.InvalidArgument("snapshot ID is required")
	}

	pipe := r.client.Pipeline()
	del := pipe.Del(ctx, r.key(id))
	pipe.SRem(ctx, r.indexKey(), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return dnderr.WrapWithCode(err, dnderr.CodeUnavailable, "failed to delete snapshot").
			WithMeta("snapshot_id", id)
	}

	if del.Val() == 0 {
		return dnderr.NotFoundf("snapshot with ID '%s' not found", id).
			WithMeta("snapshot_id", id)
	}

	return nil
}

func toRecordData(record *character.Record) *RecordData {
	return &RecordData{
		ID:         record.ID,
		Name:       record.Name,
		Source:     record.Source,
		ImportedAt: record.ImportedAt.UTC(),
		Snapshot:   string(record.Raw),
	}
}

func fromRecordData(data *RecordData) *character.Record {
	return &character.Record{
		ID:         data.ID,
		Name:       data.Name,
		Source:     data.Source,
		ImportedAt: data.ImportedAt,
		Raw:        json.RawMessage(data.Snapshot),
	}
}

// sortRecords drops nil holes and orders by name, then ID
func sortRecords(records []*character.Record) []*character.Record {
	out := make([]*character.Record, 0, len(records))
	for _, record := range records {
		if record != nil {
			out = append(out, record)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := strings.ToLower(out[i].Name), strings.ToLower(out[j].Name)
		if a != b {
			return a < b
		}
		return out[i].ID < out[j].ID
	})
	return out
}
