package locker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "scheduling:lock:"

// Снимаем блокировку, только если она всё ещё наша
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
}

// RedisOptions параметры распределённой блокировки
type RedisOptions struct {
	TTL           time.Duration // время жизни ключа, если владелец пропал
	RetryInterval time.Duration
	WaitTimeout   time.Duration
}

// Redis распределённая блокировка по ключу (SET NX PX + сравнение токена при снятии).
// Нужна, когда несколько экземпляров сервиса пишут в одно хранилище.
type Redis struct {
	client redis.UniversalClient
	opts   RedisOptions
	logger Logger
}

// NewRedis создает распределённый менеджер блокировок
func NewRedis(client redis.UniversalClient, opts RedisOptions, logger Logger) *Redis {
	if opts.TTL <= 0 {
		opts.TTL = 10 * time.Second
	}
	if opts.RetryInterval <= 0 {
		opts.RetryInterval = 25 * time.Millisecond
	}
	if opts.WaitTimeout <= 0 {
		opts.WaitTimeout = 5 * time.Second
	}
	return &Redis{client: client, opts: opts, logger: logger}
}

// Lock захватывает блокировку key, повторяя попытки до WaitTimeout или отмены ctx
func (r *Redis) Lock(ctx context.Context, key string) (func(), error) {
	redisKey := keyPrefix + key
	token := uuid.NewString()

	waitCtx, cancel := context.WithTimeout(ctx, r.opts.WaitTimeout)
	defer cancel()

	ticker := time.NewTicker(r.opts.RetryInterval)
	defer ticker.Stop()

	for {
		ok, err := r.client.SetNX(waitCtx, redisKey, token, r.opts.TTL).Result()
		if err != nil && !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("%w: SETNX %s: %v", ErrLockBackend, redisKey, err)
		}
		if ok {
			return r.unlockFunc(redisKey, token), nil
		}

		select {
		case <-waitCtx.Done():
			return nil, fmt.Errorf("%w: %s: %v", ErrLockTimeout, key, waitCtx.Err())
		case <-ticker.C:
		}
	}
}

func (r *Redis) unlockFunc(redisKey, token string) func() {
	return func() {
		// Снимаем даже если контекст запроса уже отменён
		ctx, cancel := context.WithTimeout(context.Background(), r.opts.RetryInterval*10)
		defer cancel()

		if err := releaseScript.Run(ctx, r.client, []string{redisKey}, token).Err(); err != nil {
			r.logger.Warn("Lock release failed: key=%s, error=%v", redisKey, err)
		}
	}
}
