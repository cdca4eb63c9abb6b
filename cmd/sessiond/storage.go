package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/sessionkit/pkg/mongo"
	"github.com/dmitrymomot/sessionkit/pkg/pg"
	"github.com/dmitrymomot/sessionkit/pkg/redis"
	"github.com/dmitrymomot/sessionkit/pkg/session"
	"github.com/dmitrymomot/sessionkit/pkg/session/mongostore"
	"github.com/dmitrymomot/sessionkit/pkg/session/pgstore"
	"github.com/dmitrymomot/sessionkit/pkg/session/redisstore"
)

const (
	storageRedis    = "redis"
	storagePostgres = "postgres"
	storageMongo    = "mongo"
)

var errUnknownStorage = errors.New("unknown session storage type")

// storage is the selected backend plus what the server has to probe and
// release for it.
type storage struct {
	backend session.Backend
	checks  []func(context.Context) error
	closers []func(context.Context) error
}

func (s *storage) close(ctx context.Context) error {
	var errs []error
	// release in reverse order of acquisition
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i](ctx))
	}
	return errors.Join(errs...)
}

func openStorage(ctx context.Context, cfg appConfig, log *slog.Logger) (*storage, error) {
	st := &storage{}
	policy := cfg.Session.Policy()

	switch cfg.Session.Type {
	case string(session.KindCookie):
		st.backend = session.NewCookieBackend()

	case string(session.KindMemory):
		st.backend = session.NewMemoryBackend(
			session.WithSweepInterval(cfg.Session.SweepInterval),
			session.WithMemoryLogger(log),
		)

	case storageRedis:
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		st.closers = append(st.closers, func(context.Context) error { return client.Close() })
		st.checks = append(st.checks, redis.Healthcheck(client))

		store := redisstore.New(client, redisstore.WithPrefix(cfg.Redis.KeyPrefix))
		if st.backend, err = session.NewCustomBackend(store.Callbacks(), policy); err != nil {
			return nil, errors.Join(err, st.close(ctx))
		}

	case storagePostgres:
		pool, err := pg.Connect(ctx, cfg.Postgres)
		if err != nil {
			return nil, err
		}
		st.closers = append(st.closers, func(context.Context) error { pool.Close(); return nil })
		st.checks = append(st.checks, pg.Healthcheck(pool))

		db := pg.DB(pool)
		st.closers = append(st.closers, func(context.Context) error { return db.Close() })
		if err := pg.Migrate(ctx, db, pgstore.Migrations, pgstore.MigrationsDir, cfg.Postgres, log); err != nil {
			return nil, errors.Join(err, st.close(ctx))
		}

		store := pgstore.New(db,
			pgstore.WithCleanupInterval(cfg.Session.SweepInterval),
			pgstore.WithLogger(log),
		)
		store.Start(context.Background())
		st.closers = append(st.closers, func(context.Context) error { return store.Close() })

		if st.backend, err = session.NewCustomBackend(store.Callbacks(), policy); err != nil {
			return nil, errors.Join(err, st.close(ctx))
		}

	case storageMongo:
		client, err := mongo.Connect(ctx, cfg.Mongo)
		if err != nil {
			return nil, err
		}
		st.closers = append(st.closers, client.Disconnect)
		st.checks = append(st.checks, mongo.Healthcheck(client))

		coll := mongo.SessionCollection(client, cfg.Mongo)
		if err := mongostore.EnsureIndexes(ctx, coll); err != nil {
			return nil, errors.Join(err, st.close(ctx))
		}
		store := mongostore.New(coll)
		if st.backend, err = session.NewCustomBackend(store.Callbacks(), policy); err != nil {
			return nil, errors.Join(err, st.close(ctx))
		}

	default:
		return nil, fmt.Errorf("%w: %q", errUnknownStorage, cfg.Session.Type)
	}

	return st, nil
}
