// Package pg opens PostgreSQL pools with pgx, applies goose migrations from
// an fs.FS and exposes a readiness probe.
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	db := pg.DB(pool)
//	if err := pg.Migrate(ctx, db, pgstore.Migrations, pgstore.MigrationsDir, cfg, log); err != nil {
//	    return err
//	}
//	store := pgstore.New(db)
package pg
