// Package mongo connects to MongoDB with retries and hands out the session
// collection used by pkg/session/mongostore.
//
//	client, err := mongo.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	coll := mongo.SessionCollection(client, cfg)
//	if err := mongostore.EnsureIndexes(ctx, coll); err != nil {
//	    return err
//	}
//	store := mongostore.New(coll)
package mongo
