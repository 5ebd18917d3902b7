/*
Package cursor makes occurrence sequences survive restarts.

A Cursor wraps a cron sequence and saves every instant it emits to a Store
before returning it. Opening a cursor on a key that already holds a
checkpoint continues strictly after the stored instant, so a job runner that
starts again never receives an occurrence it was already handed:

	store, _ := cursor.NewRedisStore(cursor.RedisConfig{Client: rdb})
	cur, err := cursor.Open(ctx, store, "reports", schedule, time.Now(), -1)
	if err != nil {
		return err
	}
	for {
		t, ok, err := cur.Next(ctx)
		if err != nil || !ok {
			break
		}
		run(t)
	}

MemoryStore keeps checkpoints in process memory. RedisStore shares them
between processes; saves are atomic and never move a checkpoint backwards.
*/
package cursor
