package cursor_test

import (
	"context"
	"fmt"
	"time"

	"github.com/vnykmshr/cronik/pkg/schedule/cron"
	"github.com/vnykmshr/cronik/pkg/schedule/cursor"
)

func ExampleOpen() {
	ctx := context.Background()
	store := cursor.NewMemoryStore()
	daily, _ := cron.NewWithConfig("0 0 6 * * *", cron.Config{Location: time.UTC})
	from := time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)

	// The first process handles two runs.
	cur, _ := cursor.Open(ctx, store, "backup", daily, from, 2)
	runs, _ := cur.Collect(ctx)
	fmt.Println(len(runs), runs[1].Format("Jan 2 15:04"))

	// After a restart the same key continues.
	cur, _ = cursor.Open(ctx, store, "backup", daily, from, 1)
	runs, _ = cur.Collect(ctx)
	fmt.Println(cur.Resumed(), runs[0].Format("Jan 2 15:04"))
	// Output:
	// 2 Apr 2 06:00
	// true Apr 3 06:00
}
