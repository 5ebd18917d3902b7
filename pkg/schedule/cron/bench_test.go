package cron

import (
	"testing"
	"time"

	robfig "github.com/robfig/cron/v3"

	"github.com/vnykmshr/cronik/pkg/schedule/expr"
)

// mustUTC compiles spec in UTC or panics (for benchmarks only)
func mustUTC(spec string) *Cron {
	c, err := NewWithConfig(spec, Config{Location: time.UTC})
	if err != nil {
		panic(err)
	}
	return c
}

// BenchmarkCompile measures parsing, simplification and binding
func BenchmarkCompile(b *testing.B) {
	for i := 0; i < b.N; i++ {
		if _, err := expr.Compile("(0 */15 9-17 * * mon-fri) | (0 0 0 25-(~1) * *)"); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkSnap measures Snap on a classic expression
func BenchmarkSnap(b *testing.B) {
	c := mustUTC("0 */15 9-17 * * mon-fri")
	from := time.Date(2024, time.April, 13, 18, 7, 3, 0, time.UTC)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_, _ = c.Snap(from)
		}
	})
}

// BenchmarkStepLastDay measures Step across month boundaries
func BenchmarkStepLastDay(b *testing.B) {
	c := mustUTC("0 0 0 ~1 * *")
	t := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		next, err := c.Step(t)
		if err != nil {
			t = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
			continue
		}
		t = next
	}
}

// BenchmarkNoMatch measures an exhausted year window
func BenchmarkNoMatch(b *testing.B) {
	c := mustUTC("0 0 0 30 2 *")
	from := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = c.Snap(from)
	}
}

// BenchmarkRobfigNext is the robfig baseline for BenchmarkSnap
func BenchmarkRobfigNext(b *testing.B) {
	s, err := robfigParser.Parse("0 */15 9-17 * * 1-5")
	if err != nil {
		b.Fatal(err)
	}
	var _ robfig.Schedule = s
	from := time.Date(2024, time.April, 13, 18, 7, 3, 0, time.UTC)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = s.Next(from)
	}
}
