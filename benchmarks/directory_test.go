package benchmarks

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/randalmurphal/clientdir/pkg/clientdir"
)

// buildRegistrations returns n registrations spread over n/4 client ids.
func buildRegistrations(n int) []clientdir.ClientRegistration {
	regs := make([]clientdir.ClientRegistration, n)
	for i := range regs {
		regs[i] = clientdir.ClientRegistration{
			ClientAlias: fmt.Sprintf("alias-%d", i),
			ClientID:    fmt.Sprintf("client-%d", i/4),
			Scopes:      []string{"openid", "profile"},
		}
	}
	return regs
}

func newDirectory(b *testing.B, n int) *clientdir.Directory {
	b.Helper()
	dir, err := clientdir.New(buildRegistrations(n))
	if err != nil {
		b.Fatal(err)
	}
	return dir
}

// BenchmarkNew_100 measures building a directory with 100 registrations.
func BenchmarkNew_100(b *testing.B) {
	regs := buildRegistrations(100)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = clientdir.New(regs)
	}
}

// BenchmarkByAlias measures a single alias lookup.
func BenchmarkByAlias(b *testing.B) {
	dir := newDirectory(b, 1000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _, _ = dir.ByAlias("alias-500")
	}
}

// BenchmarkByClientID measures a lookup returning four matches.
func BenchmarkByClientID(b *testing.B) {
	dir := newDirectory(b, 1000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = dir.ByClientID("client-100")
	}
}

// BenchmarkAll_1000 measures the defensive copy of a full set.
func BenchmarkAll_1000(b *testing.B) {
	dir := newDirectory(b, 1000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = dir.All()
	}
}

// BenchmarkReload_1000 measures validate+swap of a 1000-entry set.
func BenchmarkReload_1000(b *testing.B) {
	dir := newDirectory(b, 1000)
	next := buildRegistrations(1000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := dir.Reload(next); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkByAlias_Parallel measures lookups from many goroutines.
func BenchmarkByAlias_Parallel(b *testing.B) {
	dir := newDirectory(b, 1000)
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_, _, _ = dir.ByAlias("alias-500")
		}
	})
}

// BenchmarkByAlias_DuringReload measures lookups while a writer swaps sets.
func BenchmarkByAlias_DuringReload(b *testing.B) {
	dir := newDirectory(b, 1000)
	next := buildRegistrations(1000)

	var stop atomic.Bool
	done := make(chan struct{})
	go func() {
		defer close(done)
		for !stop.Load() {
			_ = dir.Reload(next)
		}
	}()

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_, _, _ = dir.ByAlias("alias-500")
		}
	})
	b.StopTimer()
	stop.Store(true)
	<-done
}
