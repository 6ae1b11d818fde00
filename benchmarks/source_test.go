package benchmarks

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/randalmurphal/clientdir/pkg/clientdir"
	"github.com/randalmurphal/clientdir/pkg/clientdir/source"
)

// BenchmarkSQLite_Load_100 measures loading 100 registrations from SQLite.
func BenchmarkSQLite_Load_100(b *testing.B) {
	src, err := source.NewSQLite(filepath.Join(b.TempDir(), "registrations.db"))
	if err != nil {
		b.Fatal(err)
	}
	defer src.Close()

	ctx := context.Background()
	for i := 0; i < 100; i++ {
		reg := clientdir.ClientRegistration{
			ClientAlias: fmt.Sprintf("alias-%d", i),
			ClientID:    fmt.Sprintf("client-%d", i),
		}
		if err := src.Put(ctx, reg); err != nil {
			b.Fatal(err)
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := src.Load(ctx); err != nil {
			b.Fatal(err)
		}
	}
}
