package benchmark

import (
	"context"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/publishing-api/internal/models"
	"github.com/publishing-api/internal/service"
	"github.com/publishing-api/internal/slug"
	"github.com/publishing-api/internal/tags"
	"github.com/publishing-api/internal/viewcount"
)

// BenchmarkSlugMake benchmarks slug derivation from a typical title
func BenchmarkSlugMake(b *testing.B) {
	title := "  Ten Things You Didn't Know About Go's Scheduler (2024 Edition)!  "

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		slug.Make(title)
	}
}

// BenchmarkSlugResolveCollisions benchmarks resolving a slug with 50 taken suffixes
func BenchmarkSlugResolveCollisions(b *testing.B) {
	taken := map[string]bool{"my-post": true}
	for i := 1; i < 50; i++ {
		taken["my-post-"+strconv.Itoa(i)] = true
	}
	lookup := func(_ context.Context, candidate string) (bool, error) {
		return taken[candidate], nil
	}
	ctx := context.Background()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, err := slug.Resolve(ctx, "my-post", lookup); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkTagNormalize benchmarks parsing a tag string with duplicates
func BenchmarkTagNormalize(b *testing.B) {
	parts := make([]string, 0, 40)
	for i := 0; i < 20; i++ {
		parts = append(parts, "Tag "+strconv.Itoa(i), " tag-"+strconv.Itoa(i)+" ")
	}
	raw := strings.Join(parts, ",")

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		tags.Normalize(raw)
	}
}

// BenchmarkAssembleThread benchmarks threading 1000 comments, a fifth of them replies
func BenchmarkAssembleThread(b *testing.B) {
	now := time.Now()
	comments := make([]*models.Comment, 0, 1000)
	for i := 1; i <= 1000; i++ {
		c := &models.Comment{
			ID:        int64(i),
			ArticleID: 1,
			Content:   "comment",
			Status:    models.CommentStatusApproved,
			CreatedAt: now.Add(-time.Duration(i) * time.Second),
		}
		if i%5 == 0 {
			parent := int64(i - 1)
			c.ParentID = &parent
		}
		comments = append(comments, c)
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		service.AssembleThread(comments)
	}
}

// BenchmarkViewWindowParallel benchmarks concurrent dedup checks
func BenchmarkViewWindowParallel(b *testing.B) {
	w := viewcount.NewMemoryWindow(100000, time.Hour)
	ctx := context.Background()
	var seq atomic.Int64

	b.ResetTimer()
	b.ReportAllocs()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			n := seq.Add(1)
			w.FirstSeen(ctx, viewcount.Key(n%500, "ip:"+strconv.FormatInt(n%64, 10)))
		}
	})
}
