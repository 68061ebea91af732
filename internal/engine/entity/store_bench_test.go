package entity

import (
	"image"
	"testing"
	"time"

	"github.com/nightfore/nf/internal/engine/event"
	"github.com/nightfore/nf/internal/engine/resource"
	"github.com/nightfore/nf/internal/engine/template"
)

const benchEntities = 10_000

func newBenchStore(b *testing.B) (*Store, template.ID) {
	b.Helper()
	cache := resource.NewCache(func(string, resource.Kind) (resource.Asset, error) {
		return resource.Asset{Bounds: image.Rect(0, 0, 64, 64)}, nil
	}, nil)
	sheet, err := cache.Load("sheet.png", resource.KindImage)
	if err != nil {
		b.Fatal(err)
	}
	reg := template.NewRegistry(cache, nil)
	tid, err := reg.Register("bench", template.Definition{
		Source:    sheet,
		Frames:    []image.Rectangle{image.Rect(0, 0, 16, 16)},
		Durations: []time.Duration{100 * time.Millisecond},
		Loop:      true,
	})
	if err != nil {
		b.Fatal(err)
	}
	return NewStore(reg, event.NewBus(), nil), tid
}

func BenchmarkStoreForEachAlive(b *testing.B) {
	s, tid := newBenchStore(b)
	for i := 0; i < benchEntities; i++ {
		if _, err := s.Spawn(tid, Position{X: float64(i)}); err != nil {
			b.Fatal(err)
		}
	}
	b.ResetTimer()

	var sum float64
	for n := 0; n < b.N; n++ {
		sum = 0
		s.ForEachAlive(func(e *Entity) {
			sum += e.Pos.X
		})
	}
	_ = sum
}

func BenchmarkStoreGet(b *testing.B) {
	s, tid := newBenchStore(b)
	ids := make([]ID, benchEntities)
	for i := range ids {
		id, err := s.Spawn(tid, Position{})
		if err != nil {
			b.Fatal(err)
		}
		ids[i] = id
	}
	b.ResetTimer()

	for n := 0; n < b.N; n++ {
		e, err := s.Get(ids[n%benchEntities])
		if err != nil {
			b.Fatal(err)
		}
		_ = e
	}
}

func BenchmarkStoreSpawnFlushChurn(b *testing.B) {
	s, tid := newBenchStore(b)
	b.ResetTimer()

	for n := 0; n < b.N; n++ {
		id, err := s.Spawn(tid, Position{})
		if err != nil {
			b.Fatal(err)
		}
		s.Despawn(id)
		s.Flush()
	}
}
