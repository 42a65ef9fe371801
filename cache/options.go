package cache

import (
	"log/slog"
	"time"

	"github.com/weo-soft/poeData-sub000/codec"
)

// Options configures a Cache.
type Options struct {
	// Namespace prefixes every store key so a cache can share a store with
	// other data.
	Namespace string

	// Codec encodes payloads. Entries record the codec name, so changing
	// this never corrupts existing entries.
	Codec codec.Codec

	// Compression applied to payloads before persisting. Incompressible
	// payloads are stored raw regardless.
	Compression Compression

	// StoredSampleCount bounds each item's persisted posterior sample list.
	// Longer lists are reduced by fixed-stride selection before writing.
	// <= 0 disables downsampling.
	StoredSampleCount int

	// EvictionHeadroom multiplies the pending write size to decide how many
	// bytes eviction should free, so one quota rejection does not turn into
	// an eviction per subsequent write.
	EvictionHeadroom float64

	// Logger receives cache-layer warnings. Cache errors never propagate,
	// so this is the only place they surface.
	Logger *slog.Logger

	// Clock supplies timestamps; tests substitute a fixed clock.
	Clock func() time.Time
}

// DefaultOptions returns the default cache configuration.
func DefaultOptions() Options {
	return Options{
		Namespace:         "poedata",
		Codec:             codec.Default,
		Compression:       CompressionZSTD,
		StoredSampleCount: 200,
		EvictionHeadroom:  2.0,
		Logger:            slog.New(slog.DiscardHandler),
		Clock:             time.Now,
	}
}

func applyOptions(optFns []func(*Options)) Options {
	o := DefaultOptions()
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.Codec == nil {
		o.Codec = codec.Default
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}
	if o.EvictionHeadroom < 1 {
		o.EvictionHeadroom = 2.0
	}
	return o
}
