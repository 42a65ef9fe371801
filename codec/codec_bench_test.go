package codec

import (
	"testing"
)

type benchSummary struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	CILow  float64 `json:"ciLow"`
	CIHigh float64 `json:"ciHigh"`
}

type benchPayload struct {
	Category    string                  `json:"category"`
	Fingerprint string                  `json:"fingerprint"`
	Weights     map[string]float64      `json:"weights"`
	Samples     map[string][]float64    `json:"samples"`
	Summary     map[string]benchSummary `json:"summary"`
}

func makeBenchPayload() benchPayload {
	p := benchPayload{
		Category:    "divination-cards",
		Fingerprint: "9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08",
		Weights:     make(map[string]float64),
		Samples:     make(map[string][]float64),
		Summary:     make(map[string]benchSummary),
	}
	items := []string{"the-doctor", "the-nurse", "the-fiend", "house-of-mirrors", "rain-of-chaos"}
	for i, it := range items {
		w := float64(i+1) / 15.0
		p.Weights[it] = w
		samples := make([]float64, 200)
		for j := range samples {
			samples[j] = w + float64(j%10)*1e-4
		}
		p.Samples[it] = samples
		p.Summary[it] = benchSummary{Mean: w, Median: w, CILow: w * 0.9, CIHigh: w * 1.1}
	}
	return p
}

func benchmarkCodecMarshal(b *testing.B, c Codec, v any) {
	b.Helper()
	b.ReportAllocs()

	warm, err := c.Marshal(v)
	if err != nil {
		b.Fatal(err)
	}
	b.SetBytes(int64(len(warm)))

	var sink []byte
	b.ResetTimer()
	for b.Loop() {
		out, err := c.Marshal(v)
		if err != nil {
			b.Fatal(err)
		}
		sink = out
	}
	_ = sink
}

func benchmarkCodecUnmarshal[T any](b *testing.B, c Codec, data []byte, dst *T) {
	b.Helper()
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))

	var v T
	b.ResetTimer()
	for b.Loop() {
		if err := c.Unmarshal(data, &v); err != nil {
			b.Fatal(err)
		}
	}
	if dst != nil {
		*dst = v
	}
}

func BenchmarkCodec_Marshal_Payload(b *testing.B) {
	payload := makeBenchPayload()

	b.Run("stdlib", func(b *testing.B) { benchmarkCodecMarshal(b, JSON{}, payload) })
	b.Run("go-json", func(b *testing.B) { benchmarkCodecMarshal(b, GoJSON{}, payload) })
}

func BenchmarkCodec_Unmarshal_Payload(b *testing.B) {
	payload := makeBenchPayload()
	jsonData := MustMarshal(JSON{}, payload)

	b.Run("stdlib", func(b *testing.B) {
		var sink benchPayload
		benchmarkCodecUnmarshal(b, JSON{}, jsonData, &sink)
		_ = sink
	})
	b.Run("go-json", func(b *testing.B) {
		var sink benchPayload
		benchmarkCodecUnmarshal(b, GoJSON{}, jsonData, &sink)
		_ = sink
	})
}
