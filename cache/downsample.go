package cache

// downsample reduces a posterior sample list to at most target values by
// fixed-stride selection. Taking every ceil(n/target)-th draw of an i.i.d.
// sample preserves the empirical distribution shape, unlike truncation, which
// would just keep the earliest draws.
//
// Returns the input unchanged (not copied) when it already fits.
func downsample(samples []float64, target int) []float64 {
	n := len(samples)
	if target <= 0 || n <= target {
		return samples
	}

	stride := (n + target - 1) / target
	out := make([]float64, 0, (n+stride-1)/stride)
	for i := 0; i < n; i += stride {
		out = append(out, samples[i])
	}
	return out
}

// downsampleAll applies downsample per item, returning a new map when any
// list shrank and the original count of the longest list for the metadata.
func downsampleAll(samples map[string][]float64, target int) (map[string][]float64, int) {
	original := 0
	changed := false
	for _, s := range samples {
		if len(s) > original {
			original = len(s)
		}
		if target > 0 && len(s) > target {
			changed = true
		}
	}
	if !changed {
		return samples, original
	}

	out := make(map[string][]float64, len(samples))
	for id, s := range samples {
		out[id] = downsample(s, target)
	}
	return out, original
}
