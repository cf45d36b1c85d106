// Package ranges provides the feature range registry consumed by the TTFS encoder.
//
// A range source maps each numeric feature name to its observed [min, max]
// bounds. Sources are produced externally (by aggregating a cleaned corpus) and
// are read once when an encoder is built:
//
//	{
//	  "Flow Duration": [0.0, 8.08],
//	  "Total Fwd Packets": [1, 5.31]
//	}
//
// # Sources
//
//   - JSON files (default) and YAML files (.yaml/.yml), via Load or Parse
//   - a SQLite database written by SQLiteStore.Save, via LoadSource("sqlite://PATH")
//
// # Validation
//
// Each entry must be an array of exactly two numbers; anything else fails the
// whole load with errs.ErrInvalidFormat. Bounds themselves are not checked:
// a range with max - min < DegenerateEpsilon (including max < min) is accepted
// and later contributes no spikes.
//
// # Ordering
//
// Registry.Names returns the names in lexicographic ascending order. That order
// defines the feature indices of the channel topology, so anything mapping
// channel ids back to features must use the same order.
package ranges
