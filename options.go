// options.go holds the tunable search constants as a toml-decodable
// struct, loaded once at startup. Of these fields only Threads and
// HashSizeMB can be changed at runtime, through the UCI Threads and Hash
// options; the others keep their loaded values. Grounded on original_source/cheers_lib's options module
// for the constant names and numeric defaults, and on
// frankkopp/FrankyGo's use of github.com/BurntSushi/toml for config
// loading.

package engine

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// SearchOptions bundles every named pruning/reduction constant plus the
// resource knobs (thread count, hash size). The toml keys are the field
// names in snake_case.
type SearchOptions struct {
	Threads    int `toml:"threads"`
	HashSizeMB int `toml:"hash_size_mb"`

	NMPDepth          int `toml:"nmp_depth"`
	NMPConstReduction int `toml:"nmp_const_reduction"`
	NMPLinearDivisor  int `toml:"nmp_linear_divisor"`

	SEEPruningDepth  int   `toml:"see_pruning_depth"`
	SEECaptureMargin int16 `toml:"see_capture_margin"`
	SEEQuietMargin   int16 `toml:"see_quiet_margin"`

	DeltaPruningMargin int16 `toml:"delta_pruning_margin"`

	FPMargin1 int16 `toml:"fp_margin_1"`
	FPMargin2 int16 `toml:"fp_margin_2"`
	FPMargin3 int16 `toml:"fp_margin_3"`

	RFPMargin int16 `toml:"rfp_margin"`
	LMPDepth  int   `toml:"lmp_depth"`
	IIRDepth  int   `toml:"iir_depth"`

	PVSFullDepth int `toml:"pvs_fulldepth"`
}

// DefaultSearchOptions returns the spec's recorded default constants.
func DefaultSearchOptions() SearchOptions {
	return SearchOptions{
		Threads:    1,
		HashSizeMB: defaultTTSizeMB,

		NMPDepth:          1,
		NMPConstReduction: 3,
		NMPLinearDivisor:  3,

		SEEPruningDepth:  9,
		SEECaptureMargin: -47,
		SEEQuietMargin:   -61,

		DeltaPruningMargin: 183,

		FPMargin1: 114,
		FPMargin2: 250,
		FPMargin3: 509,

		RFPMargin: 198,
		LMPDepth:  9,
		IIRDepth:  7,

		PVSFullDepth: 1,
	}
}

// LoadSearchOptions reads a toml config file at path, starting from the
// defaults so a partial file only overrides the fields it names. A
// missing file is not an error: the defaults are returned unchanged.
func LoadSearchOptions(path string) (SearchOptions, error) {
	opts := DefaultSearchOptions()
	if path == "" {
		return opts, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return opts, nil
	}
	if _, err := toml.DecodeFile(path, &opts); err != nil {
		return opts, fmt.Errorf("decode search options from %s: %w", path, err)
	}
	return opts, nil
}

// SetOption applies one UCI `setoption name <name> value <value>` pair,
// validating the value's shape before assigning it.
func (o *SearchOptions) SetOption(name string, value string) error {
	switch name {
	case "Threads":
		return setIntOption(&o.Threads, name, value, 1, 256)
	case "Hash":
		return setIntOption(&o.HashSizeMB, name, value, 1, 1<<20)
	default:
		return fmt.Errorf("%w: unknown option %q", ErrInvalidOption, name)
	}
}

func setIntOption(dst *int, name, value string, min, max int) error {
	var v int
	if _, err := fmt.Sscanf(value, "%d", &v); err != nil {
		return fmt.Errorf("%w: option %q wants an integer, got %q", ErrInvalidOption, name, value)
	}
	if v < min || v > max {
		return fmt.Errorf("%w: option %q value %d out of range [%d, %d]", ErrInvalidOption, name, v, min, max)
	}
	*dst = v
	return nil
}
