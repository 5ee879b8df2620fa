package validation

import (
	"fmt"
	"math"
	"math/rand/v2"

	"go.uber.org/zap"

	apperrors "github.com/charlesng35/expkit/pkg/errors"
	"github.com/charlesng35/expkit/pkg/metrics"
)

// ErrInvalidRandomState reports a random state that is not nil, a *rand.Rand or an
// integer seed between 0 and 2^32-1.
var ErrInvalidRandomState = apperrors.NewInvalidArgument("Random state should be nil, an integer seed in [0, 2^32-1] or a *rand.Rand.")

// seedStream is the fixed PCG stream selector; only the seed varies between experiments.
const seedStream = 0x9e3779b97f4a7c15

// NewRandomState returns a generator whose sequence is fully determined by seed.
func NewRandomState(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seedStream))
}

// CheckRandomState turns randomState into a generator. nil yields an entropy-seeded
// generator, integers are used as seeds and a *rand.Rand is returned as is.
func CheckRandomState(randomState any) (*rand.Rand, error) {
	switch rs := randomState.(type) {
	case nil:
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())), nil
	case *rand.Rand:
		if rs == nil {
			return nil, ErrInvalidRandomState.WithInternal(fmt.Errorf("nil *rand.Rand"))
		}
		return rs, nil
	case int:
		return seededFromInt(int64(rs))
	case int8:
		return seededFromInt(int64(rs))
	case int16:
		return seededFromInt(int64(rs))
	case int32:
		return seededFromInt(int64(rs))
	case int64:
		return seededFromInt(rs)
	case uint:
		return seededFromUint(uint64(rs))
	case uint8:
		return seededFromUint(uint64(rs))
	case uint16:
		return seededFromUint(uint64(rs))
	case uint32:
		return seededFromUint(uint64(rs))
	case uint64:
		return seededFromUint(rs)
	default:
		return nil, ErrInvalidRandomState.WithInternal(fmt.Errorf("unsupported type %T", randomState))
	}
}

// Integer seeds must lie in [0, 2^32-1].
func seededFromInt(seed int64) (*rand.Rand, error) {
	if seed < 0 {
		return nil, ErrInvalidRandomState.WithInternal(fmt.Errorf("seed %d is negative", seed))
	}
	return seededFromUint(uint64(seed))
}

func seededFromUint(seed uint64) (*rand.Rand, error) {
	if seed > math.MaxUint32 {
		return nil, ErrInvalidRandomState.WithInternal(fmt.Errorf("seed %d exceeds 2^32-1", seed))
	}
	return NewRandomState(seed), nil
}

// CheckRandomStates derives one seed per repetition, each drawn uniformly from
// [0, 2^32-1). A fixed seed always yields the same sequence.
func CheckRandomStates(randomState any, repetitions int) ([]uint32, error) {
	rng, err := CheckRandomState(randomState)
	metrics.ObserveCheck("random_states", err)
	if err != nil {
		return nil, err
	}

	if repetitions < 0 {
		repetitions = 0
	}
	seeds := make([]uint32, repetitions)
	for i := range seeds {
		seeds[i] = rng.Uint32N(math.MaxUint32)
	}

	moduleLogger().Debug("random states derived", zap.Int("repetitions", repetitions))
	return seeds, nil
}
