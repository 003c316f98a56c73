package swing

import (
	"errors"
	"fmt"
	"strconv"
	"unicode/utf16"
)

// ErrInvalidInput is returned for descriptors or metrics that cannot be analysed.
var ErrInvalidInput = errors.New("invalid input")

// ArtifactDescriptor identifies an uploaded swing video by its metadata only.
type ArtifactDescriptor struct {
	Name      string
	SizeBytes int64
	MimeType  string
}

// Validate reports whether d can be turned into a seed.
// An empty name or MIME type is legal; a negative size is not.
func (d ArtifactDescriptor) Validate() error {
	if d.SizeBytes < 0 {
		return fmt.Errorf("%w: size_bytes must not be negative, got %d", ErrInvalidInput, d.SizeBytes)
	}
	return nil
}

// Seed is the deterministic pseudo-random value derived from a descriptor.
type Seed uint32

// NewSeed folds name, decimal size and MIME type into a Seed.
//
// Each UTF-16 code unit c of the concatenated string updates the accumulator
// as h = h*31 + c in wrapping int32 arithmetic. The result is |h|; the
// magnitude of math.MinInt32 (2147483648) still fits in a Seed.
func NewSeed(d ArtifactDescriptor) (Seed, error) {
	if err := d.Validate(); err != nil {
		return 0, err
	}
	s := d.Name + strconv.FormatInt(d.SizeBytes, 10) + d.MimeType
	return absSeed(fold(s)), nil
}

// fold is the wrapping string hash over UTF-16 code units.
func fold(s string) int32 {
	var h int32
	for _, c := range utf16.Encode([]rune(s)) {
		h = h*31 + int32(c)
	}
	return h
}

func absSeed(h int32) Seed {
	if h < 0 {
		// uint32(-h) would overflow for MinInt32; negate in the unsigned domain.
		return Seed(^uint32(h) + 1)
	}
	return Seed(h)
}
