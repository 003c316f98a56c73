package swing

import (
	"fmt"
	"strings"
)

// SwingPath is the club path category through impact.
type SwingPath int

const (
	PathInOut SwingPath = iota
	PathOutIn
	PathNeutral
)

// String returns the wire name used by the client and the database.
func (p SwingPath) String() string {
	switch p {
	case PathInOut:
		return "In-Out"
	case PathOutIn:
		return "Out-In"
	case PathNeutral:
		return "Neutral"
	default:
		return fmt.Sprintf("SwingPath(%d)", int(p))
	}
}

// ParseSwingPath maps a wire name back to a SwingPath.
func ParseSwingPath(s string) (SwingPath, error) {
	switch s {
	case "In-Out":
		return PathInOut, nil
	case "Out-In":
		return PathOutIn, nil
	case "Neutral":
		return PathNeutral, nil
	default:
		return 0, fmt.Errorf("%w: unknown swing path %q", ErrInvalidInput, s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p SwingPath) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *SwingPath) UnmarshalText(b []byte) error {
	v, err := ParseSwingPath(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// ImpactTiming is the timing category of the strike.
type ImpactTiming int

const (
	TimingGood ImpactTiming = iota
	TimingEarly
	TimingLate
)

// String returns the wire name used by the client and the database.
func (t ImpactTiming) String() string {
	switch t {
	case TimingGood:
		return "Good"
	case TimingEarly:
		return "Early"
	case TimingLate:
		return "Late"
	default:
		return fmt.Sprintf("ImpactTiming(%d)", int(t))
	}
}

// ParseImpactTiming maps a wire name back to an ImpactTiming.
func ParseImpactTiming(s string) (ImpactTiming, error) {
	switch s {
	case "Good":
		return TimingGood, nil
	case "Early":
		return TimingEarly, nil
	case "Late":
		return TimingLate, nil
	default:
		return 0, fmt.Errorf("%w: unknown impact timing %q", ErrInvalidInput, s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t ImpactTiming) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *ImpactTiming) UnmarshalText(b []byte) error {
	v, err := ParseImpactTiming(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Metrics is the set of simulated swing measurements for one analysis.
type Metrics struct {
	AddressScore int          `json:"address_score"`
	BalanceScore int          `json:"balance_score"`
	SwingPath    SwingPath    `json:"swing_path"`
	ImpactTiming ImpactTiming `json:"impact_timing"`
}

// Derivation constants. The path and timing tables are weighted on purpose:
// their order and repetition are part of the contract.
const (
	addressBase   = 35
	addressSpread = 25
	balanceBase   = 40
	balanceSpread = 60
	keywordShift  = 20
)

var (
	pathTable   = [...]SwingPath{PathInOut, PathOutIn, PathOutIn, PathNeutral, PathNeutral}
	timingTable = [...]ImpactTiming{TimingGood, TimingEarly, TimingLate, TimingGood}

	boostKeywords   = []string{"pro", "good", "best"}
	penaltyKeywords = []string{"bad", "slice", "test"}
)

// DeriveMetrics maps a seed and the artifact name onto swing metrics.
//
// The balance score is nudged by keywords in the lower-cased name: any of
// pro/good/best adds 20 (capped at 100), otherwise any of bad/slice/test
// subtracts 20 (floored at 0). The boost check runs first, so a name that
// matches both sets is boosted.
func DeriveMetrics(seed Seed, name string) Metrics {
	s := uint32(seed)
	balance := balanceBase + int((s>>2)%balanceSpread)

	lower := strings.ToLower(name)
	switch {
	case containsAny(lower, boostKeywords):
		balance = min(100, balance+keywordShift)
	case containsAny(lower, penaltyKeywords):
		balance = max(0, balance-keywordShift)
	}

	return Metrics{
		AddressScore: addressBase + int(s%addressSpread),
		BalanceScore: balance,
		SwingPath:    pathTable[(s>>3)%uint32(len(pathTable))],
		ImpactTiming: timingTable[(s>>4)%uint32(len(timingTable))],
	}
}

// Validate rejects metrics that did not come from DeriveMetrics and fall
// outside the score range.
func (m Metrics) Validate() error {
	if m.AddressScore < 0 || m.AddressScore > 100 {
		return fmt.Errorf("%w: address_score %d out of range [0, 100]", ErrInvalidInput, m.AddressScore)
	}
	if m.BalanceScore < 0 || m.BalanceScore > 100 {
		return fmt.Errorf("%w: balance_score %d out of range [0, 100]", ErrInvalidInput, m.BalanceScore)
	}
	if m.SwingPath < PathInOut || m.SwingPath > PathNeutral {
		return fmt.Errorf("%w: swing path %d unknown", ErrInvalidInput, int(m.SwingPath))
	}
	if m.ImpactTiming < TimingGood || m.ImpactTiming > TimingLate {
		return fmt.Errorf("%w: impact timing %d unknown", ErrInvalidInput, int(m.ImpactTiming))
	}
	return nil
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
