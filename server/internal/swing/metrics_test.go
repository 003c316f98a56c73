package swing

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDeriveMetrics_Vectors(t *testing.T) {
	tests := []struct {
		name string
		seed Seed
		file string
		want Metrics
	}{
		{
			name: "penalty keyword lowers balance",
			seed: 1636538709,
			file: "swing_bad_test.mp4",
			want: Metrics{AddressScore: 44, BalanceScore: 37, SwingPath: PathNeutral, ImpactTiming: TimingEarly},
		},
		{
			name: "boost keyword caps at 100",
			seed: 1198505250,
			file: "best_swing.mov",
			want: Metrics{AddressScore: 35, BalanceScore: 100, SwingPath: PathOutIn, ImpactTiming: TimingLate},
		},
		{
			name: "both keyword sets, boost wins",
			seed: 1491919364,
			file: "PRO_bad_slice.mov",
			want: Metrics{AddressScore: 49, BalanceScore: 100, SwingPath: PathInOut, ImpactTiming: TimingGood},
		},
		{
			name: "no keyword",
			seed: 999050050,
			file: "my_drive.mp4",
			want: Metrics{AddressScore: 35, BalanceScore: 72, SwingPath: PathOutIn, ImpactTiming: TimingGood},
		},
		{
			name: "seed zero",
			seed: 0,
			file: "",
			want: Metrics{AddressScore: 35, BalanceScore: 40, SwingPath: PathInOut, ImpactTiming: TimingGood},
		},
		{
			name: "magnitude of MinInt32 uses unsigned shifts",
			seed: 2147483648,
			file: "clip.mp4",
			want: Metrics{AddressScore: 58, BalanceScore: 72, SwingPath: PathOutIn, ImpactTiming: TimingGood},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveMetrics(tt.seed, tt.file)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("DeriveMetrics mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDeriveMetrics_Ranges(t *testing.T) {
	names := []string{"plain.mp4", "good_one.mp4", "slice.mp4"}
	for s := uint32(0); s < 200000; s += 7 {
		seed := Seed(s * 2654435761) // spread across the full range
		base := 40 + int((uint32(seed)>>2)%60)
		if base < 40 || base > 99 {
			t.Fatalf("seed %d: balance base %d out of [40,99]", seed, base)
		}
		for _, n := range names {
			m := DeriveMetrics(seed, n)
			if m.AddressScore < 35 || m.AddressScore > 59 {
				t.Fatalf("seed %d: address %d out of [35,59]", seed, m.AddressScore)
			}
			if m.BalanceScore < 0 || m.BalanceScore > 100 {
				t.Fatalf("seed %d name %q: balance %d out of [0,100]", seed, n, m.BalanceScore)
			}
		}
	}
}

func TestDeriveMetrics_Distribution(t *testing.T) {
	// 64000 consecutive seeds cover whole periods of both tables, so the
	// counts match the table weights exactly.
	const n = 64000
	paths := map[SwingPath]int{}
	timings := map[ImpactTiming]int{}
	for s := 0; s < n; s++ {
		m := DeriveMetrics(Seed(s), "")
		paths[m.SwingPath]++
		timings[m.ImpactTiming]++
	}

	wantPaths := map[SwingPath]int{PathInOut: n * 20 / 100, PathOutIn: n * 40 / 100, PathNeutral: n * 40 / 100}
	if diff := cmp.Diff(wantPaths, paths); diff != "" {
		t.Errorf("path distribution (-want +got):\n%s", diff)
	}
	wantTimings := map[ImpactTiming]int{TimingGood: n / 2, TimingEarly: n / 4, TimingLate: n / 4}
	if diff := cmp.Diff(wantTimings, timings); diff != "" {
		t.Errorf("timing distribution (-want +got):\n%s", diff)
	}
}

func TestParseEnums(t *testing.T) {
	for _, p := range []SwingPath{PathInOut, PathOutIn, PathNeutral} {
		got, err := ParseSwingPath(p.String())
		if err != nil || got != p {
			t.Errorf("ParseSwingPath(%q): got %v, %v", p.String(), got, err)
		}
	}
	for _, tm := range []ImpactTiming{TimingGood, TimingEarly, TimingLate} {
		got, err := ParseImpactTiming(tm.String())
		if err != nil || got != tm {
			t.Errorf("ParseImpactTiming(%q): got %v, %v", tm.String(), got, err)
		}
	}
	if _, err := ParseSwingPath("Inside"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("ParseSwingPath(Inside): got %v, want ErrInvalidInput", err)
	}
	if _, err := ParseImpactTiming("good"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("ParseImpactTiming(good): got %v, want ErrInvalidInput", err)
	}
}

func TestMetrics_JSONWireNames(t *testing.T) {
	m := Metrics{AddressScore: 44, BalanceScore: 37, SwingPath: PathOutIn, ImpactTiming: TimingLate}
	b, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"address_score":44,"balance_score":37,"swing_path":"Out-In","impact_timing":"Late"}`
	if string(b) != want {
		t.Errorf("json: got %s, want %s", b, want)
	}

	var back Metrics
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back != m {
		t.Errorf("round trip: got %+v, want %+v", back, m)
	}
}

func TestMetrics_Validate(t *testing.T) {
	ok := Metrics{AddressScore: 50, BalanceScore: 50}
	if err := ok.Validate(); err != nil {
		t.Errorf("Validate(valid): %v", err)
	}
	bad := []Metrics{
		{AddressScore: -1, BalanceScore: 50},
		{AddressScore: 50, BalanceScore: 101},
		{AddressScore: 50, BalanceScore: 50, SwingPath: SwingPath(9)},
		{AddressScore: 50, BalanceScore: 50, ImpactTiming: ImpactTiming(-1)},
	}
	for _, m := range bad {
		if err := m.Validate(); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Validate(%+v): got %v, want ErrInvalidInput", m, err)
		}
	}
}
