package dashboard

// Radar is the five-axis skill chart shown on the dashboard.
type Radar struct {
	Power    float64 `json:"power"`
	Accuracy float64 `json:"accuracy"`
	Tempo    float64 `json:"tempo"`
	Balance  float64 `json:"balance"`
	Mental   float64 `json:"mental"`
}

// ComputeRadar derives the radar from a user's growth index. Every axis is
// capped at 100.
func ComputeRadar(growth float64) Radar {
	base := 40 + growth*0.6
	return Radar{
		Power:    min(100, base+10),
		Accuracy: min(100, base-5),
		Tempo:    min(100, base+5),
		Balance:  min(100, base),
		Mental:   min(100, base+2),
	}
}

// Insight is the pro-comparison note attached to an analysis.
type Insight struct {
	Locked  bool   `json:"locked"`
	Message string `json:"message"`
}

// EliteInsight returns the comparison note for level. Only "Elite" unlocks it.
func EliteInsight(level, locale string) Insight {
	if level == "Elite" {
		if locale == "ko" {
			return Insight{Message: "Elite 전용: 타이거 우즈와 스윙 리듬이 98% 일치합니다!"}
		}
		return Insight{Message: "Elite only: your swing rhythm matches Tiger Woods at 98%!"}
	}
	if locale == "ko" {
		return Insight{Locked: true, Message: "프로 선수와의 스윙 비교 리포트를 보려면 업그레이드하세요."}
	}
	return Insight{Locked: true, Message: "Upgrade to Elite to unlock the pro swing comparison report."}
}
