package swing

import "fmt"

// Language selects the comment clause catalog. Scores never depend on it.
type Language string

const (
	LangEnglish Language = "en"
	LangKorean  Language = "ko"
)

// ParseLanguage accepts "en", "ko" or "" (English).
func ParseLanguage(s string) (Language, error) {
	switch Language(s) {
	case "", LangEnglish:
		return LangEnglish, nil
	case LangKorean:
		return LangKorean, nil
	default:
		return "", fmt.Errorf("%w: unsupported language %q", ErrInvalidInput, s)
	}
}

// clause identifies one fired rule in the scoring table.
type clause int

const (
	clauseAddressIdeal clause = iota
	clauseAddressLow
	clauseAddressUpright
	clauseBalancePro
	clauseBalanceStable
	clauseBalanceLosing
	clauseSliceRisk
	clauseHookRisk
	clauseTimingPerfect
)

var catalogs = map[Language]map[clause]string{
	LangEnglish: {
		clauseAddressIdeal:   "ideal address angle",
		clauseAddressLow:     "address too low/squat, straighten up",
		clauseAddressUpright: "too upright, maintain spine angle",
		clauseBalancePro:     "pro-level balance",
		clauseBalanceStable:  "stable weight transfer",
		clauseBalanceLosing:  "losing balance at finish, needs core work",
		clauseSliceRisk:      "high slice probability, check grip",
		clauseHookRisk:       "risk of hook, rotate lower body faster",
		clauseTimingPerfect:  "perfect impact timing, distance expected",
	},
	LangKorean: {
		clauseAddressIdeal:   "어드레스 각도가 아주 이상적입니다.",
		clauseAddressLow:     "어드레스가 너무 낮습니다(Squat). 상체를 조금 더 세우세요.",
		clauseAddressUpright: "상체가 너무 서 있습니다. 척추각을 유지하세요.",
		clauseBalancePro:     "밸런스가 프로 선수 급입니다!",
		clauseBalanceStable:  "중심 이동이 안정적입니다.",
		clauseBalanceLosing:  "피니시 때 중심을 못 잡고 있습니다. 코어 운동이 필요합니다.",
		clauseSliceRisk:      "슬라이스(Slice)가 발생할 확률이 90%입니다. 그립을 점검하세요.",
		clauseHookRisk:       "심한 훅(Hook)이 발생할 수 있습니다. 하체 회전을 더 빠르게 하세요.",
		clauseTimingPerfect:  "임팩트 타이밍이 완벽합니다. 비거리가 기대됩니다.",
	},
}

func (l Language) text(c clause) string {
	cat, ok := catalogs[l]
	if !ok {
		cat = catalogs[LangEnglish]
	}
	return cat[c]
}
