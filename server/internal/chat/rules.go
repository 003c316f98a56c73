package chat

// Keywords cover both Korean and English phrasing regardless of reply locale.
var (
	sliceKeywords    = []string{"슬라이스", "오른쪽", "slice"}
	distanceKeywords = []string{"비거리", "멀리", "distance", "farther"}
	shankKeywords    = []string{"생크", "안쪽", "shank"}
	puttingKeywords  = []string{"퍼팅", "그린", "putt", "green"}
	greetingKeywords = []string{"안녕", "ㅎㅇ", "hello"}
)

// DefaultRules returns the built-in coaching rules with replies in locale
// ("ko" or "en"; anything else falls back to English), and the fallback reply.
func DefaultRules(locale string) ([]Rule, string) {
	if locale == "ko" {
		return []Rule{
			{Name: "slice", Keywords: sliceKeywords, Reply: "슬라이스의 주 원인은 '아웃-인 궤도'와 '열린 페이스'입니다. 어드레스 때 오른발을 살짝 뒤로 빼는 '클로즈 스탠스'를 시도해보세요."},
			{Name: "distance", Keywords: distanceKeywords, Reply: "비거리를 늘리려면 '힘'보다는 '스피드'가 중요합니다. 다운스윙 시작 때 골반을 먼저 회전시키는 '지면 반력'을 연습하세요."},
			{Name: "shank", Keywords: shankKeywords, Reply: "생크는 공과 너무 가까이 섰거나, 손이 몸에서 멀어질 때 발생합니다. 공과 반 발자국만 떨어져서 서보세요."},
			{Name: "putting", Keywords: puttingKeywords, Reply: "퍼팅은 '거리감'이 생명입니다. 홀컵을 보지 말고, 공이 굴러가는 상상만 하며 빈 스윙을 3번 해보세요."},
			{Name: "greeting", Keywords: greetingKeywords, Reply: "안녕하세요! 당신의 AI 골프 코치입니다. 오늘 컨디션은 어떠신가요?"},
		}, "죄송합니다. 아직 배우고 있는 중이라 정확한 답변을 드리기 어렵습니다."
	}
	return []Rule{
		{Name: "slice", Keywords: sliceKeywords, Reply: "A slice mostly comes from an out-to-in path and an open face. Try a closed stance: draw your right foot back slightly at address."},
		{Name: "distance", Keywords: distanceKeywords, Reply: "Distance comes from speed more than strength. Start the downswing by rotating your hips first and use the ground for leverage."},
		{Name: "shank", Keywords: shankKeywords, Reply: "Shanks happen when you stand too close to the ball or your hands drift away from your body. Stand half a step farther from the ball."},
		{Name: "putting", Keywords: puttingKeywords, Reply: "Putting is all about distance control. Don't look at the hole; picture the ball rolling and make three practice strokes."},
		{Name: "greeting", Keywords: greetingKeywords, Reply: "Hello! I'm your AI golf coach. How are you feeling today?"},
	}, "Sorry, I'm still learning and can't give you a precise answer yet."
}
