package content

import "MindProfile/internal/domain/schema"

type bankEntry struct {
	Question string
	Context  string
}

// Bank is the hand-written question list used when the provider is down.
type Bank map[schema.Category][]bankEntry

func DefaultBank() Bank {
	return Bank{
		schema.CategoryRelationship: {
			{"가장 오래된 친구와의 첫 만남 기억나?", "소중한 인연"},
			{"나에게 가장 큰 영향을 준 사람은?", "멘토와 롤모델"},
			{"서운했지만 말 못 했던 순간이 있어?", "솔직한 마음"},
			{"가장 듣고 싶은 위로의 말은?", "마음의 온도"},
		},
		schema.CategoryRomance: {
			{"사랑에 빠졌다고 느낀 결정적 순간?", "설렘의 시작"},
			{"나의 연애 스타일을 한 단어로?", "연애관"},
			{"이상형과 정반대인 사람에게 끌린 적?", "뜻밖의 끌림"},
			{"이별 후 가장 힘들었던 순간은?", "아픈 기억"},
		},
		schema.CategoryIf: {
			{"내일 지구가 멸망한다면 뭐 먹을래?", "최후의 만찬"},
			{"투명인간이 된다면 가장 먼저 할 일?", "상상력 풀가동"},
			{"과거로 돌아갈 수 있다면 언제로?", "시간 여행"},
			{"로또 1등에 당첨된다면?", "행복한 상상"},
		},
		schema.CategoryDaily: {
			{"오늘 하루 중 가장 행복했던 순간은?", "소확행"},
			{"요즘 나를 가장 웃게 하는 것은?", "나의 비타민"},
			{"지금 당장 떠나고 싶은 여행지는?", "일상 탈출"},
			{"자기 전에 무슨 생각 해?", "밤의 생각"},
		},
		schema.CategoryGrowth: {
			{"올해 꼭 이루고 싶은 목표 하나?", "버킷리스트"},
			{"나를 가장 성장시킨 실패 경험은?", "성장의 발판"},
			{"10년 뒤 나는 어떤 모습일까?", "미래의 나"},
			{"나만의 스트레스 해소법은?", "마음 관리"},
		},
	}
}

// Entries returns the list for category. Categories without a list of their
// own use the daily list.
func (b Bank) Entries(category schema.Category) []bankEntry {
	if list, ok := b[category]; ok && len(list) > 0 {
		return list
	}
	return b[schema.CategoryDaily]
}

// Contains reports whether text is one of category's fallback questions.
func (b Bank) Contains(category schema.Category, text string) bool {
	for _, e := range b.Entries(category) {
		if e.Question == text {
			return true
		}
	}
	return false
}
