package schema

type Category string

type Theme string

const (
	CategoryRelationship Category = "인간관계"
	CategoryRomance      Category = "연애/사랑"
	CategoryIf           Category = "만약에"
	CategoryDaily        Category = "일상/생각"
	CategoryGrowth       Category = "성장/가치관"
	CategoryCustom       Category = "직접 작성"
)

const (
	ThemePurple Theme = "purple"
	ThemePink   Theme = "pink"
	ThemeBlue   Theme = "blue"
	ThemeOrange Theme = "orange"
	ThemeGreen  Theme = "green"
	ThemeGray   Theme = "gray"
)

const (
	MaxCustomQuestionLength   = 30
	MaxProviderQuestionLength = 40

	CustomQuestionID      = "custom"
	CustomQuestionContext = "From. Me"
	DefaultContext        = "오늘의 질문"
)

var Themes = []Theme{ThemePurple, ThemePink, ThemeBlue, ThemeOrange, ThemeGreen, ThemeGray}

func (t Theme) Valid() bool {
	for _, v := range Themes {
		if v == t {
			return true
		}
	}
	return false
}

// Question is immutable once created; records hold their own copy.
type Question struct {
	ID       string   `json:"id"`
	Category Category `json:"category"`
	Text     string   `json:"text"`
	Context  string   `json:"context,omitempty"`
	Theme    Theme    `json:"theme,omitempty"`
}
