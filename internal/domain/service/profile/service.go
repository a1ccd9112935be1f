package profile

import (
	"MindProfile/internal/domain/errorz"
	"MindProfile/internal/domain/schema"
	"fmt"
	"regexp"
	"unicode/utf8"
)

const (
	FieldNickname = "nickname"

	MsgNicknameTooShort = "닉네임은 최소 2글자 이상이어야 합니다."
	MsgNicknameTooLong  = "닉네임은 최대 10글자까지 가능합니다."
	MsgNicknameCharset  = "한글, 영문, 숫자만 사용할 수 있습니다. (특수문자/공백 불가)"

	avatarURLFormat = "https://api.dicebear.com/9.x/avataaars/svg?seed=%d&backgroundColor=c0aede"
)

var nicknamePattern = regexp.MustCompile(`^[가-힣a-zA-Z0-9]+$`)

// ValidateNickname checks length first, then the allowed character set.
func ValidateNickname(nickname string) error {
	n := utf8.RuneCountInString(nickname)
	switch {
	case n < schema.MinNicknameLength:
		return errorz.NewValidationError(FieldNickname, MsgNicknameTooShort)
	case n > schema.MaxNicknameLength:
		return errorz.NewValidationError(FieldNickname, MsgNicknameTooLong)
	case !nicknamePattern.MatchString(nickname):
		return errorz.NewValidationError(FieldNickname, MsgNicknameCharset)
	}
	return nil
}

func AvatarURL(seed int) string {
	return fmt.Sprintf(avatarURLFormat, seed)
}

// New builds the profile created by a local login.
func New(id, nickname string, avatarSeed int) (schema.UserProfile, error) {
	if err := ValidateNickname(nickname); err != nil {
		return schema.UserProfile{}, err
	}
	return schema.UserProfile{
		ID:        id,
		Nickname:  nickname,
		AvatarURL: AvatarURL(avatarSeed),
	}, nil
}
