package share

import (
	"MindProfile/internal/domain/errorz"
	"MindProfile/internal/domain/schema"
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type Kind string

const (
	KindQA       Kind = "QA"
	KindQuestion Kind = "Q"
	KindProfile  Kind = "PROFILE"
)

const (
	Title = "마음프로필"

	// CopyStatusTTL is how long the "copied" badge stays visible.
	CopyStatusTTL = 2 * time.Second

	AlertUnsupported = "공유하기를 지원하지 않는 환경입니다."
	AlertCopyFailed  = "주소 복사에 실패했습니다."

	profileURLFormat = "https://mindprofile.app/u/%s"
)

var ErrUnavailable = errors.New("capability unavailable")

type Payload struct {
	Title string `json:"title"`
	Text  string `json:"text"`
	URL   string `json:"url"`
}

// Sharer is the optional native share sheet.
type Sharer interface {
	Share(ctx context.Context, p Payload) error
}

type Clipboard interface {
	WriteText(ctx context.Context, text string) error
}

type Request struct {
	Kind     Kind
	Question string
	Answer   string
	Profile  *schema.UserProfile
}

type Outcome struct {
	Payload Payload
	Copied  bool
}

type Service struct {
	publicURL string
	logger    *zap.Logger
}

func New(publicURL string, logger *zap.Logger) *Service {
	return &Service{publicURL: publicURL, logger: logger}
}

func (s *Service) Build(req Request) (Payload, error) {
	var text string
	switch req.Kind {
	case KindQA:
		text = fmt.Sprintf("[마음프로필]\n\nQ. %s\n\nA. %s\n\n나의 답변이야, 너는 어떻게 생각해?", req.Question, req.Answer)
	case KindQuestion:
		text = fmt.Sprintf("[마음프로필]\n\nQ. %s\n\n이 질문에 너의 답을 듣고 싶어!", req.Question)
	case KindProfile:
		if req.Profile == nil {
			return Payload{}, errorz.ErrLoginRequired
		}
		text = fmt.Sprintf("[마음프로필] %s님의 프로필을 확인해보세요!\n"+profileURLFormat, req.Profile.Nickname, req.Profile.ID)
	default:
		return Payload{}, fmt.Errorf("%w: share kind %q", errorz.ErrInvalidIntent, req.Kind)
	}
	return Payload{Title: Title, Text: text, URL: s.publicURL}, nil
}

// Deliver tries the native share first and falls back to the clipboard.
// Either capability may be nil. Only a failed clipboard write is an error.
func (s *Service) Deliver(ctx context.Context, req Request, sharer Sharer, clipboard Clipboard) (Outcome, error) {
	p, err := s.Build(req)
	if err != nil {
		return Outcome{}, err
	}

	if sharer != nil {
		err := sharer.Share(ctx, p)
		if err == nil {
			return Outcome{Payload: p}, nil
		}
		s.logger.Debug("share canceled or failed", zap.String("kind", string(req.Kind)), zap.Error(err))
	}

	if clipboard == nil {
		return Outcome{Payload: p}, &errorz.ShareError{Kind: string(req.Kind), Alert: alertFor(req.Kind), Err: ErrUnavailable}
	}
	if err := clipboard.WriteText(ctx, p.Text); err != nil {
		return Outcome{Payload: p}, &errorz.ShareError{Kind: string(req.Kind), Alert: alertFor(req.Kind), Err: err}
	}
	return Outcome{Payload: p, Copied: true}, nil
}

func alertFor(kind Kind) string {
	if kind == KindProfile {
		return AlertCopyFailed
	}
	return AlertUnsupported
}

func (k Kind) CopyStatus() schema.CopyStatus {
	switch k {
	case KindQA:
		return schema.CopyStatusQA
	case KindQuestion:
		return schema.CopyStatusQuestion
	case KindProfile:
		return schema.CopyStatusProfile
	}
	return schema.CopyStatusNone
}
