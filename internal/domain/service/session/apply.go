package session

import (
	"MindProfile/internal/domain/errorz"
	"MindProfile/internal/domain/schema"
	"MindProfile/internal/domain/service/profile"
	"MindProfile/internal/domain/service/share"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Env carries the impure inputs of a transition so Apply stays deterministic.
type Env struct {
	Now   time.Time
	NewID func() string
	// Seed returns a number in [0, n).
	Seed func(n int) int
	// AnalyzingTTL bounds how long a submission may stay in flight.
	// Zero means DefaultAnalyzingTTL.
	AnalyzingTTL time.Duration
}

// DefaultAnalyzingTTL outlives any provider call; a flag older than this
// belongs to a submission whose commit was lost.
const DefaultAnalyzingTTL = time.Minute

// Apply is the view-state transition function. It never mutates s. On a
// guard failure the returned state is s unchanged. A *errorz.ValidationError
// comes back together with a state that carries the message for display.
func Apply(s schema.Session, in Intent, env Env) (schema.Session, []Effect, error) {
	if !s.IntroDone && !in.Kind.isIntro() && !in.Kind.isInternal() {
		return s, nil, errorz.ErrIntroPending
	}

	next := s.Clone()
	effects, err := apply(&next, in, env)
	if err != nil {
		var verr *errorz.ValidationError
		if errors.As(err, &verr) {
			next.UpdatedAt = env.Now
			return next, nil, err
		}
		return s, nil, err
	}
	next.UpdatedAt = env.Now
	return next, effects, nil
}

func apply(s *schema.Session, in Intent, env Env) ([]Effect, error) {
	switch in.Kind {
	case IntroNext:
		if s.IntroDone {
			return nil, errorz.ErrWrongView
		}
		if s.IntroStep < schema.IntroSteps-1 {
			s.IntroStep++
		} else {
			s.IntroDone = true
		}
	case IntroBack:
		if s.IntroDone {
			return nil, errorz.ErrWrongView
		}
		if s.IntroStep > 0 {
			s.IntroStep--
		}
	case IntroSkip:
		s.IntroDone = true

	case NextSlide, PrevSlide:
		if err := requireView(s, schema.ViewHome); err != nil {
			return nil, err
		}
		if in.Kind == NextSlide {
			s.Slide = (s.Slide + 1) % schema.SlideCount
		} else {
			s.Slide = (s.Slide + schema.SlideCount - 1) % schema.SlideCount
		}
	case SetCustomQuestion:
		if err := requireView(s, schema.ViewHome); err != nil {
			return nil, err
		}
		s.CustomQuestion = truncateRunes(in.Text, schema.MaxCustomQuestionLength)
	case SetCustomTheme:
		if err := requireView(s, schema.ViewHome); err != nil {
			return nil, err
		}
		if !in.Theme.Valid() {
			return nil, fmt.Errorf("%w: unknown theme %q", errorz.ErrInvalidIntent, in.Theme)
		}
		s.CustomTheme = in.Theme
	case StartAnswering:
		return nil, startAnswering(s)

	case Login:
		return nil, login(s, in.Text, env)
	case CloseLogin:
		s.LoginPrompt = false
		s.LoginError = ""

	case SetDraft:
		if err := requireView(s, schema.ViewAnswer); err != nil {
			return nil, err
		}
		s.Draft = truncateRunes(in.Text, schema.MaxAnswerLength)
	case Submit:
		return submit(s, env)
	case reactionReady:
		commit(s, in.submission, in.reaction, env)

	case BackToProfile:
		if s.View != schema.ViewResult && s.View != schema.ViewProfileDetail {
			return nil, errorz.ErrWrongView
		}
		if s.Profile == nil {
			return nil, errorz.ErrLoginRequired
		}
		if s.View == schema.ViewResult {
			resetTransient(s)
		}
		s.SelectedRecordID = ""
		s.View = schema.ViewProfile
	case GoHome:
		resetTransient(s)
		s.View = schema.ViewHome

	case OpenProfile:
		if s.Analyzing {
			return nil, errorz.ErrSubmitInFlight
		}
		if s.Profile == nil {
			s.LoginPrompt = true
			return nil, nil
		}
		s.View = schema.ViewProfile
	case SelectHistory:
		if err := requireView(s, schema.ViewProfile); err != nil {
			return nil, err
		}
		if _, ok := s.FindRecord(in.ID); !ok {
			return nil, fmt.Errorf("history item %q: %w", in.ID, errorz.ErrNotFound)
		}
		s.SelectedRecordID = in.ID
		s.View = schema.ViewProfileDetail
	case EditAnswer:
		if err := requireView(s, schema.ViewProfileDetail); err != nil {
			return nil, err
		}
		rec, ok := s.SelectedRecord()
		if !ok {
			return nil, fmt.Errorf("history item %q: %w", s.SelectedRecordID, errorz.ErrNotFound)
		}
		q := rec.Question
		s.Selected = &q
		s.Draft = rec.Answer
		s.EditTargetID = rec.ID
		s.View = schema.ViewAnswer
	case DeleteAnswer:
		return nil, deleteAnswer(s, in.ID)

	case StartEditProfile:
		if err := requireView(s, schema.ViewProfile); err != nil {
			return nil, err
		}
		if s.Profile == nil {
			return nil, errorz.ErrLoginRequired
		}
		s.ProfileForm = schema.ProfileForm{Nickname: s.Profile.Nickname, AvatarURL: s.Profile.AvatarURL}
		s.View = schema.ViewProfileEdit
	case SetEditNickname:
		if err := requireView(s, schema.ViewProfileEdit); err != nil {
			return nil, err
		}
		s.ProfileForm.Nickname = in.Text
	case RandomizeAvatar:
		if err := requireView(s, schema.ViewProfileEdit); err != nil {
			return nil, err
		}
		s.ProfileForm.AvatarURL = profile.AvatarURL(env.Seed(10000))
	case SaveProfile:
		return nil, saveProfile(s)
	case CancelEditProfile:
		if err := requireView(s, schema.ViewProfileEdit); err != nil {
			return nil, err
		}
		s.ProfileForm = schema.ProfileForm{}
		s.View = schema.ViewProfile

	case SetProfileTab:
		if in.Tab != schema.ProfileTabHistory && in.Tab != schema.ProfileTabFriends {
			return nil, fmt.Errorf("%w: unknown tab %q", errorz.ErrInvalidIntent, in.Tab)
		}
		s.ProfileTab = in.Tab
	case ToggleNotifications:
		s.ShowNotifications = !s.ShowNotifications
	case ToggleSettings:
		s.ShowSettings = !s.ShowSettings
	case MarkNotificationsRead:
		for i := range s.Notifications {
			s.Notifications[i].IsRead = true
		}
	case Logout:
		if s.Analyzing {
			return nil, errorz.ErrSubmitInFlight
		}
		if err := requireSettings(s); err != nil {
			return nil, err
		}
		s.Profile = nil
		s.ShowSettings = false
		s.View = schema.ViewHome
	case Withdraw:
		if s.Analyzing {
			return nil, errorz.ErrSubmitInFlight
		}
		if err := requireSettings(s); err != nil {
			return nil, err
		}
		s.Profile = nil
		s.History = []schema.AnswerRecord{}
		s.Friends = []schema.Friend{}
		s.Notifications = []schema.Notification{}
		s.EditTargetID = ""
		s.SelectedRecordID = ""
		s.ShowSettings = false
		s.View = schema.ViewHome

	case ShareQA, ShareQuestion, ShareProfile:
		req, err := shareRequest(s, in.Kind)
		if err != nil {
			return nil, err
		}
		return []Effect{{Kind: EffectShare, Share: req}}, nil
	case shareCopied:
		s.CopyStatus = in.shared.CopyStatus()
		s.CopyStatusUntil = env.Now.Add(share.CopyStatusTTL)

	case reactionFailed:
		s.Analyzing = false
		s.AnalyzingUntil = time.Time{}

	case questionsLoaded:
		for i, q := range in.loaded {
			if q != nil {
				s.Generated[i] = q
			}
		}
		s.Loading = false

	default:
		return nil, fmt.Errorf("%w: %q", errorz.ErrInvalidIntent, in.Kind)
	}
	return nil, nil
}

func startAnswering(s *schema.Session) error {
	if err := requireView(s, schema.ViewHome); err != nil {
		return err
	}

	var q *schema.Question
	if s.Slide == schema.CustomSlide {
		if strings.TrimSpace(s.CustomQuestion) == "" {
			return errorz.ErrNoQuestionSelected
		}
		q = &schema.Question{
			ID:       schema.CustomQuestionID,
			Category: schema.CategoryCustom,
			Text:     s.CustomQuestion,
			Context:  schema.CustomQuestionContext,
			Theme:    s.CustomTheme,
		}
	} else {
		if s.Generated[s.Slide] == nil {
			return errorz.ErrNoQuestionSelected
		}
		v := *s.Generated[s.Slide]
		q = &v
	}

	s.Selected = q
	s.EditTargetID = ""
	s.Draft = ""
	if s.Profile == nil {
		s.LoginPrompt = true
		return nil
	}
	s.View = schema.ViewAnswer
	return nil
}

func login(s *schema.Session, nickname string, env Env) error {
	if s.Profile != nil {
		return errorz.ErrAlreadyLoggedIn
	}
	if err := profile.ValidateNickname(nickname); err != nil {
		var verr *errorz.ValidationError
		if errors.As(err, &verr) {
			s.LoginError = verr.Message
		}
		return err
	}
	p, err := profile.New("user_"+env.NewID(), nickname, 1000+env.Seed(9000))
	if err != nil {
		return err
	}
	s.Profile = &p
	s.LoginPrompt = false
	s.LoginError = ""
	if s.Selected != nil && s.View != schema.ViewProfile {
		s.View = schema.ViewAnswer
	}
	return nil
}

func submit(s *schema.Session, env Env) ([]Effect, error) {
	if err := requireView(s, schema.ViewAnswer); err != nil {
		return nil, err
	}
	if s.Analyzing {
		return nil, errorz.ErrSubmitInFlight
	}
	if s.Selected == nil {
		return nil, errorz.ErrNoQuestionSelected
	}
	if strings.TrimSpace(s.Draft) == "" {
		return nil, errorz.ErrEmptyAnswer
	}
	if s.Profile == nil {
		return nil, errorz.ErrLoginRequired
	}

	ttl := env.AnalyzingTTL
	if ttl <= 0 {
		ttl = DefaultAnalyzingTTL
	}
	s.Analyzing = true
	s.AnalyzingUntil = env.Now.Add(ttl)
	return []Effect{{
		Kind: EffectGenerateReaction,
		Submission: submission{
			Question:     *s.Selected,
			Answer:       s.Draft,
			EditTargetID: s.EditTargetID,
		},
	}}, nil
}

// commit records the answer and its reaction in one step. An edit whose
// target has disappeared is recorded as a new card.
func commit(s *schema.Session, sub submission, r schema.Reaction, env Env) {
	s.Analyzing = false
	s.AnalyzingUntil = time.Time{}
	if s.Profile == nil {
		return
	}

	reaction := r
	if i, ok := s.FindRecord(sub.EditTargetID); ok {
		s.History[i].Answer = sub.Answer
		s.History[i].Reaction = &reaction
		s.History[i].Theme = sub.Question.Theme
		s.SelectedRecordID = s.History[i].ID
	} else {
		rec := schema.AnswerRecord{
			ID:        env.NewID(),
			Question:  sub.Question,
			Answer:    sub.Answer,
			CreatedAt: env.Now,
			DateLabel: schema.DateLabel(env.Now),
			Reaction:  &reaction,
			Theme:     sub.Question.Theme,
		}
		s.History = append([]schema.AnswerRecord{rec}, s.History...)
		s.SelectedRecordID = rec.ID
	}

	last := r
	s.LastReaction = &last
	s.EditTargetID = ""
	s.View = schema.ViewResult
}

func deleteAnswer(s *schema.Session, id string) error {
	if err := requireView(s, schema.ViewProfileDetail); err != nil {
		return err
	}
	if id == "" {
		id = s.SelectedRecordID
	}
	i, ok := s.FindRecord(id)
	if !ok {
		return fmt.Errorf("history item %q: %w", id, errorz.ErrNotFound)
	}
	s.History = append(s.History[:i:i], s.History[i+1:]...)
	if s.EditTargetID == id {
		s.EditTargetID = ""
	}
	s.SelectedRecordID = ""
	s.View = schema.ViewProfile
	return nil
}

func saveProfile(s *schema.Session) error {
	if err := requireView(s, schema.ViewProfileEdit); err != nil {
		return err
	}
	if s.Profile == nil {
		return errorz.ErrLoginRequired
	}
	if err := profile.ValidateNickname(s.ProfileForm.Nickname); err != nil {
		var verr *errorz.ValidationError
		if errors.As(err, &verr) {
			s.ProfileForm.Error = verr.Message
		}
		return err
	}
	s.Profile.Nickname = s.ProfileForm.Nickname
	s.Profile.AvatarURL = s.ProfileForm.AvatarURL
	s.ProfileForm = schema.ProfileForm{}
	s.View = schema.ViewProfile
	return nil
}

func shareRequest(s *schema.Session, kind Kind) (share.Request, error) {
	if kind == ShareProfile {
		if s.Profile == nil {
			return share.Request{}, errorz.ErrLoginRequired
		}
		p := *s.Profile
		return share.Request{Kind: share.KindProfile, Profile: &p}, nil
	}

	rec, hasRec := s.SelectedRecord()
	question, answer := "", s.Draft
	switch {
	case s.Selected != nil:
		question = s.Selected.Text
	case hasRec:
		question = rec.Question.Text
	}
	if answer == "" && hasRec {
		answer = rec.Answer
	}
	if question == "" {
		return share.Request{}, errorz.ErrNoQuestionSelected
	}

	if kind == ShareQuestion {
		return share.Request{Kind: share.KindQuestion, Question: question}, nil
	}
	return share.Request{Kind: share.KindQA, Question: question, Answer: answer}, nil
}

// resetTransient drops everything tied to the current selection or draft.
func resetTransient(s *schema.Session) {
	s.Draft = ""
	s.CustomQuestion = ""
	s.CustomTheme = schema.ThemeGray
	s.LastReaction = nil
	s.Selected = nil
	s.SelectedRecordID = ""
	s.EditTargetID = ""
}

func requireView(s *schema.Session, v schema.View) error {
	if s.View != v {
		return fmt.Errorf("%w: %s, want %s", errorz.ErrWrongView, s.View, v)
	}
	return nil
}

func requireSettings(s *schema.Session) error {
	if err := requireView(s, schema.ViewProfile); err != nil {
		return err
	}
	if s.Profile == nil {
		return errorz.ErrLoginRequired
	}
	return nil
}

func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
