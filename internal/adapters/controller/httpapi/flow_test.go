package httpapi_test

import (
	"MindProfile/internal/adapters/controller/httpapi"
	"MindProfile/internal/adapters/provider"
	"MindProfile/internal/adapters/repository/memstate"
	"MindProfile/internal/domain/schema"
	"MindProfile/internal/domain/service/content"
	"MindProfile/internal/domain/service/session"
	"MindProfile/internal/domain/service/share"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"
)

var testNow = time.Date(2024, time.March, 9, 12, 0, 0, 0, time.UTC)

type counterIDs struct{ n atomic.Int64 }

func (c *counterIDs) NewID() string { return strconv.FormatInt(c.n.Add(1), 10) }

var _ = Describe("session flow over HTTP", func() {
	var (
		router *gin.Engine
		id     string
	)

	intent := func(body map[string]any) map[string]any {
		w := postJSON(router, "/api/v1/sessions/"+id+"/intents", body)
		ExpectWithOffset(1, w.Code).To(Equal(http.StatusOK), w.Body.String())
		return decode(w)
	}

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		logger := zap.NewNop()
		clock := clockwork.NewFakeClockAt(testNow)
		ids := &counterIDs{}
		ctl := session.NewController(
			session.NewStore(memstate.NewSessionStateRepo(time.Hour, clock)),
			content.New(provider.Disabled{}, ids, logger),
			share.New("https://mindprofile.app", logger),
			ids,
			logger,
			session.WithClock(clock),
		)
		router = httpapi.NewRouter(ctl, logger)

		w := postJSON(router, "/api/v1/sessions", map[string]any{"id": "web-1"})
		Expect(w.Code).To(Equal(http.StatusCreated))
		id = "web-1"
	})

	It("refuses to create over an existing session", func() {
		intent(map[string]any{"type": "intro_skip"})

		w := postJSON(router, "/api/v1/sessions", map[string]any{"id": id})
		Expect(w.Code).To(Equal(http.StatusConflict))

		w = httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/sessions/"+id, nil))
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(decode(w)["session"].(map[string]any)["intro_done"]).To(BeTrue())
	})

	It("answers a question with the fallback reaction and shares it", func() {
		intent(map[string]any{"type": "intro_skip"})
		resp := intent(map[string]any{"type": "start_answering"})
		Expect(resp["session"].(map[string]any)["login_prompt"]).To(BeTrue())

		w := postJSON(router, "/api/v1/sessions/"+id+"/intents", map[string]any{"type": "login", "text": "a"})
		Expect(w.Code).To(Equal(http.StatusUnprocessableEntity))

		resp = intent(map[string]any{"type": "login", "text": "봄날"})
		Expect(resp["session"].(map[string]any)["view"]).To(Equal(string(schema.ViewAnswer)))

		intent(map[string]any{"type": "set_draft", "text": "엄마"})
		resp = intent(map[string]any{"type": "submit"})
		s := resp["session"].(map[string]any)
		Expect(s["view"]).To(Equal(string(schema.ViewResult)))
		history := s["history"].([]any)
		Expect(history).To(HaveLen(1))
		reaction := history[0].(map[string]any)["reaction"].(map[string]any)
		Expect(reaction["emoji"]).To(Equal("✨"))

		resp = intent(map[string]any{"type": "share_qa"})
		Expect(resp["share"].(map[string]any)["text"]).To(ContainSubstring("A. 엄마"))
		Expect(resp["share"].(map[string]any)["copied"]).To(BeTrue())
		Expect(resp["session"].(map[string]any)["copy_status"]).To(Equal(string(schema.CopyStatusQA)))
	})

	It("requires confirmation before withdrawing", func() {
		intent(map[string]any{"type": "intro_skip"})
		intent(map[string]any{"type": "open_profile"})
		intent(map[string]any{"type": "login", "text": "봄날"})
		intent(map[string]any{"type": "open_profile"})

		resp := intent(map[string]any{"type": "withdraw"})
		Expect(resp["declined"]).To(BeTrue())
		Expect(resp["session"].(map[string]any)["profile"]).NotTo(BeNil())

		resp = intent(map[string]any{"type": "withdraw", "confirm": true})
		s := resp["session"].(map[string]any)
		Expect(s["profile"]).To(BeNil())
		Expect(s["friends"]).To(BeEmpty())
		Expect(s["notifications"]).To(BeEmpty())
	})

	It("rejects intents before the intro is done", func() {
		w := postJSON(router, "/api/v1/sessions/"+id+"/intents", map[string]any{"type": "next_slide"})
		Expect(w.Code).To(Equal(http.StatusConflict))
	})
})
