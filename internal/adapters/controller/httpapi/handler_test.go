package httpapi_test

import (
	"MindProfile/internal/adapters/controller/httpapi"
	"MindProfile/internal/domain/errorz"
	"MindProfile/internal/domain/schema"
	"MindProfile/internal/domain/service/profile"
	"MindProfile/internal/domain/service/session"
	"MindProfile/internal/domain/service/share"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"
)

func postJSON(router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBuffer(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(w *httptest.ResponseRecorder) map[string]any {
	var resp map[string]any
	Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
	return resp
}

var _ = Describe("SessionHandler", func() {
	var (
		router *gin.Engine
		svc    *mockSessionService
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		svc = &mockSessionService{}
		router = httpapi.NewRouter(svc, zap.NewNop())
	})

	It("reports health", func() {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get(httpapi.HeaderRequestID)).NotTo(BeEmpty())
	})

	Describe("POST /api/v1/sessions", func() {
		It("returns 201 with the new session", func() {
			svc.createFn = func(_ context.Context, id string) (schema.Session, error) {
				Expect(id).To(BeEmpty())
				s, _ := session.NewState("abc", testNow)
				return s, nil
			}

			req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusCreated))
			s := decode(w)["session"].(map[string]any)
			Expect(s["id"]).To(Equal("abc"))
			Expect(s["view"]).To(Equal("HOME"))
			Expect(s["unread_notifications"]).To(BeNumerically("==", 2))
		})

		It("returns 409 when the id is taken", func() {
			svc.createFn = func(_ context.Context, id string) (schema.Session, error) {
				Expect(id).To(Equal("chat-1"))
				return schema.Session{}, fmt.Errorf("session %s: %w", id, errorz.ErrAlreadyExists)
			}

			w := postJSON(router, "/api/v1/sessions", map[string]any{"id": "chat-1"})

			Expect(w.Code).To(Equal(http.StatusConflict))
			Expect(decode(w)["error"]).To(ContainSubstring("already exists"))
		})

		It("returns 500 on store failure", func() {
			svc.createFn = func(context.Context, string) (schema.Session, error) {
				return schema.Session{}, errors.New("redis down")
			}

			w := postJSON(router, "/api/v1/sessions", map[string]any{})

			Expect(w.Code).To(Equal(http.StatusInternalServerError))
			Expect(decode(w)["error"]).To(Equal("internal error"))
		})
	})

	Describe("GET /api/v1/sessions/:id", func() {
		It("returns 404 for unknown sessions", func() {
			svc.getFn = func(_ context.Context, id string) (schema.Session, error) {
				return schema.Session{}, fmt.Errorf("session %s: %w", id, errorz.ErrNotFound)
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/sessions/missing", nil))

			Expect(w.Code).To(Equal(http.StatusNotFound))
		})
	})

	Describe("POST /api/v1/sessions/:id/intents", func() {
		It("maps the body to an intent and passes the confirmation flag", func() {
			svc.dispatchFn = func(ctx context.Context, id string, in session.Intent, caps session.Capabilities) (session.Result, error) {
				Expect(id).To(Equal("s1"))
				Expect(in.Kind).To(Equal(session.SetProfileTab))
				Expect(in.Tab).To(Equal(schema.ProfileTabFriends))
				Expect(caps.Confirm.Confirm(ctx, session.PromptLogout)).To(BeTrue())
				Expect(caps.Sharer).To(BeNil())
				return session.Result{Session: schema.Session{ID: id, ProfileTab: in.Tab}}, nil
			}

			w := postJSON(router, "/api/v1/sessions/s1/intents", map[string]any{
				"type": "set_profile_tab", "tab": "FRIENDS", "confirm": true,
			})

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(decode(w)["session"].(map[string]any)["profile_tab"]).To(Equal("FRIENDS"))
		})

		It("returns the share payload and alert", func() {
			svc.dispatchFn = func(context.Context, string, session.Intent, session.Capabilities) (session.Result, error) {
				return session.Result{
					Share: &share.Payload{Title: share.Title, Text: "[마음프로필]", URL: "https://mindprofile.app"},
					Alert: share.AlertCopyFailed,
				}, nil
			}

			w := postJSON(router, "/api/v1/sessions/s1/intents", map[string]any{"type": "share_profile"})

			Expect(w.Code).To(Equal(http.StatusOK))
			resp := decode(w)
			Expect(resp["alert"]).To(Equal(share.AlertCopyFailed))
			Expect(resp["share"].(map[string]any)["title"]).To(Equal(share.Title))
		})

		It("reports declined confirmations", func() {
			svc.dispatchFn = func(context.Context, string, session.Intent, session.Capabilities) (session.Result, error) {
				return session.Result{Declined: true, Prompt: session.PromptWithdraw}, nil
			}

			w := postJSON(router, "/api/v1/sessions/s1/intents", map[string]any{"type": "withdraw"})

			Expect(w.Code).To(Equal(http.StatusOK))
			resp := decode(w)
			Expect(resp["declined"]).To(BeTrue())
			Expect(resp["prompt"]).To(Equal(session.PromptWithdraw))
		})

		DescribeTable("maps errors to status codes",
			func(err error, status int) {
				svc.dispatchFn = func(context.Context, string, session.Intent, session.Capabilities) (session.Result, error) {
					return session.Result{}, err
				}
				w := postJSON(router, "/api/v1/sessions/s1/intents", map[string]any{"type": "submit"})
				Expect(w.Code).To(Equal(status))
			},
			Entry("invalid intent", errorz.ErrInvalidIntent, http.StatusBadRequest),
			Entry("unknown session", errorz.ErrNotFound, http.StatusNotFound),
			Entry("guard", errorz.ErrEmptyAnswer, http.StatusConflict),
			Entry("validation", errorz.NewValidationError("nickname", profile.MsgNicknameTooShort), http.StatusUnprocessableEntity),
			Entry("unexpected", errors.New("boom"), http.StatusInternalServerError),
		)

		It("returns the validation field", func() {
			svc.dispatchFn = func(context.Context, string, session.Intent, session.Capabilities) (session.Result, error) {
				return session.Result{}, errorz.NewValidationError("nickname", profile.MsgNicknameCharset)
			}

			w := postJSON(router, "/api/v1/sessions/s1/intents", map[string]any{"type": "save_profile"})

			resp := decode(w)
			Expect(resp["field"]).To(Equal("nickname"))
			Expect(resp["error"]).To(Equal(profile.MsgNicknameCharset))
		})

		It("returns 400 without a type", func() {
			w := postJSON(router, "/api/v1/sessions/s1/intents", map[string]any{"text": "hi"})
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("DELETE /api/v1/sessions/:id", func() {
		It("returns 204", func() {
			svc.closeFn = func(_ context.Context, id string) error {
				Expect(id).To(Equal("s1"))
				return nil
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v1/sessions/s1", nil))

			Expect(w.Code).To(Equal(http.StatusNoContent))
		})
	})
})
