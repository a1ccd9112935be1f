package httpapi_test

import (
	"MindProfile/internal/domain/schema"
	"MindProfile/internal/domain/service/session"
	"context"
)

type mockSessionService struct {
	createFn   func(ctx context.Context, id string) (schema.Session, error)
	getFn      func(ctx context.Context, id string) (schema.Session, error)
	dispatchFn func(ctx context.Context, id string, in session.Intent, caps session.Capabilities) (session.Result, error)
	closeFn    func(ctx context.Context, id string) error
}

func (m *mockSessionService) Create(ctx context.Context, id string) (schema.Session, error) {
	return m.createFn(ctx, id)
}

func (m *mockSessionService) Get(ctx context.Context, id string) (schema.Session, error) {
	return m.getFn(ctx, id)
}

func (m *mockSessionService) Dispatch(ctx context.Context, id string, in session.Intent, caps session.Capabilities) (session.Result, error) {
	return m.dispatchFn(ctx, id, in, caps)
}

func (m *mockSessionService) Close(ctx context.Context, id string) error {
	return m.closeFn(ctx, id)
}
