package services

import (
	"context"

	"github.com/felixgeelhaar/cmas/internal/assessment/domain"
	"github.com/stretchr/testify/mock"
)

type mockSessionRepo struct {
	mock.Mock
}

func (m *mockSessionRepo) Save(ctx context.Context, session *domain.Session) error {
	return m.Called(ctx, session).Error(0)
}

func (m *mockSessionRepo) Load(ctx context.Context) (*domain.Session, error) {
	args := m.Called(ctx)
	session, _ := args.Get(0).(*domain.Session)
	return session, args.Error(1)
}

func (m *mockSessionRepo) Delete(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
