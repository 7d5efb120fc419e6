package mocks

import "github.com/stretchr/testify/mock"

type MockMailManager struct {
	mock.Mock
}

func (m *MockMailManager) SendPasswordResetMail(email, name, resetToken string) error {
	args := m.Called(email, name, resetToken)
	return args.Error(0)
}
