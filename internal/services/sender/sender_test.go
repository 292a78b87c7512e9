package sender

import (
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carbuddy/backend/internal/lib/smtp"
	"github.com/carbuddy/backend/internal/models"
)

type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Connect() (smtp.Client, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(smtp.Client), args.Error(1)
}

func (m *MockTransport) GetSMTPUser() string {
	args := m.Called()
	return args.String(0)
}

type MockSMTPClient struct {
	mock.Mock
}

func (m *MockSMTPClient) Mail(from string) error {
	args := m.Called(from)
	return args.Error(0)
}

func (m *MockSMTPClient) Rcpt(to string) error {
	args := m.Called(to)
	return args.Error(0)
}

func (m *MockSMTPClient) Data() (io.WriteCloser, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.WriteCloser), args.Error(1)
}

func (m *MockSMTPClient) Close() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockSMTPClient) Quit() error {
	args := m.Called()
	return args.Error(0)
}

// CaptureWriter накапливает тело письма для проверок.
type CaptureWriter struct {
	strings.Builder
}

func (w *CaptureWriter) Close() error { return nil }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSendFluidCheckReminder(t *testing.T) {
	transport := new(MockTransport)
	client := new(MockSMTPClient)
	writer := &CaptureWriter{}
	service := NewSenderService(transport, discardLogger())

	transport.On("GetSMTPUser").Return("noreply@carbuddy.io")
	transport.On("Connect").Return(client, nil)
	client.On("Mail", "noreply@carbuddy.io").Return(nil)
	client.On("Rcpt", "a@b.com").Return(nil)
	client.On("Data").Return(writer, nil)
	client.On("Quit").Return(nil)
	client.On("Close").Return(nil)

	event := models.ReminderEvent{
		Email:     "a@b.com",
		Name:      "Alice",
		CarMake:   "Toyota",
		CarModel:  "Corolla",
		NextCheck: time.Date(2024, 1, 29, 8, 0, 0, 0, time.UTC),
	}
	body, err := json.Marshal(event)
	require.NoError(t, err)

	require.NoError(t, service.SendFluidCheckReminder(body))

	sent := writer.String()
	assert.Contains(t, sent, "To: a@b.com")
	assert.Contains(t, sent, "Toyota Corolla")
	assert.Contains(t, sent, "29.01.2024")
	client.AssertExpectations(t)
}

func TestSendFluidCheckReminder_BadPayload(t *testing.T) {
	transport := new(MockTransport)
	service := NewSenderService(transport, discardLogger())

	err := service.SendFluidCheckReminder([]byte("{not json"))
	assert.Error(t, err)
	transport.AssertNotCalled(t, "Connect")
}
