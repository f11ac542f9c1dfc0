package presence

import (
	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/mock"
)

// MockStatusUpdater implements StatusUpdater for testing
type MockStatusUpdater struct {
	mock.Mock
}

// UpdateStatusComplex mocks the gateway presence update
func (m *MockStatusUpdater) UpdateStatusComplex(usd discordgo.UpdateStatusData) error {
	args := m.Called(usd)
	return args.Error(0)
}
