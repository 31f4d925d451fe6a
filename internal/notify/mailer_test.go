package notify

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestConsoleMailerKeepsRecentMessages(t *testing.T) {
	m := NewConsoleMailer("school@example.com", "Classroom", zap.NewNop())

	for i := 0; i < consoleKeep+5; i++ {
		require.NoError(t, m.Send(context.Background(), Message{To: "head@example.com", Subject: fmt.Sprintf("digest %d", i)}))
	}

	require.Len(t, m.Sent, consoleKeep)
	assert.Equal(t, "digest 5", m.Sent[0].Subject)
	assert.Equal(t, fmt.Sprintf("digest %d", consoleKeep+4), m.Sent[consoleKeep-1].Subject)
}

func TestNewMailerWithoutKeyLogsToConsole(t *testing.T) {
	m := NewMailer("", "school@example.com", "Classroom", zap.NewNop())
	_, ok := m.(*ConsoleMailer)
	assert.True(t, ok)
}
