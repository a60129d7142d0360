package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversationID(t *testing.T) {
	tests := []struct {
		name  string
		userA uint
		userB uint
		jobID uint
		want  string
	}{
		{"ordered pair", 3, 4, 1, "u3u4j1"},
		{"reversed pair is normalized", 8, 2, 2, "u2u8j2"},
		{"large ids", 102, 88, 3, "u88u102j3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ConversationID(tt.userA, tt.userB, tt.jobID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConversationIDCommutative(t *testing.T) {
	pairs := [][3]uint{{1, 2, 1}, {10, 7, 42}, {5, 900, 3}}

	for _, p := range pairs {
		ab, err := ConversationID(p[0], p[1], p[2])
		require.NoError(t, err)
		ba, err := ConversationID(p[1], p[0], p[2])
		require.NoError(t, err)
		assert.Equal(t, ab, ba)
	}
}

func TestConversationIDSameParticipant(t *testing.T) {
	_, err := ConversationID(7, 7, 1)
	assert.ErrorIs(t, err, ErrSameParticipant)

	_, err = NewConversation(7, 7, 1)
	assert.ErrorIs(t, err, ErrSameParticipant)
}

func TestNewConversation(t *testing.T) {
	conv, err := NewConversation(9, 4, 12)
	require.NoError(t, err)

	assert.Equal(t, "u4u9j12", conv.ID)
	assert.Equal(t, uint(4), conv.UserLow)
	assert.Equal(t, uint(9), conv.UserHigh)
	assert.Equal(t, uint(12), conv.JobID)
}
