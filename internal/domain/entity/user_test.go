package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewUser_DefaultState(t *testing.T) {
	u := NewUser(1, 10)
	require.Equal(t, StateMainMenu, u.State)
	require.Equal(t, int64(1), u.ID)
	require.Equal(t, int64(10), u.ChatID)
	require.Nil(t, u.LastSummary)
}

func TestUser_RecordInspection(t *testing.T) {
	u := NewUser(1, 10)
	u.SetState(StateProcessing)

	u.RecordInspection(Summary{TotalDefects: 2})
	require.Equal(t, StateMainMenu, u.State)
	require.Equal(t, 1, u.Inspections)
	require.Equal(t, 2, u.LastSummary.TotalDefects)
}
