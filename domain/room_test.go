package domain

import (
	"testing"

	"chatline/errors"

	"github.com/stretchr/testify/require"
)

func TestDeriveRoomKey_Symmetric(t *testing.T) {
	req := require.New(t)

	// Given two users, whichever initiates
	key1, err1 := DeriveRoomKey(3, 7)
	key2, err2 := DeriveRoomKey(7, 3)

	// Then both derive the same canonical key
	req.NoError(err1)
	req.NoError(err2)
	req.Equal(RoomKey("3_7"), key1)
	req.Equal(key1, key2)
}

func TestDeriveRoomKey_SelfRoom(t *testing.T) {
	req := require.New(t)

	_, err := DeriveRoomKey(5, 5)

	req.ErrorIs(err, errors.ErrSelfRoom)
	req.ErrorIs(err, errors.ErrValidation)
}

func TestRoomKey_Participants(t *testing.T) {
	req := require.New(t)

	a, b, err := RoomKey("3_7").Participants()

	req.NoError(err)
	req.Equal(UserID(3), a)
	req.Equal(UserID(7), b)
}

func TestRoomKey_Participants_Malformed(t *testing.T) {
	req := require.New(t)

	for _, key := range []RoomKey{"", "3", "3_", "_7", "a_b", "7_3", "3_3", "3_7_9"} {
		_, _, err := key.Participants()
		req.ErrorIs(err, errors.ErrBadRoomKey, "key %q", key)
	}
}

func TestRoomKey_Other(t *testing.T) {
	req := require.New(t)
	key := RoomKey("3_7")

	other, ok := key.Other(3)
	req.True(ok)
	req.Equal(UserID(7), other)

	other, ok = key.Other(7)
	req.True(ok)
	req.Equal(UserID(3), other)

	// A stranger to the room has no counterpart
	_, ok = key.Other(9)
	req.False(ok)
}
