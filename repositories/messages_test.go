package repositories

import (
	"fmt"
	"testing"

	"chatline/errors"

	"github.com/stretchr/testify/require"
)

func TestAppendMessage_AssignsIncreasingIDs(t *testing.T) {
	req := require.New(t)
	store := newTestStore(t)
	alice := newTestUser(t, store, "Alice", "alice@example.com")
	bob := newTestUser(t, store, "Bob", "bob@example.com")
	room, err := store.CreateOrGetRoom(alice, bob)
	req.NoError(err)

	first, err := store.AppendMessage(room.Key, alice, "hello")
	req.NoError(err)
	second, err := store.AppendMessage(room.Key, bob, "hi back")
	req.NoError(err)

	req.Greater(second.ID, first.ID)
	req.Equal(room.Key, first.Room)
	req.Nil(first.ReadAt)
	req.True(first.Unread())
}

func TestAppendMessage_EmptyBody(t *testing.T) {
	req := require.New(t)
	store := newTestStore(t)
	alice := newTestUser(t, store, "Alice", "alice@example.com")
	bob := newTestUser(t, store, "Bob", "bob@example.com")
	room, err := store.CreateOrGetRoom(alice, bob)
	req.NoError(err)

	_, err = store.AppendMessage(room.Key, alice, "   ")

	req.ErrorIs(err, errors.ErrEmptyBody)
}

func TestAppendMessage_BumpsRoomActivity(t *testing.T) {
	req := require.New(t)
	store := newTestStore(t)
	alice := newTestUser(t, store, "Alice", "alice@example.com")
	bob := newTestUser(t, store, "Bob", "bob@example.com")
	room, err := store.CreateOrGetRoom(alice, bob)
	req.NoError(err)

	message, err := store.AppendMessage(room.Key, alice, "hello")
	req.NoError(err)

	after, err := store.GetRoom(room.Key)
	req.NoError(err)
	req.Equal(message.SentAt, after.LastActivity)
}

func TestListByRoom_NewestFirstWithStableTieBreak(t *testing.T) {
	req := require.New(t)
	store := newTestStore(t)
	alice := newTestUser(t, store, "Alice", "alice@example.com")
	bob := newTestUser(t, store, "Bob", "bob@example.com")
	room, err := store.CreateOrGetRoom(alice, bob)
	req.NoError(err)

	// Appends land within the same millisecond on a fast machine, so the
	// id tie-break is what keeps the order deterministic.
	for i := 0; i < 5; i++ {
		_, err := store.AppendMessage(room.Key, alice, fmt.Sprintf("message %d", i))
		req.NoError(err)
	}

	messages, err := store.ListByRoom(room.Key, 0, 0)
	req.NoError(err)
	req.Len(messages, 5)
	for i := 1; i < len(messages); i++ {
		req.Greater(messages[i-1].ID, messages[i].ID)
	}
	req.Equal("message 4", messages[0].Body)
}

func TestListByRoom_Pagination(t *testing.T) {
	req := require.New(t)
	store := newTestStore(t)
	alice := newTestUser(t, store, "Alice", "alice@example.com")
	bob := newTestUser(t, store, "Bob", "bob@example.com")
	room, err := store.CreateOrGetRoom(alice, bob)
	req.NoError(err)

	for i := 0; i < 7; i++ {
		_, err := store.AppendMessage(room.Key, alice, fmt.Sprintf("message %d", i))
		req.NoError(err)
	}

	page1, err := store.ListByRoom(room.Key, 3, 0)
	req.NoError(err)
	page2, err := store.ListByRoom(room.Key, 3, 3)
	req.NoError(err)
	page3, err := store.ListByRoom(room.Key, 3, 6)
	req.NoError(err)

	req.Len(page1, 3)
	req.Len(page2, 3)
	req.Len(page3, 1)
	req.Equal("message 6", page1[0].Body)
	req.Equal("message 0", page3[0].Body)

	// Out-of-range paging values normalize instead of failing
	normalized, err := store.ListByRoom(room.Key, -5, -5)
	req.NoError(err)
	req.Len(normalized, 7)

	beyond, err := store.ListByRoom(room.Key, 10, 100)
	req.NoError(err)
	req.Empty(beyond)
}

func TestMarkRead_MarksOnlyPeerMessages(t *testing.T) {
	req := require.New(t)
	store := newTestStore(t)
	alice := newTestUser(t, store, "Alice", "alice@example.com")
	bob := newTestUser(t, store, "Bob", "bob@example.com")
	room, err := store.CreateOrGetRoom(alice, bob)
	req.NoError(err)

	// Given two messages from Alice and one from Bob
	_, err = store.AppendMessage(room.Key, alice, "one")
	req.NoError(err)
	_, err = store.AppendMessage(room.Key, alice, "two")
	req.NoError(err)
	_, err = store.AppendMessage(room.Key, bob, "three")
	req.NoError(err)

	// When Bob marks the room read
	marked, err := store.MarkRead(room.Key, bob)
	req.NoError(err)

	// Then only Alice's messages flip; Bob's own stays unread for Alice
	req.Equal(int64(2), marked)

	unreadForBob, err := store.CountUnreadInRoom(room.Key, bob)
	req.NoError(err)
	req.Zero(unreadForBob)

	unreadForAlice, err := store.CountUnreadInRoom(room.Key, alice)
	req.NoError(err)
	req.Equal(int64(1), unreadForAlice)
}

func TestMarkRead_Idempotent(t *testing.T) {
	req := require.New(t)
	store := newTestStore(t)
	alice := newTestUser(t, store, "Alice", "alice@example.com")
	bob := newTestUser(t, store, "Bob", "bob@example.com")
	room, err := store.CreateOrGetRoom(alice, bob)
	req.NoError(err)

	_, err = store.AppendMessage(room.Key, alice, "hello")
	req.NoError(err)

	marked, err := store.MarkRead(room.Key, bob)
	req.NoError(err)
	req.Equal(int64(1), marked)

	// A second pass finds nothing left to mark
	marked, err = store.MarkRead(room.Key, bob)
	req.NoError(err)
	req.Zero(marked)
}

func TestCountUnreadForUser_SumsAcrossRooms(t *testing.T) {
	req := require.New(t)
	store := newTestStore(t)
	alice := newTestUser(t, store, "Alice", "alice@example.com")
	bob := newTestUser(t, store, "Bob", "bob@example.com")
	carol := newTestUser(t, store, "Carol", "carol@example.com")

	roomAB, err := store.CreateOrGetRoom(alice, bob)
	req.NoError(err)
	roomAC, err := store.CreateOrGetRoom(alice, carol)
	req.NoError(err)

	_, err = store.AppendMessage(roomAB.Key, bob, "from bob")
	req.NoError(err)
	_, err = store.AppendMessage(roomAC.Key, carol, "from carol")
	req.NoError(err)
	_, err = store.AppendMessage(roomAC.Key, carol, "again")
	req.NoError(err)

	// The total equals the sum of the per-room counts
	total, err := store.CountUnreadForUser(alice)
	req.NoError(err)
	inAB, err := store.CountUnreadInRoom(roomAB.Key, alice)
	req.NoError(err)
	inAC, err := store.CountUnreadInRoom(roomAC.Key, alice)
	req.NoError(err)

	req.Equal(int64(3), total)
	req.Equal(total, inAB+inAC)

	// Alice's own sends never count against her
	_, err = store.AppendMessage(roomAB.Key, alice, "reply")
	req.NoError(err)
	total, err = store.CountUnreadForUser(alice)
	req.NoError(err)
	req.Equal(int64(3), total)
}

func TestListByRoom_ReadAtSurvivesRoundTrip(t *testing.T) {
	req := require.New(t)
	store := newTestStore(t)
	alice := newTestUser(t, store, "Alice", "alice@example.com")
	bob := newTestUser(t, store, "Bob", "bob@example.com")
	room, err := store.CreateOrGetRoom(alice, bob)
	req.NoError(err)

	_, err = store.AppendMessage(room.Key, alice, "hello")
	req.NoError(err)
	_, err = store.MarkRead(room.Key, bob)
	req.NoError(err)

	messages, err := store.ListByRoom(room.Key, 0, 0)
	req.NoError(err)
	req.Len(messages, 1)
	req.NotNil(messages[0].ReadAt)
	req.False(messages[0].Unread())
	req.False(messages[0].ReadAt.Before(messages[0].SentAt))
}
