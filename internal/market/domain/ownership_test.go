package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestItemOwnedBy(t *testing.T) {
	alice := User{ID: "01A", Username: "alice"}
	bob := User{ID: "01B", Username: "bob"}
	item := Item{ID: "item-1", SellerID: alice.ID}

	require.True(t, item.OwnedBy(alice))
	require.False(t, item.OwnedBy(bob))
	require.False(t, item.OwnedBy(User{}), "anonymous user owns nothing")
	require.False(t, Item{}.OwnedBy(User{}), "empty ids never match")
}

func TestCommentOwnedBy(t *testing.T) {
	alice := User{ID: "01A"}
	comment := Comment{ID: "c-1", AuthorID: alice.ID}

	require.True(t, comment.OwnedBy(alice))
	require.False(t, comment.OwnedBy(User{ID: "01B"}))
}
