package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(key string, qty int) LineItem {
	return LineItem{Key: key, Name: "Item " + key, Slug: "item-" + key, Price: 2.5, CountInStock: 10, Quantity: qty}
}

func keys(items []LineItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Key)
	}
	return out
}

func TestReduce_AddSameKeyTwiceKeepsOneEntryInPlace(t *testing.T) {
	s := Reduce(State{}, AddItem(item("A", 1)))
	s = Reduce(s, AddItem(item("B", 1)))
	second := item("A", 4)
	second.Name = "Renamed"
	s = Reduce(s, AddItem(second))
	s = Reduce(s, AddItem(second))

	require.Len(t, s.Cart.Items, 2)
	assert.Equal(t, []string{"A", "B"}, keys(s.Cart.Items))
	assert.Equal(t, second, s.Cart.Items[0])
}

func TestReduce_ReplacingPreservesOrder(t *testing.T) {
	s := State{}
	for _, k := range []string{"A", "B", "C"} {
		s = Reduce(s, AddItem(item(k, 1)))
	}
	s = Reduce(s, AddItem(item("B", 3)))

	assert.Equal(t, []string{"A", "B", "C"}, keys(s.Cart.Items))
	assert.Equal(t, 3, s.Cart.Items[1].Quantity)
}

func TestReduce_RemoveByKey(t *testing.T) {
	s := State{}
	all := []string{"A", "B", "C", "D"}
	for _, k := range all {
		s = Reduce(s, AddItem(item(k, 1)))
	}
	for _, k := range all {
		got := Reduce(s, RemoveItem(LineItem{Key: k}))
		require.Len(t, got.Cart.Items, len(all)-1)
		assert.NotContains(t, keys(got.Cart.Items), k)
	}
}

func TestReduce_RemoveMissingKeyIsNoop(t *testing.T) {
	s := Reduce(State{}, AddItem(item("A", 1)))
	got := Reduce(s, RemoveItem(LineItem{Key: "Z"}))
	assert.Equal(t, s.Cart.Items, got.Cart.Items)
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	s := Reduce(State{}, AddItem(item("A", 1)))
	s = Reduce(s, AddItem(item("B", 1)))
	before := s.Clone()

	_ = Reduce(s, AddItem(item("A", 9)))
	_ = Reduce(s, RemoveItem(item("B", 1)))
	_ = Reduce(s, ClearCart())

	assert.Equal(t, before, s)
}

func TestReduce_Theme(t *testing.T) {
	s := Reduce(State{}, ThemeOn())
	assert.True(t, s.DarkMode)
	s = Reduce(s, ThemeOff())
	assert.False(t, s.DarkMode)
}

func TestReduce_ClearAndPaymentMethod(t *testing.T) {
	s := Reduce(State{}, AddItem(item("A", 1)))
	s = Reduce(s, SavePaymentMethod(PaymentPayPal))
	s = Reduce(s, ClearCart())
	assert.Empty(t, s.Cart.Items)
	assert.Equal(t, PaymentPayPal, s.Cart.PaymentMethod)
}

func TestReduce_LogoutClearsIdentityAndCart(t *testing.T) {
	s := Reduce(State{}, Login(UserSession{ID: "u1", LastName: "Doe", RoomNumber: "101", Token: "t"}))
	s = Reduce(s, AddItem(item("A", 2)))
	s = Reduce(s, SavePaymentMethod(PaymentCash))
	require.NotNil(t, s.User)

	out := Reduce(s, Logout())
	assert.Nil(t, out.User)
	assert.Empty(t, out.Cart.Items)
	assert.Equal(t, PaymentUnset, out.Cart.PaymentMethod)

	kept := Policy{LogoutClearsPaymentMethod: false}.Reduce(s, Logout())
	assert.Nil(t, kept.User)
	assert.Empty(t, kept.Cart.Items)
	assert.Equal(t, PaymentCash, kept.Cart.PaymentMethod)
}

func TestReduce_LoginCopiesSession(t *testing.T) {
	u := UserSession{ID: "u1"}
	a := Login(u)
	s := Reduce(State{}, a)
	a.User.ID = "changed"
	assert.Equal(t, "u1", s.User.ID)
}

func TestReduce_UnknownActionReturnsSameState(t *testing.T) {
	s := Reduce(State{DarkMode: true}, Login(UserSession{ID: "u1"}))
	s = Reduce(s, AddItem(item("A", 1)))
	got := Reduce(s, Action{Type: "CART_ADD_ITEMS", Item: item("B", 1)})
	assert.Equal(t, s, got)
}
