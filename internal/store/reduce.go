package store

// Policy carries the reducer choices that differ between deployments.
type Policy struct {
	// LogoutClearsPaymentMethod also resets the saved payment method on logout.
	LogoutClearsPaymentMethod bool
}

// DefaultPolicy clears the payment method on logout.
var DefaultPolicy = Policy{LogoutClearsPaymentMethod: true}

// Reduce applies a using DefaultPolicy.
func Reduce(s State, a Action) State {
	return DefaultPolicy.Reduce(s, a)
}

// Reduce returns the state after a. It never mutates s: every cart change
// produces a fresh slice. Unknown action types return s unchanged.
func (p Policy) Reduce(s State, a Action) State {
	switch a.Type {
	case ActionThemeOn:
		s.DarkMode = true
		return s
	case ActionThemeOff:
		s.DarkMode = false
		return s
	case ActionCartAddItem:
		s.Cart.Items = upsert(s.Cart.Items, a.Item)
		return s
	case ActionCartRemoveItem:
		s.Cart.Items = without(s.Cart.Items, a.Item.Key)
		return s
	case ActionCartClear:
		s.Cart.Items = []LineItem{}
		return s
	case ActionSavePaymentMethod:
		s.Cart.PaymentMethod = a.PaymentMethod
		return s
	case ActionUserLogin:
		if a.User != nil {
			u := *a.User
			s.User = &u
		}
		return s
	case ActionUserLogout:
		s.User = nil
		s.Cart.Items = []LineItem{}
		if p.LogoutClearsPaymentMethod {
			s.Cart.PaymentMethod = PaymentUnset
		}
		return s
	default:
		return s
	}
}

// upsert replaces the entry sharing item's key in place, or appends.
func upsert(items []LineItem, item LineItem) []LineItem {
	out := make([]LineItem, 0, len(items)+1)
	replaced := false
	for _, it := range items {
		if it.Key == item.Key {
			out = append(out, item)
			replaced = true
			continue
		}
		out = append(out, it)
	}
	if !replaced {
		out = append(out, item)
	}
	return out
}

func without(items []LineItem, key string) []LineItem {
	out := make([]LineItem, 0, len(items))
	for _, it := range items {
		if it.Key != key {
			out = append(out, it)
		}
	}
	return out
}

// persisted reports whether a's result is mirrored to durable storage.
func persisted(t ActionType) bool {
	switch t {
	case ActionThemeOn, ActionThemeOff, ActionCartAddItem, ActionCartRemoveItem,
		ActionSavePaymentMethod, ActionUserLogin:
		return true
	}
	return false
}

func known(t ActionType) bool {
	switch t {
	case ActionCartClear, ActionUserLogout:
		return true
	}
	return persisted(t)
}
