package store

// ActionType names a transition. Types outside the constants below are ignored.
type ActionType string

const (
	ActionThemeOn           ActionType = "THEME_ON"
	ActionThemeOff          ActionType = "THEME_OFF"
	ActionCartAddItem       ActionType = "CART_ADD_ITEM"
	ActionCartRemoveItem    ActionType = "CART_REMOVE_ITEM"
	ActionCartClear         ActionType = "CART_CLEAR"
	ActionSavePaymentMethod ActionType = "SAVE_PAYMENT_METHOD"
	ActionUserLogin         ActionType = "USER_LOGIN"
	ActionUserLogout        ActionType = "USER_LOGOUT"
)

// Action is a named transition plus whichever payload field its type reads.
type Action struct {
	Type          ActionType
	Item          LineItem
	PaymentMethod PaymentMethod
	User          *UserSession
}

// ThemeOn switches the storefront to dark mode.
func ThemeOn() Action { return Action{Type: ActionThemeOn} }

// ThemeOff switches the storefront back to light mode.
func ThemeOff() Action { return Action{Type: ActionThemeOff} }

// AddItem upserts item by key. The caller passes the full desired quantity.
func AddItem(item LineItem) Action { return Action{Type: ActionCartAddItem, Item: item} }

// RemoveItem drops the cart line with item's key. Other fields are ignored.
func RemoveItem(item LineItem) Action { return Action{Type: ActionCartRemoveItem, Item: item} }

// ClearCart empties the cart items and keeps the payment method.
func ClearCart() Action { return Action{Type: ActionCartClear} }

// SavePaymentMethod records the checkout payment choice.
func SavePaymentMethod(m PaymentMethod) Action {
	return Action{Type: ActionSavePaymentMethod, PaymentMethod: m}
}

// Login replaces the session user with u.
func Login(u UserSession) Action { return Action{Type: ActionUserLogin, User: &u} }

// Logout drops the user and the cart items.
func Logout() Action { return Action{Type: ActionUserLogout} }
