package domain

// Theme is the UI color scheme, persisted so it survives reloads.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

func (t Theme) IsValid() bool {
	return t == ThemeLight || t == ThemeDark
}

// Permission mirrors the browser notification permission state machine.
// Anything but granted keeps the reminder scheduler quiescent; denied is a
// normal state, never an error.
type Permission string

const (
	PermissionDefault Permission = "default"
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

func (p Permission) IsValid() bool {
	switch p {
	case PermissionDefault, PermissionGranted, PermissionDenied:
		return true
	default:
		return false
	}
}

// Prefs bundles the per-user preference state exposed to the UI.
type Prefs struct {
	Theme        Theme      `json:"theme"`
	Notification Permission `json:"notification_permission"`
}
