package observability

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeySubscriptionID = "subscription_id"
	KeyEvent          = "event"
	KeyTarget         = "target"
	KeyStoreKey       = "store_key"
	KeyBackend        = "backend"
	KeyError          = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func SubscriptionID(id string) slog.Attr { return slog.String(KeySubscriptionID, id) }
func Event(name string) slog.Attr        { return slog.String(KeyEvent, name) }
func Target(kind string) slog.Attr       { return slog.String(KeyTarget, kind) }
func StoreKey(key string) slog.Attr      { return slog.String(KeyStoreKey, key) }
func Backend(name string) slog.Attr      { return slog.String(KeyBackend, name) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
