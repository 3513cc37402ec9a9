package tracking

import (
	"time"

	"github.com/mssola/useragent"
)

// Kind enumerates the visitor events the funnel emits.
type Kind string

const (
	KindPageview Kind = "pageview"
	KindSearch   Kind = "search"
	KindCheckout Kind = "checkout"
	KindPurchase Kind = "purchase"
)

func (k Kind) Valid() bool {
	switch k {
	case KindPageview, KindSearch, KindCheckout, KindPurchase:
		return true
	}
	return false
}

// Event is a single inbound visitor action.
type Event struct {
	Kind       Kind
	URL        string
	RemoteAddr string
	UserAgent  string
	Meta       map[string]any
}

// Device is classification parsed from the user-agent string.
type Device struct {
	Browser string `json:"browser"`
	OS      string `json:"os"`
	Type    string `json:"type"` // mobile, desktop, tablet, bot
}

// Visitor is one live session record as exposed to the dashboard.
type Visitor struct {
	Key        string         `json:"key"`
	RemoteAddr string         `json:"ip"`
	UserAgent  string         `json:"user_agent"`
	Device     Device         `json:"device"`
	Kind       Kind           `json:"type"`
	Page       string         `json:"url"`
	Meta       map[string]any `json:"meta"`
	FirstSeen  time.Time      `json:"first_seen"`
	LastSeen   time.Time      `json:"last_seen"`
}

// ParseDevice classifies a raw user-agent string.
func ParseDevice(ua string) Device {
	parsed := useragent.New(ua)

	browser, version := parsed.Browser()
	if version != "" {
		browser = browser + " " + version
	}

	osInfo := parsed.OSInfo()
	os := osInfo.Name
	if osInfo.Version != "" {
		os = os + " " + osInfo.Version
	}

	deviceType := "desktop"
	switch {
	case parsed.Bot():
		deviceType = "bot"
	case parsed.Mobile():
		deviceType = "mobile"
	}

	return Device{
		Browser: browser,
		OS:      os,
		Type:    deviceType,
	}
}
