// Package uaparse classifies raw User-Agent strings into browser,
// platform, and device families for click analytics.
package uaparse

import (
	"strings"

	"github.com/mileusna/useragent"
)

// Classification holds the parsed families of a User-Agent string.
// Each field is independently empty when unknown.
type Classification struct {
	Browser  string `json:"browser"`
	Platform string `json:"platform"`
	Device   string `json:"device"`
}

// Classify parses a raw User-Agent header value. It is pure and never
// fails: empty or unparseable input yields empty fields.
func Classify(raw string) Classification {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Classification{}
	}

	ua := useragent.Parse(raw)
	return Classification{
		Browser:  ua.Name,
		Platform: ua.OS,
		Device:   deviceFamily(ua),
	}
}

// deviceFamily returns the device model when the parser extracted one,
// falling back to the broad form-factor class.
func deviceFamily(ua useragent.UserAgent) string {
	if ua.Device != "" {
		return ua.Device
	}
	switch {
	case ua.Mobile:
		return "Mobile"
	case ua.Tablet:
		return "Tablet"
	case ua.Desktop:
		return "Desktop"
	case ua.Bot:
		return "Bot"
	}
	return ""
}
