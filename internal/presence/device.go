package presence

import (
	"strings"

	"github.com/mssola/useragent"
)

const unknownDevice = "Unknown Device"

// DeviceLabel renders a short "Browser on OS" label from a User-Agent header.
func DeviceLabel(userAgent string) string {
	userAgent = strings.TrimSpace(userAgent)
	if userAgent == "" {
		return unknownDevice
	}
	ua := useragent.New(userAgent)
	browser, _ := ua.Browser()
	if browser == "" {
		browser = "Unknown Browser"
	}
	osName := ua.OS()
	if osName == "" {
		osName = ua.Platform()
	}
	if osName == "" {
		osName = "Unknown OS"
	}
	label := browser + " on " + osName
	if ua.Mobile() {
		label += " (mobile)"
	}
	return strings.Join(strings.Fields(label), " ")
}
