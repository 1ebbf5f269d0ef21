package security

import (
	"strings"

	"github.com/arklim/estate-platform-auth/internal/core/domain"
)

// DeviceInfo is the device metadata derived from a raw user-agent string.
type DeviceInfo struct {
	Type    domain.DeviceType
	Browser string
	OS      string
}

// ParseUserAgent classifies a user-agent string with substring heuristics.
// Match order matters: Edge UAs contain "chrome", Opera UAs contain both,
// iPads report "mobile", so the more specific token is always checked first.
func ParseUserAgent(ua string) DeviceInfo {
	lower := strings.ToLower(ua)

	info := DeviceInfo{
		Type:    domain.DeviceDesktop,
		Browser: "unknown",
		OS:      "unknown",
	}

	switch {
	case strings.Contains(lower, "ipad") || strings.Contains(lower, "tablet"):
		info.Type = domain.DeviceTablet
	case strings.Contains(lower, "mobile") || strings.Contains(lower, "android") || strings.Contains(lower, "iphone"):
		info.Type = domain.DeviceMobile
	}

	switch {
	case strings.Contains(lower, "edg"):
		info.Browser = "edge"
	case strings.Contains(lower, "opr") || strings.Contains(lower, "opera"):
		info.Browser = "opera"
	case strings.Contains(lower, "chrome"):
		info.Browser = "chrome"
	case strings.Contains(lower, "safari"):
		info.Browser = "safari"
	case strings.Contains(lower, "firefox"):
		info.Browser = "firefox"
	}

	switch {
	case strings.Contains(lower, "android"):
		info.OS = "android"
	case strings.Contains(lower, "iphone") || strings.Contains(lower, "ipad") || strings.Contains(lower, "ios"):
		info.OS = "ios"
	case strings.Contains(lower, "windows"):
		info.OS = "windows"
	case strings.Contains(lower, "mac os") || strings.Contains(lower, "macintosh"):
		info.OS = "macos"
	case strings.Contains(lower, "linux"):
		info.OS = "linux"
	}

	return info
}
