package astispeak

import (
	"math"
	"runtime"
)

// Platforms
const (
	PlatformDarwin  = "darwin"
	PlatformLinux   = "linux"
	PlatformWindows = "windows"
)

// profile binds a platform to its speech command and speaking-rate baseline
type profile struct {
	baseRate int
	binary   string
	export   bool
	platform string
}

var profiles = map[string]profile{
	PlatformDarwin:  {baseRate: 175, binary: "say", export: true, platform: PlatformDarwin},
	PlatformLinux:   {baseRate: 100, binary: "festival", platform: PlatformLinux},
	PlatformWindows: {binary: "powershell", platform: PlatformWindows},
}

// SupportedPlatforms returns the platforms a profile exists for
func SupportedPlatforms() []string {
	return []string{PlatformDarwin, PlatformLinux, PlatformWindows}
}

// DefaultPlatform returns the platform of the host
func DefaultPlatform() string {
	return runtime.GOOS
}

// newProfile returns the profile of a platform
func newProfile(platform string) (p profile, err error) {
	var ok bool
	if p, ok = profiles[platform]; !ok {
		err = UnsupportedPlatformError{Platform: platform}
		return
	}
	return
}

// convertSpeed converts a speed factor into a speaking rate
func (p profile) convertSpeed(speed float64) int {
	return int(math.Ceil(float64(p.baseRate) * speed))
}
