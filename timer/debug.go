package timer

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

var (
	// debugPrintln is the debug sink, set by platform code (UART, USB, stderr)
	debugPrintln DebugWriter = func(s string) {}

	// Disabled by default so Delay and Wait loops stay tight
	debugEnabled bool
)

// SetDebugWriter sets the platform-specific debug output function
func SetDebugWriter(writer DebugWriter) {
	if writer == nil {
		writer = func(string) {}
	}
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// IsDebugEnabled returns whether debug output is enabled
func IsDebugEnabled() bool {
	return debugEnabled
}

// debugf writes the concatenated parts when debug output is enabled.
// No fmt here: it pulls too much into TinyGo images.
func debugf(parts ...string) {
	if !debugEnabled {
		return
	}
	msg := ""
	for _, p := range parts {
		msg += p
	}
	debugPrintln(msg)
}
