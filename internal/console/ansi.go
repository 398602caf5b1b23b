package console

// ANSI escape codes used by the renderer.
const (
	Reset  = "\033[0m"
	Bold   = "\033[1m"
	Red    = "\033[31m"
	Yellow = "\033[33m"
	Cyan   = "\033[36m"
)

// colorize wraps text in color when enabled is true.
func colorize(enabled bool, color, text string) string {
	if !enabled {
		return text
	}
	return color + text + Reset
}
