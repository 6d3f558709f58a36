package icons

const (
	IconSuccess    = "✓"
	IconError      = "⚠"
	IconSuperseded = "↷"
	IconSelect     = "▸"
	IconLive       = "●"
	IconOffline    = "○"
	IconSeparator  = " · "
)

// Status maps a history status to its icon
func Status(status string) string {
	switch status {
	case "error":
		return IconError
	case "superseded":
		return IconSuperseded
	default:
		return IconSuccess
	}
}
