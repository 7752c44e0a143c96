package ui

// UI-wide constants to avoid magic numbers/strings scattered across the codebase.

// Icons (emojis/symbols)
const (
	IconSettings = "⚙"
	IconFolder   = "📁"
	IconError    = "❌"
	IconDone     = "✔"
)

// Window sizing
const (
	WindowWidth  float32 = 640
	WindowHeight float32 = 320
	LogoSize     float32 = 32
)

// Text fragments
const (
	ProgressLabelFormat = "%.0f%%"
	ErrorTextFormat     = IconError + " %s"
	DoneTextFormat      = IconDone + " %s: %s"
)

// QualityBest is the quality option that lets the selector pick the highest label.
const QualityBest = ""
