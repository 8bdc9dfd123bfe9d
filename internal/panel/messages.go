package panel

// Message identifies one of the fixed texts the panel can print.
type Message uint8

const (
	MessageBanner Message = iota
	MessageNoThunderstorm
	MessageKeyLegend
	MessageShortLegend
)

const banner = " _______ _                     _           _ \r\n" +
	"|__   __| |                   | |         | |\r\n" +
	"   | |  | |__  _   _ _ __   __| | ___ _ __| |\r\n" +
	"   | |  | '_ \\| | | | '_ \\ / _` |/ _ \\ '__| |\r\n" +
	"   | |  | | | | |_| | | | | (_| |  __/ |  |_|\r\n" +
	"   |_|  |_| |_|\\__,_|_| |_|\\__,_|\\___|_|  (_)\r\n" +
	"                          \x1b[32m(c) Nicola 2020\r\n"

// String returns the message text. Unknown values yield "".
func (m Message) String() string {
	switch m {
	case MessageBanner:
		return banner
	case MessageNoThunderstorm:
		return "No Thunderstorm."
	case MessageKeyLegend:
		return "T - Thunder   R - Reset Stats   W - Toggle Winter Mode"
	case MessageShortLegend:
		return "T - Thunder   R - Reset Stats"
	}
	return ""
}

// Mode is the sensor calibration setting shown on the panel.
type Mode bool

const (
	ModeSummer Mode = false
	ModeWinter Mode = true
)

func (m Mode) String() string {
	if m == ModeWinter {
		return "WINTER"
	}
	return "SUMMER"
}

// Toggle returns the other mode.
func (m Mode) Toggle() Mode {
	return !m
}
