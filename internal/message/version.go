package message

import "strings"

// Protocol version numbers. A version is an int of the form MMmm0:
// 2700 == "2.7.0". The server speaks every version from VersionMin up.
const (
	VersionMin     = 1100 // oldest client the server still admits
	VersionCurrent = 2700

	// Thresholds at which newer encodings replaced older ones.
	VersionGameOptions         = 1200 // NEWGAMEWITHOPTIONS / GAMESWITHOPTIONS
	VersionSeaBoards           = 2000 // BOARDLAYOUT2, sea scenarios
	VersionDevCardRenumber     = 2000 // post-renumber dev card type constants
	VersionCompactTrades       = 2200 // single ACCEPTOFFER / BANKTRADE broadcast
	VersionBatchElements       = 2300 // PLAYERELEMENTS / GAMEELEMENTS batches
	VersionTypedRejects        = 2400 // DECLINEPLAYERREQUEST instead of keyed text
	VersionReportRobbery       = 2450 // REPORTROBBERY instead of server text
	VersionDiceResultResources = 2500 // bundled roll result
	VersionSimple              = 2500 // SIMPLEREQUEST / SIMPLEACTION
	VersionUndo                = 2600 // UNDOPUTPIECE / SETLASTACTION
)

// VersionString renders 2700 as "2.7.0".
func VersionString(v int) string {
	major := v / 1000
	minor := (v / 100) % 10
	patch := (v / 10) % 10
	return itoa(major) + "." + itoa(minor) + "." + itoa(patch)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var b [8]byte
	i := len(b)
	for n > 0 {
		i--
		b[i] = byte('0' + n%10)
		n /= 10
	}
	return string(b[i:])
}

// Features is the semicolon-separated client feature set from the VERSION
// handshake, e.g. "6pl;sb;sc=2700". Keys without '=' are boolean flags.
type Features map[string]string

const (
	Feat6Player  = "6pl" // six-player boards
	FeatSeaBoard = "sb"  // sea board layouts
	FeatScenario = "sc"  // scenario support, value = max scenario version
)

func ParseFeatures(s string) Features {
	f := Features{}
	for _, part := range strings.Split(s, ";") {
		if part == "" {
			continue
		}
		if k, v, ok := strings.Cut(part, "="); ok {
			f[k] = v
		} else {
			f[part] = ""
		}
	}
	return f
}

func (f Features) Has(key string) bool {
	_, ok := f[key]
	return ok
}

func (f Features) Value(key string) string {
	return f[key]
}

func (f Features) String() string {
	parts := make([]string, 0, len(f))
	for k, v := range f {
		if v == "" {
			parts = append(parts, k)
		} else {
			parts = append(parts, k+"="+v)
		}
	}
	// Deterministic order matters only for tests; sort cheaply.
	for i := 1; i < len(parts); i++ {
		for j := i; j > 0 && parts[j] < parts[j-1]; j-- {
			parts[j], parts[j-1] = parts[j-1], parts[j]
		}
	}
	return strings.Join(parts, ";")
}
