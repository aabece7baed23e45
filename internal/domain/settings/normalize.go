package settings

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/GriffinCanCode/SessionKeeper/internal/shared/types"
)

// Field ranges
const (
	MinInterval    = 1
	MaxInterval    = 1440
	MinMaxSessions = 1
	MaxMaxSessions = 200
)

var leadingInt = regexp.MustCompile(`^[+-]?\d+`)

// Defaults returns the settings used when nothing is stored
func Defaults() types.Settings {
	return types.Settings{
		AutosaveEnabled:         false,
		AutosaveIntervalMinutes: 1,
		MaxSessions:             5,
	}
}

// Merge applies the non-nil fields of patch onto base and normalizes the result
func Merge(base types.Settings, patch types.SettingsPatch) types.Settings {
	out := base
	if patch.AutosaveEnabled != nil {
		out.AutosaveEnabled = Truthy(patch.AutosaveEnabled)
	}
	if patch.AutosaveIntervalMinutes != nil {
		out.AutosaveIntervalMinutes = ClampInt(patch.AutosaveIntervalMinutes, MinInterval, MaxInterval)
	}
	if patch.MaxSessions != nil {
		out.MaxSessions = ClampInt(patch.MaxSessions, MinMaxSessions, MaxMaxSessions)
	}
	return Normalize(out)
}

// Normalize clamps every field into its valid range
func Normalize(s types.Settings) types.Settings {
	s.AutosaveIntervalMinutes = clamp(s.AutosaveIntervalMinutes, MinInterval, MaxInterval)
	s.MaxSessions = clamp(s.MaxSessions, MinMaxSessions, MaxMaxSessions)
	return s
}

// ClampInt reads the integer prefix of v and clamps it to [min, max].
// Fractions truncate toward zero, strings contribute their leading integer
// ("12abc" is 12), and anything without one yields min.
func ClampInt(v any, min, max int) int {
	n, ok := leadingInteger(v)
	if !ok {
		return min
	}
	switch {
	case n < float64(min):
		return min
	case n > float64(max):
		return max
	default:
		return int(n)
	}
}

// Truthy reports whether v counts as enabled: false, zero, NaN, "" and nil
// do not; everything else does.
func Truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case float64:
		return x != 0 && !math.IsNaN(x)
	case float32:
		return x != 0 && !math.IsNaN(float64(x))
	case int:
		return x != 0
	case int64:
		return x != 0
	case json.Number:
		f, err := x.Float64()
		return err != nil || f != 0
	default:
		return true
	}
}

// leadingInteger returns the integer part of v as a float so that huge
// inputs clamp instead of overflowing.
func leadingInteger(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case float32:
		return floatPrefix(float64(x))
	case float64:
		return floatPrefix(x)
	case json.Number:
		return stringPrefix(x.String())
	case string:
		return stringPrefix(x)
	default:
		return 0, false
	}
}

// floatPrefix mirrors reading a number back from its shortest decimal
// text: very large and very small magnitudes print in exponent form, so
// only the mantissa's leading digit survives.
func floatPrefix(f float64) (float64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	abs := math.Abs(f)
	if abs >= 1e21 || (abs != 0 && abs < 1e-6) {
		return stringPrefix(strconv.FormatFloat(f, 'e', -1, 64))
	}
	return math.Trunc(f), true
}

func stringPrefix(s string) (float64, bool) {
	m := leadingInt.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func clamp(n, min, max int) int {
	if n < min {
		return min
	}
	if n > max {
		return max
	}
	return n
}
