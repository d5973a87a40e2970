package keys

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknown is returned by Parse for names it does not know.
var ErrUnknown = errors.New("keys: unknown key")

// names lists canonical names first; later entries for the same code are aliases.
var names = []struct {
	name string
	code Code
}{
	{"NO", No}, {"XXXXXXX", No},
	{"A", A}, {"B", B}, {"C", C}, {"D", D}, {"E", E}, {"F", F}, {"G", G},
	{"H", H}, {"I", I}, {"J", J}, {"K", K}, {"L", L}, {"M", M}, {"N", N},
	{"O", O}, {"P", P}, {"Q", Q}, {"R", R}, {"S", S}, {"T", T}, {"U", U},
	{"V", V}, {"W", W}, {"X", X}, {"Y", Y}, {"Z", Z},
	{"N1", N1}, {"N2", N2}, {"N3", N3}, {"N4", N4}, {"N5", N5},
	{"N6", N6}, {"N7", N7}, {"N8", N8}, {"N9", N9}, {"N0", N0},
	{"ENTER", Enter}, {"ENT", Enter},
	{"ESCAPE", Escape}, {"ESC", Escape},
	{"BSPACE", Backspace}, {"BSPC", Backspace},
	{"TAB", Tab},
	{"SPACE", Space}, {"SPC", Space},
	{"MINUS", Minus}, {"MINS", Minus},
	{"EQUAL", Equal}, {"EQL", Equal},
	{"DOT", Dot},
	{"F1", F1}, {"F2", F2}, {"F3", F3}, {"F4", F4}, {"F5", F5}, {"F6", F6},
	{"F7", F7}, {"F8", F8}, {"F9", F9}, {"F10", F10}, {"F11", F11}, {"F12", F12},
	{"RIGHT", Right}, {"LEFT", Left}, {"DOWN", Down}, {"UP", Up},
	{"P1", KP1}, {"P2", KP2}, {"P3", KP3}, {"P4", KP4}, {"P5", KP5},
	{"P6", KP6}, {"P7", KP7}, {"P8", KP8}, {"P9", KP9}, {"P0", KP0},
	{"LCTRL", LCtrl}, {"LCTL", LCtrl},
	{"LSHIFT", LShift}, {"LSFT", LShift},
	{"LALT", LAlt},
	{"LGUI", LGUI}, {"LCMD", LGUI},
	{"RCTRL", RCtrl}, {"RCTL", RCtrl},
	{"RSHIFT", RShift}, {"RSFT", RShift},
	{"RALT", RAlt},
	{"RGUI", RGUI}, {"RCMD", RGUI},
	{"MEDIA_NEXT_TRACK", MediaNext}, {"MNXT", MediaNext},
	{"MEDIA_PREV_TRACK", MediaPrev}, {"MPRV", MediaPrev},
	{"MEDIA_STOP", MediaStop}, {"MSTP", MediaStop},
	{"MEDIA_PLAY_PAUSE", MediaPlay}, {"MPLY", MediaPlay},
	{"AUDIO_MUTE", Mute}, {"MUTE", Mute},
	{"AUDIO_VOL_UP", VolumeUp}, {"VOLU", VolumeUp},
	{"AUDIO_VOL_DOWN", VolumeDown}, {"VOLD", VolumeDown},
	{"BRIGHTNESS_UP", BrightnessUp}, {"BRIU", BrightnessUp},
	{"BRIGHTNESS_DOWN", BrightnessDn}, {"BRID", BrightnessDn},
}

var (
	nameCodes = map[string]Code{}
	codeNames = map[Code]string{}
)

func init() {
	for _, n := range names {
		nameCodes[n.name] = n.code
		if _, ok := codeNames[n.code]; !ok && n.code != No {
			codeNames[n.code] = n.name
		}
	}
}

// Parse resolves a key name. Names are case-insensitive and may carry a
// "KC." prefix.
func Parse(name string) (Code, error) {
	s := strings.ToUpper(strings.TrimSpace(name))
	s = strings.TrimPrefix(s, "KC.")
	if c, ok := nameCodes[s]; ok {
		return c, nil
	}
	return No, fmt.Errorf("%w: %q", ErrUnknown, name)
}
