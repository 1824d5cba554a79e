package action

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/softkey/composition"
	"github.com/npillmayer/softkey/gesture"
	"github.com/npillmayer/softkey/keyboard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	keyJ     = keyboard.NewKey(keyboard.Character("j"))
	keyBack  = keyboard.NewKey(keyboard.Simple(keyboard.ActionBackspace))
	keyShift = keyboard.NewKey(keyboard.Simple(keyboard.ActionShift))
	keySpace = keyboard.NewKey(keyboard.Simple(keyboard.ActionSpace))
	keyEnter = keyboard.NewKey(keyboard.Simple(keyboard.ActionEnter))
	keyNum   = keyboard.NewKey(keyboard.SwitchTo(keyboard.Numeric))
)

func TestReleaseInPhoneticModeForwards(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "softkey.action")
	defer teardown()
	//
	var buf composition.Buffer
	r := NewResolver(nil)
	o := r.Resolve(Input{Trigger: Release, Key: keyJ}, Phonetic, &buf)
	assert.Equal(t, Forward("j"), o)
	assert.Equal(t, "j", buf.RawInputKeys())
}

func TestReleaseInASCIIModeInsertsLiterally(t *testing.T) {
	var buf composition.Buffer
	r := NewResolver(nil)
	o := r.Resolve(Input{Trigger: Release, Key: keyJ}, ASCII, &buf)
	assert.Equal(t, Insert("j"), o)
	assert.True(t, buf.IsEmpty())
}

func TestReleaseWhileComposingForwardsEvenInASCIIMode(t *testing.T) {
	var buf composition.Buffer
	buf.Append("n")
	o := NewResolver(nil).Resolve(Input{Trigger: Release, Key: keyJ}, ASCII, &buf)
	assert.Equal(t, Forward("j"), o)
	assert.Equal(t, "nj", buf.RawInputKeys())
}

func TestKeyNotRoutedThroughEngine(t *testing.T) {
	var buf composition.Buffer
	k := keyJ
	k.ProcessByEngine = false
	o := NewResolver(nil).Resolve(Input{Trigger: Release, Key: k}, Phonetic, &buf)
	assert.Equal(t, Insert("j"), o)
	assert.True(t, buf.IsEmpty())
}

func TestNineGridKeyForwardsDigit(t *testing.T) {
	var buf composition.Buffer
	k := keyboard.NewKey(keyboard.MustParseAction("chineseNineGrid(WXYZ)"))
	o := NewResolver(nil).Resolve(Input{Trigger: Release, Key: k}, Phonetic, &buf)
	assert.Equal(t, Forward("9"), o)
	assert.Equal(t, "9", buf.RawInputKeys())
}

func TestBackspace(t *testing.T) {
	var buf composition.Buffer
	buf.Append("n")
	r := NewResolver(nil)
	o := r.Resolve(Input{Trigger: Press, Key: keyBack}, Phonetic, &buf)
	assert.Equal(t, Forward(CodeBackSpace), o)
	assert.True(t, buf.IsEmpty())
	o = r.Resolve(Input{Trigger: RepeatTick, Key: keyBack}, Phonetic, &buf)
	assert.Equal(t, DeleteBackward, o.Kind, "falls through to literal delete")
	o = r.Resolve(Input{Trigger: Release, Key: keyBack}, Phonetic, &buf)
	assert.Equal(t, Noop, o.Kind, "release does not delete a second time")
}

func TestLongPressAndDoubleTapSwitchKeyboards(t *testing.T) {
	var buf composition.Buffer
	r := NewResolver(nil)
	buf.Append("zh")
	o := r.Resolve(Input{Trigger: DoubleTap, Key: keyShift}, Phonetic, &buf)
	assert.Equal(t, Switch(keyboard.AlphabeticCapsLock), o)
	assert.True(t, buf.IsEmpty(), "switching keyboards clears the composition")
	o = r.Resolve(Input{Trigger: LongPress, Key: keyNum}, Phonetic, &buf)
	assert.Equal(t, Switch(keyboard.Numeric), o)
	o = r.Resolve(Input{Trigger: LongPress, Key: keyJ}, Phonetic, &buf)
	assert.Equal(t, Noop, o.Kind)
}

func TestOverrideWins(t *testing.T) {
	var buf composition.Buffer
	r := NewResolver(Overrides{
		{Key: "character(j)", Trigger: LongPress}: keyboard.Character("7"),
		{Key: "character(j)", Trigger: Release}:   keyboard.Custom("jump"),
	})
	o := r.Resolve(Input{Trigger: LongPress, Key: keyJ}, Phonetic, &buf)
	assert.Equal(t, Forward("7"), o)
	o = r.Resolve(Input{Trigger: Release, Key: keyJ}, Phonetic, &buf)
	assert.Equal(t, Custom("jump"), o)
}

func TestSwipeForwardsSwipeCharacter(t *testing.T) {
	var buf composition.Buffer
	up := keyboard.Swipe{Direction: keyboard.Up, Action: keyboard.Character("7"), ProcessByEngine: true}
	k := keyboard.NewKey(keyboard.Character("j"), up)
	trigger, ok := SwipeTrigger(keyboard.Up)
	require.True(t, ok)
	o := NewResolver(nil).Resolve(Input{Trigger: trigger, Key: k, Swipe: up}, Phonetic, &buf)
	assert.Equal(t, Forward("7"), o)
	assert.Equal(t, "7", buf.RawInputKeys())
	// swipes default to literal insertion
	up.ProcessByEngine = false
	o = NewResolver(nil).Resolve(Input{Trigger: trigger, Key: k, Swipe: up}, Phonetic, &buf)
	assert.Equal(t, Insert("7"), o)
}

func TestSwipeOverrides(t *testing.T) {
	var buf composition.Buffer
	up := keyboard.Swipe{Direction: keyboard.Up, Action: keyboard.Character("7")}
	k := keyboard.NewKey(keyboard.Character("j"), up)
	require.True(t, k.ProcessByEngine)
	r := NewResolver(Overrides{
		{Key: "character(j)", Trigger: SwipeUp}:   keyboard.Character("x"),
		{Key: "character(j)", Trigger: SwipeDown}: keyboard.Character("8"),
	})
	// the swipe entry decides about the engine, not the key
	o := r.Resolve(Input{Trigger: SwipeUp, Key: k, Swipe: up}, Phonetic, &buf)
	assert.Equal(t, Insert("x"), o)
	assert.True(t, buf.IsEmpty())
	// no entry for swipe down: the override still applies
	o = r.Resolve(Input{Trigger: SwipeDown, Key: k}, Phonetic, &buf)
	assert.Equal(t, Forward("8"), o)
	// no entry and no override
	buf.Clear()
	o = r.Resolve(Input{Trigger: SwipeLeft, Key: k}, Phonetic, &buf)
	assert.Equal(t, Outcome{}, o)
	assert.True(t, buf.IsEmpty())
}

func TestSpaceAndEnter(t *testing.T) {
	var buf composition.Buffer
	r := NewResolver(nil)
	assert.Equal(t, Insert(" "), r.Resolve(Input{Trigger: Release, Key: keySpace}, Phonetic, &buf))
	assert.Equal(t, Insert("\n"), r.Resolve(Input{Trigger: Release, Key: keyEnter}, Phonetic, &buf))
	buf.Append("ni")
	assert.Equal(t, Forward(CodeSpace), r.Resolve(Input{Trigger: Release, Key: keySpace}, Phonetic, &buf))
	assert.Equal(t, "ni", buf.RawInputKeys(), "engine decides what space commits")
	assert.Equal(t, Committed("ni"), r.Resolve(Input{Trigger: Release, Key: keyEnter}, Phonetic, &buf))
	assert.True(t, buf.IsEmpty())
}

func TestOtherKeys(t *testing.T) {
	var buf composition.Buffer
	r := NewResolver(nil)
	release := func(a string) Outcome {
		return r.Resolve(Input{Trigger: Release, Key: keyboard.NewKey(keyboard.MustParseAction(a))}, Phonetic, &buf)
	}
	assert.Equal(t, Move(-1), release("moveCursorBackward"))
	assert.Equal(t, Move(1), release("moveCursorForward"))
	assert.Equal(t, Insert("'"), release("delimiter"))
	assert.Equal(t, Insert("\t"), release("tab"))
	assert.Equal(t, Insert("，"), release("symbol(，)"))
	assert.Equal(t, Switch(keyboard.AlphabeticUppercase), release("shift"))
	assert.Equal(t, Switch(keyboard.Chinese), release("keyboardType(chinese)"))
	assert.Equal(t, Custom("emoji"), release("custom(emoji)"))
	assert.Equal(t, Noop, release("none").Kind)
	buf.Append("xi")
	assert.Equal(t, Forward("'"), release("delimiter"))
	assert.Equal(t, "xi'", buf.RawInputKeys())
	assert.Equal(t, ClearComposition, release("cleanSpellingArea").Kind)
	assert.True(t, buf.IsEmpty())
}

func TestTriggers(t *testing.T) {
	tr, ok := TriggerFor(gesture.DoubleTap)
	assert.True(t, ok)
	assert.Equal(t, DoubleTap, tr)
	_, ok = TriggerFor(gesture.DragUpdate)
	assert.False(t, ok)
	parsed, err := ParseTrigger("swipeLeft")
	require.NoError(t, err)
	assert.Equal(t, SwipeLeft, parsed)
	assert.True(t, parsed.IsSwipe())
	_, err = ParseTrigger("pinch")
	assert.Error(t, err)
	assert.True(t, IsNamedCode(CodeBackSpace))
	assert.False(t, IsNamedCode("{"))
	assert.False(t, IsNamedCode("a"))
}

func TestOutcomeConstructors(t *testing.T) {
	assert.Equal(t, `forwardCode("{space}")`, Forward(CodeSpace).String())
	assert.Equal(t, `insertLiteral("\n")`, Insert("\n").String())
	assert.Equal(t, "moveCursor(-3)", Move(-3).String())
	assert.Equal(t, "switchKeyboard(numeric)", Switch(keyboard.Numeric).String())
	assert.Equal(t, `custom("emoji")`, Custom("emoji").String())
	assert.Equal(t, `commit("你")`, Committed("你").String())
	assert.Equal(t, "noop", Outcome{}.String())
}
