package softkey

import (
	"testing"
	"time"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/softkey/action"
	"github.com/npillmayer/softkey/gesture"
	"github.com/npillmayer/softkey/keyboard"
	"github.com/npillmayer/softkey/syllable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEngine composes raw input and commits a dictionary entry on space.
type fakeEngine struct {
	input   string
	commit  string
	dict    map[string]string
	refuse  map[string]bool
	options map[string]bool
	cleaned int
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		dict:    map[string]string{"ni": "你", "nihao": "你好"},
		refuse:  map[string]bool{},
		options: map[string]bool{},
	}
}

func (e *fakeEngine) ProcessKey(code string) bool {
	if e.refuse[code] {
		return false
	}
	switch code {
	case action.CodeBackSpace:
		if e.input != "" {
			e.input = e.input[:len(e.input)-1]
		}
	case action.CodeSpace:
		if e.input != "" {
			if c, ok := e.dict[e.input]; ok {
				e.commit = c
			} else {
				e.commit = e.input
			}
			e.input = ""
		}
	default:
		e.input += code
	}
	return true
}

func (e *fakeEngine) Candidates(index, count int) []Candidate {
	if c, ok := e.dict[e.input]; ok && index == 0 && count > 0 {
		return []Candidate{{Text: c}}
	}
	return nil
}

func (e *fakeEngine) ComposingText() string { return e.input }

func (e *fakeEngine) CommitText() string {
	c := e.commit
	e.commit = ""
	return c
}

func (e *fakeEngine) IsComposing() bool { return e.input != "" }

func (e *fakeEngine) CleanComposition() {
	e.input = ""
	e.cleaned++
}

func (e *fakeEngine) SetOption(name string, value bool) { e.options[name] = value }

type pipeHarness struct {
	engine *fakeEngine
	clock  *gesture.ManualClock
	p      *Pipeline
	timer  [][]action.Outcome
}

func newPipeHarness(opts ...Option) *pipeHarness {
	h := &pipeHarness{
		engine: newFakeEngine(),
		clock:  gesture.NewManualClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)),
	}
	opts = append([]Option{
		WithClock(h.clock),
		WithTimerOutcomes(func(out []action.Outcome) { h.timer = append(h.timer, out) }),
	}, opts...)
	h.p = New(h.engine, syllable.MustDefault(), opts...)
	return h
}

func (h *pipeHarness) touch(ptr int, phase gesture.Phase, x, y float64, key keyboard.Key) []action.Outcome {
	return h.p.HandleTouch(gesture.PointerEvent{
		Pointer:  ptr,
		Phase:    phase,
		Location: gesture.Point{X: x, Y: y},
	}, key)
}

func (h *pipeHarness) tap(key keyboard.Key) []action.Outcome {
	out := h.touch(1, gesture.PhaseDown, 10, 10, key)
	h.clock.Advance(30 * time.Millisecond)
	out = append(out, h.touch(1, gesture.PhaseUp, 10, 10, key)...)
	h.clock.Advance(30 * time.Millisecond)
	return out
}

func char(c string) keyboard.Key { return keyboard.NewKey(keyboard.Character(c)) }

var (
	spaceKey = keyboard.NewKey(keyboard.Simple(keyboard.ActionSpace))
	backKey  = keyboard.NewKey(keyboard.Simple(keyboard.ActionBackspace))
	enterKey = keyboard.NewKey(keyboard.Simple(keyboard.ActionEnter))
)

func TestPhoneticTypingCommitsOnSpace(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "softkey")
	defer teardown()
	//
	h := newPipeHarness()
	assert.Equal(t, []action.Outcome{action.Forward("n")}, h.tap(char("n")))
	assert.Equal(t, []action.Outcome{action.Forward("i")}, h.tap(char("i")))
	assert.Equal(t, "ni", h.p.CurrentComposition())
	assert.Equal(t, "ni", h.p.Preedit())
	assert.Equal(t, []Candidate{{Text: "你"}}, h.p.Candidates(0, 5))
	out := h.tap(spaceKey)
	assert.Equal(t, []action.Outcome{action.Forward(action.CodeSpace), action.Committed("你")}, out)
	assert.Equal(t, "", h.p.CurrentComposition())
	assert.Equal(t, "", h.p.Preedit())
}

func TestASCIIModeInsertsLiterally(t *testing.T) {
	h := newPipeHarness()
	h.tap(char("n"))
	h.p.SetASCIIMode(true)
	assert.True(t, h.p.ASCIIMode())
	assert.True(t, h.engine.options[OptionASCIIMode])
	assert.Equal(t, "", h.p.CurrentComposition(), "mode switch drops the composition")
	assert.Equal(t, []action.Outcome{action.Insert("j")}, h.tap(char("j")))
	assert.Equal(t, []action.Outcome{action.Insert(" ")}, h.tap(spaceKey))
	assert.Equal(t, "", h.engine.input)
	h.p.SetASCIIMode(false)
	assert.False(t, h.engine.options[OptionASCIIMode])
}

func TestBackspaceAutoRepeat(t *testing.T) {
	h := newPipeHarness()
	h.tap(char("n"))
	h.tap(char("i"))
	h.tap(char("h"))
	out := h.touch(1, gesture.PhaseDown, 0, 0, backKey)
	assert.Equal(t, []action.Outcome{action.Forward(action.CodeBackSpace)}, out)
	assert.Equal(t, "ni", h.p.CurrentComposition())
	h.clock.Advance(500 * time.Millisecond) // long press, nothing to do
	assert.Empty(t, h.timer)
	h.clock.Advance(300 * time.Millisecond) // three repeat ticks
	require.Len(t, h.timer, 3)
	assert.Equal(t, []action.Outcome{action.Forward(action.CodeBackSpace)}, h.timer[0])
	assert.Equal(t, []action.Outcome{action.Forward(action.CodeBackSpace)}, h.timer[1])
	assert.Equal(t, action.DeleteBackward, h.timer[2][0].Kind)
	assert.Equal(t, "", h.p.CurrentComposition())
	assert.Empty(t, h.touch(1, gesture.PhaseUp, 0, 0, backKey))
	h.clock.Advance(time.Second)
	assert.Len(t, h.timer, 3, "no repeats after release")
}

func TestBackspaceRepeatSurvivesFingerDrift(t *testing.T) {
	h := newPipeHarness()
	for _, c := range []string{"n", "i", "h", "a", "o"} {
		h.tap(char(c))
	}
	h.touch(1, gesture.PhaseDown, 0, 0, backKey)
	assert.Equal(t, "niha", h.p.CurrentComposition())
	h.clock.Advance(500 * time.Millisecond)
	assert.Empty(t, h.touch(1, gesture.PhaseMove, 10, 0, backKey))
	h.clock.Advance(300 * time.Millisecond)
	require.Len(t, h.timer, 3)
	assert.Equal(t, "n", h.p.CurrentComposition())
	assert.Empty(t, h.touch(1, gesture.PhaseUp, 10, 0, backKey))
}

func TestEngineRefusalLeavesCompositionUnchanged(t *testing.T) {
	h := newPipeHarness()
	h.tap(char("n"))
	h.engine.refuse["x"] = true
	assert.Equal(t, []action.Outcome{action.Insert("x")}, h.tap(char("x")))
	assert.Equal(t, "n", h.p.CurrentComposition())
}

func TestSpaceDragMovesCursor(t *testing.T) {
	h := newPipeHarness()
	assert.Empty(t, h.touch(1, gesture.PhaseDown, 100, 50, spaceKey))
	out := h.touch(1, gesture.PhaseMove, 70, 50, spaceKey)
	assert.Equal(t, []action.Outcome{action.Move(-6)}, out)
	assert.Empty(t, h.touch(1, gesture.PhaseMove, 69, 51, spaceKey))
	assert.Empty(t, h.touch(1, gesture.PhaseUp, 69, 51, spaceKey), "a drag does not type a space")
}

func TestSwipeForwardsConfiguredCode(t *testing.T) {
	h := newPipeHarness()
	j := keyboard.NewKey(keyboard.Character("j"), keyboard.Swipe{
		Direction:       keyboard.Up,
		Action:          keyboard.Character("7"),
		ProcessByEngine: true,
	})
	h.touch(1, gesture.PhaseDown, 30, 60, j)
	out := h.touch(1, gesture.PhaseMove, 30, 30, j)
	assert.Equal(t, []action.Outcome{action.Forward("7")}, out)
	assert.Empty(t, h.touch(1, gesture.PhaseUp, 30, 30, j))
	assert.Equal(t, "7", h.p.CurrentComposition())
	assert.Equal(t, "7", h.engine.input)
}

func TestSwipeOverrideWithoutSwipeEntry(t *testing.T) {
	h := newPipeHarness(WithOverrides(action.Overrides{
		{Key: "character(j)", Trigger: action.SwipeUp}: keyboard.Custom("jump"),
	}))
	h.touch(1, gesture.PhaseDown, 30, 60, char("j"))
	out := h.touch(1, gesture.PhaseMove, 30, 30, char("j"))
	assert.Equal(t, []action.Outcome{action.Custom("jump")}, out)
	assert.Empty(t, h.touch(1, gesture.PhaseUp, 30, 30, char("j")))
	// other directions stay silent
	h.touch(1, gesture.PhaseDown, 30, 60, char("j"))
	assert.Empty(t, h.touch(1, gesture.PhaseMove, 30, 90, char("j")))
	assert.Empty(t, h.touch(1, gesture.PhaseUp, 30, 90, char("j")))
	assert.Equal(t, "", h.p.CurrentComposition())
}

func TestSwipeCandidatesFollowTheTouch(t *testing.T) {
	h := newPipeHarness()
	j := keyboard.NewKey(keyboard.Character("j"), keyboard.Swipe{
		Direction:       keyboard.Up,
		Action:          keyboard.Character("7"),
		ProcessByEngine: true,
	})
	h.touch(1, gesture.PhaseDown, 30, 60, j)
	assert.Empty(t, h.p.SwipeCandidates(1), "nothing swiped yet")
	h.touch(1, gesture.PhaseMove, 30, 30, j)
	candidates := h.p.SwipeCandidates(1)
	require.NotEmpty(t, candidates)
	assert.Contains(t, candidates, syllable.Syllable("pa"))
	assert.Empty(t, h.p.SwipeCandidates(2))
	h.touch(1, gesture.PhaseUp, 30, 30, j)
	assert.Empty(t, h.p.SwipeCandidates(1))
}

func TestNineGridSyllableCandidates(t *testing.T) {
	h := newPipeHarness(WithKeyboardType(keyboard.ChineseNineGrid))
	for _, label := range []string{"WXYZ", "GHI", "MNO", "GHI"} {
		h.tap(keyboard.NewKey(keyboard.Action{Kind: keyboard.ActionNineGrid, Value: label}))
	}
	assert.Equal(t, "9464", h.p.CurrentComposition())
	assert.Equal(t, []syllable.Syllable{"xing", "ying"}, h.p.SyllableCandidates())
}

func TestEnterCommitsRawInput(t *testing.T) {
	h := newPipeHarness()
	h.tap(char("n"))
	h.tap(char("i"))
	assert.Equal(t, []action.Outcome{action.Committed("ni")}, h.tap(enterKey))
	assert.Equal(t, "", h.engine.input)
	assert.Equal(t, []action.Outcome{action.Insert("\n")}, h.tap(enterKey))
}

func TestKeyboardSwitchTracksType(t *testing.T) {
	h := newPipeHarness()
	h.tap(char("n"))
	out := h.tap(keyboard.NewKey(keyboard.SwitchTo(keyboard.Numeric)))
	assert.Equal(t, []action.Outcome{action.Switch(keyboard.Numeric)}, out)
	assert.Equal(t, keyboard.Numeric, h.p.KeyboardType())
	assert.Equal(t, "", h.p.CurrentComposition())
	assert.Equal(t, 1, h.engine.cleaned)
}

func TestMultiTouchOnDifferentKeys(t *testing.T) {
	h := newPipeHarness()
	n, i := char("n"), char("i")
	h.touch(1, gesture.PhaseDown, 0, 0, n)
	h.touch(2, gesture.PhaseDown, 50, 0, i)
	assert.Equal(t, []action.Outcome{action.Forward("n")}, h.touch(1, gesture.PhaseUp, 0, 0, n))
	assert.Equal(t, []action.Outcome{action.Forward("i")}, h.touch(2, gesture.PhaseUp, 50, 0, i))
	assert.Equal(t, "ni", h.p.CurrentComposition())
}

func TestOverridesAreApplied(t *testing.T) {
	h := newPipeHarness(WithOverrides(action.Overrides{
		{Key: "character(j)", Trigger: action.Release}: keyboard.Custom("jump"),
	}))
	assert.Equal(t, []action.Outcome{action.Custom("jump")}, h.tap(char("j")))
	h.p.SetOverrides(nil)
	assert.Equal(t, []action.Outcome{action.Forward("j")}, h.tap(char("j")))
}

func TestResetCancelsTouches(t *testing.T) {
	h := newPipeHarness()
	h.tap(char("n"))
	h.touch(1, gesture.PhaseDown, 0, 0, backKey)
	h.p.Reset()
	h.clock.Advance(time.Second)
	assert.Empty(t, h.timer)
	assert.Empty(t, h.touch(1, gesture.PhaseUp, 0, 0, backKey))
	assert.Equal(t, "", h.p.CurrentComposition())
}
