/*
Package tuning reads timing and distance thresholds from a TOML file.

All settings are optional; missing ones keep their defaults:

	[gesture]
	long_press_delay   = "500ms"
	repeat_delay       = "100ms"
	double_tap_timeout = "200ms"
	dead_zone          = 8.0
	release_outside    = 0.75

	[drag]
	sensitivity        = "medium"   # low, medium, high or points per step
	vertical_threshold = 50.0
	swipe_distance     = 20.0
	tangent_threshold  = 0.268
*/
package tuning

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/npillmayer/softkey/drag"
	"github.com/npillmayer/softkey/gesture"
)

// ErrInvalidTuning is wrapped by errors for out-of-range settings.
var ErrInvalidTuning = errors.New("invalid tuning")

// Duration is a time.Duration written as a Go duration string.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Tuning holds all thresholds.
type Tuning struct {
	Gesture GestureTuning `toml:"gesture"`
	Drag    DragTuning    `toml:"drag"`
}

// GestureTuning configures gesture classification.
type GestureTuning struct {
	LongPressDelay   Duration `toml:"long_press_delay"`
	RepeatDelay      Duration `toml:"repeat_delay"`
	DoubleTapTimeout Duration `toml:"double_tap_timeout"`
	DeadZone         float64  `toml:"dead_zone"`
	ReleaseOutside   float64  `toml:"release_outside"`
}

// DragTuning configures cursor drags and swipes.
type DragTuning struct {
	Sensitivity       string  `toml:"sensitivity"`
	VerticalThreshold float64 `toml:"vertical_threshold"`
	SwipeDistance     float64 `toml:"swipe_distance"`
	TangentThreshold  float64 `toml:"tangent_threshold"`
}

// Default returns the built-in thresholds.
func Default() *Tuning {
	g := gesture.DefaultConfig()
	d := drag.DefaultConfig()
	return &Tuning{
		Gesture: GestureTuning{
			LongPressDelay:   Duration(g.LongPressDelay),
			RepeatDelay:      Duration(g.RepeatDelay),
			DoubleTapTimeout: Duration(g.DoubleTapTimeout),
			DeadZone:         g.DeadZone,
			ReleaseOutside:   g.ReleaseOutside,
		},
		Drag: DragTuning{
			Sensitivity:       "medium",
			VerticalThreshold: d.VerticalThreshold,
			SwipeDistance:     d.SwipeDistance,
			TangentThreshold:  d.TangentThreshold,
		},
	}
}

// Load decodes settings from r on top of the defaults.
func Load(r io.Reader) (*Tuning, error) {
	t := Default()
	md, err := toml.NewDecoder(r).Decode(t)
	if err != nil {
		return nil, fmt.Errorf("decode TOML: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%w: unknown settings %s", ErrInvalidTuning, strings.Join(keys, ", "))
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// LoadFile reads settings from a file. A missing file yields the defaults.
func LoadFile(path string) (*Tuning, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read tuning: %w", err)
	}
	defer f.Close()
	t, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Validate checks the ranges of all settings.
func (t *Tuning) Validate() error {
	g, d := t.Gesture, t.Drag
	switch {
	case g.LongPressDelay <= 0:
		return fmt.Errorf("%w: long_press_delay must be positive", ErrInvalidTuning)
	case g.RepeatDelay <= 0:
		return fmt.Errorf("%w: repeat_delay must be positive", ErrInvalidTuning)
	case g.DoubleTapTimeout < 0:
		return fmt.Errorf("%w: double_tap_timeout is negative", ErrInvalidTuning)
	case g.DeadZone < 0:
		return fmt.Errorf("%w: dead_zone is negative", ErrInvalidTuning)
	case g.ReleaseOutside < 0:
		return fmt.Errorf("%w: release_outside is negative", ErrInvalidTuning)
	case d.VerticalThreshold <= 0:
		return fmt.Errorf("%w: vertical_threshold must be positive", ErrInvalidTuning)
	case d.SwipeDistance <= 0:
		return fmt.Errorf("%w: swipe_distance must be positive", ErrInvalidTuning)
	case d.TangentThreshold <= 0 || d.TangentThreshold >= 1:
		return fmt.Errorf("%w: tangent_threshold must lie between 0 and 1", ErrInvalidTuning)
	}
	if _, err := drag.ParseSensitivity(d.Sensitivity); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTuning, err)
	}
	return nil
}

// GestureConfig returns the gesture thresholds.
func (t *Tuning) GestureConfig() gesture.Config {
	return gesture.Config{
		LongPressDelay:   time.Duration(t.Gesture.LongPressDelay),
		RepeatDelay:      time.Duration(t.Gesture.RepeatDelay),
		DoubleTapTimeout: time.Duration(t.Gesture.DoubleTapTimeout),
		DeadZone:         t.Gesture.DeadZone,
		ReleaseOutside:   t.Gesture.ReleaseOutside,
	}
}

// DragConfig returns the drag thresholds. t must be valid.
func (t *Tuning) DragConfig() drag.Config {
	s, err := drag.ParseSensitivity(t.Drag.Sensitivity)
	if err != nil {
		s = drag.Medium
	}
	return drag.Config{
		Sensitivity:       s,
		VerticalThreshold: t.Drag.VerticalThreshold,
		SwipeDistance:     t.Drag.SwipeDistance,
		TangentThreshold:  t.Drag.TangentThreshold,
	}
}
