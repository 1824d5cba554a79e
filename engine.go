package softkey

// Candidate is a conversion result offered by the engine.
type Candidate struct {
	Text    string
	Comment string
}

// Engine is the phonetic conversion engine. Calls are synchronous and may
// be slow; the pipeline never retries a call.
type Engine interface {
	// ProcessKey feeds a code to the engine. It returns false if the engine
	// did not accept the key, in which case its state is unchanged.
	ProcessKey(code string) bool
	Candidates(index, count int) []Candidate
	ComposingText() string
	// CommitText returns text the engine has committed since the last call.
	CommitText() string
	IsComposing() bool
	CleanComposition()
	SetOption(name string, value bool)
}

// OptionASCIIMode is the engine option toggled by SetASCIIMode.
const OptionASCIIMode = "ascii_mode"
