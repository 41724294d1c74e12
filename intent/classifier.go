package intent

// Classifier is the pluggable intent heuristic. All methods are pure.
type Classifier interface {
	IsMergeIntent(userText string) bool
	IsResumeIntent(userText string) bool
	AssistantAsksForDocs(assistantText string) bool
	AssistantAsksForResumeOrJD(assistantText string) bool
	TraceSignalsMergeNeeded(toolOutputs []string) bool
	TraceSignalsResumeNeeded(toolOutputs []string) bool
}

// PatternClassifier implements Classifier with regular expressions.
type PatternClassifier struct {
	Vocab Vocabularies
}

func NewPatternClassifier() *PatternClassifier {
	return &PatternClassifier{Vocab: DefaultVocabularies}
}

func (c *PatternClassifier) IsMergeIntent(text string) bool {
	return c.Vocab.MergeAction.Match(text) && c.Vocab.Document.Match(text)
}

func (c *PatternClassifier) IsResumeIntent(text string) bool {
	if c.Vocab.Resume.Match(text) && c.Vocab.JobDescription.Match(text) {
		return true
	}
	return c.Vocab.ResumeMatchPhrase.Match(text)
}

func (c *PatternClassifier) AssistantAsksForDocs(text string) bool {
	return c.Vocab.AskToUpload.Match(text) && c.Vocab.Document.Match(text)
}

func (c *PatternClassifier) AssistantAsksForResumeOrJD(text string) bool {
	return c.Vocab.AskToUpload.Match(text) && c.Vocab.AssistantResumeOrJD.Match(text)
}

func (c *PatternClassifier) TraceSignalsMergeNeeded(outputs []string) bool {
	for _, out := range outputs {
		if traceMergePattern.MatchString(out) {
			return true
		}
	}
	return false
}

func (c *PatternClassifier) TraceSignalsResumeNeeded(outputs []string) bool {
	for _, out := range outputs {
		if traceResumeWord.MatchString(out) && traceJDWord.MatchString(out) && traceProvideWord.MatchString(out) {
			return true
		}
	}
	return false
}

// Target names the panel a turn asks for.
type Target int

const (
	TargetNone Target = iota
	TargetMerge
	TargetResume
)

func (t Target) String() string {
	switch t {
	case TargetMerge:
		return "merge"
	case TargetResume:
		return "resume"
	default:
		return "none"
	}
}

type Source int

const (
	SourceUser Source = iota
	SourceAssistant
)

// Turn is everything one message contributes to panel selection.
type Turn struct {
	Source      Source
	Text        string
	ToolOutputs []string // output rows of the trace preceding an assistant message
}

// EvaluatePanelTriggers folds every signal of a turn into at most one panel
// request. Signals are applied in display order (trace rows, then message
// text; merge before resume) and a later match replaces an earlier one.
func EvaluatePanelTriggers(c Classifier, turn Turn) Target {
	target := TargetNone

	switch turn.Source {
	case SourceUser:
		if c.IsMergeIntent(turn.Text) {
			target = TargetMerge
		}
		if c.IsResumeIntent(turn.Text) {
			target = TargetResume
		}

	case SourceAssistant:
		if c.TraceSignalsMergeNeeded(turn.ToolOutputs) {
			target = TargetMerge
		}
		if c.TraceSignalsResumeNeeded(turn.ToolOutputs) {
			target = TargetResume
		}
		if c.AssistantAsksForDocs(turn.Text) {
			target = TargetMerge
		}
		if c.AssistantAsksForResumeOrJD(turn.Text) {
			target = TargetResume
		}
	}

	return target
}
