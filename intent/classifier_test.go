package intent

import (
	"fmt"
	"strings"
	"testing"
)

func TestIsMergeIntent(t *testing.T) {
	c := NewPatternClassifier()

	tests := []struct {
		name string
		text string
		want bool
	}{
		{"merge docs", "Please merge these docs", true},
		{"summarize documents", "can you summarize my documents?", true},
		{"combine pdf upper case", "COMBINE THIS PDF WITH THAT ONE", true},
		{"action only", "combine everything", false},
		{"document only", "here is a document", false},
		{"whole word action", "the merger documents", false},
		{"whole word document", "merge the PDFs", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.IsMergeIntent(tt.text); got != tt.want {
				t.Errorf("IsMergeIntent(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

// Every (action, document) word pair must classify as a merge intent, and
// either word alone must not.
func TestMergeIntentVocabularyPairs(t *testing.T) {
	c := NewPatternClassifier()
	v := DefaultVocabularies

	for _, action := range v.MergeAction.Words {
		for _, doc := range v.Document.Words {
			text := fmt.Sprintf("could you %s the attached %s for me", strings.ToUpper(action[:1])+action[1:], doc)
			if !c.IsMergeIntent(text) {
				t.Errorf("IsMergeIntent(%q) = false, want true", text)
			}
		}
		if c.IsMergeIntent("please " + action + " these") {
			t.Errorf("action %q alone should not be a merge intent", action)
		}
	}
	for _, doc := range v.Document.Words {
		if c.IsMergeIntent("I have a " + doc) {
			t.Errorf("document word %q alone should not be a merge intent", doc)
		}
	}
}

func TestIsResumeIntent(t *testing.T) {
	c := NewPatternClassifier()

	tests := []struct {
		name string
		text string
		want bool
	}{
		{"resumes and jd", "match these resumes to the JD", true},
		{"candidate and job desc", "rank each candidate for this job desc", true},
		{"cv and job description", "compare my CV with the job  description", true},
		{"phrase", "resume match", true},
		{"phrase mixed case", "Can you do a Resume Match?", true},
		{"phrase plural", "run RESUME MATCHES now", true},
		{"phrase no space", "resumematch", true},
		{"resume only", "I have a resume", false},
		{"jd only", "write a job description for a plumber", false},
		{"neither", "hello there", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.IsResumeIntent(tt.text); got != tt.want {
				t.Errorf("IsResumeIntent(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestAssistantAsks(t *testing.T) {
	c := NewPatternClassifier()

	tests := []struct {
		text       string
		wantDocs   bool
		wantResume bool
	}{
		{"Please upload at least two documents.", true, false},
		{"Kindly attach the PDF you mentioned", true, false},
		{"Could you provide the files? A docx works best.", true, false},
		{"Please upload your resume and the JD.", false, true},
		{"Please  attach each CV", false, true},
		{"Please upload the job description and your documents", true, true},
		{"I merged your documents.", false, false},
		{"Upload a resume when ready", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := c.AssistantAsksForDocs(tt.text); got != tt.wantDocs {
				t.Errorf("AssistantAsksForDocs = %v, want %v", got, tt.wantDocs)
			}
			if got := c.AssistantAsksForResumeOrJD(tt.text); got != tt.wantResume {
				t.Errorf("AssistantAsksForResumeOrJD = %v, want %v", got, tt.wantResume)
			}
		})
	}
}

func TestTraceSignals(t *testing.T) {
	c := NewPatternClassifier()

	tests := []struct {
		name       string
		outputs    []string
		wantMerge  bool
		wantResume bool
	}{
		{"empty", nil, false, false},
		{"merge", []string{"Please provide at least two file_ids."}, true, false},
		{"merge upper", []string{"ok", "NEED AT LEAST TWO FILE_IDS"}, true, false},
		{"resume any order", []string{"Provide a JD and at least one resume."}, false, true},
		{"resume missing jd", []string{"please provide a resume"}, false, false},
		{"words split across rows", []string{"resume", "jd provide"}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.TraceSignalsMergeNeeded(tt.outputs); got != tt.wantMerge {
				t.Errorf("TraceSignalsMergeNeeded = %v, want %v", got, tt.wantMerge)
			}
			if got := c.TraceSignalsResumeNeeded(tt.outputs); got != tt.wantResume {
				t.Errorf("TraceSignalsResumeNeeded = %v, want %v", got, tt.wantResume)
			}
		})
	}
}

func TestEvaluatePanelTriggers(t *testing.T) {
	c := NewPatternClassifier()

	tests := []struct {
		name string
		turn Turn
		want Target
	}{
		{"user merge", Turn{Source: SourceUser, Text: "merge my docs"}, TargetMerge},
		{"user resume", Turn{Source: SourceUser, Text: "resume match please"}, TargetResume},
		{"user both prefers resume", Turn{Source: SourceUser, Text: "merge docs, then match resumes to the jd"}, TargetResume},
		{"user upload wording ignored", Turn{Source: SourceUser, Text: "please upload documents"}, TargetNone},
		{"assistant plain", Turn{Source: SourceAssistant, Text: "Here you go."}, TargetNone},
		{"assistant asks docs", Turn{Source: SourceAssistant, Text: "Please upload two documents."}, TargetMerge},
		{
			"trace merge",
			Turn{Source: SourceAssistant, Text: "I need more files.", ToolOutputs: []string{"Please provide at least two file_ids."}},
			TargetMerge,
		},
		{
			"text overrides trace",
			Turn{Source: SourceAssistant, Text: "Please upload your resume.", ToolOutputs: []string{"at least two file_ids"}},
			TargetResume,
		},
		{
			"text docs overrides trace resume",
			Turn{Source: SourceAssistant, Text: "Kindly attach the documents.", ToolOutputs: []string{"provide resume and jd"}},
			TargetMerge,
		},
		{
			"trace kept when text silent",
			Turn{Source: SourceAssistant, Text: "Sure.", ToolOutputs: []string{"provide resume and jd"}},
			TargetResume,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EvaluatePanelTriggers(c, tt.turn); got != tt.want {
				t.Errorf("EvaluatePanelTriggers() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVocabularyTable(t *testing.T) {
	table := DefaultVocabularies.Table()
	if len(table) != 7 {
		t.Fatalf("expected 7 vocabularies, got %d", len(table))
	}
	for _, v := range table {
		if v.Name == "" || v.Pattern == nil || len(v.Words) == 0 {
			t.Errorf("incomplete vocabulary entry: %+v", v)
		}
		for _, w := range v.Words {
			if !v.Match(w) {
				t.Errorf("vocabulary %q does not match its own word %q", v.Name, w)
			}
		}
	}
}
