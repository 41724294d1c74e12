// Package intent decides, from message text alone, whether the conversation
// has reached a point where a structured upload panel should be offered.
//
// Classification is deliberately shallow: each check is a conjunction of
// case-insensitive whole-word vocabularies. False positives and negatives are
// expected and tolerated by callers, since opening a panel is idempotent and a
// wrong panel is only a nuisance.
package intent

import "regexp"

// Vocabulary is a named word list compiled to a single pattern.
type Vocabulary struct {
	Name    string
	Words   []string
	Pattern *regexp.Regexp
}

func (v Vocabulary) Match(text string) bool {
	return v.Pattern.MatchString(text)
}

func vocab(name, pattern string, words ...string) Vocabulary {
	return Vocabulary{Name: name, Words: words, Pattern: regexp.MustCompile(pattern)}
}

// Vocabularies is the full table the pattern classifier reads from.
type Vocabularies struct {
	MergeAction         Vocabulary
	Document            Vocabulary
	Resume              Vocabulary
	JobDescription      Vocabulary
	ResumeMatchPhrase   Vocabulary
	AskToUpload         Vocabulary
	AssistantResumeOrJD Vocabulary
}

// DefaultVocabularies mirrors the wording the Curie agent actually uses.
var DefaultVocabularies = Vocabularies{
	MergeAction: vocab("merge action",
		`(?i)\b(merge|combine|summarize)\b`,
		"merge", "combine", "summarize"),
	Document: vocab("document",
		`(?i)\b(doc|docs|document|documents|pdf|docx)\b`,
		"doc", "docs", "document", "documents", "pdf", "docx"),
	Resume: vocab("resume",
		`(?i)\b(resume|resumes|cv|cvs|candidate|candidates|parser|match)\b`,
		"resume", "resumes", "cv", "cvs", "candidate", "candidates", "parser", "match"),
	JobDescription: vocab("job description",
		`(?i)\b(jd|job\s*description|job\s*desc)\b`,
		"jd", "job description", "job desc"),
	ResumeMatchPhrase: vocab("resume match phrase",
		`(?i)\bresume\s*match`,
		"resume match"),
	AskToUpload: vocab("ask to upload",
		`(?i)\b(please\s+(upload|attach)|kindly\s+(upload|attach)|provide\s+the\s+files)\b`,
		"please upload", "please attach", "kindly upload", "kindly attach", "provide the files"),
	AssistantResumeOrJD: vocab("resume or jd",
		`(?i)\b(resume|resumes|cv|cvs|jd|job\s*description)\b`,
		"resume", "resumes", "cv", "cvs", "jd", "job description"),
}

// Table lists the vocabularies in a stable order, e.g. for help output.
func (v Vocabularies) Table() []Vocabulary {
	return []Vocabulary{
		v.MergeAction,
		v.Document,
		v.Resume,
		v.JobDescription,
		v.ResumeMatchPhrase,
		v.AskToUpload,
		v.AssistantResumeOrJD,
	}
}

var (
	traceMergePattern = regexp.MustCompile(`(?i)at least two file_ids`)
	traceResumeWord   = regexp.MustCompile(`(?i)resume`)
	traceJDWord       = regexp.MustCompile(`(?i)jd`)
	traceProvideWord  = regexp.MustCompile(`(?i)provide`)
)
