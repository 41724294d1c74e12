package model

import "curie/backend"

// Origin says which action started a turn, which decides the error prefix
// and whether a panel closes when it finishes.
type Origin int

const (
	OriginComposer Origin = iota
	OriginMerge
	OriginResume
)

func (o Origin) errorPrefix() string {
	switch o {
	case OriginMerge:
		return "Upload/Merge error: "
	case OriginResume:
		return "Upload/Match error: "
	default:
		return "Oops: "
	}
}

// TurnCompletedMsg carries the outcome of a chat turn back to the update loop.
type TurnCompletedMsg struct {
	Origin   Origin
	PanelSeq int
	Result   *TurnResult
	Err      error
}

// AttachmentsUploadedMsg reports a composer attachment upload.
type AttachmentsUploadedMsg struct {
	Paths []string
	Files []backend.UploadedFile
	Err   error
}
