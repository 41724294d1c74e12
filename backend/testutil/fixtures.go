package testutil

import "curie/backend"

// MergeTrace is a reply where the merge tool refused a single document.
func MergeTrace() []backend.ToolCall {
	return []backend.ToolCall{
		{Type: backend.ToolCallTypeCall, Tool: "merge_documents", Arguments: `{"file_ids": ["a1"]}`},
		{Type: backend.ToolCallTypeOutput, Tool: "merge_documents", Output: "Error: merging needs at least two file_ids."},
	}
}

// DownloadTrace is a successful merge that produced a download link.
func DownloadTrace() []backend.ToolCall {
	return []backend.ToolCall{
		{Type: backend.ToolCallTypeCall, Tool: "merge_documents", Arguments: `{"file_ids": ["a1", "b2"]}`},
		{Type: backend.ToolCallTypeOutput, Tool: "merge_documents", Output: "Merged file ready: /api/files/deadbeef/download"},
	}
}
