package tasks

import "fmt"

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Phase enumerates export stages.
type Phase int

const (
	FetchFavorites Phase = iota
	FetchGroups
	ExportGroup
	WriteManifest
)

func (p Phase) String() string {
	switch p {
	case FetchFavorites:
		return "fetch_favorites"
	case FetchGroups:
		return "fetch_groups"
	case ExportGroup:
		return "export_group"
	case WriteManifest:
		return "write_manifest"
	default:
		return ""
	}
}

// sendProgress delivers update unless the channel is nil or full.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func favoritesUpdate(count int, file string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchFavorites,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("✓ %d favourites → %s", count, file),
	}
}

func groupsUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchGroups,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Found %d groups", count),
	}
}

func groupDoneUpdate(step, total int, res GroupExportResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportGroup,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d matches)", step, total, res.GroupName, res.Matches),
		Data:    res,
	}
}

func groupFailedUpdate(step, total int, res GroupExportResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportGroup,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, res.GroupName, res.Error),
		Data:    res,
	}
}

func manifestUpdate(path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteManifest,
		Step:    1,
		Total:   1,
		Message: "Manifest written to " + path,
	}
}
