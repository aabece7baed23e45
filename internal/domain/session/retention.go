package session

import "github.com/GriffinCanCode/SessionKeeper/internal/shared/types"

// ApplyRetention trims sessions to at most limit records. The autosave
// record, when present, always keeps its slot; the remaining slots go to
// the most recent other sessions. The result is sorted newest first.
func ApplyRetention(sessions []types.Session, limit int) []types.Session {
	var (
		autosave *types.Session
		others   = make([]types.Session, 0, len(sessions))
	)
	for i := range sessions {
		if sessions[i].IsAutosave() {
			if autosave == nil {
				autosave = &sessions[i]
			}
			continue
		}
		others = append(others, sessions[i])
	}

	keep := limit
	if autosave != nil {
		keep--
	}
	keep = max(keep, 0)

	others = types.SortNewestFirst(others)
	if len(others) > keep {
		others = others[:keep]
	}

	result := make([]types.Session, 0, len(others)+1)
	if autosave != nil {
		result = append(result, *autosave)
	}
	result = append(result, others...)
	return types.SortNewestFirst(result)
}
