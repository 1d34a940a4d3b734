package events

const (
	SubjectScoreStats = "compass.score.stats"

	StreamName   = "COMPASS_EVENTS"
	StreamMaxAge = "720h" // 30 days
)

func SubjectAnalysisCreated(analysisID string) string  { return "compass.analysis." + analysisID + ".created" }
func SubjectAnalysisUpdated(analysisID string) string  { return "compass.analysis." + analysisID + ".updated" }
func SubjectAnalysisArchived(analysisID string) string { return "compass.analysis." + analysisID + ".archived" }
func SubjectAnalysisDeleted(analysisID string) string  { return "compass.analysis." + analysisID + ".deleted" }

func SubjectItemAdded(analysisID string) string   { return "compass.item." + analysisID + ".added" }
func SubjectItemUpdated(analysisID string) string { return "compass.item." + analysisID + ".updated" }
func SubjectItemRemoved(analysisID string) string { return "compass.item." + analysisID + ".removed" }

func SubjectScoreUpdated(analysisID string) string { return "compass.score." + analysisID + ".updated" }
