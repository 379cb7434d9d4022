package round

// State names a stage in a round's life. A round only moves forward:
// selecting, media_ready, published, collecting, scoring and finally
// results_published. Skipped and failed rounds stop wherever they are.
type State string

const (
	StateIdle             State = "idle"
	StateSelecting        State = "selecting"
	StateMediaReady       State = "media_ready"
	StatePublished        State = "published"
	StateCollecting       State = "collecting"
	StateScoring          State = "scoring"
	StateResultsPublished State = "results_published"
)

// Result summarizes a completed round.
type Result struct {
	Number   int
	Attempts int
	Correct  int
	// Percentage is Correct over Attempts, rounded to the nearest whole
	// percent. Only defined when Attempts > 0.
	Percentage int
	// FastestCorrect is the handle of the first correct responder, empty
	// when nobody got it.
	FastestCorrect string
}
