package notifications

const (
	Success = "success"
	Failure = "failure"

	colorGood    = "good"
	colorDanger  = "danger"
	colorWarning = "warning"

	defaultIconSuccess  = ":heavy_check_mark:"
	defaultIconFailure  = ":x:"
	defaultIconWarnings = ":large_orange_diamond:"
)

// Icons are the emojis shown for each outcome. Empty fields fall back to the defaults.
type Icons struct {
	Success  string
	Failure  string
	Warnings string
}

// Classification is the display form of a job status
type Classification struct {
	Color         string
	StatusMessage string
	Emoji         string
}

// Classify maps any job status to one of three outcomes.
// Everything that is not success or failure, the empty string included, passed with warnings.
func Classify(status string, icons Icons) Classification {
	switch status {
	case Success:
		return Classification{
			Color:         colorGood,
			StatusMessage: "passed",
			Emoji:         orDefault(icons.Success, defaultIconSuccess),
		}
	case Failure:
		return Classification{
			Color:         colorDanger,
			StatusMessage: "failed",
			Emoji:         orDefault(icons.Failure, defaultIconFailure),
		}
	default:
		return Classification{
			Color:         colorWarning,
			StatusMessage: "passed with warnings",
			Emoji:         orDefault(icons.Warnings, defaultIconWarnings),
		}
	}
}

func orDefault(value string, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
