package domain

// BlockThreshold is ordered from strictest to most permissive.
type BlockThreshold int

const (
	BlockLowAndAbove BlockThreshold = iota
	BlockMediumAndAbove
	BlockOnlyHigh
	BlockNone
)

func (t BlockThreshold) String() string {
	switch t {
	case BlockLowAndAbove:
		return "BLOCK_LOW_AND_ABOVE"
	case BlockMediumAndAbove:
		return "BLOCK_MEDIUM_AND_ABOVE"
	case BlockOnlyHigh:
		return "BLOCK_ONLY_HIGH"
	case BlockNone:
		return "BLOCK_NONE"
	default:
		return "BLOCK_THRESHOLD_UNSPECIFIED"
	}
}

// SafetyConfig holds one threshold per harm category.
type SafetyConfig struct {
	HateSpeech       BlockThreshold
	DangerousContent BlockThreshold
	Harassment       BlockThreshold
	SexualContent    BlockThreshold
}

// FeedbackSafety is sent with every feedback request.
var FeedbackSafety = SafetyConfig{
	HateSpeech:       BlockOnlyHigh,
	DangerousContent: BlockNone,
	Harassment:       BlockMediumAndAbove,
	SexualContent:    BlockLowAndAbove,
}
