package frame

const (
	operationDecode = "decode"
	operationFetch  = "fetch"
	operationJoin   = "join"
	operationRender = "render"
	operationHandle = "handle"

	subjectState     = "state"
	subjectPayload   = "payload"
	subjectAllowance = "allowance"
	subjectPoints    = "points"

	codeInvalid  = "invalid"
	codeUpstream = "upstream"
	codeEncode   = "encode"

	operationStatusOK    = "ok"
	operationStatusIntro = "intro"
	operationStatusError = "error"

	addressPrefix        = "0x"
	addressEdgeLength    = 6
	addressEllipsis      = "..."
	fidLabelPrefix       = "Fid: "
	missingRankLabel     = "N/A"
	defaultActiveControl = "1"
)

// UnknownPoints is the points value used when no points record matches.
const UnknownPoints = "Unknown"

// MaxCards bounds how many joined records fit on one card image.
const MaxCards = 4
