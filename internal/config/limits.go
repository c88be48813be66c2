package config

const (
	// DefaultFeedLimit is the page size used when a feed request does
	// not specify one. Small enough that the initial inbox panel
	// renders quickly on slow connections.
	DefaultFeedLimit = 20

	// MaxFeedLimit is the largest page size a feed request may ask
	// for. Requests above this are clamped to MaxFeedLimit rather
	// than rejected.
	MaxFeedLimit = 100

	// MaxLiveBacklog is the number of events buffered per live
	// subscriber. When a consumer falls this far behind, older unread
	// counts are dropped instead of stalling the broadcaster.
	MaxLiveBacklog = 16
)
