package core

// NATS subjects used across the pipeline.
const (
	SubjectPosts    = "launchmeow.posts"    // social poller -> launcher
	SubjectLaunches = "launchmeow.launches" // launcher -> api feed, observers
)
