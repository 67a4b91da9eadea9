package model

import "time"

// Options is the configuration snapshot for one run. It is assembled by the
// CLI from flags, config file and environment, and treated as read-only by
// everything except the lab's auto-timeout calibration.
type Options struct {
	// BuildSource checks and builds the real source tree before copying it,
	// so an unbuildable tree fails fast.
	BuildSource bool
	// CopyTarget copies the build tool's root-level `target` output cache
	// into the scratch workspace to pre-warm builds.
	CopyTarget bool
	// CheckOnly stops every pipeline after a successful check phase.
	CheckOnly bool
	// Shuffle randomly permutes the mutation order.
	Shuffle bool
	// TestTimeout bounds the test phase. Zero means derive it from the
	// baseline's measured test duration.
	TestTimeout time.Duration
	// ExtraTestArgs is appended to the test phase's build tool arguments.
	ExtraTestArgs []string
	// ShowTimes prints per-scenario timings and the derived timeout.
	ShowTimes bool
	// OutputDir is the directory the results directory is created in.
	// Empty means the source tree root.
	OutputDir string
}

// HasTestTimeout reports whether an explicit test timeout was configured.
func (o *Options) HasTestTimeout() bool {
	return o.TestTimeout > 0
}
