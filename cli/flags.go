package cli

var (
	verbose bool

	// all commands
	configPath string

	// for replay command
	replayEndSelection bool

	// for config init command
	configInitForce bool

	// for demo command
	demoRecordPath string

	// for auth token command
	authRotate bool
)
