package cli

var (
	verbose    bool
	logFormat  string
	configPath string

	// for replay command
	replayStrict bool

	// for history and status commands
	historyLimit int

	// for commands that talk to a running server
	serverAddr  string
	serverToken string
)
