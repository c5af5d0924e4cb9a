package config

const (
	defaultMirrorURL     = "ws://localhost:8000/ws"
	defaultSubmitURL     = "http://localhost:8000/submit_note"
	defaultNotesURL      = "http://localhost:8000/notes"
	defaultPlaceholder   = "Enter your notes here..."
	defaultTokenEncoding = "r50k_base"
	defaultTokenLimit    = 1024
)

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			MirrorURL: defaultMirrorURL,
			SubmitURL: defaultSubmitURL,
			NotesURL:  defaultNotesURL,
		},
		Editor: EditorConfig{
			Placeholder:   defaultPlaceholder,
			TokenEncoding: defaultTokenEncoding,
			TokenLimit:    defaultTokenLimit,
		},
		Logging: defaultLoggingConfig(),
	}
}

func defaultLoggingConfig() LoggingConfig {
	enabled := true
	return LoggingConfig{
		Enabled: &enabled,
		Level:   "info",
		Stdout:  true,
		File:    "logs/notakers.log",
	}
}

func (c *Config) applyDefaults() {
	if c.Server.MirrorURL == "" {
		c.Server.MirrorURL = defaultMirrorURL
	}
	if c.Server.SubmitURL == "" {
		c.Server.SubmitURL = defaultSubmitURL
	}
	if c.Server.NotesURL == "" {
		c.Server.NotesURL = defaultNotesURL
	}

	if c.Editor.Placeholder == "" {
		c.Editor.Placeholder = defaultPlaceholder
	}
	if c.Editor.TokenEncoding == "" {
		c.Editor.TokenEncoding = defaultTokenEncoding
	}
	if c.Editor.TokenLimit <= 0 {
		c.Editor.TokenLimit = defaultTokenLimit
	}

	def := defaultLoggingConfig()
	if c.Logging == (LoggingConfig{}) {
		c.Logging = def
		return
	}

	hasAny := c.Logging.Level != "" || c.Logging.File != "" || c.Logging.Stdout
	if c.Logging.Enabled == nil && hasAny {
		enabled := true
		c.Logging.Enabled = &enabled
	}
	if c.Logging.Level == "" {
		c.Logging.Level = def.Level
	}
	if c.Logging.Enabled == nil {
		c.Logging.Enabled = def.Enabled
	}
}
