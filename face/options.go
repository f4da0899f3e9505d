package face

// SourceOption configures Source construction.
type SourceOption func(*sourceConfig)

type sourceConfig struct {
	parserName string
}

func defaultSourceConfig() sourceConfig {
	return sourceConfig{parserName: defaultParserName}
}

// WithParser selects a font parser backend registered with RegisterParser.
// The default is "ximage" (golang.org/x/image/font/opentype + sfnt).
func WithParser(name string) SourceOption {
	return func(c *sourceConfig) { c.parserName = name }
}
