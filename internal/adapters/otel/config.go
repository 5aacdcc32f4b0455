package otel

// Config holds OTEL exporter configuration.
type Config struct {
	Endpoint string
	Enabled  bool
	Insecure bool
}

// Active reports whether the exporter should be started.
func (c Config) Active() bool {
	return c.Enabled && c.Endpoint != ""
}
