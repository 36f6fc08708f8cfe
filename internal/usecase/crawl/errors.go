package crawl

import "fmt"

// TransientError marks an upstream failure worth retrying, such as a
// timeout or a 5xx response.
type TransientError struct {
	Source string
	Err    error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("%s: transient fetch failure: %v", e.Source, e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// Temporary reports retryability to the retry package.
func (e *TransientError) Temporary() bool { return true }

// ParseError marks an upstream response that was received but could
// not be decoded. Retrying will not help.
type ParseError struct {
	Source string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: parse failure: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Temporary() bool { return false }

// ConfigError marks an adapter that cannot run at all, such as missing
// API credentials. It fails the adapter without retries and without
// affecting other sources.
type ConfigError struct {
	Adapter string
	Reason  string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: configuration error: %s", e.Adapter, e.Reason)
}

func (e *ConfigError) Temporary() bool { return false }
