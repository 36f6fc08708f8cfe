// Package resilience provides reliability and fault tolerance patterns for the crawler.
// It includes circuit breakers for upstream APIs and the database, plus retry logic
// with exponential backoff for transient failures.
//
// The package supports:
//   - Circuit breakers for source APIs, RSS feeds, page scrapers, and the database
//   - Retry logic with exponential backoff and jitter
//   - Retryability classification for HTTP and driver errors
//
// Usage Example:
//
//	cb := circuitbreaker.New(circuitbreaker.APIFetchConfig("hackernews"))
//	result, err := cb.Execute(func() (interface{}, error) {
//	    return callUpstream()
//	})
//
//	err := retry.WithBackoff(ctx, retry.AdapterConfig(), func() error {
//	    return fetchPage()
//	})
package resilience
