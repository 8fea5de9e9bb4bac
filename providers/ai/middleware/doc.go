// Package middleware decorates an [ai.Provider] with retries, per-request
// deadlines and request logging.
//
//	provider := middleware.Wrap(geminiProvider,
//	    middleware.Timeout(60*time.Second),
//	    middleware.Retry(middleware.RetryConfig{RetryableFunc: gemini.IsRetryable}),
//	    middleware.Logging(observer.Logger(), middleware.LogLevelStandard),
//	)
//
// Middlewares execute outermost-first, so in the example a request travels
//
//	Timeout → Retry → Logging → Gemini
//
// and every retry attempt is logged while the deadline covers all of them.
package middleware
