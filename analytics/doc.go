// Package analytics holds the scoring, forecasting and classification rules of the
// oversight platform. Every function is pure: callers load the data and pass the
// current time or random source in.
package analytics
