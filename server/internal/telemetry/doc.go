// Package telemetry keeps the server's Prometheus counters and serves them
// on /metrics in the exposition format negotiated with the scraper.
//
// Counters:
//
//	golfcoach_analyses_total{path}           analyses scored, by swing path
//	golfcoach_quota_denied_total             analyses refused by the daily quota
//	golfcoach_chat_replies_total{rule}       coach replies, by matched rule
//	golfcoach_signups_total                  users created
//	golfcoach_http_requests_total{route,code} API requests by route and status
package telemetry
