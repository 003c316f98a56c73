// Package notify delivers roster events to Slack, Microsoft Teams or plain
// HTTP webhooks.
//
// Events:
//   - user_signup      a new user joined the roster
//   - level_changed    an admin changed a user's level
//   - quota_exhausted  a free user hit the daily analysis limit
//
// Emit records the event in a bounded history and delivers it to every
// subscribed target in the background. Delivery errors are logged and never
// reach the caller.
package notify
