// Package chat is the rule-based AI coach. A Responder scans a message for
// keywords and answers with the first matching rule's canned reply.
package chat
