// Package line provides LINE Messaging API integration for sending futsal slot notifications.
//
// The client sends push messages to a single recipient using a channel access token.
// Requests are built with sling; a delivery counts as confirmed only when the API
// answers HTTP 200.
//
// Authentication requires a channel access token and the recipient's user ID, normally
// taken from LINE_CHANNEL_ACCESS_TOKEN and LINE_USER_ID.
package line
