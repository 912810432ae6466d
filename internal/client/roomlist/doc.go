// Package roomlist turns rooms into rows for a room list: display text with
// search highlights, last-activity text, the password badge and an avatar.
//
// Item binds a single room for the acting account. Adapter holds the list,
// applies the search filter, loads avatars concurrently and forwards the
// "more" menu click to a callback.
package roomlist
