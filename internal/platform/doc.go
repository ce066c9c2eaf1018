// Package platform defines the capability sets that vary across the
// runtime's targets, selected at startup by name rather than at compile
// time. Each Platform fixes the cookie policy, the notification default, whether a
// contents-client bridge answers certificate errors, and whether denied
// window-open requests fall back to an external opener.
//
// Shipped capability sets:
//   - android: cookie access policy, notifications allowed, bridge-backed
//     certificate errors and notification presentation
//   - desktop: permissive cookies, notifications denied, certificate errors
//     implicitly permitted
//   - tizen: desktop behavior plus an external opener for denied window
//     opens
package platform
