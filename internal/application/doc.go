// Package application implements the packaged web application service.
//
// A packaged application ships a manifest declaring its entry point and the
// URLs it may navigate to. The service tracks installed applications and
// running instances, and resolves the render process behind a policy
// question back to the application that owns it, which is the lookup the
// browser client uses to answer window-creation checks.
//
// Components:
//   - Manifest: parsed from JSON, YAML, or TOML
//   - Application: a running instance bound to a render process
//   - Service: install/launch/terminate lifecycle and process lookup
//   - Installer: .xpk package extraction and on-disk discovery
//   - SchemeHandler: serves app:// URLs from the install directory
package application
