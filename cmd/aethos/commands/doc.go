// Package commands defines the aethos CLI and wires dependencies for subcommands.
//
// Commands
//
//   - init                 Create the profile identity if it does not exist
//   - fingerprint          Print the identity fingerprint
//   - identity show        Print the identity summary
//   - identity regenerate  Replace the identity (the session cache becomes unreadable)
//   - identity delete      Remove the identity and the session cache
//   - cache show           Decrypt and print the session cache
//   - connect              Probe every relay once and store the result as the session cache
//
// # Implementation
//
// The root command loads configuration (defaults, optional TOML file,
// environment, flags) and builds the dependency graph before any subcommand
// runs, so handlers share one app context.
package commands
