// Package rules resolves an incoming file path to the first configured rule
// whose format matches it, and derives the file's archive destination from
// the rule's folder template.
//
// The configuration is reloaded before every match, so a long-running process
// always sees the latest rules. Resolution never modifies the configuration:
// each match produces a fresh rule+root view.
package rules
