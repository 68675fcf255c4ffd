// Package model defines the text-generation boundary of flightdesk. The
// Generator interface abstracts the remote provider to the single capability
// the orchestrator needs: generate(messages) -> text. Provider adapters live
// in the openrouter and anthropic subpackages; MockGenerator backs tests.
package model
