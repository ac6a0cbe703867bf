// Package boilerplate scaffolds starter projects from the embedded framework
// catalog (frameworks.yaml). It creates the base project, then adds feature
// modules and background queues to it. Every generated path is joined under
// the project directory with filepath-securejoin, so names cannot escape it.
package boilerplate
