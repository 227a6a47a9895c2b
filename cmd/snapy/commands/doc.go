// Package commands implements the snapy CLI.
//
// The commands are thin glue over the services: they parse arguments, prompt
// for secrets, persist the session between runs and write downloaded media
// to disk. Everything protocol-shaped lives below internal/.
package commands
