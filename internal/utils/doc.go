// Package utils gathers infrastructure helpers shared across the backup CLI.
//
// It provides the Viper-backed ConfigurationLoader, the zap LoggerFactory,
// context accessors for command metadata, and writer utilities used for
// console reporting.
package utils
