// Package utils exposes the ambient helpers shared by the create-module command.
//
// It houses the Viper-backed ConfigurationLoader, the zap LoggerFactory, a
// SynchronizedWriter for progress output, and a HomeExpander for configured paths.
package utils
