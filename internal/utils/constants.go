package utils

// ConfigFileName is the application configuration file looked up in the working directory.
const ConfigFileName = ".vomit.yaml"

// GlobalConfigDirectoryName is the directory under the user home holding global configuration.
const GlobalConfigDirectoryName = ".vomit"

// LoggerInitializationFailedMessageFormat reports a logger construction failure.
const LoggerInitializationFailedMessageFormat = "logger initialization failed: %w"

// ApplicationExecutionFailedMessage prefixes fatal application errors.
const ApplicationExecutionFailedMessage = "application execution failed"
