package config

// this holds the resolved configuration values from CLI
var (
	SessionDB    string // path to the sqlite session store
	HTTPAddr     string // listen addr for the dashboard server
	LogLevel     string // sets the log level (zap log level values)
	LogFormat    string // text vs json
	LogFilter    string // zapfilter rules for sub-loggers
	ChartTheme   string // echarts theme for the dashboard charts
	ImportFile   string // path to a session dump used by the ingest command
	OutputFormat string // output format for the analyze command (json, pretty)
)
