package siwa

var (
	Export_normalizeBool      = normalizeBool
	Export_loadConfig         = loadConfig
	Export_envName            = envName
	Export_validateEmailValue = validateEmailValue
)
