package config

type LogFormat int

const (
	LogTextFormat LogFormat = iota
	LogJSONFormat
)

func (f LogFormat) String() string {
	if f == LogJSONFormat {
		return "json"
	}

	return "text"
}
