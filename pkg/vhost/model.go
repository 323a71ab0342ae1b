package vhost

// LocationConfig holds the proxy settings of the single location tracked per server block.
type LocationConfig struct {
	ProxyPass           string            `json:"proxy_pass"`
	ProxySetHeaders     map[string]string `json:"proxy_set_headers"`
	ProxyNoCache        string            `json:"proxy_no_cache"`
	ProxyCacheBypass    string            `json:"proxy_cache_bypass"`
	ProxyConnectTimeout string            `json:"proxy_connect_timeout"` // Raw directive value, not a duration
	ProxyReadTimeout    string            `json:"proxy_read_timeout"`
}

// ServerBlock is one `server { ... }` construct found in a site file.
type ServerBlock struct {
	Location    LocationConfig `json:"location"`
	ServerNames []string       `json:"server_name"`
	ListenPort  *int           `json:"listen,omitempty"` // nil if no listen directive was seen
}

// ParseResult is the outcome of a successful parse plus the metadata
// attached by the resolver once the file has been read.
type ParseResult struct {
	Blocks           []ServerBlock `json:"blocks"`
	ModificationDate string        `json:"modification_date"`
	RawContents      string        `json:"siteConfigurationContents"`
}

func newServerBlock() ServerBlock {
	return ServerBlock{
		Location:    LocationConfig{ProxySetHeaders: make(map[string]string)},
		ServerNames: []string{},
	}
}
